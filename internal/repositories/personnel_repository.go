package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"
)

// PersonnelRepository defines the interface for HR database operations:
// departments, employees, contracts, attendance, leaves and payrolls.
type PersonnelRepository interface {
	CreateDepartment(executor SQLExecutor, dept *models.Department) (int64, error)
	GetDepartments() ([]models.Department, error)
	GetDepartmentByID(id int64) (*models.Department, error)
	UpdateDepartment(executor SQLExecutor, dept *models.Department) error
	DeleteDepartment(executor SQLExecutor, id int64) error

	CreateEmployee(executor SQLExecutor, emp *models.Employee) (int64, error)
	GetEmployees(activeOnly bool) ([]models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployeeByUserID(userID int64) (*models.Employee, error)
	UpdateEmployee(executor SQLExecutor, emp *models.Employee) error
	DeactivateEmployee(executor SQLExecutor, id int64, endDate time.Time) error

	CreateContract(executor SQLExecutor, c *models.Contract) (int64, error)
	GetContracts(employeeID int64) ([]models.Contract, error)
	GetActiveContract(employeeID int64) (*models.Contract, error)
	UpdateContract(executor SQLExecutor, c *models.Contract) error
	DeactivateContracts(executor SQLExecutor, employeeID int64) error

	CreateAttendance(executor SQLExecutor, a *models.Attendance) (int64, error)
	GetAttendance(employeeID int64, from, to time.Time) ([]models.Attendance, error)
	GetAttendanceByID(id int64) (*models.Attendance, error)
	UpdateAttendance(executor SQLExecutor, a *models.Attendance) error
	DeleteAttendance(executor SQLExecutor, id int64) error
	CountAbsences(employeeID int64, month, year int) (int, error)

	CreateLeave(executor SQLExecutor, l *models.Leave) (int64, error)
	GetLeaves(employeeID *int64, status *string) ([]models.Leave, error)
	GetLeaveByID(id int64) (*models.Leave, error)
	UpdateLeaveStatus(executor SQLExecutor, id int64, status string, approvedBy *int64) error

	CreatePayroll(executor SQLExecutor, p *models.Payroll) (int64, error)
	GetPayrolls(employeeID *int64, month, year *int) ([]models.Payroll, error)
	GetPayrollByID(id int64) (*models.Payroll, error)
	PayrollExists(executor SQLExecutor, employeeID int64, month, year int) (bool, error)
	UpdatePayroll(executor SQLExecutor, p *models.Payroll) error
	MarkPayrollPaid(executor SQLExecutor, id int64, paymentDate time.Time, method string) error
	DeletePayroll(executor SQLExecutor, id int64) error

	GetActiveEmployeesWithContracts() ([]models.Employee, map[int64]models.Contract, error)
}

type personnelRepository struct {
	db *sql.DB
}

// NewPersonnelRepository creates a new instance of PersonnelRepository.
func NewPersonnelRepository(db *sql.DB) PersonnelRepository {
	return &personnelRepository{db: db}
}

func (r *personnelRepository) CreateDepartment(executor SQLExecutor, dept *models.Department) (int64, error) {
	query := `INSERT INTO departments (name, description, manager_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, dept.Name, dept.Description, dept.ManagerID, now, now).Scan(&dept.ID)
	if err != nil {
		return 0, translateError(err, "creating department")
	}
	return dept.ID, nil
}

func (r *personnelRepository) GetDepartments() ([]models.Department, error) {
	rows, err := r.db.Query(
		`SELECT id, name, description, manager_id, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, translateError(err, "listing departments")
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning department")
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *personnelRepository) GetDepartmentByID(id int64) (*models.Department, error) {
	d := &models.Department{}
	err := r.db.QueryRow(
		`SELECT id, name, description, manager_id, created_at, updated_at FROM departments WHERE id = $1`,
		id).Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting department")
	}
	return d, nil
}

func (r *personnelRepository) UpdateDepartment(executor SQLExecutor, dept *models.Department) error {
	res, err := executor.Exec(
		`UPDATE departments SET name = $1, description = $2, manager_id = $3, updated_at = $4 WHERE id = $5`,
		dept.Name, dept.Description, dept.ManagerID, time.Now(), dept.ID)
	if err != nil {
		return translateError(err, "updating department")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personnelRepository) DeleteDepartment(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting department")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const employeeColumns = `id, employee_id, user_id, department_id, position, marital_status,
	emergency_name, emergency_phone, hire_date, end_date, is_active, notes, created_at, updated_at`

func scanEmployee(row interface{ Scan(...interface{}) error }, e *models.Employee) error {
	return row.Scan(&e.ID, &e.EmployeeID, &e.UserID, &e.DepartmentID, &e.Position, &e.MaritalStatus,
		&e.EmergencyName, &e.EmergencyPhone, &e.HireDate, &e.EndDate, &e.IsActive, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
}

func (r *personnelRepository) CreateEmployee(executor SQLExecutor, emp *models.Employee) (int64, error) {
	query := `INSERT INTO employees (employee_id, user_id, department_id, position, marital_status,
	            emergency_name, emergency_phone, hire_date, is_active, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, emp.EmployeeID, emp.UserID, emp.DepartmentID, emp.Position,
		emp.MaritalStatus, emp.EmergencyName, emp.EmergencyPhone, emp.HireDate, emp.IsActive,
		emp.Notes, now, now).Scan(&emp.ID)
	if err != nil {
		return 0, translateError(err, "creating employee")
	}
	return emp.ID, nil
}

func (r *personnelRepository) GetEmployees(activeOnly bool) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + `
	          FROM employees
	          WHERE ($1::boolean = false OR is_active = true)
	          ORDER BY employee_id`
	rows, err := r.db.Query(query, activeOnly)
	if err != nil {
		return nil, translateError(err, "listing employees")
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, translateError(err, "scanning employee")
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *personnelRepository) GetEmployeeByID(id int64) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	if err := scanEmployee(r.db.QueryRow(query, id), e); err != nil {
		return nil, translateError(err, "getting employee")
	}
	return e, nil
}

func (r *personnelRepository) GetEmployeeByUserID(userID int64) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`
	if err := scanEmployee(r.db.QueryRow(query, userID), e); err != nil {
		return nil, translateError(err, "getting employee by user")
	}
	return e, nil
}

func (r *personnelRepository) UpdateEmployee(executor SQLExecutor, emp *models.Employee) error {
	query := `UPDATE employees
	          SET department_id = $1, position = $2, marital_status = $3, emergency_name = $4,
	              emergency_phone = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	res, err := executor.Exec(query, emp.DepartmentID, emp.Position, emp.MaritalStatus,
		emp.EmergencyName, emp.EmergencyPhone, emp.Notes, time.Now(), emp.ID)
	if err != nil {
		return translateError(err, "updating employee")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateEmployee soft-deletes the profile with an end date. The user
// account and HR history stay intact.
func (r *personnelRepository) DeactivateEmployee(executor SQLExecutor, id int64, endDate time.Time) error {
	res, err := executor.Exec(
		`UPDATE employees SET is_active = false, end_date = $1, updated_at = $2 WHERE id = $3`,
		endDate, time.Now(), id)
	if err != nil {
		return translateError(err, "deactivating employee")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const contractColumns = `id, employee_id, contract_type, work_schedule, weekly_hours, start_date,
	end_date, base_salary, hourly_rate, meal_allowance, transport_allowance, document_path,
	is_active, created_at, updated_at`

func scanContract(row interface{ Scan(...interface{}) error }, c *models.Contract) error {
	return row.Scan(&c.ID, &c.EmployeeID, &c.ContractType, &c.WorkSchedule, &c.WeeklyHours,
		&c.StartDate, &c.EndDate, &c.BaseSalary, &c.HourlyRate, &c.MealAllowance,
		&c.TransportAllowance, &c.DocumentPath, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

func (r *personnelRepository) CreateContract(executor SQLExecutor, c *models.Contract) (int64, error) {
	query := `INSERT INTO contracts (employee_id, contract_type, work_schedule, weekly_hours,
	            start_date, end_date, base_salary, hourly_rate, meal_allowance,
	            transport_allowance, document_path, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, c.EmployeeID, c.ContractType, c.WorkSchedule, c.WeeklyHours,
		c.StartDate, c.EndDate, c.BaseSalary, c.HourlyRate, c.MealAllowance, c.TransportAllowance,
		c.DocumentPath, c.IsActive, now, now).Scan(&c.ID)
	if err != nil {
		return 0, translateError(err, "creating contract")
	}
	return c.ID, nil
}

func (r *personnelRepository) GetContracts(employeeID int64) ([]models.Contract, error) {
	query := `SELECT ` + contractColumns + `
	          FROM contracts WHERE employee_id = $1 ORDER BY start_date DESC`
	rows, err := r.db.Query(query, employeeID)
	if err != nil {
		return nil, translateError(err, "listing contracts")
	}
	defer rows.Close()

	contracts := []models.Contract{}
	for rows.Next() {
		var c models.Contract
		if err := scanContract(rows, &c); err != nil {
			return nil, translateError(err, "scanning contract")
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *personnelRepository) GetActiveContract(employeeID int64) (*models.Contract, error) {
	c := &models.Contract{}
	query := `SELECT ` + contractColumns + `
	          FROM contracts
	          WHERE employee_id = $1 AND is_active = true
	          ORDER BY start_date DESC LIMIT 1`
	if err := scanContract(r.db.QueryRow(query, employeeID), c); err != nil {
		return nil, translateError(err, "getting active contract")
	}
	return c, nil
}

func (r *personnelRepository) UpdateContract(executor SQLExecutor, c *models.Contract) error {
	query := `UPDATE contracts
	          SET contract_type = $1, work_schedule = $2, weekly_hours = $3, start_date = $4,
	              end_date = $5, base_salary = $6, hourly_rate = $7, meal_allowance = $8,
	              transport_allowance = $9, document_path = $10, is_active = $11, updated_at = $12
	          WHERE id = $13`
	res, err := executor.Exec(query, c.ContractType, c.WorkSchedule, c.WeeklyHours, c.StartDate,
		c.EndDate, c.BaseSalary, c.HourlyRate, c.MealAllowance, c.TransportAllowance,
		c.DocumentPath, c.IsActive, time.Now(), c.ID)
	if err != nil {
		return translateError(err, "updating contract")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateContracts closes every active contract of the employee, run
// before a new contract becomes the active one.
func (r *personnelRepository) DeactivateContracts(executor SQLExecutor, employeeID int64) error {
	_, err := executor.Exec(
		`UPDATE contracts SET is_active = false, updated_at = $1 WHERE employee_id = $2 AND is_active = true`,
		time.Now(), employeeID)
	if err != nil {
		return translateError(err, "deactivating contracts")
	}
	return nil
}

func (r *personnelRepository) CreateAttendance(executor SQLExecutor, a *models.Attendance) (int64, error) {
	query := `INSERT INTO attendances (employee_id, date, status, check_in, check_out, hours_worked,
	            notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, a.EmployeeID, a.Date, a.Status, a.CheckIn, a.CheckOut,
		a.HoursWorked, a.Notes, now, now).Scan(&a.ID)
	if err != nil {
		return 0, translateError(err, "creating attendance")
	}
	return a.ID, nil
}

func (r *personnelRepository) GetAttendance(employeeID int64, from, to time.Time) ([]models.Attendance, error) {
	query := `SELECT id, employee_id, date, status, check_in, check_out, hours_worked, notes,
	            created_at, updated_at
	          FROM attendances
	          WHERE employee_id = $1 AND date >= $2 AND date <= $3
	          ORDER BY date`
	rows, err := r.db.Query(query, employeeID, from, to)
	if err != nil {
		return nil, translateError(err, "listing attendance")
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckIn, &a.CheckOut,
			&a.HoursWorked, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning attendance")
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *personnelRepository) GetAttendanceByID(id int64) (*models.Attendance, error) {
	a := &models.Attendance{}
	query := `SELECT id, employee_id, date, status, check_in, check_out, hours_worked, notes,
	            created_at, updated_at
	          FROM attendances WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckIn,
		&a.CheckOut, &a.HoursWorked, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting attendance")
	}
	return a, nil
}

func (r *personnelRepository) UpdateAttendance(executor SQLExecutor, a *models.Attendance) error {
	query := `UPDATE attendances
	          SET status = $1, check_in = $2, check_out = $3, hours_worked = $4, notes = $5,
	              updated_at = $6
	          WHERE id = $7`
	res, err := executor.Exec(query, a.Status, a.CheckIn, a.CheckOut, a.HoursWorked, a.Notes,
		time.Now(), a.ID)
	if err != nil {
		return translateError(err, "updating attendance")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personnelRepository) DeleteAttendance(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting attendance")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAbsences counts unjustified absence days in the given month, used
// for the payroll absence deduction.
func (r *personnelRepository) CountAbsences(employeeID int64, month, year int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM attendances
	          WHERE employee_id = $1 AND status = 'ABSENT'
	            AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`
	if err := r.db.QueryRow(query, employeeID, month, year).Scan(&count); err != nil {
		return 0, translateError(err, "counting absences")
	}
	return count, nil
}

func (r *personnelRepository) CreateLeave(executor SQLExecutor, l *models.Leave) (int64, error) {
	query := `INSERT INTO leaves (employee_id, leave_type, start_date, end_date, reason, status,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.Reason,
		l.Status, now, now).Scan(&l.ID)
	if err != nil {
		return 0, translateError(err, "creating leave")
	}
	return l.ID, nil
}

func (r *personnelRepository) GetLeaves(employeeID *int64, status *string) ([]models.Leave, error) {
	query := `SELECT id, employee_id, leave_type, start_date, end_date, reason, status,
	            approved_by, approved_at, created_at, updated_at
	          FROM leaves
	          WHERE ($1::bigint IS NULL OR employee_id = $1)
	            AND ($2::text IS NULL OR status = $2)
	          ORDER BY start_date DESC`
	rows, err := r.db.Query(query, employeeID, status)
	if err != nil {
		return nil, translateError(err, "listing leaves")
	}
	defer rows.Close()

	leaves := []models.Leave{}
	for rows.Next() {
		var l models.Leave
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason,
			&l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning leave")
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func (r *personnelRepository) GetLeaveByID(id int64) (*models.Leave, error) {
	l := &models.Leave{}
	query := `SELECT id, employee_id, leave_type, start_date, end_date, reason, status,
	            approved_by, approved_at, created_at, updated_at
	          FROM leaves WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate,
		&l.EndDate, &l.Reason, &l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting leave")
	}
	return l, nil
}

func (r *personnelRepository) UpdateLeaveStatus(executor SQLExecutor, id int64, status string, approvedBy *int64) error {
	now := time.Now()
	var res sql.Result
	var err error
	if status == models.LeaveApproved || status == models.LeaveRejected {
		res, err = executor.Exec(
			`UPDATE leaves SET status = $1, approved_by = $2, approved_at = $3, updated_at = $3 WHERE id = $4`,
			status, approvedBy, now, id)
	} else {
		res, err = executor.Exec(
			`UPDATE leaves SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	}
	if err != nil {
		return translateError(err, "updating leave status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const payrollColumns = `id, employee_id, month, year, base_salary, overtime_hours, overtime_amount,
	bonuses, allowances, absences_deduction, social_security, tax, other_deductions, gross_salary,
	net_salary, is_paid, payment_date, payment_method, notes, created_at, updated_at`

func scanPayroll(row interface{ Scan(...interface{}) error }, p *models.Payroll) error {
	return row.Scan(&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseSalary, &p.OvertimeHours,
		&p.OvertimeAmount, &p.Bonuses, &p.Allowances, &p.AbsencesDeduction, &p.SocialSecurity,
		&p.Tax, &p.OtherDeductions, &p.GrossSalary, &p.NetSalary, &p.IsPaid, &p.PaymentDate,
		&p.PaymentMethod, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
}

func (r *personnelRepository) CreatePayroll(executor SQLExecutor, p *models.Payroll) (int64, error) {
	query := `INSERT INTO payrolls (employee_id, month, year, base_salary, overtime_hours,
	            overtime_amount, bonuses, allowances, absences_deduction, social_security, tax,
	            other_deductions, gross_salary, net_salary, is_paid, payment_method, notes,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, p.EmployeeID, p.Month, p.Year, p.BaseSalary, p.OvertimeHours,
		p.OvertimeAmount, p.Bonuses, p.Allowances, p.AbsencesDeduction, p.SocialSecurity, p.Tax,
		p.OtherDeductions, p.GrossSalary, p.NetSalary, p.IsPaid, p.PaymentMethod, p.Notes,
		now, now).Scan(&p.ID)
	if err != nil {
		return 0, translateError(err, "creating payroll")
	}
	return p.ID, nil
}

func (r *personnelRepository) GetPayrolls(employeeID *int64, month, year *int) ([]models.Payroll, error) {
	query := `SELECT ` + payrollColumns + `
	          FROM payrolls
	          WHERE ($1::bigint IS NULL OR employee_id = $1)
	            AND ($2::int IS NULL OR month = $2)
	            AND ($3::int IS NULL OR year = $3)
	          ORDER BY year DESC, month DESC, employee_id`
	rows, err := r.db.Query(query, employeeID, month, year)
	if err != nil {
		return nil, translateError(err, "listing payrolls")
	}
	defer rows.Close()

	payrolls := []models.Payroll{}
	for rows.Next() {
		var p models.Payroll
		if err := scanPayroll(rows, &p); err != nil {
			return nil, translateError(err, "scanning payroll")
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}

func (r *personnelRepository) GetPayrollByID(id int64) (*models.Payroll, error) {
	p := &models.Payroll{}
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`
	if err := scanPayroll(r.db.QueryRow(query, id), p); err != nil {
		return nil, translateError(err, "getting payroll")
	}
	return p, nil
}

func (r *personnelRepository) PayrollExists(executor SQLExecutor, employeeID int64, month, year int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payrolls WHERE employee_id = $1 AND month = $2 AND year = $3)`
	if err := executor.QueryRow(query, employeeID, month, year).Scan(&exists); err != nil {
		return false, translateError(err, "checking payroll existence")
	}
	return exists, nil
}

func (r *personnelRepository) UpdatePayroll(executor SQLExecutor, p *models.Payroll) error {
	query := `UPDATE payrolls
	          SET base_salary = $1, overtime_hours = $2, overtime_amount = $3, bonuses = $4,
	              allowances = $5, absences_deduction = $6, social_security = $7, tax = $8,
	              other_deductions = $9, gross_salary = $10, net_salary = $11, notes = $12,
	              updated_at = $13
	          WHERE id = $14`
	res, err := executor.Exec(query, p.BaseSalary, p.OvertimeHours, p.OvertimeAmount, p.Bonuses,
		p.Allowances, p.AbsencesDeduction, p.SocialSecurity, p.Tax, p.OtherDeductions,
		p.GrossSalary, p.NetSalary, p.Notes, time.Now(), p.ID)
	if err != nil {
		return translateError(err, "updating payroll")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personnelRepository) MarkPayrollPaid(executor SQLExecutor, id int64, paymentDate time.Time, method string) error {
	res, err := executor.Exec(
		`UPDATE payrolls SET is_paid = true, payment_date = $1, payment_method = $2, updated_at = $3 WHERE id = $4`,
		paymentDate, method, time.Now(), id)
	if err != nil {
		return translateError(err, "marking payroll paid")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personnelRepository) DeletePayroll(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting payroll")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetActiveEmployeesWithContracts loads every active employee and the
// active contract of each, keyed by employee id. Employees without an
// active contract are omitted; the monthly payroll batch skips them.
func (r *personnelRepository) GetActiveEmployeesWithContracts() ([]models.Employee, map[int64]models.Contract, error) {
	query := `SELECT e.id, e.employee_id, e.user_id, e.department_id, e.position, e.marital_status,
	            e.emergency_name, e.emergency_phone, e.hire_date, e.end_date, e.is_active, e.notes,
	            e.created_at, e.updated_at,
	            c.id, c.employee_id, c.contract_type, c.work_schedule, c.weekly_hours, c.start_date,
	            c.end_date, c.base_salary, c.hourly_rate, c.meal_allowance, c.transport_allowance,
	            c.document_path, c.is_active, c.created_at, c.updated_at
	          FROM employees e
	          JOIN contracts c ON c.employee_id = e.id AND c.is_active = true
	          WHERE e.is_active = true
	          ORDER BY e.employee_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, nil, translateError(err, "listing employees with contracts")
	}
	defer rows.Close()

	employees := []models.Employee{}
	contracts := map[int64]models.Contract{}
	for rows.Next() {
		var e models.Employee
		var c models.Contract
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.UserID, &e.DepartmentID, &e.Position,
			&e.MaritalStatus, &e.EmergencyName, &e.EmergencyPhone, &e.HireDate, &e.EndDate,
			&e.IsActive, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
			&c.ID, &c.EmployeeID, &c.ContractType, &c.WorkSchedule, &c.WeeklyHours, &c.StartDate,
			&c.EndDate, &c.BaseSalary, &c.HourlyRate, &c.MealAllowance, &c.TransportAllowance,
			&c.DocumentPath, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, nil, translateError(err, "scanning employee with contract")
		}
		employees = append(employees, e)
		contracts[e.ID] = c
	}
	return employees, contracts, rows.Err()
}
