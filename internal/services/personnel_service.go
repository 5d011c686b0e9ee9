package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
	"resto_backend/pkg/utils"
)

var (
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeInactive    = errors.New("employee is no longer active")
	ErrContractNotFound    = errors.New("contract not found")
	ErrNoActiveContract    = errors.New("employee has no active contract")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrAttendanceDuplicate = errors.New("attendance already recorded for this date")
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrLeaveNotPending     = errors.New("leave request is not pending")
	ErrPayrollNotFound     = errors.New("payroll not found")
	ErrPayrollExists       = errors.New("payroll already exists for this period")
	ErrPayrollAlreadyPaid  = errors.New("payroll is already paid")
)

// Payroll convention: allowances cover 22 worked days a month, one day of
// unjustified absence costs base/30, and social security is withheld at a
// flat 22% of gross.
var (
	workedDaysPerMonth  = decimal.NewFromInt(22)
	daysPerPayrollMonth = decimal.NewFromInt(30)
	socialSecurityRate  = decimal.NewFromFloat(0.22)
)

// CreateEmployeeRequest enrolls a user account into HR.
type CreateEmployeeRequest struct {
	UserID         int64   `json:"user_id" binding:"required"`
	DepartmentID   *int64  `json:"department_id,omitempty"`
	Position       *string `json:"position,omitempty"`
	MaritalStatus  string  `json:"marital_status"`
	EmergencyName  *string `json:"emergency_name,omitempty"`
	EmergencyPhone *string `json:"emergency_phone,omitempty"`
	HireDate       string  `json:"hire_date" binding:"required"` // YYYY-MM-DD
	Notes          *string `json:"notes,omitempty"`
}

// RecordAttendanceRequest logs one employee day.
type RecordAttendanceRequest struct {
	EmployeeID int64   `json:"employee_id" binding:"required"`
	Date       string  `json:"date" binding:"required"` // YYYY-MM-DD
	Status     string  `json:"status" binding:"required"`
	CheckIn    *string `json:"check_in,omitempty"`  // HH:MM
	CheckOut   *string `json:"check_out,omitempty"` // HH:MM
	Notes      *string `json:"notes,omitempty"`
}

// GeneratePayrollsResult reports the outcome of a monthly batch run.
type GeneratePayrollsResult struct {
	Month     int      `json:"month"`
	Year      int      `json:"year"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// --- PersonnelService Interface ---
type PersonnelService interface {
	CreateDepartment(dept *models.Department) error
	GetDepartments() ([]models.Department, error)
	UpdateDepartment(dept *models.Department) error
	DeleteDepartment(id int64) error

	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployees(activeOnly bool) ([]models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployeeByUserID(userID int64) (*models.Employee, error)
	UpdateEmployee(emp *models.Employee) error
	TerminateEmployee(id int64, endDate string) error

	CreateContract(c *models.Contract) error
	GetContracts(employeeID int64) ([]models.Contract, error)
	GetActiveContract(employeeID int64) (*models.Contract, error)
	UpdateContract(c *models.Contract) error

	RecordAttendance(req RecordAttendanceRequest) (*models.Attendance, error)
	GetAttendance(employeeID int64, from, to string) ([]models.Attendance, error)
	UpdateAttendance(a *models.Attendance) error
	DeleteAttendance(id int64) error

	RequestLeave(l *models.Leave) error
	GetLeaves(employeeID *int64, status *string) ([]models.Leave, error)
	GetLeaveByID(id int64) (*models.Leave, error)
	ApproveLeave(id int64, approverID *int64) error
	RejectLeave(id int64, approverID *int64) error
	CancelLeave(id int64) error

	GeneratePayroll(employeeID int64, month, year int) (*models.Payroll, error)
	GenerateMonthlyPayrolls(month, year int) (*GeneratePayrollsResult, error)
	GetPayrolls(employeeID *int64, month, year *int) ([]models.Payroll, error)
	GetPayrollByID(id int64) (*models.Payroll, error)
	UpdatePayroll(p *models.Payroll) error
	MarkPayrollPaid(id int64, method string) error
	DeletePayroll(id int64) error
}

// --- personnelService Implementation ---
type personnelService struct {
	personnelRepo repositories.PersonnelRepository
	db            *sql.DB
}

// NewPersonnelService creates a new instance of PersonnelService.
func NewPersonnelService(pr repositories.PersonnelRepository, db *sql.DB) PersonnelService {
	return &personnelService{personnelRepo: pr, db: db}
}

func (s *personnelService) CreateDepartment(dept *models.Department) error {
	if _, err := s.personnelRepo.CreateDepartment(s.db, dept); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: department name", ErrConflict)
		}
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (s *personnelService) GetDepartments() ([]models.Department, error) {
	return s.personnelRepo.GetDepartments()
}

func (s *personnelService) UpdateDepartment(dept *models.Department) error {
	if err := s.personnelRepo.UpdateDepartment(s.db, dept); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: department name", ErrConflict)
		}
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

func (s *personnelService) DeleteDepartment(id int64) error {
	if err := s.personnelRepo.DeleteDepartment(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: department has employees", ErrConflict)
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

func (s *personnelService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	hireDate, err := parseDay(req.HireDate)
	if err != nil {
		return nil, err
	}
	if req.MaritalStatus == "" {
		req.MaritalStatus = "SINGLE"
	}
	if req.DepartmentID != nil {
		if _, err := s.personnelRepo.GetDepartmentByID(*req.DepartmentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to fetch department: %w", err)
		}
	}

	emp := &models.Employee{
		EmployeeID:     utils.NewDocumentNumber("EMP"),
		UserID:         req.UserID,
		DepartmentID:   req.DepartmentID,
		Position:       req.Position,
		MaritalStatus:  req.MaritalStatus,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
		HireDate:       hireDate,
		IsActive:       true,
		Notes:          req.Notes,
	}
	if _, err := s.personnelRepo.CreateEmployee(s.db, emp); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: user already has an employee profile", ErrConflict)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown user or department", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

func (s *personnelService) GetEmployees(activeOnly bool) ([]models.Employee, error) {
	return s.personnelRepo.GetEmployees(activeOnly)
}

func (s *personnelService) GetEmployeeByID(id int64) (*models.Employee, error) {
	emp, err := s.personnelRepo.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *personnelService) GetEmployeeByUserID(userID int64) (*models.Employee, error) {
	emp, err := s.personnelRepo.GetEmployeeByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *personnelService) UpdateEmployee(emp *models.Employee) error {
	if err := s.personnelRepo.UpdateEmployee(s.db, emp); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: unknown department", ErrValidation)
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

// TerminateEmployee deactivates the profile and closes any active
// contracts in one transaction.
func (s *personnelService) TerminateEmployee(id int64, endDate string) error {
	end, err := parseDay(endDate)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.personnelRepo.DeactivateEmployee(tx, id, end); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if err := s.personnelRepo.DeactivateContracts(tx, id); err != nil {
		return fmt.Errorf("failed to deactivate contracts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit termination transaction: %w", err)
	}
	return nil
}

// CreateContract activates a new contract and retires the previous active
// one so GetActiveContract stays unambiguous.
func (s *personnelService) CreateContract(c *models.Contract) error {
	emp, err := s.GetEmployeeByID(c.EmployeeID)
	if err != nil {
		return err
	}
	if !emp.IsActive {
		return ErrEmployeeInactive
	}
	if c.BaseSalary.Sign() < 0 {
		return fmt.Errorf("%w: base salary cannot be negative", ErrValidation)
	}
	if c.WorkSchedule == "" {
		c.WorkSchedule = models.ScheduleFullTime
	}
	c.IsActive = true

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.personnelRepo.DeactivateContracts(tx, c.EmployeeID); err != nil {
		return fmt.Errorf("failed to retire previous contracts: %w", err)
	}
	if _, err := s.personnelRepo.CreateContract(tx, c); err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contract transaction: %w", err)
	}
	return nil
}

func (s *personnelService) GetContracts(employeeID int64) ([]models.Contract, error) {
	return s.personnelRepo.GetContracts(employeeID)
}

func (s *personnelService) GetActiveContract(employeeID int64) (*models.Contract, error) {
	contract, err := s.personnelRepo.GetActiveContract(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveContract
		}
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	return contract, nil
}

func (s *personnelService) UpdateContract(c *models.Contract) error {
	if c.BaseSalary.Sign() < 0 {
		return fmt.Errorf("%w: base salary cannot be negative", ErrValidation)
	}
	if err := s.personnelRepo.UpdateContract(s.db, c); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

func (s *personnelService) RecordAttendance(req RecordAttendanceRequest) (*models.Attendance, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	if !models.IsValidAttendanceStatus(req.Status) {
		return nil, fmt.Errorf("%w: invalid attendance status %q", ErrValidation, req.Status)
	}

	a := &models.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       day,
		Status:     req.Status,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
	}
	a.CalculateHours()

	if _, err := s.personnelRepo.CreateAttendance(s.db, a); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrAttendanceDuplicate
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	return a, nil
}

func (s *personnelService) GetAttendance(employeeID int64, from, to string) ([]models.Attendance, error) {
	fromDay, err := parseDay(from)
	if err != nil {
		return nil, err
	}
	toDay, err := parseDay(to)
	if err != nil {
		return nil, err
	}
	return s.personnelRepo.GetAttendance(employeeID, fromDay, toDay)
}

func (s *personnelService) UpdateAttendance(a *models.Attendance) error {
	if !models.IsValidAttendanceStatus(a.Status) {
		return fmt.Errorf("%w: invalid attendance status %q", ErrValidation, a.Status)
	}
	existing, err := s.personnelRepo.GetAttendanceByID(a.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to fetch attendance: %w", err)
	}
	// Employee and date identify the record; only the day's details move.
	a.EmployeeID = existing.EmployeeID
	a.Date = existing.Date
	a.CalculateHours()
	if err := s.personnelRepo.UpdateAttendance(s.db, a); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}

func (s *personnelService) DeleteAttendance(id int64) error {
	if err := s.personnelRepo.DeleteAttendance(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func (s *personnelService) RequestLeave(l *models.Leave) error {
	if l.EndDate.Before(l.StartDate) {
		return fmt.Errorf("%w: leave end date precedes start date", ErrValidation)
	}
	l.Status = models.LeavePending
	if _, err := s.personnelRepo.CreateLeave(s.db, l); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (s *personnelService) GetLeaves(employeeID *int64, status *string) ([]models.Leave, error) {
	return s.personnelRepo.GetLeaves(employeeID, status)
}

func (s *personnelService) GetLeaveByID(id int64) (*models.Leave, error) {
	l, err := s.personnelRepo.GetLeaveByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return l, nil
}

func (s *personnelService) ApproveLeave(id int64, approverID *int64) error {
	return s.resolveLeave(id, models.LeaveApproved, approverID)
}

func (s *personnelService) RejectLeave(id int64, approverID *int64) error {
	return s.resolveLeave(id, models.LeaveRejected, approverID)
}

func (s *personnelService) CancelLeave(id int64) error {
	return s.resolveLeave(id, models.LeaveCancelled, nil)
}

func (s *personnelService) resolveLeave(id int64, status string, approverID *int64) error {
	l, err := s.GetLeaveByID(id)
	if err != nil {
		return err
	}
	if l.Status != models.LeavePending {
		return ErrLeaveNotPending
	}
	if err := s.personnelRepo.UpdateLeaveStatus(s.db, id, status, approverID); err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	return nil
}

// GeneratePayroll builds one pay slip from the employee's active contract
// and attendance for the period.
func (s *personnelService) GeneratePayroll(employeeID int64, month, year int) (*models.Payroll, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month out of range", ErrValidation)
	}

	emp, err := s.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeInactive
	}
	contract, err := s.GetActiveContract(employeeID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	payroll, err := s.generatePayrollTx(tx, employeeID, contract, month, year)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payroll transaction: %w", err)
	}
	return payroll, nil
}

func (s *personnelService) generatePayrollTx(exec repositories.SQLExecutor, employeeID int64, contract *models.Contract, month, year int) (*models.Payroll, error) {
	exists, err := s.personnelRepo.PayrollExists(exec, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to check payroll existence: %w", err)
	}
	if exists {
		return nil, ErrPayrollExists
	}

	absences, err := s.personnelRepo.CountAbsences(employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count absences: %w", err)
	}

	allowances := contract.MealAllowance.Mul(workedDaysPerMonth).Add(contract.TransportAllowance)
	absencesDeduction := decimal.Zero
	if absences > 0 {
		dailyRate := contract.BaseSalary.Div(daysPerPayrollMonth)
		absencesDeduction = dailyRate.Mul(decimal.NewFromInt(int64(absences)))
	}

	payroll := &models.Payroll{
		EmployeeID:        employeeID,
		Month:             month,
		Year:              year,
		BaseSalary:        contract.BaseSalary,
		Allowances:        allowances,
		AbsencesDeduction: absencesDeduction,
		PaymentMethod:     models.PaymentBankTransfer,
	}
	gross := contract.BaseSalary.Add(allowances).Sub(absencesDeduction)
	payroll.SocialSecurity = gross.Mul(socialSecurityRate)
	payroll.CalculateTotals()

	if _, err := s.personnelRepo.CreatePayroll(exec, payroll); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPayrollExists
		}
		return nil, fmt.Errorf("failed to create payroll: %w", err)
	}
	return payroll, nil
}

// GenerateMonthlyPayrolls runs the batch for every active employee with
// an active contract. Employees who already have a slip for the period
// are skipped; individual failures do not abort the run.
func (s *personnelService) GenerateMonthlyPayrolls(month, year int) (*GeneratePayrollsResult, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month out of range", ErrValidation)
	}

	employees, contracts, err := s.personnelRepo.GetActiveEmployeesWithContracts()
	if err != nil {
		return nil, fmt.Errorf("failed to load active employees: %w", err)
	}

	result := &GeneratePayrollsResult{Month: month, Year: year}
	for i := range employees {
		emp := &employees[i]
		contract, ok := contracts[emp.ID]
		if !ok {
			result.Skipped++
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("failed to start transaction: %w", err)
		}
		_, err = s.generatePayrollTx(tx, emp.ID, &contract, month, year)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, ErrPayrollExists) {
				result.Skipped++
				continue
			}
			utils.LogWarn(fmt.Sprintf("payroll generation failed for employee %s: %v", emp.EmployeeID, err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", emp.EmployeeID, err))
			continue
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit payroll transaction: %w", err)
		}
		result.Generated++
	}
	return result, nil
}

func (s *personnelService) GetPayrolls(employeeID *int64, month, year *int) ([]models.Payroll, error) {
	return s.personnelRepo.GetPayrolls(employeeID, month, year)
}

func (s *personnelService) GetPayrollByID(id int64) (*models.Payroll, error) {
	p, err := s.personnelRepo.GetPayrollByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPayrollNotFound
		}
		return nil, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (s *personnelService) UpdatePayroll(p *models.Payroll) error {
	existing, err := s.GetPayrollByID(p.ID)
	if err != nil {
		return err
	}
	if existing.IsPaid {
		return ErrPayrollAlreadyPaid
	}
	p.CalculateTotals()
	if err := s.personnelRepo.UpdatePayroll(s.db, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPayrollNotFound
		}
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	return nil
}

func (s *personnelService) MarkPayrollPaid(id int64, method string) error {
	if method == "" {
		method = models.PaymentBankTransfer
	}
	if !models.IsValidPaymentMethod(method) {
		return fmt.Errorf("%w: invalid payment method %q", ErrValidation, method)
	}

	p, err := s.GetPayrollByID(id)
	if err != nil {
		return err
	}
	if p.IsPaid {
		return ErrPayrollAlreadyPaid
	}
	if err := s.personnelRepo.MarkPayrollPaid(s.db, id, time.Now(), method); err != nil {
		return fmt.Errorf("failed to mark payroll paid: %w", err)
	}
	return nil
}

func (s *personnelService) DeletePayroll(id int64) error {
	p, err := s.GetPayrollByID(id)
	if err != nil {
		return err
	}
	if p.IsPaid {
		return ErrPayrollAlreadyPaid
	}
	if err := s.personnelRepo.DeletePayroll(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPayrollNotFound
		}
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	return nil
}
