package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Department groups employees.
type Department struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	ManagerID   *int64    `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Employee is the HR profile attached to a user account.
type Employee struct {
	ID             int64      `json:"id" db:"id"`
	EmployeeID     string     `json:"employee_id" db:"employee_id"`
	UserID         int64      `json:"user_id" db:"user_id" binding:"required"`
	DepartmentID   *int64     `json:"department_id,omitempty" db:"department_id"`
	Position       *string    `json:"position,omitempty" db:"position"`
	MaritalStatus  string     `json:"marital_status" db:"marital_status"`
	EmergencyName  *string    `json:"emergency_name,omitempty" db:"emergency_name"`
	EmergencyPhone *string    `json:"emergency_phone,omitempty" db:"emergency_phone"`
	HireDate       time.Time  `json:"hire_date" db:"hire_date"`
	EndDate        *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	User       *User       `json:"user,omitempty"`
	Department *Department `json:"department,omitempty"`
}

// Contract types.
const (
	ContractPermanent  = "CDI"
	ContractFixedTerm  = "CDD"
	ContractInternship = "STAGE"
	ContractApprentice = "APPRENTISSAGE"
	ContractFreelance  = "FREELANCE"
	ContractTemp       = "INTERIM"
)

// Work schedules.
const (
	ScheduleFullTime = "FULL_TIME"
	SchedulePartTime = "PART_TIME"
	ScheduleVariable = "VARIABLE"
)

// Contract is an employment contract.
type Contract struct {
	ID                 int64            `json:"id" db:"id"`
	EmployeeID         int64            `json:"employee_id" db:"employee_id"`
	ContractType       string           `json:"contract_type" db:"contract_type" binding:"required"`
	WorkSchedule       string           `json:"work_schedule" db:"work_schedule"`
	WeeklyHours        decimal.Decimal  `json:"weekly_hours" db:"weekly_hours"`
	StartDate          time.Time        `json:"start_date" db:"start_date"`
	EndDate            *time.Time       `json:"end_date,omitempty" db:"end_date"`
	BaseSalary         decimal.Decimal  `json:"base_salary" db:"base_salary"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate,omitempty" db:"hourly_rate"`
	MealAllowance      decimal.Decimal  `json:"meal_allowance" db:"meal_allowance"`
	TransportAllowance decimal.Decimal  `json:"transport_allowance" db:"transport_allowance"`
	DocumentPath       *string          `json:"document_path,omitempty" db:"document_path"`
	IsActive           bool             `json:"is_active" db:"is_active"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// IsExpired reports whether the contract end date has passed.
func (c *Contract) IsExpired(now time.Time) bool {
	return c.EndDate != nil && now.After(*c.EndDate)
}

// Attendance statuses.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceLeave   = "LEAVE"
	AttendanceSick    = "SICK"
	AttendanceRemote  = "REMOTE"
)

// IsValidAttendanceStatus checks if the provided string is a known status.
func IsValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceLeave, AttendanceSick, AttendanceRemote:
		return true
	default:
		return false
	}
}

// Attendance records one employee day. Unique per (employee, date).
type Attendance struct {
	ID          int64            `json:"id" db:"id"`
	EmployeeID  int64            `json:"employee_id" db:"employee_id" binding:"required"`
	Date        time.Time        `json:"date" db:"date"`
	Status      string           `json:"status" db:"status" binding:"required"`
	CheckIn     *string          `json:"check_in,omitempty" db:"check_in"`   // HH:MM
	CheckOut    *string          `json:"check_out,omitempty" db:"check_out"` // HH:MM
	HoursWorked *decimal.Decimal `json:"hours_worked,omitempty" db:"hours_worked"`
	Notes       *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// CalculateHours derives hours worked from check-in/check-out, crossing
// midnight when check-out is earlier than check-in.
func (a *Attendance) CalculateHours() *decimal.Decimal {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	in, err := time.Parse("15:04", *a.CheckIn)
	if err != nil {
		return nil
	}
	out, err := time.Parse("15:04", *a.CheckOut)
	if err != nil {
		return nil
	}
	if out.Before(in) {
		out = out.Add(24 * time.Hour)
	}
	hours := decimal.NewFromFloat(out.Sub(in).Hours())
	a.HoursWorked = &hours
	return &hours
}

// Leave types.
const (
	LeaveAnnual    = "ANNUAL"
	LeaveSick      = "SICK"
	LeaveMaternity = "MATERNITY"
	LeavePaternity = "PATERNITY"
	LeaveUnpaid    = "UNPAID"
	LeaveFamily    = "FAMILY"
	LeaveSpecial   = "SPECIAL"
)

// Leave statuses.
const (
	LeavePending   = "PENDING"
	LeaveApproved  = "APPROVED"
	LeaveRejected  = "REJECTED"
	LeaveCancelled = "CANCELLED"
)

// Leave is a leave request.
type Leave struct {
	ID         int64      `json:"id" db:"id"`
	EmployeeID int64      `json:"employee_id" db:"employee_id" binding:"required"`
	LeaveType  string     `json:"leave_type" db:"leave_type" binding:"required"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    time.Time  `json:"end_date" db:"end_date"`
	Reason     *string    `json:"reason,omitempty" db:"reason"`
	Status     string     `json:"status" db:"status"`
	ApprovedBy *int64     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// DaysCount is the inclusive day span of the leave.
func (l *Leave) DaysCount() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// Payroll is a monthly pay slip, unique per (employee, month, year).
type Payroll struct {
	ID                int64           `json:"id" db:"id"`
	EmployeeID        int64           `json:"employee_id" db:"employee_id" binding:"required"`
	Month             int             `json:"month" db:"month" binding:"required,gte=1,lte=12"`
	Year              int             `json:"year" db:"year" binding:"required"`
	BaseSalary        decimal.Decimal `json:"base_salary" db:"base_salary"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours" db:"overtime_hours"`
	OvertimeAmount    decimal.Decimal `json:"overtime_amount" db:"overtime_amount"`
	Bonuses           decimal.Decimal `json:"bonuses" db:"bonuses"`
	Allowances        decimal.Decimal `json:"allowances" db:"allowances"`
	AbsencesDeduction decimal.Decimal `json:"absences_deduction" db:"absences_deduction"`
	SocialSecurity    decimal.Decimal `json:"social_security" db:"social_security"`
	Tax               decimal.Decimal `json:"tax" db:"tax"`
	OtherDeductions   decimal.Decimal `json:"other_deductions" db:"other_deductions"`
	GrossSalary       decimal.Decimal `json:"gross_salary" db:"gross_salary"`
	NetSalary         decimal.Decimal `json:"net_salary" db:"net_salary"`
	IsPaid            bool            `json:"is_paid" db:"is_paid"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	PaymentMethod     string          `json:"payment_method" db:"payment_method"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	Employee *Employee `json:"employee,omitempty"`
}

// CalculateTotals derives gross and net pay:
// gross = base + overtime + bonuses + allowances - absence deduction,
// net = gross - (social security + tax + other deductions).
func (p *Payroll) CalculateTotals() decimal.Decimal {
	p.GrossSalary = p.BaseSalary.
		Add(p.OvertimeAmount).
		Add(p.Bonuses).
		Add(p.Allowances).
		Sub(p.AbsencesDeduction)

	totalDeductions := p.SocialSecurity.Add(p.Tax).Add(p.OtherDeductions)
	p.NetSalary = p.GrossSalary.Sub(totalDeductions)
	return p.NetSalary
}
