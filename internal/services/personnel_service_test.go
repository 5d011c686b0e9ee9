package services

import (
	"testing"
	"time"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersonnelRepo struct {
	repositories.PersonnelRepository
	payrollExists bool
	absences      int
	payrolls      []*models.Payroll
	leaves        map[int64]*models.Leave
	leaveUpdates  []string
	approvedBy    *int64
	attendance    *models.Attendance
	attUpdates    []*models.Attendance
	departments   map[int64]*models.Department
}

func (r *fakePersonnelRepo) GetAttendanceByID(_ int64) (*models.Attendance, error) {
	if r.attendance == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.attendance
	return &copied, nil
}

func (r *fakePersonnelRepo) UpdateAttendance(_ repositories.SQLExecutor, a *models.Attendance) error {
	copied := *a
	r.attUpdates = append(r.attUpdates, &copied)
	return nil
}

func (r *fakePersonnelRepo) GetDepartmentByID(id int64) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return d, nil
}

func (r *fakePersonnelRepo) PayrollExists(_ repositories.SQLExecutor, _ int64, _ int, _ int) (bool, error) {
	return r.payrollExists, nil
}

func (r *fakePersonnelRepo) CountAbsences(_ int64, _ int, _ int) (int, error) {
	return r.absences, nil
}

func (r *fakePersonnelRepo) CreatePayroll(_ repositories.SQLExecutor, p *models.Payroll) (int64, error) {
	p.ID = int64(len(r.payrolls) + 1)
	r.payrolls = append(r.payrolls, p)
	return p.ID, nil
}

func (r *fakePersonnelRepo) GetLeaveByID(id int64) (*models.Leave, error) {
	l, ok := r.leaves[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l, nil
}

func (r *fakePersonnelRepo) UpdateLeaveStatus(_ repositories.SQLExecutor, _ int64, status string, approvedBy *int64) error {
	r.leaveUpdates = append(r.leaveUpdates, status)
	r.approvedBy = approvedBy
	return nil
}

func fullTimeContract() *models.Contract {
	return &models.Contract{
		EmployeeID:         1,
		ContractType:       models.ContractPermanent,
		WorkSchedule:       models.ScheduleFullTime,
		BaseSalary:         decimal.NewFromInt(3000),
		MealAllowance:      decimal.NewFromInt(10),
		TransportAllowance: decimal.NewFromInt(50),
		IsActive:           true,
	}
}

func TestGeneratePayrollMath(t *testing.T) {
	repo := &fakePersonnelRepo{}
	svc := &personnelService{personnelRepo: repo}

	payroll, err := svc.generatePayrollTx(nil, 1, fullTimeContract(), 6, 2026)
	require.NoError(t, err)
	require.Len(t, repo.payrolls, 1)

	// Allowances: 10 meal x 22 worked days + 50 transport = 270.
	assert.True(t, payroll.Allowances.Equal(decimal.NewFromInt(270)), "allowances = %s", payroll.Allowances)
	assert.True(t, payroll.AbsencesDeduction.IsZero())

	// Gross 3270, social security withheld at 22%.
	assert.True(t, payroll.GrossSalary.Equal(decimal.NewFromInt(3270)), "gross = %s", payroll.GrossSalary)
	wantSS := decimal.NewFromInt(3270).Mul(decimal.NewFromFloat(0.22))
	assert.True(t, payroll.SocialSecurity.Equal(wantSS), "social security = %s", payroll.SocialSecurity)
	assert.True(t, payroll.NetSalary.Equal(decimal.NewFromInt(3270).Sub(wantSS)), "net = %s", payroll.NetSalary)
	assert.Equal(t, models.PaymentBankTransfer, payroll.PaymentMethod)
}

func TestGeneratePayrollAbsenceDeduction(t *testing.T) {
	repo := &fakePersonnelRepo{absences: 2}
	svc := &personnelService{personnelRepo: repo}

	payroll, err := svc.generatePayrollTx(nil, 1, fullTimeContract(), 6, 2026)
	require.NoError(t, err)

	// Two absences cost 2 x (3000 / 30) = 200.
	wantDeduction := decimal.NewFromInt(3000).Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(2))
	assert.True(t, payroll.AbsencesDeduction.Equal(wantDeduction), "deduction = %s", payroll.AbsencesDeduction)

	wantGross := decimal.NewFromInt(3000).Add(decimal.NewFromInt(270)).Sub(wantDeduction)
	assert.True(t, payroll.GrossSalary.Equal(wantGross), "gross = %s", payroll.GrossSalary)
}

func TestGeneratePayrollAlreadyExists(t *testing.T) {
	repo := &fakePersonnelRepo{payrollExists: true}
	svc := &personnelService{personnelRepo: repo}

	_, err := svc.generatePayrollTx(nil, 1, fullTimeContract(), 6, 2026)
	assert.ErrorIs(t, err, ErrPayrollExists)
	assert.Empty(t, repo.payrolls)
}

func TestResolveLeave(t *testing.T) {
	approver := int64(9)

	repo := &fakePersonnelRepo{
		leaves: map[int64]*models.Leave{
			1: {ID: 1, Status: models.LeavePending},
			2: {ID: 2, Status: models.LeaveApproved},
		},
	}
	svc := &personnelService{personnelRepo: repo}

	err := svc.resolveLeave(1, models.LeaveApproved, &approver)
	require.NoError(t, err)
	assert.Equal(t, []string{models.LeaveApproved}, repo.leaveUpdates)
	require.NotNil(t, repo.approvedBy)
	assert.Equal(t, approver, *repo.approvedBy)

	// Only pending requests can be resolved.
	err = svc.resolveLeave(2, models.LeaveRejected, &approver)
	assert.ErrorIs(t, err, ErrLeaveNotPending)

	err = svc.resolveLeave(99, models.LeaveApproved, &approver)
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestUpdateAttendanceKeepsIdentity(t *testing.T) {
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakePersonnelRepo{
		attendance: &models.Attendance{ID: 4, EmployeeID: 7, Date: day, Status: models.AttendancePresent},
	}
	svc := &personnelService{personnelRepo: repo}

	// A stray employee id in the payload must not reassign the record.
	checkIn, checkOut := "09:00", "17:30"
	err := svc.UpdateAttendance(&models.Attendance{
		ID:         4,
		EmployeeID: 99,
		Status:     models.AttendanceLate,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
	})

	require.NoError(t, err)
	require.Len(t, repo.attUpdates, 1)
	saved := repo.attUpdates[0]
	assert.Equal(t, int64(7), saved.EmployeeID)
	assert.True(t, saved.Date.Equal(day))
	require.NotNil(t, saved.HoursWorked)
	assert.True(t, saved.HoursWorked.Equal(decimal.NewFromFloat(8.5)), "hours = %s", saved.HoursWorked)
}

func TestUpdateAttendanceNotFound(t *testing.T) {
	svc := &personnelService{personnelRepo: &fakePersonnelRepo{}}

	err := svc.UpdateAttendance(&models.Attendance{ID: 4, Status: models.AttendancePresent})
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}

func TestCreateEmployeeUnknownDepartment(t *testing.T) {
	svc := &personnelService{personnelRepo: &fakePersonnelRepo{}}

	deptID := int64(3)
	_, err := svc.CreateEmployee(CreateEmployeeRequest{
		UserID:       1,
		DepartmentID: &deptID,
		HireDate:     "2026-06-01",
	})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}
