package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttendanceCalculateHours(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  *string
		checkOut *string
		want     *float64
	}{
		{"regular shift", strPtr("09:00"), strPtr("17:30"), floatPtr(8.5)},
		{"overnight shift crosses midnight", strPtr("22:00"), strPtr("02:00"), floatPtr(4)},
		{"missing check-in", nil, strPtr("17:00"), nil},
		{"missing check-out", strPtr("09:00"), nil, nil},
		{"malformed check-in", strPtr("9am"), strPtr("17:00"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attendance{CheckIn: tt.checkIn, CheckOut: tt.checkOut}
			got := a.CalculateHours()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.NewFromFloat(*tt.want)), "hours = %s", got)
			require.NotNil(t, a.HoursWorked)
			assert.True(t, a.HoursWorked.Equal(*got))
		})
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestPayrollCalculateTotals(t *testing.T) {
	p := &Payroll{
		BaseSalary:        decimal.NewFromInt(3000),
		OvertimeAmount:    decimal.NewFromInt(200),
		Bonuses:           decimal.NewFromInt(100),
		Allowances:        decimal.NewFromInt(250),
		AbsencesDeduction: decimal.NewFromInt(100),
		SocialSecurity:    decimal.NewFromInt(759),
		Tax:               decimal.NewFromInt(300),
		OtherDeductions:   decimal.NewFromInt(50),
	}

	net := p.CalculateTotals()

	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(3450)), "gross = %s", p.GrossSalary)
	assert.True(t, net.Equal(decimal.NewFromInt(2341)), "net = %s", net)
	assert.True(t, p.NetSalary.Equal(net))
}

func TestPayrollCalculateTotalsZeroExtras(t *testing.T) {
	p := &Payroll{BaseSalary: decimal.NewFromInt(2500)}
	net := p.CalculateTotals()
	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(2500)))
	assert.True(t, net.Equal(decimal.NewFromInt(2500)))
}

func TestLeaveDaysCount(t *testing.T) {
	l := &Leave{
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 5, l.DaysCount())

	single := &Leave{
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 1, single.DaysCount())
}

func TestContractIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	open := &Contract{}
	assert.False(t, open.IsExpired(now))

	past := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	expired := &Contract{EndDate: &past}
	assert.True(t, expired.IsExpired(now))

	future := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	running := &Contract{EndDate: &future}
	assert.False(t, running.IsExpired(now))
}

func TestIsValidAttendanceStatus(t *testing.T) {
	assert.True(t, IsValidAttendanceStatus(AttendancePresent))
	assert.True(t, IsValidAttendanceStatus(AttendanceRemote))
	assert.False(t, IsValidAttendanceStatus("VACATION"))
}
