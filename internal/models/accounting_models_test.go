package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceCalculateTotals(t *testing.T) {
	inv := &Invoice{
		TaxRate: decimal.NewFromInt(20),
		Items: []InvoiceItem{
			{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
			{Quantity: decimal.NewFromFloat(0.5), UnitPrice: decimal.NewFromInt(50)},
		},
	}

	total := inv.CalculateTotals()

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(325)), "subtotal = %s", inv.Subtotal)
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(65)), "tax = %s", inv.TaxAmount)
	assert.True(t, total.Equal(decimal.NewFromInt(390)), "total = %s", total)
}

func TestInvoiceRemainingBalance(t *testing.T) {
	inv := &Invoice{
		TotalAmount: decimal.NewFromInt(100),
		PaidAmount:  decimal.NewFromInt(40),
	}
	assert.True(t, inv.RemainingBalance().Equal(decimal.NewFromInt(60)))
}

func TestInvoiceUpdateStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	pastDue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	futureDue := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		dueDate time.Time
		paid    int64
		want    string
	}{
		{"fully paid", InvoiceSent, futureDue, 100, InvoicePaid},
		{"overpaid still paid", InvoiceSent, futureDue, 150, InvoicePaid},
		{"partial payment", InvoiceSent, futureDue, 30, InvoicePartiallyPaid},
		{"unpaid past due", InvoiceSent, pastDue, 0, InvoiceOverdue},
		{"unpaid not yet due", InvoiceSent, futureDue, 0, InvoiceSent},
		// PAID wins over OVERDUE even past the due date.
		{"paid past due stays paid", InvoiceSent, pastDue, 100, InvoicePaid},
		{"partial past due stays partial", InvoiceSent, pastDue, 30, InvoicePartiallyPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{
				Status:      tt.status,
				DueDate:     tt.dueDate,
				TotalAmount: decimal.NewFromInt(100),
				PaidAmount:  decimal.NewFromInt(tt.paid),
			}
			inv.UpdateStatus(now)
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestInvoiceIsOverdueTerminalStatuses(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	paid := &Invoice{Status: InvoicePaid, DueDate: due}
	assert.False(t, paid.IsOverdue(now))

	cancelled := &Invoice{Status: InvoiceCancelled, DueDate: due}
	assert.False(t, cancelled.IsOverdue(now))

	sent := &Invoice{Status: InvoiceSent, DueDate: due}
	assert.True(t, sent.IsOverdue(now))
}

func TestBudgetPeriodWindow(t *testing.T) {
	month := func(m int) *int { return &m }

	tests := []struct {
		name     string
		budget   Budget
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			"monthly",
			Budget{Period: BudgetMonthly, Year: 2026, Month: month(3)},
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"monthly december rolls year",
			Budget{Period: BudgetMonthly, Year: 2026, Month: month(12)},
			time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"quarterly snaps to quarter start",
			Budget{Period: BudgetQuarterly, Year: 2026, Month: month(5)},
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"yearly",
			Budget{Period: BudgetYearly, Year: 2026},
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.budget.PeriodWindow()
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestBudgetVarianceAndPercentageUsed(t *testing.T) {
	b := &Budget{BudgetedAmount: decimal.NewFromInt(1000)}

	assert.True(t, b.Variance(decimal.NewFromInt(600)).Equal(decimal.NewFromInt(400)))
	assert.True(t, b.Variance(decimal.NewFromInt(1200)).Equal(decimal.NewFromInt(-200)))
	assert.True(t, b.PercentageUsed(decimal.NewFromInt(250)).Equal(decimal.NewFromInt(25)))

	empty := &Budget{}
	assert.True(t, empty.PercentageUsed(decimal.NewFromInt(100)).IsZero())
}

func TestIsValidAccountType(t *testing.T) {
	for _, valid := range []string{AccountAsset, AccountLiability, AccountEquity, AccountRevenue, AccountExpense} {
		assert.True(t, IsValidAccountType(valid), valid)
	}
	assert.False(t, IsValidAccountType("INCOME"))
	assert.False(t, IsValidAccountType(""))
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentCash))
	assert.True(t, IsValidPaymentMethod(PaymentBankTransfer))
	assert.False(t, IsValidPaymentMethod("BITCOIN"))
}
