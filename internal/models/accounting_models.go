package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types (chart-of-accounts buckets).
const (
	AccountAsset     = "ASSET"
	AccountLiability = "LIABILITY"
	AccountEquity    = "EQUITY"
	AccountRevenue   = "REVENUE"
	AccountExpense   = "EXPENSE"
)

// IsValidAccountType checks if the provided string is a known account type.
func IsValidAccountType(t string) bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountRevenue, AccountExpense:
		return true
	default:
		return false
	}
}

// Transaction types.
const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"
)

// Payment methods shared by transactions and invoice payments.
const (
	PaymentCash          = "CASH"
	PaymentCard          = "CARD"
	PaymentBankTransfer  = "BANK_TRANSFER"
	PaymentCheck         = "CHECK"
	PaymentMobilePayment = "MOBILE_PAYMENT"
	PaymentOther         = "OTHER"
)

// IsValidPaymentMethod checks if the provided string is a known method.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer, PaymentCheck, PaymentMobilePayment, PaymentOther:
		return true
	default:
		return false
	}
}

// AccountCategory is a chart-of-accounts bucket.
type AccountCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	AccountType string    `json:"account_type" db:"account_type" binding:"required"`
	Code        string    `json:"code" db:"code" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is a flat ledger entry. The sign is implied by the
// transaction type, not by the amount.
type Transaction struct {
	ID                int64           `json:"id" db:"id"`
	TransactionNumber string          `json:"transaction_number" db:"transaction_number"`
	TransactionType   string          `json:"transaction_type" db:"transaction_type" binding:"required"`
	CategoryID        int64           `json:"category_id" db:"category_id" binding:"required"`
	Date              time.Time       `json:"date" db:"date"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod     string          `json:"payment_method" db:"payment_method" binding:"required"`
	Reference         *string         `json:"reference,omitempty" db:"reference"`
	Description       string          `json:"description" db:"description" binding:"required"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	ReceiptPath       *string         `json:"receipt_path,omitempty" db:"receipt_path"`
	CreatedBy         *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	Category *AccountCategory `json:"category,omitempty"`
}

// Invoice statuses.
const (
	InvoiceDraft         = "DRAFT"
	InvoiceSent          = "SENT"
	InvoicePaid          = "PAID"
	InvoicePartiallyPaid = "PARTIALLY_PAID"
	InvoiceOverdue       = "OVERDUE"
	InvoiceCancelled     = "CANCELLED"
)

// Invoice is a billable document with a running paid amount.
type Invoice struct {
	ID              int64           `json:"id" db:"id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	CustomerName    string          `json:"customer_name" db:"customer_name" binding:"required"`
	CustomerEmail   *string         `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone   *string         `json:"customer_phone,omitempty" db:"customer_phone"`
	CustomerAddress *string         `json:"customer_address,omitempty" db:"customer_address"`
	IssueDate       time.Time       `json:"issue_date" db:"issue_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status          string          `json:"status" db:"status"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy       *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Items    []InvoiceItem `json:"items,omitempty"`
	Payments []Payment     `json:"payments,omitempty"`
}

// CalculateTotals recomputes subtotal, tax and total from the loaded
// items: subtotal = sum(qty x unit price), tax = subtotal x rate / 100,
// total = subtotal + tax.
func (inv *Invoice) CalculateTotals() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range inv.Items {
		subtotal = subtotal.Add(inv.Items[i].TotalPrice())
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = subtotal.Mul(inv.TaxRate).Div(decimal.NewFromInt(100))
	inv.TotalAmount = subtotal.Add(inv.TaxAmount)
	return inv.TotalAmount
}

// RemainingBalance is total minus paid.
func (inv *Invoice) RemainingBalance() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// IsOverdue reports whether the due date has passed for an unpaid,
// non-cancelled invoice.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status == InvoicePaid || inv.Status == InvoiceCancelled {
		return false
	}
	return inv.DueDate.Before(now.Truncate(24 * time.Hour))
}

// UpdateStatus re-evaluates the status from the paid amount. Evaluation
// order matters: PAID is checked before OVERDUE, so a fully paid invoice
// is never marked overdue even past its due date.
func (inv *Invoice) UpdateStatus(now time.Time) {
	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.TotalAmount):
		inv.Status = InvoicePaid
	case inv.PaidAmount.Sign() > 0:
		inv.Status = InvoicePartiallyPaid
	case inv.IsOverdue(now):
		inv.Status = InvoiceOverdue
	}
}

// InvoiceItem is a line of an invoice.
type InvoiceItem struct {
	ID          int64           `json:"id" db:"id"`
	InvoiceID   int64           `json:"invoice_id" db:"invoice_id"`
	Description string          `json:"description" db:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// TotalPrice is quantity x unit price for the line.
func (i *InvoiceItem) TotalPrice() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Payment is a receipt against an invoice. Creating one increments the
// invoice paid amount and re-evaluates its status in the same
// transaction.
type Payment struct {
	ID            int64           `json:"id" db:"id"`
	PaymentNumber string          `json:"payment_number" db:"payment_number"`
	InvoiceID     int64           `json:"invoice_id" db:"invoice_id"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"payment_method" db:"payment_method" binding:"required"`
	Reference     *string         `json:"reference,omitempty" db:"reference"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy     *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Budget periods.
const (
	BudgetMonthly   = "MONTHLY"
	BudgetQuarterly = "QUARTERLY"
	BudgetYearly    = "YEARLY"
)

// IsValidBudgetPeriod checks if the provided string is a known period.
func IsValidBudgetPeriod(p string) bool {
	switch p {
	case BudgetMonthly, BudgetQuarterly, BudgetYearly:
		return true
	default:
		return false
	}
}

// Budget is a ceiling for a category over a period. Actual spend is
// recomputed on demand from the transaction history; no running balance
// is persisted.
type Budget struct {
	ID             int64           `json:"id" db:"id"`
	CategoryID     int64           `json:"category_id" db:"category_id" binding:"required"`
	Period         string          `json:"period" db:"period" binding:"required"`
	Year           int             `json:"year" db:"year" binding:"required"`
	Month          *int            `json:"month,omitempty" db:"month"` // required for monthly/quarterly
	BudgetedAmount decimal.Decimal `json:"budgeted_amount" db:"budgeted_amount"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	Category *AccountCategory `json:"category,omitempty"`
}

// PeriodWindow resolves the budget period to a [from, to) date window.
func (b *Budget) PeriodWindow() (time.Time, time.Time) {
	switch b.Period {
	case BudgetMonthly:
		month := 1
		if b.Month != nil {
			month = *b.Month
		}
		from := time.Date(b.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	case BudgetQuarterly:
		month := 1
		if b.Month != nil {
			month = *b.Month
		}
		quarterStart := ((month-1)/3)*3 + 1
		from := time.Date(b.Year, time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 3, 0)
	default: // YEARLY
		from := time.Date(b.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
}

// Variance is budgeted minus actual.
func (b *Budget) Variance(actual decimal.Decimal) decimal.Decimal {
	return b.BudgetedAmount.Sub(actual)
}

// PercentageUsed is actual / budgeted x 100; zero when nothing is
// budgeted.
func (b *Budget) PercentageUsed(actual decimal.Decimal) decimal.Decimal {
	if b.BudgetedAmount.IsZero() {
		return decimal.Zero
	}
	return actual.Div(b.BudgetedAmount).Mul(decimal.NewFromInt(100))
}

// TransactionFilters defines the available filters for querying the
// ledger.
type TransactionFilters struct {
	CategoryID      *int64  `form:"category_id"`
	TransactionType *string `form:"transaction_type"`
	DateFrom        *string `form:"date_from"` // YYYY-MM-DD
	DateTo          *string `form:"date_to"`   // YYYY-MM-DD
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}
