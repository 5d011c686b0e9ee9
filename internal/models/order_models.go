package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderServed    = "SERVED"
	OrderPaid      = "PAID"
	OrderCancelled = "CANCELLED"
)

// Order types.
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
	OrderTypeDelivery = "DELIVERY"
)

// IsValidOrderType checks if the provided string is a known order type.
func IsValidOrderType(t string) bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	default:
		return false
	}
}

// orderTransitions is the allowed forward-transition table. CANCELLED is
// reachable from every non-terminal state; PAID and CANCELLED are terminal.
var orderTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderPaid, OrderCancelled},
	OrderPaid:      {},
	OrderCancelled: {},
}

// CanOrderTransition reports whether an order may move from one status to
// another.
func CanOrderTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is a customer order moving through the kitchen workflow.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	OrderNumber    string          `json:"order_number" db:"order_number"`
	OrderType      string          `json:"order_type" db:"order_type"`
	TableID        *int64          `json:"table_id,omitempty" db:"table_id"`
	CustomerName   *string         `json:"customer_name,omitempty" db:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone,omitempty" db:"customer_phone"`
	Status         string          `json:"status" db:"status"`
	OrderDate      time.Time       `json:"order_date" db:"order_date"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty" db:"confirmed_at"`
	PreparingAt    *time.Time      `json:"preparing_at,omitempty" db:"preparing_at"`
	ReadyAt        *time.Time      `json:"ready_at,omitempty" db:"ready_at"`
	ServedAt       *time.Time      `json:"served_at,omitempty" db:"served_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy      *int64          `json:"created_by,omitempty" db:"created_by"`
	ServedBy       *int64          `json:"served_by,omitempty" db:"served_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	Table *Table      `json:"table,omitempty"`
	Items []OrderItem `json:"items,omitempty"`
}

// CalculateTotals recomputes subtotal, tax and total from the loaded
// items: subtotal = sum(qty x unit price), tax = subtotal x rate / 100,
// total = subtotal + tax - discount. Idempotent for unchanged items.
func (o *Order) CalculateTotals() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].TotalPrice())
	}
	o.Subtotal = subtotal
	o.TaxAmount = subtotal.Mul(o.TaxRate).Div(decimal.NewFromInt(100))
	o.TotalAmount = subtotal.Add(o.TaxAmount).Sub(o.DiscountAmount)
	return o.TotalAmount
}

// OrderItem is a line of an order. UnitPrice is snapshotted from the menu
// item at insertion time.
type OrderItem struct {
	ID                  int64           `json:"id" db:"id"`
	OrderID             int64           `json:"order_id" db:"order_id"`
	MenuItemID          int64           `json:"menu_item_id" db:"menu_item_id" binding:"required"`
	Quantity            int64           `json:"quantity" db:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price" db:"unit_price"`
	Status              string          `json:"status" db:"status"`
	SpecialInstructions *string         `json:"special_instructions,omitempty" db:"special_instructions"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`

	MenuItem *MenuItem `json:"menu_item,omitempty"`
}

// TotalPrice is quantity x unit price for the line.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Kitchen ticket statuses.
const (
	TicketNew        = "NEW"
	TicketInProgress = "IN_PROGRESS"
	TicketCompleted  = "COMPLETED"
)

// ticketTransitions is the kitchen ticket state machine.
var ticketTransitions = map[string][]string{
	TicketNew:        {TicketInProgress},
	TicketInProgress: {TicketCompleted},
	TicketCompleted:  {},
}

// CanTicketTransition reports whether a kitchen ticket may move from one
// status to another.
func CanTicketTransition(from, to string) bool {
	for _, s := range ticketTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// KitchenTicket tracks preparation of a confirmed order. Ticket
// transitions push the owning order forward (start -> PREPARING,
// complete -> READY); the order never mutates its tickets.
type KitchenTicket struct {
	ID           int64      `json:"id" db:"id"`
	OrderID      int64      `json:"order_id" db:"order_id"`
	TicketNumber string     `json:"ticket_number" db:"ticket_number"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	Order *Order `json:"order,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	TableID   *int64  `form:"table_id"`
	Status    *string `form:"status"`
	OrderType *string `form:"order_type"`
	Date      *string `form:"date"` // Expected format YYYY-MM-DD
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
}
