package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderCalculateTotals(t *testing.T) {
	order := &Order{
		TaxRate:        decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(5),
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: decimal.NewFromFloat(12.50)},
			{Quantity: 1, UnitPrice: decimal.NewFromFloat(8.00)},
		},
	}

	total := order.CalculateTotals()

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(33)), "subtotal = %s", order.Subtotal)
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromFloat(3.3)), "tax = %s", order.TaxAmount)
	assert.True(t, total.Equal(decimal.NewFromFloat(31.3)), "total = %s", total)
}

func TestOrderCalculateTotalsNoItems(t *testing.T) {
	order := &Order{TaxRate: decimal.NewFromInt(20)}
	total := order.CalculateTotals()
	assert.True(t, total.IsZero())
	assert.True(t, order.Subtotal.IsZero())
}

func TestOrderCalculateTotalsIdempotent(t *testing.T) {
	order := &Order{
		TaxRate: decimal.NewFromInt(10),
		Items:   []OrderItem{{Quantity: 3, UnitPrice: decimal.NewFromInt(10)}},
	}
	first := order.CalculateTotals()
	second := order.CalculateTotals()
	assert.True(t, first.Equal(second))
}

func TestCanOrderTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderPreparing, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderServed, true},
		{OrderServed, OrderPaid, true},
		{OrderPending, OrderCancelled, true},
		{OrderServed, OrderCancelled, true},
		{OrderPaid, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderPending, OrderPreparing, false},
		{OrderReady, OrderConfirmed, false},
		{OrderPaid, OrderPaid, false},
		{"UNKNOWN", OrderConfirmed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanOrderTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanTicketTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{TicketNew, TicketInProgress, true},
		{TicketInProgress, TicketCompleted, true},
		{TicketNew, TicketCompleted, false},
		{TicketCompleted, TicketInProgress, false},
		{TicketInProgress, TicketNew, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTicketTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderItemTotalPrice(t *testing.T) {
	item := &OrderItem{Quantity: 4, UnitPrice: decimal.NewFromFloat(7.25)}
	assert.True(t, item.TotalPrice().Equal(decimal.NewFromInt(29)))
}
