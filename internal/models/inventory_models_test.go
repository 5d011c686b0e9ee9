package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockMovementQuantityDelta(t *testing.T) {
	qty := decimal.NewFromFloat(2.5)

	tests := []struct {
		movementType string
		want         decimal.Decimal
	}{
		{MovementIn, qty},
		{MovementReturn, qty},
		{MovementOut, qty.Neg()},
		{MovementWaste, qty.Neg()},
		{MovementAdjustment, decimal.Zero},
	}
	for _, tt := range tests {
		m := &StockMovement{MovementType: tt.movementType, Quantity: qty}
		got := m.QuantityDelta()
		assert.True(t, got.Equal(tt.want), "%s: delta = %s", tt.movementType, got)
	}
}

func TestProductStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		want     string
	}{
		{"zero is out", 0, StockStatusOut},
		{"negative is out", -1, StockStatusOut},
		{"below minimum", 3, StockStatusLow},
		{"at minimum is normal", 5, StockStatusNormal},
		{"between thresholds", 10, StockStatusNormal},
		{"at optimal", 20, StockStatusOptimal},
		{"above optimal", 50, StockStatusOptimal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{
				QuantityInStock: decimal.NewFromFloat(tt.quantity),
				MinimumStock:    decimal.NewFromInt(5),
				OptimalStock:    decimal.NewFromInt(20),
			}
			assert.Equal(t, tt.want, p.StockStatus())
		})
	}
}

func TestProductStockValue(t *testing.T) {
	p := &Product{
		QuantityInStock: decimal.NewFromFloat(3.5),
		UnitPrice:       decimal.NewFromInt(4),
	}
	assert.True(t, p.StockValue().Equal(decimal.NewFromInt(14)))
}

func TestPurchaseOrderCalculateTotal(t *testing.T) {
	po := &PurchaseOrder{
		Items: []PurchaseOrderItem{
			{Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(2.5)},
			{Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(5)},
		},
	}
	total := po.CalculateTotal()
	assert.True(t, total.Equal(decimal.NewFromInt(45)), "total = %s", total)
	assert.True(t, po.TotalAmount.Equal(total))
}

func TestPurchaseOrderItemIsFullyReceived(t *testing.T) {
	item := &PurchaseOrderItem{
		Quantity:         decimal.NewFromInt(10),
		ReceivedQuantity: decimal.NewFromInt(6),
	}
	assert.False(t, item.IsFullyReceived())

	item.ReceivedQuantity = decimal.NewFromInt(10)
	assert.True(t, item.IsFullyReceived())

	item.ReceivedQuantity = decimal.NewFromInt(12)
	assert.True(t, item.IsFullyReceived())
}

func TestStockTakeItemDiscrepancy(t *testing.T) {
	item := &StockTakeItem{
		TheoreticalQuantity: decimal.NewFromInt(10),
		PhysicalQuantity:    decimal.NewFromInt(8),
	}
	assert.True(t, item.Discrepancy().Equal(decimal.NewFromInt(-2)))

	item.PhysicalQuantity = decimal.NewFromInt(11)
	assert.True(t, item.Discrepancy().Equal(decimal.NewFromInt(1)))
}

func TestIsValidMovementType(t *testing.T) {
	for _, valid := range []string{MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementWaste} {
		assert.True(t, IsValidMovementType(valid), valid)
	}
	assert.False(t, IsValidMovementType("TRANSFER"))
}

func TestIsValidProductUnit(t *testing.T) {
	assert.True(t, IsValidProductUnit(UnitKilogram))
	assert.True(t, IsValidProductUnit(UnitBottle))
	assert.False(t, IsValidProductUnit("POUND"))
}
