package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product units of measure.
const (
	UnitKilogram = "KG"
	UnitGram     = "G"
	UnitLiter    = "L"
	UnitMillilit = "ML"
	UnitPiece    = "UNIT"
	UnitBox      = "BOX"
	UnitBottle   = "BOTTLE"
	UnitCan      = "CAN"
	UnitPackage  = "PACKAGE"
)

// IsValidProductUnit checks if the provided string is a known unit.
func IsValidProductUnit(unit string) bool {
	switch unit {
	case UnitKilogram, UnitGram, UnitLiter, UnitMillilit, UnitPiece, UnitBox, UnitBottle, UnitCan, UnitPackage:
		return true
	default:
		return false
	}
}

// Stock status buckets derived from the current quantity.
const (
	StockStatusOut     = "OUT_OF_STOCK"
	StockStatusLow     = "LOW_STOCK"
	StockStatusNormal  = "NORMAL"
	StockStatusOptimal = "OPTIMAL"
)

// ProductCategory groups products in the inventory.
type ProductCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier represents a product supplier.
type Supplier struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	ContactPerson *string   `json:"contact_person,omitempty" db:"contact_person"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Website       *string   `json:"website,omitempty" db:"website"`
	TaxID         *string   `json:"tax_id,omitempty" db:"tax_id"`
	PaymentTerms  string    `json:"payment_terms" db:"payment_terms"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a stocked ingredient or item. QuantityInStock is never
// written directly by callers; it changes only inside the transactions
// that record stock movements (or a physical inventory completion).
type Product struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name" binding:"required"`
	Reference       string          `json:"reference" db:"reference" binding:"required"`
	CategoryID      *int64          `json:"category_id,omitempty" db:"category_id"`
	SupplierID      *int64          `json:"supplier_id,omitempty" db:"supplier_id"`
	Unit            string          `json:"unit" db:"unit"`
	QuantityInStock decimal.Decimal `json:"quantity_in_stock" db:"quantity_in_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock" db:"minimum_stock"`
	OptimalStock    decimal.Decimal `json:"optimal_stock" db:"optimal_stock"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Barcode         *string         `json:"barcode,omitempty" db:"barcode"`
	ImagePath       *string         `json:"image_path,omitempty" db:"image_path"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Category *ProductCategory `json:"category,omitempty"`
	Supplier *Supplier        `json:"supplier,omitempty"`
}

// StockStatus classifies the current quantity against the thresholds:
// OUT_OF_STOCK if q <= 0, LOW_STOCK if 0 < q < minimum,
// NORMAL if minimum <= q < optimal, OPTIMAL if q >= optimal.
func (p *Product) StockStatus() string {
	switch {
	case p.QuantityInStock.Sign() <= 0:
		return StockStatusOut
	case p.QuantityInStock.LessThan(p.MinimumStock):
		return StockStatusLow
	case p.QuantityInStock.LessThan(p.OptimalStock):
		return StockStatusNormal
	default:
		return StockStatusOptimal
	}
}

// IsLowStock reports whether the stock has fallen below the minimum.
func (p *Product) IsLowStock() bool {
	return p.QuantityInStock.LessThan(p.MinimumStock)
}

// StockValue is the total value of the on-hand quantity.
func (p *Product) StockValue() decimal.Decimal {
	return p.QuantityInStock.Mul(p.UnitPrice)
}

// Stock movement types.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
	MovementReturn     = "RETURN"
	MovementWaste      = "WASTE"
)

// IsValidMovementType checks if the provided string is a known movement type.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementWaste:
		return true
	default:
		return false
	}
}

// StockMovement is an append-only ledger entry against a product.
type StockMovement struct {
	ID           int64           `json:"id" db:"id"`
	ProductID    int64           `json:"product_id" db:"product_id" binding:"required"`
	MovementType string          `json:"movement_type" db:"movement_type" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	Reference    *string         `json:"reference,omitempty" db:"reference"`
	Reason       string          `json:"reason" db:"reason"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy    *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	Product *Product `json:"product,omitempty"`
}

// QuantityDelta returns the signed effect of the movement on the stock
// level: IN and RETURN add the quantity, OUT and WASTE subtract it, and
// ADJUSTMENT is an audit record whose stock effect is applied separately
// by the physical-inventory completion that creates it.
func (m *StockMovement) QuantityDelta() decimal.Decimal {
	switch m.MovementType {
	case MovementIn, MovementReturn:
		return m.Quantity
	case MovementOut, MovementWaste:
		return m.Quantity.Neg()
	default:
		return decimal.Zero
	}
}

// TotalValue is the monetary value of the movement.
func (m *StockMovement) TotalValue() decimal.Decimal {
	return m.Quantity.Mul(m.UnitPrice)
}

// Purchase order statuses.
const (
	PurchaseOrderDraft     = "DRAFT"
	PurchaseOrderSent      = "SENT"
	PurchaseOrderConfirmed = "CONFIRMED"
	PurchaseOrderReceived  = "RECEIVED"
	PurchaseOrderCancelled = "CANCELLED"
)

// PurchaseOrder is a supplier order.
type PurchaseOrder struct {
	ID                   int64           `json:"id" db:"id"`
	OrderNumber          string          `json:"order_number" db:"order_number"`
	SupplierID           int64           `json:"supplier_id" db:"supplier_id" binding:"required"`
	Status               string          `json:"status" db:"status"`
	OrderDate            time.Time       `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty" db:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty" db:"actual_delivery_date"`
	TotalAmount          decimal.Decimal `json:"total_amount" db:"total_amount"`
	Notes                *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy            *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`

	Supplier *Supplier           `json:"supplier,omitempty"`
	Items    []PurchaseOrderItem `json:"items,omitempty"`
}

// CalculateTotal recomputes the order total from its items.
func (po *PurchaseOrder) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range po.Items {
		total = total.Add(po.Items[i].TotalPrice())
	}
	po.TotalAmount = total
	return total
}

// PurchaseOrderItem is a line of a purchase order.
type PurchaseOrderItem struct {
	ID               int64           `json:"id" db:"id"`
	PurchaseOrderID  int64           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID        int64           `json:"product_id" db:"product_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price" db:"unit_price"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity" db:"received_quantity"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`

	Product *Product `json:"product,omitempty"`
}

// TotalPrice is quantity x unit price for the line.
func (i *PurchaseOrderItem) TotalPrice() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// IsFullyReceived reports whether the ordered quantity has arrived.
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// Physical inventory statuses.
const (
	StockTakePlanned    = "PLANNED"
	StockTakeInProgress = "IN_PROGRESS"
	StockTakeCompleted  = "COMPLETED"
	StockTakeCancelled  = "CANCELLED"
)

// StockTake is a physical inventory count.
type StockTake struct {
	ID              int64     `json:"id" db:"id"`
	InventoryNumber string    `json:"inventory_number" db:"inventory_number"`
	InventoryDate   time.Time `json:"inventory_date" db:"inventory_date"`
	Status          string    `json:"status" db:"status"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy       *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Items []StockTakeItem `json:"items,omitempty"`
}

// StockTakeItem holds the counted quantity for one product.
type StockTakeItem struct {
	ID                  int64           `json:"id" db:"id"`
	StockTakeID         int64           `json:"stock_take_id" db:"stock_take_id"`
	ProductID           int64           `json:"product_id" db:"product_id" binding:"required"`
	TheoreticalQuantity decimal.Decimal `json:"theoretical_quantity" db:"theoretical_quantity"`
	PhysicalQuantity    decimal.Decimal `json:"physical_quantity" db:"physical_quantity"`
	Notes               *string         `json:"notes,omitempty" db:"notes"`

	Product *Product `json:"product,omitempty"`
}

// Discrepancy is counted minus theoretical.
func (i *StockTakeItem) Discrepancy() decimal.Decimal {
	return i.PhysicalQuantity.Sub(i.TheoreticalQuantity)
}
