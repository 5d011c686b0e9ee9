package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository defines the interface for supplier purchase
// order database operations.
type PurchaseOrderRepository interface {
	CreatePurchaseOrder(executor SQLExecutor, po *models.PurchaseOrder) (int64, error)
	GetPurchaseOrders(status *string) ([]models.PurchaseOrder, error)
	GetPurchaseOrderByID(id int64) (*models.PurchaseOrder, error)
	UpdatePurchaseOrderStatus(executor SQLExecutor, id int64, status string, actualDelivery *time.Time) error
	DeletePurchaseOrder(executor SQLExecutor, id int64) error

	CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error)
	GetPurchaseOrderItems(purchaseOrderID int64) ([]models.PurchaseOrderItem, error)
	SetItemReceivedQuantity(executor SQLExecutor, itemID int64, received decimal.Decimal) error
	DeletePurchaseOrderItem(executor SQLExecutor, itemID int64) error
}

type purchaseOrderRepository struct {
	db *sql.DB
}

// NewPurchaseOrderRepository creates a new instance of PurchaseOrderRepository.
func NewPurchaseOrderRepository(db *sql.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

const purchaseOrderColumns = `id, order_number, supplier_id, status, order_date,
	expected_delivery_date, actual_delivery_date, total_amount, notes, created_by,
	created_at, updated_at`

func scanPurchaseOrder(row interface{ Scan(...interface{}) error }, po *models.PurchaseOrder) error {
	return row.Scan(&po.ID, &po.OrderNumber, &po.SupplierID, &po.Status, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.ActualDeliveryDate, &po.TotalAmount, &po.Notes,
		&po.CreatedBy, &po.CreatedAt, &po.UpdatedAt)
}

func (r *purchaseOrderRepository) CreatePurchaseOrder(executor SQLExecutor, po *models.PurchaseOrder) (int64, error) {
	query := `INSERT INTO purchase_orders
	            (order_number, supplier_id, status, order_date, expected_delivery_date,
	             total_amount, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, po.OrderNumber, po.SupplierID, po.Status, po.OrderDate,
		po.ExpectedDeliveryDate, po.TotalAmount, po.Notes, po.CreatedBy, now, now).Scan(&po.ID)
	if err != nil {
		return 0, translateError(err, "creating purchase order")
	}
	return po.ID, nil
}

func (r *purchaseOrderRepository) GetPurchaseOrders(status *string) ([]models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
	          WHERE ($1::text IS NULL OR status = $1)
	          ORDER BY order_date DESC`
	rows, err := r.db.Query(query, status)
	if err != nil {
		return nil, translateError(err, "listing purchase orders")
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		var po models.PurchaseOrder
		if err := scanPurchaseOrder(rows, &po); err != nil {
			return nil, translateError(err, "scanning purchase order")
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (r *purchaseOrderRepository) GetPurchaseOrderByID(id int64) (*models.PurchaseOrder, error) {
	po := &models.PurchaseOrder{}
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	if err := scanPurchaseOrder(r.db.QueryRow(query, id), po); err != nil {
		return nil, translateError(err, "getting purchase order")
	}
	return po, nil
}

func (r *purchaseOrderRepository) UpdatePurchaseOrderStatus(executor SQLExecutor, id int64, status string, actualDelivery *time.Time) error {
	query := `UPDATE purchase_orders
	          SET status = $1, actual_delivery_date = COALESCE($2, actual_delivery_date), updated_at = $3
	          WHERE id = $4`
	res, err := executor.Exec(query, status, actualDelivery, time.Now(), id)
	if err != nil {
		return translateError(err, "updating purchase order status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *purchaseOrderRepository) DeletePurchaseOrder(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting purchase order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- PurchaseOrderItem methods ---

func (r *purchaseOrderRepository) CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error) {
	query := `INSERT INTO purchase_order_items
	            (purchase_order_id, product_id, quantity, unit_price, received_quantity, notes)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := executor.QueryRow(query, item.PurchaseOrderID, item.ProductID, item.Quantity,
		item.UnitPrice, item.ReceivedQuantity, item.Notes).Scan(&item.ID)
	if err != nil {
		return 0, translateError(err, "creating purchase order item")
	}
	return item.ID, nil
}

func (r *purchaseOrderRepository) GetPurchaseOrderItems(purchaseOrderID int64) ([]models.PurchaseOrderItem, error) {
	query := `SELECT i.id, i.purchase_order_id, i.product_id, i.quantity, i.unit_price,
	                 i.received_quantity, i.notes
	          FROM purchase_order_items i
	          WHERE i.purchase_order_id = $1
	          ORDER BY i.id`
	rows, err := r.db.Query(query, purchaseOrderID)
	if err != nil {
		return nil, translateError(err, "listing purchase order items")
	}
	defer rows.Close()

	items := []models.PurchaseOrderItem{}
	for rows.Next() {
		var item models.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.ReceivedQuantity, &item.Notes); err != nil {
			return nil, translateError(err, "scanning purchase order item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *purchaseOrderRepository) SetItemReceivedQuantity(executor SQLExecutor, itemID int64, received decimal.Decimal) error {
	res, err := executor.Exec(
		`UPDATE purchase_order_items SET received_quantity = $1 WHERE id = $2`, received, itemID)
	if err != nil {
		return translateError(err, "updating received quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *purchaseOrderRepository) DeletePurchaseOrderItem(executor SQLExecutor, itemID int64) error {
	res, err := executor.Exec(`DELETE FROM purchase_order_items WHERE id = $1`, itemID)
	if err != nil {
		return translateError(err, "deleting purchase order item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
