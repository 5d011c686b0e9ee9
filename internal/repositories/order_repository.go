package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order and kitchen ticket
// database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int64, error)
	GetOrderByID(id int64) (*models.Order, error)
	GetOrderForUpdate(executor SQLExecutor, id int64) (*models.Order, error)
	UpdateOrderStatus(executor SQLExecutor, id int64, status string, at time.Time) error
	UpdateOrderTotals(executor SQLExecutor, order *models.Order) error
	SetOrderDiscount(executor SQLExecutor, id int64, discount decimal.Decimal) error
	DeleteOrder(executor SQLExecutor, id int64) error

	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItems(orderID int64) ([]models.OrderItem, error)
	GetOrderItemByID(id int64) (*models.OrderItem, error)
	UpdateOrderItemQuantity(executor SQLExecutor, id int64, quantity int64) error
	DeleteOrderItem(executor SQLExecutor, id int64) error

	CreateKitchenTicket(executor SQLExecutor, ticket *models.KitchenTicket) (int64, error)
	GetKitchenTickets(status *string) ([]models.KitchenTicket, error)
	GetKitchenTicketByID(id int64) (*models.KitchenTicket, error)
	UpdateKitchenTicketStatus(executor SQLExecutor, id int64, status string, at time.Time) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, order_type, table_id, customer_name, customer_phone, status,
	order_date, confirmed_at, preparing_at, ready_at, served_at, paid_at, subtotal, tax_rate,
	tax_amount, discount_amount, total_amount, notes, created_by, served_by, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *models.Order) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.OrderType, &o.TableID, &o.CustomerName,
		&o.CustomerPhone, &o.Status, &o.OrderDate, &o.ConfirmedAt, &o.PreparingAt, &o.ReadyAt,
		&o.ServedAt, &o.PaidAt, &o.Subtotal, &o.TaxRate, &o.TaxAmount, &o.DiscountAmount,
		&o.TotalAmount, &o.Notes, &o.CreatedBy, &o.ServedBy, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (order_number, order_type, table_id, customer_name, customer_phone,
	            status, order_date, subtotal, tax_rate, tax_amount, discount_amount, total_amount,
	            notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, order.OrderNumber, order.OrderType, order.TableID,
		order.CustomerName, order.CustomerPhone, order.Status, order.OrderDate, order.Subtotal,
		order.TaxRate, order.TaxAmount, order.DiscountAmount, order.TotalAmount, order.Notes,
		order.CreatedBy, now, now).Scan(&order.ID)
	if err != nil {
		return 0, translateError(err, "creating order")
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count FROM orders WHERE 1=1`)

	args := []interface{}{}
	argID := 1
	if filters.TableID != nil {
		sb.WriteString(fmt.Sprintf(" AND table_id = $%d", argID))
		args = append(args, *filters.TableID)
		argID++
	}
	if filters.Status != nil {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, *filters.Status)
		argID++
	}
	if filters.OrderType != nil {
		sb.WriteString(fmt.Sprintf(" AND order_type = $%d", argID))
		args = append(args, *filters.OrderType)
		argID++
	}
	if filters.Date != nil {
		sb.WriteString(fmt.Sprintf(" AND order_date::date = $%d", argID))
		args = append(args, *filters.Date)
		argID++
	}

	sb.WriteString(" ORDER BY order_date DESC")
	if filters.PageSize > 0 {
		offset := (filters.Page - 1) * filters.PageSize
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, filters.PageSize, offset)
	}

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, 0, translateError(err, "listing orders")
	}
	defer rows.Close()

	orders := []models.Order{}
	var total int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.OrderType, &o.TableID, &o.CustomerName,
			&o.CustomerPhone, &o.Status, &o.OrderDate, &o.ConfirmedAt, &o.PreparingAt, &o.ReadyAt,
			&o.ServedAt, &o.PaidAt, &o.Subtotal, &o.TaxRate, &o.TaxAmount, &o.DiscountAmount,
			&o.TotalAmount, &o.Notes, &o.CreatedBy, &o.ServedBy, &o.CreatedAt, &o.UpdatedAt,
			&total); err != nil {
			return nil, 0, translateError(err, "scanning order")
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) GetOrderByID(id int64) (*models.Order, error) {
	o := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := scanOrder(r.db.QueryRow(query, id), o); err != nil {
		return nil, translateError(err, "getting order")
	}
	return o, nil
}

// GetOrderForUpdate locks the order row for the duration of the enclosing
// transaction so concurrent status pushes serialize.
func (r *orderRepository) GetOrderForUpdate(executor SQLExecutor, id int64) (*models.Order, error) {
	o := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	if err := scanOrder(executor.QueryRow(query, id), o); err != nil {
		return nil, translateError(err, "locking order")
	}
	return o, nil
}

// UpdateOrderStatus sets the status and stamps the matching per-transition
// timestamp column.
func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, id int64, status string, at time.Time) error {
	tsColumn := ""
	switch status {
	case models.OrderConfirmed:
		tsColumn = "confirmed_at"
	case models.OrderPreparing:
		tsColumn = "preparing_at"
	case models.OrderReady:
		tsColumn = "ready_at"
	case models.OrderServed:
		tsColumn = "served_at"
	case models.OrderPaid:
		tsColumn = "paid_at"
	}

	var query string
	var args []interface{}
	if tsColumn != "" {
		query = fmt.Sprintf(`UPDATE orders SET status = $1, %s = $2, updated_at = $2 WHERE id = $3`, tsColumn)
		args = []interface{}{status, at, id}
	} else {
		query = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
		args = []interface{}{status, at, id}
	}

	res, err := executor.Exec(query, args...)
	if err != nil {
		return translateError(err, "updating order status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderTotals(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET subtotal = $1, tax_amount = $2, total_amount = $3, updated_at = $4
	          WHERE id = $5`
	res, err := executor.Exec(query, order.Subtotal, order.TaxAmount,
		order.TotalAmount, time.Now(), order.ID)
	if err != nil {
		return translateError(err, "updating order totals")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetOrderDiscount(executor SQLExecutor, id int64, discount decimal.Decimal) error {
	res, err := executor.Exec(
		`UPDATE orders SET discount_amount = $1, updated_at = $2 WHERE id = $3`,
		discount, time.Now(), id)
	if err != nil {
		return translateError(err, "updating order discount")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, status,
	            special_instructions, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice,
		item.Status, item.SpecialInstructions, now, now).Scan(&item.ID)
	if err != nil {
		return 0, translateError(err, "creating order item")
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItems(orderID int64) ([]models.OrderItem, error) {
	query := `SELECT id, order_id, menu_item_id, quantity, unit_price, status, special_instructions,
	            created_at, updated_at
	          FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, translateError(err, "listing order items")
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity,
			&item.UnitPrice, &item.Status, &item.SpecialInstructions, &item.CreatedAt,
			&item.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning order item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepository) GetOrderItemByID(id int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `SELECT id, order_id, menu_item_id, quantity, unit_price, status, special_instructions,
	            created_at, updated_at
	          FROM order_items WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity,
		&item.UnitPrice, &item.Status, &item.SpecialInstructions, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting order item")
	}
	return item, nil
}

func (r *orderRepository) UpdateOrderItemQuantity(executor SQLExecutor, id int64, quantity int64) error {
	res, err := executor.Exec(
		`UPDATE order_items SET quantity = $1, updated_at = $2 WHERE id = $3`,
		quantity, time.Now(), id)
	if err != nil {
		return translateError(err, "updating order item quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrderItem(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting order item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CreateKitchenTicket(executor SQLExecutor, ticket *models.KitchenTicket) (int64, error) {
	query := `INSERT INTO kitchen_tickets (order_id, ticket_number, status, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, ticket.OrderID, ticket.TicketNumber, ticket.Status,
		time.Now()).Scan(&ticket.ID)
	if err != nil {
		return 0, translateError(err, "creating kitchen ticket")
	}
	return ticket.ID, nil
}

func (r *orderRepository) GetKitchenTickets(status *string) ([]models.KitchenTicket, error) {
	query := `SELECT id, order_id, ticket_number, status, created_at, started_at, completed_at
	          FROM kitchen_tickets
	          WHERE ($1::text IS NULL OR status = $1)
	          ORDER BY created_at`
	rows, err := r.db.Query(query, status)
	if err != nil {
		return nil, translateError(err, "listing kitchen tickets")
	}
	defer rows.Close()

	tickets := []models.KitchenTicket{}
	for rows.Next() {
		var t models.KitchenTicket
		if err := rows.Scan(&t.ID, &t.OrderID, &t.TicketNumber, &t.Status, &t.CreatedAt,
			&t.StartedAt, &t.CompletedAt); err != nil {
			return nil, translateError(err, "scanning kitchen ticket")
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *orderRepository) GetKitchenTicketByID(id int64) (*models.KitchenTicket, error) {
	t := &models.KitchenTicket{}
	query := `SELECT id, order_id, ticket_number, status, created_at, started_at, completed_at
	          FROM kitchen_tickets WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.OrderID, &t.TicketNumber, &t.Status,
		&t.CreatedAt, &t.StartedAt, &t.CompletedAt)
	if err != nil {
		return nil, translateError(err, "getting kitchen ticket")
	}
	return t, nil
}

func (r *orderRepository) UpdateKitchenTicketStatus(executor SQLExecutor, id int64, status string, at time.Time) error {
	tsColumn := ""
	switch status {
	case models.TicketInProgress:
		tsColumn = "started_at"
	case models.TicketCompleted:
		tsColumn = "completed_at"
	}

	var query string
	var args []interface{}
	if tsColumn != "" {
		query = fmt.Sprintf(`UPDATE kitchen_tickets SET status = $1, %s = $2 WHERE id = $3`, tsColumn)
		args = []interface{}{status, at, id}
	} else {
		query = `UPDATE kitchen_tickets SET status = $1 WHERE id = $2`
		args = []interface{}{status, id}
	}

	res, err := executor.Exec(query, args...)
	if err != nil {
		return translateError(err, "updating kitchen ticket status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
