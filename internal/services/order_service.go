package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
	"resto_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderItemNotFound   = errors.New("order item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrOrderNotEditable    = errors.New("order items can no longer be changed")
	ErrTicketNotFound      = errors.New("kitchen ticket not found")
	ErrTableRequired       = errors.New("dine-in orders need a table")
)

// DefaultTaxRate applies when an order does not specify one.
var DefaultTaxRate = decimal.NewFromInt(10)

// CreateOrderItemRequest is one requested order line.
type CreateOrderItemRequest struct {
	MenuItemID          int64   `json:"menu_item_id" binding:"required"`
	Quantity            int64   `json:"quantity" binding:"required,gt=0"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

// CreateOrderRequest creates an order with its initial lines.
type CreateOrderRequest struct {
	OrderType      string                   `json:"order_type" binding:"required"`
	TableID        *int64                   `json:"table_id,omitempty"`
	CustomerName   *string                  `json:"customer_name,omitempty"`
	CustomerPhone  *string                  `json:"customer_phone,omitempty"`
	TaxRate        *decimal.Decimal         `json:"tax_rate,omitempty"`
	DiscountAmount *decimal.Decimal         `json:"discount_amount,omitempty"`
	Notes          *string                  `json:"notes,omitempty"`
	Items          []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// MarkPaidRequest settles an order.
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(req CreateOrderRequest, userID *int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int64, error)
	GetOrderByID(id int64) (*models.Order, error)
	AddItems(orderID int64, items []CreateOrderItemRequest, userID *int64) (*models.Order, error)
	RemoveItem(orderID, itemID int64, userID *int64) (*models.Order, error)
	UpdateItemQuantity(orderID, itemID, quantity int64, userID *int64) (*models.Order, error)
	DeleteOrder(orderID int64, userID *int64) error
	UpdateStatus(orderID int64, status string, userID *int64) (*models.Order, error)
	MarkPaid(orderID int64, req MarkPaidRequest, userID *int64) (*models.Order, error)
	SetDiscount(orderID int64, discount decimal.Decimal) (*models.Order, error)

	GetKitchenTickets(status *string) ([]models.KitchenTicket, error)
	StartTicket(ticketID int64) (*models.KitchenTicket, error)
	CompleteTicket(ticketID int64) (*models.KitchenTicket, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo      repositories.OrderRepository
	menuRepo       repositories.MenuRepository
	productRepo    repositories.ProductRepository
	movementRepo   repositories.StockMovementRepository
	accountingRepo repositories.AccountingRepository
	db             *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	pr repositories.ProductRepository,
	smr repositories.StockMovementRepository,
	ar repositories.AccountingRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:      or,
		menuRepo:       mr,
		productRepo:    pr,
		movementRepo:   smr,
		accountingRepo: ar,
		db:             db,
	}
}

// CreateOrder inserts the order and its lines, deducts ingredient stock
// for tracked menu items and computes the totals, all in one transaction.
func (s *orderService) CreateOrder(req CreateOrderRequest, userID *int64) (*models.Order, error) {
	if !models.IsValidOrderType(req.OrderType) {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrValidation, req.OrderType)
	}
	if req.OrderType == models.OrderTypeDineIn && req.TableID == nil {
		return nil, ErrTableRequired
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	taxRate := DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	discount := decimal.Zero
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}

	order := &models.Order{
		OrderNumber:    utils.NewDocumentNumber("ORD"),
		OrderType:      req.OrderType,
		TableID:        req.TableID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Status:         models.OrderPending,
		OrderDate:      time.Now(),
		TaxRate:        taxRate,
		DiscountAmount: discount,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}
	if _, err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderNumber := order.OrderNumber
	for _, itemReq := range req.Items {
		item, err := s.addItemTx(tx, order.ID, orderNumber, itemReq, userID)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}

	order.CalculateTotals()
	if err := s.orderRepo.UpdateOrderTotals(tx, order); err != nil {
		return nil, fmt.Errorf("failed to store order totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return order, nil
}

// addItemTx inserts one line, snapshotting the menu price, and deducts
// ingredient stock when the menu item tracks inventory.
func (s *orderService) addItemTx(exec repositories.SQLExecutor, orderID int64, orderNumber string, itemReq CreateOrderItemRequest, userID *int64) (*models.OrderItem, error) {
	if itemReq.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrValidation, itemReq.MenuItemID)
	}

	menuItem, err := s.menuRepo.GetMenuItemByID(itemReq.MenuItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: menu item %d", ErrMenuItemNotFound, itemReq.MenuItemID)
		}
		return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, err)
	}
	if !menuItem.IsAvailable {
		return nil, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItem.Name)
	}

	if menuItem.TrackInventory {
		if err := s.deductIngredientsTx(exec, menuItem, itemReq.Quantity, orderNumber, userID); err != nil {
			return nil, err
		}
	}

	item := &models.OrderItem{
		OrderID:             orderID,
		MenuItemID:          menuItem.ID,
		Quantity:            itemReq.Quantity,
		UnitPrice:           menuItem.Price,
		Status:              models.OrderPending,
		SpecialInstructions: itemReq.SpecialInstructions,
	}
	if _, err := s.orderRepo.CreateOrderItem(exec, item); err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return item, nil
}

// deductIngredientsTx writes one OUT movement per recipe ingredient,
// scaled by the ordered quantity.
func (s *orderService) deductIngredientsTx(exec repositories.SQLExecutor, menuItem *models.MenuItem, quantity int64, orderNumber string, userID *int64) error {
	ingredients, err := s.menuRepo.GetIngredients(menuItem.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch recipe for %s: %w", menuItem.Name, err)
	}

	factor := decimal.NewFromInt(quantity)
	for _, ing := range ingredients {
		needed := ing.QuantityNeeded.Mul(factor)

		product, err := s.productRepo.GetProductForUpdate(exec, ing.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: ingredient product %d", ErrProductNotFound, ing.ProductID)
			}
			return fmt.Errorf("failed to lock product %d: %w", ing.ProductID, err)
		}
		if product.QuantityInStock.LessThan(needed) {
			return fmt.Errorf("%w: %s needs %s of %s, only %s left",
				ErrInsufficientStock, menuItem.Name, needed, product.Name, product.QuantityInStock)
		}

		movement := &models.StockMovement{
			ProductID:    ing.ProductID,
			MovementType: models.MovementOut,
			Quantity:     needed,
			UnitPrice:    product.UnitPrice,
			Reference:    &orderNumber,
			Reason:       fmt.Sprintf("Order consumption: %s", menuItem.Name),
			CreatedBy:    userID,
		}
		if _, err := s.movementRepo.CreateMovement(exec, movement); err != nil {
			return fmt.Errorf("failed to record consumption movement: %w", err)
		}
		if err := s.productRepo.AdjustProductQuantity(exec, ing.ProductID, needed.Neg()); err != nil {
			return fmt.Errorf("failed to deduct stock for product %d: %w", ing.ProductID, err)
		}
	}
	return nil
}

// returnIngredientsTx restores ingredient stock for every tracked line of
// a cancelled order with RETURN movements.
func (s *orderService) returnIngredientsTx(exec repositories.SQLExecutor, order *models.Order, userID *int64) error {
	for _, item := range order.Items {
		menuItem, err := s.menuRepo.GetMenuItemByID(item.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue // item removed from the menu since; nothing to restock
			}
			return fmt.Errorf("failed to fetch menu item %d: %w", item.MenuItemID, err)
		}
		if !menuItem.TrackInventory {
			continue
		}

		ingredients, err := s.menuRepo.GetIngredients(menuItem.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch recipe for %s: %w", menuItem.Name, err)
		}
		factor := decimal.NewFromInt(item.Quantity)
		for _, ing := range ingredients {
			restored := ing.QuantityNeeded.Mul(factor)

			product, err := s.productRepo.GetProductForUpdate(exec, ing.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					continue
				}
				return fmt.Errorf("failed to lock product %d: %w", ing.ProductID, err)
			}

			movement := &models.StockMovement{
				ProductID:    ing.ProductID,
				MovementType: models.MovementReturn,
				Quantity:     restored,
				UnitPrice:    product.UnitPrice,
				Reference:    &order.OrderNumber,
				Reason:       fmt.Sprintf("Order %s cancelled", order.OrderNumber),
				CreatedBy:    userID,
			}
			if _, err := s.movementRepo.CreateMovement(exec, movement); err != nil {
				return fmt.Errorf("failed to record return movement: %w", err)
			}
			if err := s.productRepo.AdjustProductQuantity(exec, ing.ProductID, restored); err != nil {
				return fmt.Errorf("failed to restore stock for product %d: %w", ing.ProductID, err)
			}
		}
	}
	return nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return s.orderRepo.GetOrders(filters)
}

func (s *orderService) GetOrderByID(id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	items, err := s.orderRepo.GetOrderItems(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	order.Items = items
	return order, nil
}

// AddItems appends lines to an order still open for edits and recomputes
// the totals in the same transaction.
func (s *orderService) AddItems(orderID int64, items []CreateOrderItemRequest, userID *int64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to add", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if order.Status != models.OrderPending && order.Status != models.OrderConfirmed {
		return nil, ErrOrderNotEditable
	}

	for _, itemReq := range items {
		if _, err := s.addItemTx(tx, orderID, order.OrderNumber, itemReq, userID); err != nil {
			return nil, err
		}
	}

	if err := s.recalculateTotalsTx(tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit add-items transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// RemoveItem drops a line, restores its tracked ingredients and
// recomputes the totals in the same transaction.
func (s *orderService) RemoveItem(orderID, itemID int64, userID *int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if order.Status != models.OrderPending && order.Status != models.OrderConfirmed {
		return nil, ErrOrderNotEditable
	}

	item, err := s.orderRepo.GetOrderItemByID(itemID)
	if err != nil || item.OrderID != orderID {
		return nil, ErrOrderItemNotFound
	}

	scratch := &models.Order{OrderNumber: order.OrderNumber, Items: []models.OrderItem{*item}}
	if err := s.returnIngredientsTx(tx, scratch, userID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.DeleteOrderItem(tx, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete order item: %w", err)
	}

	if err := s.recalculateTotalsTx(tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit remove-item transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// UpdateItemQuantity resizes a line, settles the ingredient stock
// difference and recomputes the totals in the same transaction.
func (s *orderService) UpdateItemQuantity(orderID, itemID, quantity int64, userID *int64) (*models.Order, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.updateItemQuantityTx(tx, orderID, itemID, quantity, userID)
	if err != nil {
		return nil, err
	}
	if err := s.recalculateTotalsTx(tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item-quantity transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) updateItemQuantityTx(exec repositories.SQLExecutor, orderID, itemID, quantity int64, userID *int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderForUpdate(exec, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if order.Status != models.OrderPending && order.Status != models.OrderConfirmed {
		return nil, ErrOrderNotEditable
	}

	item, err := s.orderRepo.GetOrderItemByID(itemID)
	if err != nil || item.OrderID != orderID {
		return nil, ErrOrderItemNotFound
	}
	delta := quantity - item.Quantity
	if delta == 0 {
		return order, nil
	}

	menuItem, err := s.menuRepo.GetMenuItemByID(item.MenuItemID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		menuItem = nil // item left the menu; no recipe to settle
	case err != nil:
		return nil, fmt.Errorf("failed to fetch menu item %d: %w", item.MenuItemID, err)
	}
	if menuItem != nil && menuItem.TrackInventory {
		if delta > 0 {
			if err := s.deductIngredientsTx(exec, menuItem, delta, order.OrderNumber, userID); err != nil {
				return nil, err
			}
		} else {
			scratch := &models.Order{OrderNumber: order.OrderNumber,
				Items: []models.OrderItem{{MenuItemID: item.MenuItemID, Quantity: -delta}}}
			if err := s.returnIngredientsTx(exec, scratch, userID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orderRepo.UpdateOrderItemQuantity(exec, itemID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}
	return order, nil
}

// DeleteOrder removes a pending or cancelled order outright. Pending
// orders get their tracked ingredients returned first; the lines and
// any kitchen ticket go with the order.
func (s *orderService) DeleteOrder(orderID int64, userID *int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.deleteOrderTx(tx, orderID, userID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete-order transaction: %w", err)
	}
	return nil
}

func (s *orderService) deleteOrderTx(exec repositories.SQLExecutor, orderID int64, userID *int64) error {
	order, err := s.orderRepo.GetOrderForUpdate(exec, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}
	if order.Status != models.OrderPending && order.Status != models.OrderCancelled {
		return fmt.Errorf("%w: only pending or cancelled orders can be deleted", ErrOrderNotEditable)
	}

	// Cancelled orders already had their stock returned.
	if order.Status == models.OrderPending {
		items, err := s.orderRepo.GetOrderItems(orderID)
		if err != nil {
			return fmt.Errorf("failed to fetch items for stock return: %w", err)
		}
		order.Items = items
		if err := s.returnIngredientsTx(exec, order, userID); err != nil {
			return err
		}
	}

	if err := s.orderRepo.DeleteOrder(exec, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// recalculateTotalsTx reloads the lines through the executor and persists
// fresh totals so they never drift from the items.
func (s *orderService) recalculateTotalsTx(exec repositories.SQLExecutor, order *models.Order) error {
	rows, err := exec.Query(
		`SELECT id, quantity, unit_price FROM order_items WHERE order_id = $1`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to reload order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to reload order items: %w", err)
	}

	order.Items = items
	order.CalculateTotals()
	if err := s.orderRepo.UpdateOrderTotals(exec, order); err != nil {
		return fmt.Errorf("failed to store order totals: %w", err)
	}
	return nil
}

// UpdateStatus moves the order through its state machine. Confirming an
// order opens a kitchen ticket; cancelling restores tracked stock.
func (s *orderService) UpdateStatus(orderID int64, status string, userID *int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.updateStatusTx(tx, orderID, status, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) updateStatusTx(exec repositories.SQLExecutor, orderID int64, status string, userID *int64) error {
	order, err := s.orderRepo.GetOrderForUpdate(exec, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}
	if !models.CanOrderTransition(order.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if status == models.OrderCancelled {
		items, err := s.orderRepo.GetOrderItems(orderID)
		if err != nil {
			return fmt.Errorf("failed to fetch items for stock return: %w", err)
		}
		order.Items = items
		if err := s.returnIngredientsTx(exec, order, userID); err != nil {
			return err
		}
	}

	if err := s.orderRepo.UpdateOrderStatus(exec, orderID, status, time.Now()); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if status == models.OrderConfirmed {
		ticket := &models.KitchenTicket{
			OrderID:      orderID,
			TicketNumber: utils.NewDocumentNumber("TKT"),
			Status:       models.TicketNew,
		}
		if _, err := s.orderRepo.CreateKitchenTicket(exec, ticket); err != nil {
			return fmt.Errorf("failed to open kitchen ticket: %w", err)
		}
	}
	return nil
}

// MarkPaid settles a served order and posts the sale to the ledger. When
// no revenue category exists the ledger entry is skipped with a warning
// rather than blocking the payment.
func (s *orderService) MarkPaid(orderID int64, req MarkPaidRequest, userID *int64) (*models.Order, error) {
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.markPaidTx(tx, orderID, req.PaymentMethod, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) markPaidTx(exec repositories.SQLExecutor, orderID int64, paymentMethod string, userID *int64) error {
	order, err := s.orderRepo.GetOrderForUpdate(exec, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}
	if !models.CanOrderTransition(order.Status, models.OrderPaid) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderPaid)
	}

	if err := s.orderRepo.UpdateOrderStatus(exec, orderID, models.OrderPaid, time.Now()); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	revenueType := models.AccountRevenue
	categories, err := s.accountingRepo.GetCategories(&revenueType)
	if err != nil {
		return fmt.Errorf("failed to look up revenue categories: %w", err)
	}
	if len(categories) == 0 {
		utils.LogWarn("no revenue category configured, order paid without ledger entry", map[string]interface{}{
			"order_id": orderID,
		})
		return nil
	}

	txn := &models.Transaction{
		TransactionNumber: utils.NewDocumentNumber("TRX"),
		TransactionType:   models.TransactionIncome,
		CategoryID:        categories[0].ID,
		Date:              time.Now(),
		Amount:            order.TotalAmount,
		PaymentMethod:     paymentMethod,
		Reference:         &order.OrderNumber,
		Description:       fmt.Sprintf("Order %s", order.OrderNumber),
		CreatedBy:         userID,
	}
	if _, err := s.accountingRepo.CreateTransaction(exec, txn); err != nil {
		return fmt.Errorf("failed to post sale to ledger: %w", err)
	}
	return nil
}

func (s *orderService) SetDiscount(orderID int64, discount decimal.Decimal) (*models.Order, error) {
	if discount.Sign() < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if order.Status == models.OrderPaid || order.Status == models.OrderCancelled {
		return nil, ErrOrderNotEditable
	}

	if err := s.orderRepo.SetOrderDiscount(tx, orderID, discount); err != nil {
		return nil, fmt.Errorf("failed to set discount: %w", err)
	}
	order.DiscountAmount = discount
	if err := s.recalculateTotalsTx(tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit discount transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) GetKitchenTickets(status *string) ([]models.KitchenTicket, error) {
	return s.orderRepo.GetKitchenTickets(status)
}

// StartTicket moves a ticket NEW -> IN_PROGRESS and pushes the owning
// order to PREPARING.
func (s *orderService) StartTicket(ticketID int64) (*models.KitchenTicket, error) {
	return s.transitionTicket(ticketID, models.TicketInProgress, models.OrderPreparing)
}

// CompleteTicket moves a ticket IN_PROGRESS -> COMPLETED and pushes the
// owning order to READY.
func (s *orderService) CompleteTicket(ticketID int64) (*models.KitchenTicket, error) {
	return s.transitionTicket(ticketID, models.TicketCompleted, models.OrderReady)
}

func (s *orderService) transitionTicket(ticketID int64, ticketStatus, orderStatus string) (*models.KitchenTicket, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	ticket, err := s.transitionTicketTx(tx, ticketID, ticketStatus, orderStatus)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket transaction: %w", err)
	}
	return ticket, nil
}

func (s *orderService) transitionTicketTx(exec repositories.SQLExecutor, ticketID int64, ticketStatus, orderStatus string) (*models.KitchenTicket, error) {
	ticket, err := s.orderRepo.GetKitchenTicketByID(ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to fetch kitchen ticket: %w", err)
	}
	if !models.CanTicketTransition(ticket.Status, ticketStatus) {
		return nil, fmt.Errorf("%w: ticket %s -> %s", ErrInvalidTransition, ticket.Status, ticketStatus)
	}

	order, err := s.orderRepo.GetOrderForUpdate(exec, ticket.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if !models.CanOrderTransition(order.Status, orderStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, orderStatus)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateKitchenTicketStatus(exec, ticketID, ticketStatus, now); err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}
	if err := s.orderRepo.UpdateOrderStatus(exec, ticket.OrderID, orderStatus, now); err != nil {
		return nil, fmt.Errorf("failed to push order status: %w", err)
	}

	ticket.Status = ticketStatus
	switch ticketStatus {
	case models.TicketInProgress:
		ticket.StartedAt = &now
	case models.TicketCompleted:
		ticket.CompletedAt = &now
	}
	return ticket, nil
}
