package services

import (
	"testing"
	"time"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	repositories.OrderRepository
	order           *models.Order
	orderItems      []models.OrderItem
	itemByID        map[int64]*models.OrderItem
	createdItems    []*models.OrderItem
	quantityUpdates map[int64]int64
	deletedOrders   []int64
	statusUpdates   []string
	tickets         []*models.KitchenTicket
	ticketByID      map[int64]*models.KitchenTicket
	ticketUpdates   []string
}

func (r *fakeOrderRepo) GetOrderForUpdate(_ repositories.SQLExecutor, _ int64) (*models.Order, error) {
	if r.order == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.order
	return &copied, nil
}

func (r *fakeOrderRepo) GetOrderItems(_ int64) ([]models.OrderItem, error) {
	return r.orderItems, nil
}

func (r *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	item.ID = int64(len(r.createdItems) + 1)
	r.createdItems = append(r.createdItems, item)
	return item.ID, nil
}

func (r *fakeOrderRepo) GetOrderItemByID(id int64) (*models.OrderItem, error) {
	item, ok := r.itemByID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateOrderItemQuantity(_ repositories.SQLExecutor, id int64, quantity int64) error {
	if r.quantityUpdates == nil {
		r.quantityUpdates = map[int64]int64{}
	}
	r.quantityUpdates[id] = quantity
	return nil
}

func (r *fakeOrderRepo) DeleteOrder(_ repositories.SQLExecutor, id int64) error {
	r.deletedOrders = append(r.deletedOrders, id)
	return nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, _ int64, status string, _ time.Time) error {
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *fakeOrderRepo) CreateKitchenTicket(_ repositories.SQLExecutor, ticket *models.KitchenTicket) (int64, error) {
	ticket.ID = int64(len(r.tickets) + 1)
	r.tickets = append(r.tickets, ticket)
	return ticket.ID, nil
}

func (r *fakeOrderRepo) GetKitchenTicketByID(id int64) (*models.KitchenTicket, error) {
	ticket, ok := r.ticketByID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return ticket, nil
}

func (r *fakeOrderRepo) UpdateKitchenTicketStatus(_ repositories.SQLExecutor, _ int64, status string, _ time.Time) error {
	r.ticketUpdates = append(r.ticketUpdates, status)
	return nil
}

type fakeMenuRepo struct {
	repositories.MenuRepository
	categories  map[int64]*models.MenuCategory
	items       map[int64]*models.MenuItem
	ingredients map[int64][]models.MenuItemIngredient
}

func (r *fakeMenuRepo) GetMenuCategoryByID(id int64) (*models.MenuCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return category, nil
}

func (r *fakeMenuRepo) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return item, nil
}

func (r *fakeMenuRepo) GetIngredients(menuItemID int64) ([]models.MenuItemIngredient, error) {
	return r.ingredients[menuItemID], nil
}

func TestAddItemSnapshotsMenuPrice(t *testing.T) {
	orderRepo := &fakeOrderRepo{}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Margherita", Price: decimal.NewFromFloat(11.5), IsAvailable: true},
		},
	}
	svc := &orderService{orderRepo: orderRepo, menuRepo: menuRepo}

	item, err := svc.addItemTx(nil, 1, "ORD-TEST", CreateOrderItemRequest{MenuItemID: 10, Quantity: 2}, nil)

	require.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(11.5)))
	assert.Equal(t, int64(2), item.Quantity)
	require.Len(t, orderRepo.createdItems, 1)
}

func TestAddItemRejectsUnavailableMenuItem(t *testing.T) {
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Seasonal Special", IsAvailable: false},
		},
	}
	svc := &orderService{orderRepo: &fakeOrderRepo{}, menuRepo: menuRepo}

	_, err := svc.addItemTx(nil, 1, "ORD-TEST", CreateOrderItemRequest{MenuItemID: 10, Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)

	_, err = svc.addItemTx(nil, 1, "ORD-TEST", CreateOrderItemRequest{MenuItemID: 99, Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestAddItemDeductsTrackedIngredients(t *testing.T) {
	orderRepo := &fakeOrderRepo{}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", Price: decimal.NewFromInt(24), IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {
				{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromFloat(0.3)},
				{MenuItemID: 10, ProductID: 2, QuantityNeeded: decimal.NewFromFloat(0.2)},
			},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 10), testProduct(2, 10))
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}

	// Two portions consume twice the recipe quantities.
	_, err := svc.addItemTx(nil, 1, "ORD-TEST", CreateOrderItemRequest{MenuItemID: 10, Quantity: 2}, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 2)
	assert.Equal(t, models.MovementOut, movementRepo.created[0].MovementType)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromFloat(-0.6)))
	assert.True(t, productRepo.adjustments[2].Equal(decimal.NewFromFloat(-0.4)))
}

func TestAddItemRejectsInsufficientIngredientStock(t *testing.T) {
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", Price: decimal.NewFromInt(24), IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromInt(5)}},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 3))
	svc := &orderService{
		orderRepo:    &fakeOrderRepo{},
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: &fakeMovementRepo{},
	}

	_, err := svc.addItemTx(nil, 1, "ORD-TEST", CreateOrderItemRequest{MenuItemID: 10, Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestUpdateStatusConfirmOpensKitchenTicket(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderPending},
	}
	svc := &orderService{orderRepo: orderRepo, menuRepo: &fakeMenuRepo{}}

	err := svc.updateStatusTx(nil, 1, models.OrderConfirmed, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{models.OrderConfirmed}, orderRepo.statusUpdates)
	require.Len(t, orderRepo.tickets, 1)
	assert.Equal(t, models.TicketNew, orderRepo.tickets[0].Status)
	assert.NotEmpty(t, orderRepo.tickets[0].TicketNumber)
}

func TestUpdateStatusCancelRestoresTrackedStock(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderConfirmed},
		orderItems: []models.OrderItem{
			{OrderID: 1, MenuItemID: 10, Quantity: 2},
		},
	}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromFloat(0.3)}},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 5))
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}

	err := svc.updateStatusTx(nil, 1, models.OrderCancelled, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 1)
	assert.Equal(t, models.MovementReturn, movementRepo.created[0].MovementType)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromFloat(0.6)))
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderPaid},
	}
	svc := &orderService{orderRepo: orderRepo}

	err := svc.updateStatusTx(nil, 1, models.OrderConfirmed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, orderRepo.statusUpdates)
}

func TestMarkPaidPostsSaleToLedger(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{
			ID:          1,
			OrderNumber: "ORD-TEST",
			Status:      models.OrderServed,
			TotalAmount: decimal.NewFromFloat(42.9),
		},
	}
	accountingRepo := &fakeAccountingRepo{
		categories: []models.AccountCategory{{ID: 7, AccountType: models.AccountRevenue}},
	}
	svc := &orderService{orderRepo: orderRepo, accountingRepo: accountingRepo}

	err := svc.markPaidTx(nil, 1, models.PaymentCard, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{models.OrderPaid}, orderRepo.statusUpdates)
	require.Len(t, accountingRepo.transactions, 1)
	txn := accountingRepo.transactions[0]
	assert.Equal(t, models.TransactionIncome, txn.TransactionType)
	assert.Equal(t, int64(7), txn.CategoryID)
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(42.9)))
}

func TestMarkPaidSkipsLedgerWithoutRevenueCategory(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderServed},
	}
	accountingRepo := &fakeAccountingRepo{}
	svc := &orderService{orderRepo: orderRepo, accountingRepo: accountingRepo}

	err := svc.markPaidTx(nil, 1, models.PaymentCash, nil)

	// The order still flips to PAID; only the ledger entry is skipped.
	require.NoError(t, err)
	assert.Equal(t, []string{models.OrderPaid}, orderRepo.statusUpdates)
	assert.Empty(t, accountingRepo.transactions)
}

func TestMarkPaidRequiresServedOrder(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderPreparing},
	}
	svc := &orderService{orderRepo: orderRepo, accountingRepo: &fakeAccountingRepo{}}

	err := svc.markPaidTx(nil, 1, models.PaymentCash, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionTicketPushesOrderForward(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderConfirmed},
		ticketByID: map[int64]*models.KitchenTicket{
			5: {ID: 5, OrderID: 1, Status: models.TicketNew},
		},
	}
	svc := &orderService{orderRepo: orderRepo}

	ticket, err := svc.transitionTicketTx(nil, 5, models.TicketInProgress, models.OrderPreparing)

	require.NoError(t, err)
	assert.Equal(t, models.TicketInProgress, ticket.Status)
	assert.NotNil(t, ticket.StartedAt)
	assert.Equal(t, []string{models.TicketInProgress}, orderRepo.ticketUpdates)
	assert.Equal(t, []string{models.OrderPreparing}, orderRepo.statusUpdates)
}

func TestUpdateItemQuantityIncreaseDeductsStock(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderPending},
		itemByID: map[int64]*models.OrderItem{
			7: {ID: 7, OrderID: 1, MenuItemID: 10, Quantity: 1},
		},
	}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromFloat(0.3)}},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 5))
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}

	// Growing from 1 to 3 portions consumes two extra recipes.
	_, err := svc.updateItemQuantityTx(nil, 1, 7, 3, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), orderRepo.quantityUpdates[7])
	require.Len(t, movementRepo.created, 1)
	assert.Equal(t, models.MovementOut, movementRepo.created[0].MovementType)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromFloat(-0.6)))
}

func TestUpdateItemQuantityDecreaseReturnsStock(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderConfirmed},
		itemByID: map[int64]*models.OrderItem{
			7: {ID: 7, OrderID: 1, MenuItemID: 10, Quantity: 3},
		},
	}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromFloat(0.3)}},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 5))
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}

	_, err := svc.updateItemQuantityTx(nil, 1, 7, 1, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1), orderRepo.quantityUpdates[7])
	require.Len(t, movementRepo.created, 1)
	assert.Equal(t, models.MovementReturn, movementRepo.created[0].MovementType)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromFloat(0.6)))
}

func TestUpdateItemQuantityGuards(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderServed},
		itemByID: map[int64]*models.OrderItem{
			7: {ID: 7, OrderID: 1, MenuItemID: 10, Quantity: 1},
		},
	}
	svc := &orderService{orderRepo: orderRepo, menuRepo: &fakeMenuRepo{}}

	_, err := svc.updateItemQuantityTx(nil, 1, 7, 2, nil)
	assert.ErrorIs(t, err, ErrOrderNotEditable)

	orderRepo.order.Status = models.OrderPending
	_, err = svc.updateItemQuantityTx(nil, 1, 99, 2, nil)
	assert.ErrorIs(t, err, ErrOrderItemNotFound)

	// An item belonging to another order is not reachable through this one.
	orderRepo.itemByID[7].OrderID = 2
	_, err = svc.updateItemQuantityTx(nil, 1, 7, 2, nil)
	assert.ErrorIs(t, err, ErrOrderItemNotFound)
}

func TestDeleteOrderPendingRestoresStock(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderPending},
		orderItems: []models.OrderItem{
			{OrderID: 1, MenuItemID: 10, Quantity: 2},
		},
	}
	menuRepo := &fakeMenuRepo{
		items: map[int64]*models.MenuItem{
			10: {ID: 10, Name: "Steak Frites", IsAvailable: true, TrackInventory: true},
		},
		ingredients: map[int64][]models.MenuItemIngredient{
			10: {{MenuItemID: 10, ProductID: 1, QuantityNeeded: decimal.NewFromFloat(0.3)}},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 5))
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}

	err := svc.deleteOrderTx(nil, 1, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderRepo.deletedOrders)
	require.Len(t, movementRepo.created, 1)
	assert.Equal(t, models.MovementReturn, movementRepo.created[0].MovementType)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromFloat(0.6)))
}

func TestDeleteOrderCancelledSkipsStockReturn(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, OrderNumber: "ORD-TEST", Status: models.OrderCancelled},
	}
	movementRepo := &fakeMovementRepo{}
	svc := &orderService{orderRepo: orderRepo, movementRepo: movementRepo}

	err := svc.deleteOrderTx(nil, 1, nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderRepo.deletedOrders)
	assert.Empty(t, movementRepo.created)
}

func TestDeleteOrderRejectsActiveOrder(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderServed},
	}
	svc := &orderService{orderRepo: orderRepo}

	err := svc.deleteOrderTx(nil, 1, nil)
	assert.ErrorIs(t, err, ErrOrderNotEditable)
	assert.Empty(t, orderRepo.deletedOrders)
}

func TestTransitionTicketRejectsSkippedState(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		order: &models.Order{ID: 1, Status: models.OrderConfirmed},
		ticketByID: map[int64]*models.KitchenTicket{
			5: {ID: 5, OrderID: 1, Status: models.TicketNew},
		},
	}
	svc := &orderService{orderRepo: orderRepo}

	_, err := svc.transitionTicketTx(nil, 5, models.TicketCompleted, models.OrderReady)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, orderRepo.ticketUpdates)
}
