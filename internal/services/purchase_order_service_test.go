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

type fakePORepo struct {
	repositories.PurchaseOrderRepository
	po             *models.PurchaseOrder
	items          []models.PurchaseOrderItem
	receivedQtys   map[int64]decimal.Decimal
	statusUpdates  []string
	actualDelivery *time.Time
}

func (r *fakePORepo) GetPurchaseOrderByID(_ int64) (*models.PurchaseOrder, error) {
	if r.po == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.po
	return &copied, nil
}

func (r *fakePORepo) GetPurchaseOrderItems(_ int64) ([]models.PurchaseOrderItem, error) {
	return r.items, nil
}

func (r *fakePORepo) SetItemReceivedQuantity(_ repositories.SQLExecutor, itemID int64, received decimal.Decimal) error {
	if r.receivedQtys == nil {
		r.receivedQtys = map[int64]decimal.Decimal{}
	}
	r.receivedQtys[itemID] = received
	return nil
}

func (r *fakePORepo) UpdatePurchaseOrderStatus(_ repositories.SQLExecutor, _ int64, status string, actualDelivery *time.Time) error {
	r.statusUpdates = append(r.statusUpdates, status)
	r.actualDelivery = actualDelivery
	return nil
}

func pendingPO() *models.PurchaseOrder {
	return &models.PurchaseOrder{
		ID:          1,
		OrderNumber: "PO-TEST",
		Status:      models.PurchaseOrderConfirmed,
	}
}

func TestReceiveItemsPartialDelivery(t *testing.T) {
	poRepo := &fakePORepo{
		po: pendingPO(),
		items: []models.PurchaseOrderItem{
			{ID: 1, PurchaseOrderID: 1, ProductID: 1, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(2.5)},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 3))
	movementRepo := &fakeMovementRepo{}
	svc := &purchaseOrderService{poRepo: poRepo, productRepo: productRepo, movementRepo: movementRepo}

	err := svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{
		{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(6)},
	}, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 1)
	assert.Equal(t, models.MovementIn, movementRepo.created[0].MovementType)
	assert.True(t, movementRepo.created[0].Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, movementRepo.created[0].UnitPrice.Equal(decimal.NewFromFloat(2.5)), "movement carries the line price, not the product price")
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromInt(6)))
	assert.True(t, poRepo.receivedQtys[1].Equal(decimal.NewFromInt(6)))
	// Partial delivery leaves the order open.
	assert.Empty(t, poRepo.statusUpdates)
}

func TestReceiveItemsFullDeliveryClosesOrder(t *testing.T) {
	poRepo := &fakePORepo{
		po: pendingPO(),
		items: []models.PurchaseOrderItem{
			{ID: 1, PurchaseOrderID: 1, ProductID: 1, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(2.5), ReceivedQuantity: decimal.NewFromInt(6)},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 9))
	movementRepo := &fakeMovementRepo{}
	svc := &purchaseOrderService{poRepo: poRepo, productRepo: productRepo, movementRepo: movementRepo}

	err := svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{
		{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(10)},
	}, nil)

	require.NoError(t, err)
	// Only the missing 4 units land in stock.
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromInt(4)))
	assert.Equal(t, []string{models.PurchaseOrderReceived}, poRepo.statusUpdates)
	require.NotNil(t, poRepo.actualDelivery)
}

func TestReceiveItemsRejectsShrinkingQuantity(t *testing.T) {
	poRepo := &fakePORepo{
		po: pendingPO(),
		items: []models.PurchaseOrderItem{
			{ID: 1, PurchaseOrderID: 1, ProductID: 1, Quantity: decimal.NewFromInt(10), ReceivedQuantity: decimal.NewFromInt(6)},
		},
	}
	svc := &purchaseOrderService{poRepo: poRepo, productRepo: newFakeProductRepo(), movementRepo: &fakeMovementRepo{}}

	err := svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{
		{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(5)},
	}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReceiveItemsRejectsClosedOrders(t *testing.T) {
	svc := &purchaseOrderService{productRepo: newFakeProductRepo(), movementRepo: &fakeMovementRepo{}}

	received := pendingPO()
	received.Status = models.PurchaseOrderReceived
	svc.poRepo = &fakePORepo{po: received}
	err := svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(1)}}, nil)
	assert.ErrorIs(t, err, ErrPOAlreadyReceived)

	cancelled := pendingPO()
	cancelled.Status = models.PurchaseOrderCancelled
	svc.poRepo = &fakePORepo{po: cancelled}
	err = svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(1)}}, nil)
	assert.ErrorIs(t, err, ErrPONotEditable)

	svc.poRepo = &fakePORepo{}
	err = svc.receiveItemsTx(nil, 99, []ReceiveItemRequest{{ItemID: 1, ReceivedQuantity: decimal.NewFromInt(1)}}, nil)
	assert.ErrorIs(t, err, ErrPurchaseOrderNotFound)
}

func TestReceiveItemsUnknownLine(t *testing.T) {
	poRepo := &fakePORepo{po: pendingPO()}
	svc := &purchaseOrderService{poRepo: poRepo, productRepo: newFakeProductRepo(), movementRepo: &fakeMovementRepo{}}

	err := svc.receiveItemsTx(nil, 1, []ReceiveItemRequest{
		{ItemID: 42, ReceivedQuantity: decimal.NewFromInt(1)},
	}, nil)
	assert.ErrorIs(t, err, ErrPOItemNotFound)
}
