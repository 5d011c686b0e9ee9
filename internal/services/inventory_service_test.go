package services

import (
	"testing"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes embed the repository interface so only the methods a test touches
// need overriding; anything else panics loudly.

type fakeProductRepo struct {
	repositories.ProductRepository
	products    map[int64]*models.Product
	adjustments map[int64]decimal.Decimal
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products:    map[int64]*models.Product{},
		adjustments: map[int64]decimal.Decimal{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetProductForUpdate(_ repositories.SQLExecutor, id int64) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) AdjustProductQuantity(_ repositories.SQLExecutor, id int64, delta decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.QuantityInStock = p.QuantityInStock.Add(delta)
	r.adjustments[id] = r.adjustments[id].Add(delta)
	return nil
}

type fakeMovementRepo struct {
	repositories.StockMovementRepository
	created []*models.StockMovement
	byID    map[int64]*models.StockMovement
	deleted []int64
}

func (r *fakeMovementRepo) CreateMovement(_ repositories.SQLExecutor, m *models.StockMovement) (int64, error) {
	m.ID = int64(len(r.created) + 1)
	r.created = append(r.created, m)
	return m.ID, nil
}

func (r *fakeMovementRepo) GetMovementByID(id int64) (*models.StockMovement, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return m, nil
}

func (r *fakeMovementRepo) DeleteMovement(_ repositories.SQLExecutor, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func testProduct(id int64, stock float64) *models.Product {
	return &models.Product{
		ID:              id,
		Name:            "Tomatoes",
		Reference:       "VEG-001",
		Unit:            models.UnitKilogram,
		QuantityInStock: decimal.NewFromFloat(stock),
		UnitPrice:       decimal.NewFromFloat(2.5),
		IsActive:        true,
	}
}

func TestRecordMovementInAddsStock(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 10))
	movementRepo := &fakeMovementRepo{}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	movement, err := svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: models.MovementIn,
		Quantity:     decimal.NewFromInt(5),
		Reason:       "delivery",
	}, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 1)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromInt(5)))
	// Unit price defaults to the product's when the request omits it.
	assert.True(t, movement.UnitPrice.Equal(decimal.NewFromFloat(2.5)))
}

func TestRecordMovementOutSubtractsStock(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 10))
	movementRepo := &fakeMovementRepo{}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	_, err := svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: models.MovementOut,
		Quantity:     decimal.NewFromInt(4),
		Reason:       "kitchen",
	}, nil)

	require.NoError(t, err)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromInt(-4)))
}

func TestRecordMovementRejectsNegativeStock(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 3))
	movementRepo := &fakeMovementRepo{}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	_, err := svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: models.MovementOut,
		Quantity:     decimal.NewFromInt(5),
		Reason:       "kitchen",
	}, nil)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, movementRepo.created)
	assert.True(t, productRepo.adjustments[1].IsZero())
}

func TestRecordMovementValidation(t *testing.T) {
	svc := &inventoryService{productRepo: newFakeProductRepo(), movementRepo: &fakeMovementRepo{}}

	_, err := svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: "TELEPORT",
		Quantity:     decimal.NewFromInt(1),
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidMovementType)

	_, err = svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: models.MovementIn,
		Quantity:     decimal.Zero,
	}, nil)
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    99,
		MovementType: models.MovementIn,
		Quantity:     decimal.NewFromInt(1),
	}, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRecordMovementAdjustmentLeavesStockAlone(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 10))
	movementRepo := &fakeMovementRepo{}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	_, err := svc.recordMovementTx(nil, RecordMovementRequest{
		ProductID:    1,
		MovementType: models.MovementAdjustment,
		Quantity:     decimal.NewFromInt(2),
		Reason:       "count correction",
	}, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 1)
	_, adjusted := productRepo.adjustments[1]
	assert.False(t, adjusted, "adjustment entries must not touch the quantity")
}

func TestDeleteMovementReversesStock(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 15))
	movementRepo := &fakeMovementRepo{
		byID: map[int64]*models.StockMovement{
			7: {ID: 7, ProductID: 1, MovementType: models.MovementIn, Quantity: decimal.NewFromInt(5)},
		},
	}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	err := svc.deleteMovementTx(nil, 7)

	require.NoError(t, err)
	assert.Equal(t, []int64{7}, movementRepo.deleted)
	assert.True(t, productRepo.adjustments[1].Equal(decimal.NewFromInt(-5)))
}

func TestDeleteMovementKeepsAdjustments(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 15))
	movementRepo := &fakeMovementRepo{
		byID: map[int64]*models.StockMovement{
			7: {ID: 7, ProductID: 1, MovementType: models.MovementAdjustment, Quantity: decimal.NewFromInt(5)},
		},
	}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	err := svc.deleteMovementTx(nil, 7)

	assert.ErrorIs(t, err, ErrAdjustmentNotDeletable)
	assert.Empty(t, movementRepo.deleted)
}

func TestDeleteMovementRefusesNegativeReversal(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct(1, 2))
	movementRepo := &fakeMovementRepo{
		byID: map[int64]*models.StockMovement{
			7: {ID: 7, ProductID: 1, MovementType: models.MovementIn, Quantity: decimal.NewFromInt(5)},
		},
	}
	svc := &inventoryService{productRepo: productRepo, movementRepo: movementRepo}

	err := svc.deleteMovementTx(nil, 7)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, movementRepo.deleted)
}
