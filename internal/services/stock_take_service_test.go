package services

import (
	"testing"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *fakeProductRepo) SetProductQuantity(_ repositories.SQLExecutor, id int64, quantity decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.QuantityInStock = quantity
	return nil
}

type fakeStockTakeRepo struct {
	repositories.StockTakeRepository
	stockTake     *models.StockTake
	items         []models.StockTakeItem
	statusUpdates []string
	deleted       []int64
}

func (r *fakeStockTakeRepo) DeleteStockTake(_ repositories.SQLExecutor, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeStockTakeRepo) GetStockTakeByID(_ int64) (*models.StockTake, error) {
	if r.stockTake == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.stockTake
	return &copied, nil
}

func (r *fakeStockTakeRepo) GetStockTakeItems(_ int64) ([]models.StockTakeItem, error) {
	return r.items, nil
}

func (r *fakeStockTakeRepo) UpdateStockTakeStatus(_ repositories.SQLExecutor, _ int64, status string) error {
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func TestCompleteStockTakeAppliesDiscrepancies(t *testing.T) {
	stockTakeRepo := &fakeStockTakeRepo{
		stockTake: &models.StockTake{ID: 1, InventoryNumber: "INV-TEST", Status: models.StockTakeInProgress},
		items: []models.StockTakeItem{
			// Counted short by 2.
			{ID: 1, StockTakeID: 1, ProductID: 1, TheoreticalQuantity: decimal.NewFromInt(10), PhysicalQuantity: decimal.NewFromInt(8)},
			// Counted exactly; no movement expected.
			{ID: 2, StockTakeID: 1, ProductID: 2, TheoreticalQuantity: decimal.NewFromInt(5), PhysicalQuantity: decimal.NewFromInt(5)},
		},
	}
	productRepo := newFakeProductRepo(testProduct(1, 10), testProduct(2, 5))
	movementRepo := &fakeMovementRepo{}
	svc := &stockTakeService{stockTakeRepo: stockTakeRepo, productRepo: productRepo, movementRepo: movementRepo}

	err := svc.completeStockTakeTx(nil, 1, nil)

	require.NoError(t, err)
	require.Len(t, movementRepo.created, 1)
	movement := movementRepo.created[0]
	assert.Equal(t, models.MovementAdjustment, movement.MovementType)
	assert.Equal(t, int64(1), movement.ProductID)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(2)), "adjustment quantity is the absolute discrepancy, got %s", movement.Quantity)
	require.NotNil(t, movement.Reference)
	assert.Equal(t, "INV-TEST", *movement.Reference)

	// Stock snaps to the counted quantity and the take is closed.
	assert.True(t, productRepo.products[1].QuantityInStock.Equal(decimal.NewFromInt(8)))
	assert.True(t, productRepo.products[2].QuantityInStock.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, []string{models.StockTakeCompleted}, stockTakeRepo.statusUpdates)
}

func TestCompleteStockTakeRejectsFinishedTake(t *testing.T) {
	stockTakeRepo := &fakeStockTakeRepo{
		stockTake: &models.StockTake{ID: 1, InventoryNumber: "INV-TEST", Status: models.StockTakeCompleted},
	}
	svc := &stockTakeService{stockTakeRepo: stockTakeRepo, productRepo: newFakeProductRepo(), movementRepo: &fakeMovementRepo{}}

	err := svc.completeStockTakeTx(nil, 1, nil)
	assert.ErrorIs(t, err, ErrStockTakeFinished)
	assert.Empty(t, stockTakeRepo.statusUpdates)
}

func TestCompleteStockTakeNotFound(t *testing.T) {
	svc := &stockTakeService{stockTakeRepo: &fakeStockTakeRepo{}}

	err := svc.completeStockTakeTx(nil, 99, nil)
	assert.ErrorIs(t, err, ErrStockTakeNotFound)
}

func TestDeleteStockTakePlanned(t *testing.T) {
	stockTakeRepo := &fakeStockTakeRepo{
		stockTake: &models.StockTake{ID: 1, InventoryNumber: "INV-TEST", Status: models.StockTakePlanned},
	}
	svc := &stockTakeService{stockTakeRepo: stockTakeRepo}

	require.NoError(t, svc.DeleteStockTake(1))
	assert.Equal(t, []int64{1}, stockTakeRepo.deleted)
}

func TestDeleteStockTakeRejectsInProgress(t *testing.T) {
	stockTakeRepo := &fakeStockTakeRepo{
		stockTake: &models.StockTake{ID: 1, InventoryNumber: "INV-TEST", Status: models.StockTakeInProgress},
	}
	svc := &stockTakeService{stockTakeRepo: stockTakeRepo}

	err := svc.DeleteStockTake(1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, stockTakeRepo.deleted)
}
