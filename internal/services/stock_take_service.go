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
	ErrStockTakeNotFound    = errors.New("stock take not found")
	ErrStockTakeItemMissing = errors.New("stock take item not found")
	ErrStockTakeFinished    = errors.New("stock take is already completed or cancelled")
)

// CountItemRequest sets the counted quantity for one line.
type CountItemRequest struct {
	ItemID           int64           `json:"item_id" binding:"required"`
	PhysicalQuantity decimal.Decimal `json:"physical_quantity"`
}

// --- StockTakeService Interface ---
type StockTakeService interface {
	StartStockTake(notes *string, userID *int64) (*models.StockTake, error)
	GetStockTakes() ([]models.StockTake, error)
	GetStockTakeByID(id int64) (*models.StockTake, error)
	RecordCounts(id int64, counts []CountItemRequest) error
	CompleteStockTake(id int64, userID *int64) (*models.StockTake, error)
	CancelStockTake(id int64) error
	DeleteStockTake(id int64) error
}

// --- stockTakeService Implementation ---
type stockTakeService struct {
	stockTakeRepo repositories.StockTakeRepository
	productRepo   repositories.ProductRepository
	movementRepo  repositories.StockMovementRepository
	db            *sql.DB
}

// NewStockTakeService creates a new instance of StockTakeService.
func NewStockTakeService(
	str repositories.StockTakeRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	db *sql.DB,
) StockTakeService {
	return &stockTakeService{stockTakeRepo: str, productRepo: pr, movementRepo: mr, db: db}
}

// StartStockTake opens a count over every active product, snapshotting
// the current stock as the theoretical quantity.
func (s *stockTakeService) StartStockTake(notes *string, userID *int64) (*models.StockTake, error) {
	products, err := s.productRepo.GetProducts(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for stock take: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	st := &models.StockTake{
		InventoryNumber: utils.NewDocumentNumber("INV"),
		InventoryDate:   time.Now(),
		Status:          models.StockTakeInProgress,
		Notes:           notes,
		CreatedBy:       userID,
	}
	if _, err := s.stockTakeRepo.CreateStockTake(tx, st); err != nil {
		return nil, fmt.Errorf("failed to create stock take: %w", err)
	}

	for i := range products {
		item := models.StockTakeItem{
			StockTakeID:         st.ID,
			ProductID:           products[i].ID,
			TheoreticalQuantity: products[i].QuantityInStock,
			PhysicalQuantity:    products[i].QuantityInStock,
		}
		if _, err := s.stockTakeRepo.CreateStockTakeItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create stock take line: %w", err)
		}
		st.Items = append(st.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock take transaction: %w", err)
	}
	return st, nil
}

func (s *stockTakeService) GetStockTakes() ([]models.StockTake, error) {
	return s.stockTakeRepo.GetStockTakes()
}

func (s *stockTakeService) GetStockTakeByID(id int64) (*models.StockTake, error) {
	st, err := s.stockTakeRepo.GetStockTakeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockTakeNotFound
		}
		return nil, fmt.Errorf("failed to get stock take: %w", err)
	}
	items, err := s.stockTakeRepo.GetStockTakeItems(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock take items: %w", err)
	}
	st.Items = items
	return st, nil
}

// RecordCounts updates physical quantities on an open count.
func (s *stockTakeService) RecordCounts(id int64, counts []CountItemRequest) error {
	st, err := s.GetStockTakeByID(id)
	if err != nil {
		return err
	}
	if st.Status != models.StockTakeInProgress && st.Status != models.StockTakePlanned {
		return ErrStockTakeFinished
	}

	known := make(map[int64]bool, len(st.Items))
	for i := range st.Items {
		known[st.Items[i].ID] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range counts {
		if !known[c.ItemID] {
			return fmt.Errorf("%w: item %d", ErrStockTakeItemMissing, c.ItemID)
		}
		if c.PhysicalQuantity.Sign() < 0 {
			return fmt.Errorf("%w: physical quantity cannot be negative", ErrValidation)
		}
		if err := s.stockTakeRepo.SetItemPhysicalQuantity(tx, c.ItemID, c.PhysicalQuantity); err != nil {
			return fmt.Errorf("failed to record count for item %d: %w", c.ItemID, err)
		}
	}
	return tx.Commit()
}

// CompleteStockTake closes the count. For every line with a discrepancy
// it writes an adjustment movement as the audit record and sets the
// product stock to the counted quantity, all in one transaction.
func (s *stockTakeService) CompleteStockTake(id int64, userID *int64) (*models.StockTake, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.completeStockTakeTx(tx, id, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock take completion: %w", err)
	}
	return s.GetStockTakeByID(id)
}

func (s *stockTakeService) completeStockTakeTx(exec repositories.SQLExecutor, id int64, userID *int64) error {
	st, err := s.stockTakeRepo.GetStockTakeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockTakeNotFound
		}
		return fmt.Errorf("failed to fetch stock take: %w", err)
	}
	if st.Status != models.StockTakeInProgress && st.Status != models.StockTakePlanned {
		return ErrStockTakeFinished
	}

	items, err := s.stockTakeRepo.GetStockTakeItems(id)
	if err != nil {
		return fmt.Errorf("failed to fetch stock take items: %w", err)
	}

	reference := st.InventoryNumber
	for i := range items {
		discrepancy := items[i].Discrepancy()
		if discrepancy.IsZero() {
			continue
		}

		product, err := s.productRepo.GetProductForUpdate(exec, items[i].ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product %d: %w", items[i].ProductID, err)
		}

		movement := &models.StockMovement{
			ProductID:    items[i].ProductID,
			MovementType: models.MovementAdjustment,
			Quantity:     discrepancy.Abs(),
			UnitPrice:    product.UnitPrice,
			Reference:    &reference,
			Reason:       fmt.Sprintf("Physical count discrepancy %s", discrepancy),
			CreatedBy:    userID,
		}
		if _, err := s.movementRepo.CreateMovement(exec, movement); err != nil {
			return fmt.Errorf("failed to record adjustment movement: %w", err)
		}
		if err := s.productRepo.SetProductQuantity(exec, items[i].ProductID, items[i].PhysicalQuantity); err != nil {
			return fmt.Errorf("failed to set counted quantity: %w", err)
		}
	}

	if err := s.stockTakeRepo.UpdateStockTakeStatus(exec, id, models.StockTakeCompleted); err != nil {
		return fmt.Errorf("failed to close stock take: %w", err)
	}
	return nil
}

func (s *stockTakeService) CancelStockTake(id int64) error {
	st, err := s.stockTakeRepo.GetStockTakeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockTakeNotFound
		}
		return fmt.Errorf("failed to fetch stock take: %w", err)
	}
	if st.Status == models.StockTakeCompleted || st.Status == models.StockTakeCancelled {
		return ErrStockTakeFinished
	}
	if err := s.stockTakeRepo.UpdateStockTakeStatus(s.db, id, models.StockTakeCancelled); err != nil {
		return fmt.Errorf("failed to cancel stock take: %w", err)
	}
	return nil
}

// DeleteStockTake removes a count that never ran. A completed take has
// already moved stock and stays as the audit trail; an in-progress one
// must be cancelled first.
func (s *stockTakeService) DeleteStockTake(id int64) error {
	st, err := s.stockTakeRepo.GetStockTakeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockTakeNotFound
		}
		return fmt.Errorf("failed to fetch stock take: %w", err)
	}
	if st.Status != models.StockTakePlanned && st.Status != models.StockTakeCancelled {
		return fmt.Errorf("%w: only planned or cancelled stock takes can be deleted", ErrConflict)
	}
	if err := s.stockTakeRepo.DeleteStockTake(s.db, id); err != nil {
		return fmt.Errorf("failed to delete stock take: %w", err)
	}
	return nil
}
