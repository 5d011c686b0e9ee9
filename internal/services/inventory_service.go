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
	ErrProductNotFound        = errors.New("product not found")
	ErrProductRefExists       = errors.New("product reference already exists")
	ErrCategoryNotFound       = errors.New("product category not found")
	ErrSupplierNotFound       = errors.New("supplier not found")
	ErrMovementNotFound       = errors.New("stock movement not found")
	ErrInsufficientStock      = errors.New("insufficient stock for movement")
	ErrInvalidMovementType    = errors.New("invalid movement type")
	ErrNonPositiveQuantity    = errors.New("movement quantity must be positive")
	ErrCategoryInUse          = errors.New("category is referenced by products")
	ErrSupplierInUse          = errors.New("supplier is referenced by products or orders")
	ErrAdjustmentNotDeletable = errors.New("adjustment movements cannot be deleted")
)

// RecordMovementRequest creates a ledger entry against a product.
type RecordMovementRequest struct {
	ProductID    int64           `json:"product_id" binding:"required"`
	MovementType string          `json:"movement_type" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Reference    *string         `json:"reference,omitempty"`
	Reason       string          `json:"reason" binding:"required"`
	Notes        *string         `json:"notes,omitempty"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CreateCategory(c *models.ProductCategory) error
	GetCategories() ([]models.ProductCategory, error)
	UpdateCategory(c *models.ProductCategory) error
	DeleteCategory(id int64) error

	CreateSupplier(sup *models.Supplier) error
	GetSuppliers() ([]models.Supplier, error)
	GetSupplierByID(id int64) (*models.Supplier, error)
	UpdateSupplier(sup *models.Supplier) error
	DeleteSupplier(id int64) error

	CreateProduct(p *models.Product) error
	GetProducts(onlyActive bool) ([]models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	UpdateProduct(p *models.Product) error
	DeactivateProduct(id int64) error
	GetLowStockProducts() ([]models.Product, error)

	RecordMovement(req RecordMovementRequest, userID *int64) (*models.StockMovement, error)
	GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error)
	DeleteMovement(id int64) error
}

// --- inventoryService Implementation ---
type inventoryService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	db           *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{productRepo: pr, movementRepo: mr, db: db}
}

func (s *inventoryService) CreateCategory(c *models.ProductCategory) error {
	if _, err := s.productRepo.CreateCategory(s.db, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: category name", ErrConflict)
		}
		return fmt.Errorf("failed to create product category: %w", err)
	}
	return nil
}

func (s *inventoryService) GetCategories() ([]models.ProductCategory, error) {
	return s.productRepo.GetCategories()
}

func (s *inventoryService) UpdateCategory(c *models.ProductCategory) error {
	if err := s.productRepo.UpdateCategory(s.db, c); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product category: %w", err)
	}
	return nil
}

func (s *inventoryService) DeleteCategory(id int64) error {
	if err := s.productRepo.DeleteCategory(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete product category: %w", err)
	}
	return nil
}

func (s *inventoryService) CreateSupplier(sup *models.Supplier) error {
	if _, err := s.productRepo.CreateSupplier(s.db, sup); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: supplier name", ErrConflict)
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

func (s *inventoryService) GetSuppliers() ([]models.Supplier, error) {
	return s.productRepo.GetSuppliers()
}

func (s *inventoryService) GetSupplierByID(id int64) (*models.Supplier, error) {
	sup, err := s.productRepo.GetSupplierByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return sup, nil
}

func (s *inventoryService) UpdateSupplier(sup *models.Supplier) error {
	if err := s.productRepo.UpdateSupplier(s.db, sup); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return nil
}

func (s *inventoryService) DeleteSupplier(id int64) error {
	if err := s.productRepo.DeleteSupplier(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrSupplierInUse
		}
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

func (s *inventoryService) CreateProduct(p *models.Product) error {
	if !models.IsValidProductUnit(p.Unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, p.Unit)
	}
	p.IsActive = true
	if _, err := s.productRepo.CreateProduct(s.db, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrProductRefExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *inventoryService) GetProducts(onlyActive bool) ([]models.Product, error) {
	return s.productRepo.GetProducts(onlyActive)
}

func (s *inventoryService) GetProductByID(id int64) (*models.Product, error) {
	p, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// UpdateProduct edits product metadata. The stock quantity is out of
// scope here; it only changes through movements.
func (s *inventoryService) UpdateProduct(p *models.Product) error {
	if !models.IsValidProductUnit(p.Unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, p.Unit)
	}
	if err := s.productRepo.UpdateProduct(s.db, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrProductRefExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (s *inventoryService) DeactivateProduct(id int64) error {
	if err := s.productRepo.DeactivateProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

func (s *inventoryService) GetLowStockProducts() ([]models.Product, error) {
	return s.productRepo.GetLowStockProducts()
}

// RecordMovement appends a ledger entry and applies its signed delta to
// the product stock in one transaction. The product row is locked first
// so concurrent movements serialize.
func (s *inventoryService) RecordMovement(req RecordMovementRequest, userID *int64) (*models.StockMovement, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	movement, err := s.recordMovementTx(tx, req, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movement transaction: %w", err)
	}
	return movement, nil
}

func (s *inventoryService) recordMovementTx(exec repositories.SQLExecutor, req RecordMovementRequest, userID *int64) (*models.StockMovement, error) {
	if !models.IsValidMovementType(req.MovementType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMovementType, req.MovementType)
	}
	if req.Quantity.Sign() <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	product, err := s.productRepo.GetProductForUpdate(exec, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product %d: %w", req.ProductID, err)
	}

	unitPrice := product.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}

	movement := &models.StockMovement{
		ProductID:    req.ProductID,
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
		UnitPrice:    unitPrice,
		Reference:    req.Reference,
		Reason:       req.Reason,
		Notes:        req.Notes,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
	}

	delta := movement.QuantityDelta()
	if delta.Sign() < 0 && product.QuantityInStock.Add(delta).Sign() < 0 {
		return nil, fmt.Errorf("%w: product %s has %s, movement needs %s",
			ErrInsufficientStock, product.Name, product.QuantityInStock, req.Quantity)
	}

	if _, err := s.movementRepo.CreateMovement(exec, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}
	if !delta.IsZero() {
		if err := s.productRepo.AdjustProductQuantity(exec, req.ProductID, delta); err != nil {
			return nil, fmt.Errorf("failed to apply stock delta: %w", err)
		}
	}
	return movement, nil
}

func (s *inventoryService) GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.movementRepo.GetMovements(productID, movementType, page, pageSize)
}

// DeleteMovement removes a ledger entry and reverses its stock effect in
// the same transaction, keeping the replay property intact. Adjustment
// entries are audit records of physical counts and stay immutable.
func (s *inventoryService) DeleteMovement(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.deleteMovementTx(tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *inventoryService) deleteMovementTx(exec repositories.SQLExecutor, id int64) error {
	movement, err := s.movementRepo.GetMovementByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMovementNotFound
		}
		return fmt.Errorf("failed to fetch movement for deletion: %w", err)
	}
	if movement.MovementType == models.MovementAdjustment {
		return ErrAdjustmentNotDeletable
	}

	product, err := s.productRepo.GetProductForUpdate(exec, movement.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to lock product %d: %w", movement.ProductID, err)
	}

	reversal := movement.QuantityDelta().Neg()
	if reversal.Sign() < 0 && product.QuantityInStock.Add(reversal).Sign() < 0 {
		return fmt.Errorf("%w: reversing movement %d would drive stock negative", ErrInsufficientStock, id)
	}

	if err := s.movementRepo.DeleteMovement(exec, id); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	if !reversal.IsZero() {
		if err := s.productRepo.AdjustProductQuantity(exec, movement.ProductID, reversal); err != nil {
			return fmt.Errorf("failed to reverse stock delta: %w", err)
		}
	}

	utils.LogWarn("stock movement deleted and reversed", map[string]interface{}{
		"movement_id": id,
		"product_id":  movement.ProductID,
	})
	return nil
}
