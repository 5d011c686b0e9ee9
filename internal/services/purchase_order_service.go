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
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrPOItemNotFound        = errors.New("purchase order item not found")
	ErrPONotEditable         = errors.New("purchase order can no longer be edited")
	ErrPOAlreadyReceived     = errors.New("purchase order already received")
	ErrPOEmptyReceive        = errors.New("nothing to receive")
)

// CreatePurchaseOrderRequest creates a supplier order with its lines.
type CreatePurchaseOrderRequest struct {
	SupplierID           int64                     `json:"supplier_id" binding:"required"`
	ExpectedDeliveryDate *time.Time                `json:"expected_delivery_date,omitempty"`
	Notes                *string                   `json:"notes,omitempty"`
	Items                []CreatePurchaseOrderItem `json:"items" binding:"required,dive"`
}

// CreatePurchaseOrderItem is one requested line.
type CreatePurchaseOrderItem struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Notes     *string         `json:"notes,omitempty"`
}

// ReceiveItemRequest reports the delivered quantity for one line.
type ReceiveItemRequest struct {
	ItemID           int64           `json:"item_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity" binding:"required"`
}

// --- PurchaseOrderService Interface ---
type PurchaseOrderService interface {
	CreatePurchaseOrder(req CreatePurchaseOrderRequest, userID *int64) (*models.PurchaseOrder, error)
	GetPurchaseOrders(status *string) ([]models.PurchaseOrder, error)
	GetPurchaseOrderByID(id int64) (*models.PurchaseOrder, error)
	UpdateStatus(id int64, status string) (*models.PurchaseOrder, error)
	ReceiveItems(id int64, items []ReceiveItemRequest, userID *int64) (*models.PurchaseOrder, error)
	DeletePurchaseOrder(id int64) error
}

// --- purchaseOrderService Implementation ---
type purchaseOrderService struct {
	poRepo       repositories.PurchaseOrderRepository
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	db           *sql.DB
}

// NewPurchaseOrderService creates a new instance of PurchaseOrderService.
func NewPurchaseOrderService(
	por repositories.PurchaseOrderRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	db *sql.DB,
) PurchaseOrderService {
	return &purchaseOrderService{poRepo: por, productRepo: pr, movementRepo: mr, db: db}
}

func (s *purchaseOrderService) CreatePurchaseOrder(req CreatePurchaseOrderRequest, userID *int64) (*models.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: purchase order needs at least one item", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	po := &models.PurchaseOrder{
		OrderNumber:          utils.NewDocumentNumber("PO"),
		SupplierID:           req.SupplierID,
		Status:               models.PurchaseOrderDraft,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		CreatedBy:            userID,
	}

	for _, itemReq := range req.Items {
		if itemReq.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be positive", ErrValidation, itemReq.ProductID)
		}
		po.Items = append(po.Items, models.PurchaseOrderItem{
			ProductID: itemReq.ProductID,
			Quantity:  itemReq.Quantity,
			UnitPrice: itemReq.UnitPrice,
			Notes:     itemReq.Notes,
		})
	}
	po.CalculateTotal()

	if _, err := s.poRepo.CreatePurchaseOrder(tx, po); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
		if _, err := s.poRepo.CreatePurchaseOrderItem(tx, &po.Items[i]); err != nil {
			if errors.Is(err, repositories.ErrForeignKeyViolation) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to create purchase order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase order transaction: %w", err)
	}
	return po, nil
}

func (s *purchaseOrderService) GetPurchaseOrders(status *string) ([]models.PurchaseOrder, error) {
	return s.poRepo.GetPurchaseOrders(status)
}

func (s *purchaseOrderService) GetPurchaseOrderByID(id int64) (*models.PurchaseOrder, error) {
	po, err := s.poRepo.GetPurchaseOrderByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	items, err := s.poRepo.GetPurchaseOrderItems(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order items: %w", err)
	}
	po.Items = items
	return po, nil
}

// UpdateStatus moves the order along DRAFT -> SENT -> CONFIRMED, or to
// CANCELLED. RECEIVED is reached only through ReceiveItems.
func (s *purchaseOrderService) UpdateStatus(id int64, status string) (*models.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrderByID(id)
	if err != nil {
		return nil, err
	}
	if po.Status == models.PurchaseOrderReceived || po.Status == models.PurchaseOrderCancelled {
		return nil, ErrPONotEditable
	}

	switch status {
	case models.PurchaseOrderSent, models.PurchaseOrderConfirmed, models.PurchaseOrderCancelled:
	default:
		return nil, fmt.Errorf("%w: cannot move purchase order to %s directly", ErrValidation, status)
	}

	if err := s.poRepo.UpdatePurchaseOrderStatus(s.db, id, status, nil); err != nil {
		return nil, fmt.Errorf("failed to update purchase order status: %w", err)
	}
	po.Status = status
	return po, nil
}

// ReceiveItems records delivered quantities, appends one IN movement per
// received line and restocks the products, all in one transaction. Once
// every line is fully received the order flips to RECEIVED.
func (s *purchaseOrderService) ReceiveItems(id int64, items []ReceiveItemRequest, userID *int64) (*models.PurchaseOrder, error) {
	if len(items) == 0 {
		return nil, ErrPOEmptyReceive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.receiveItemsTx(tx, id, items, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit receive transaction: %w", err)
	}
	return s.GetPurchaseOrderByID(id)
}

func (s *purchaseOrderService) receiveItemsTx(exec repositories.SQLExecutor, id int64, items []ReceiveItemRequest, userID *int64) error {
	po, err := s.poRepo.GetPurchaseOrderByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPurchaseOrderNotFound
		}
		return fmt.Errorf("failed to fetch purchase order: %w", err)
	}
	if po.Status == models.PurchaseOrderReceived {
		return ErrPOAlreadyReceived
	}
	if po.Status == models.PurchaseOrderCancelled {
		return ErrPONotEditable
	}

	poItems, err := s.poRepo.GetPurchaseOrderItems(id)
	if err != nil {
		return fmt.Errorf("failed to fetch purchase order items: %w", err)
	}
	byID := make(map[int64]*models.PurchaseOrderItem, len(poItems))
	for i := range poItems {
		byID[poItems[i].ID] = &poItems[i]
	}

	reference := po.OrderNumber
	for _, recv := range items {
		line, ok := byID[recv.ItemID]
		if !ok {
			return fmt.Errorf("%w: item %d", ErrPOItemNotFound, recv.ItemID)
		}
		delta := recv.ReceivedQuantity.Sub(line.ReceivedQuantity)
		if delta.Sign() <= 0 {
			return fmt.Errorf("%w: received quantity for item %d must grow", ErrValidation, recv.ItemID)
		}

		if _, err := s.productRepo.GetProductForUpdate(exec, line.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product %d: %w", line.ProductID, err)
		}

		movement := &models.StockMovement{
			ProductID:    line.ProductID,
			MovementType: models.MovementIn,
			Quantity:     delta,
			UnitPrice:    line.UnitPrice,
			Reference:    &reference,
			Reason:       "Purchase order delivery",
			CreatedBy:    userID,
		}
		if _, err := s.movementRepo.CreateMovement(exec, movement); err != nil {
			return fmt.Errorf("failed to record delivery movement: %w", err)
		}
		if err := s.productRepo.AdjustProductQuantity(exec, line.ProductID, delta); err != nil {
			return fmt.Errorf("failed to restock product %d: %w", line.ProductID, err)
		}
		if err := s.poRepo.SetItemReceivedQuantity(exec, recv.ItemID, recv.ReceivedQuantity); err != nil {
			return fmt.Errorf("failed to update received quantity: %w", err)
		}
		line.ReceivedQuantity = recv.ReceivedQuantity
	}

	allReceived := true
	for i := range poItems {
		if !poItems[i].IsFullyReceived() {
			allReceived = false
			break
		}
	}
	if allReceived {
		now := time.Now()
		if err := s.poRepo.UpdatePurchaseOrderStatus(exec, id, models.PurchaseOrderReceived, &now); err != nil {
			return fmt.Errorf("failed to mark purchase order received: %w", err)
		}
	}
	return nil
}

func (s *purchaseOrderService) DeletePurchaseOrder(id int64) error {
	po, err := s.GetPurchaseOrderByID(id)
	if err != nil {
		return err
	}
	if po.Status != models.PurchaseOrderDraft && po.Status != models.PurchaseOrderCancelled {
		return ErrPONotEditable
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range po.Items {
		if err := s.poRepo.DeletePurchaseOrderItem(tx, po.Items[i].ID); err != nil {
			return fmt.Errorf("failed to delete purchase order item: %w", err)
		}
	}
	if err := s.poRepo.DeletePurchaseOrder(tx, id); err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	return tx.Commit()
}
