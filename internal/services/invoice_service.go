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
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceItemNotFound = errors.New("invoice item not found")
	ErrInvoiceNotEditable  = errors.New("invoice can no longer be edited")
	ErrOverpayment         = errors.New("payment exceeds remaining balance")
)

// CreateInvoiceRequest creates an invoice with its initial lines.
type CreateInvoiceRequest struct {
	CustomerName    string                     `json:"customer_name" binding:"required"`
	CustomerEmail   *string                    `json:"customer_email,omitempty"`
	CustomerPhone   *string                    `json:"customer_phone,omitempty"`
	CustomerAddress *string                    `json:"customer_address,omitempty"`
	IssueDate       time.Time                  `json:"issue_date" binding:"required"`
	DueDate         time.Time                  `json:"due_date" binding:"required"`
	TaxRate         decimal.Decimal            `json:"tax_rate"`
	Notes           *string                    `json:"notes,omitempty"`
	Items           []CreateInvoiceItemRequest `json:"items" binding:"required,dive"`
}

// UpdateInvoiceRequest amends the header of an editable invoice.
type UpdateInvoiceRequest struct {
	CustomerName    string          `json:"customer_name" binding:"required"`
	CustomerEmail   *string         `json:"customer_email,omitempty"`
	CustomerPhone   *string         `json:"customer_phone,omitempty"`
	CustomerAddress *string         `json:"customer_address,omitempty"`
	IssueDate       time.Time       `json:"issue_date" binding:"required"`
	DueDate         time.Time       `json:"due_date" binding:"required"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Notes           *string         `json:"notes,omitempty"`
}

// CreateInvoiceItemRequest is one invoice line.
type CreateInvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// RecordPaymentRequest registers a receipt against an invoice.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	CreateInvoice(req CreateInvoiceRequest, userID *int64) (*models.Invoice, error)
	GetInvoices(status *string) ([]models.Invoice, error)
	GetInvoiceByID(id int64) (*models.Invoice, error)
	UpdateInvoice(id int64, req UpdateInvoiceRequest) (*models.Invoice, error)
	DeleteInvoice(id int64) error
	SendInvoice(id int64) (*models.Invoice, error)
	CancelInvoice(id int64) error
	AddItem(invoiceID int64, req CreateInvoiceItemRequest) (*models.Invoice, error)
	UpdateItem(invoiceID int64, item *models.InvoiceItem) (*models.Invoice, error)
	RemoveItem(invoiceID, itemID int64) (*models.Invoice, error)
	RecordPayment(invoiceID int64, req RecordPaymentRequest, userID *int64) (*models.Invoice, error)
	MarkOverdueInvoices() (int, error)
}

// --- invoiceService Implementation ---
type invoiceService struct {
	invoiceRepo    repositories.InvoiceRepository
	accountingRepo repositories.AccountingRepository
	db             *sql.DB
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(ir repositories.InvoiceRepository, ar repositories.AccountingRepository, db *sql.DB) InvoiceService {
	return &invoiceService{invoiceRepo: ir, accountingRepo: ar, db: db}
}

func (s *invoiceService) CreateInvoice(req CreateInvoiceRequest, userID *int64) (*models.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: invoice needs at least one item", ErrValidation)
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date before issue date", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	inv := &models.Invoice{
		InvoiceNumber:   utils.NewDocumentNumber("FAC"),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		IssueDate:       req.IssueDate,
		DueDate:         req.DueDate,
		TaxRate:         req.TaxRate,
		PaidAmount:      decimal.Zero,
		Status:          models.InvoiceDraft,
		Notes:           req.Notes,
		CreatedBy:       userID,
	}
	for _, itemReq := range req.Items {
		if itemReq.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: itemReq.Description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
		})
	}
	inv.CalculateTotals()

	if _, err := s.invoiceRepo.CreateInvoice(tx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if _, err := s.invoiceRepo.CreateInvoiceItem(tx, &inv.Items[i]); err != nil {
			return nil, fmt.Errorf("failed to create invoice item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice transaction: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) GetInvoices(status *string) ([]models.Invoice, error) {
	return s.invoiceRepo.GetInvoices(status)
}

func (s *invoiceService) GetInvoiceByID(id int64) (*models.Invoice, error) {
	inv, err := s.invoiceRepo.GetInvoiceByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	items, err := s.invoiceRepo.GetInvoiceItems(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	inv.Items = items
	payments, err := s.invoiceRepo.GetPayments(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice payments: %w", err)
	}
	inv.Payments = payments
	return inv, nil
}

// UpdateInvoice rewrites the header of a draft or sent invoice and
// recomputes the totals, since the tax rate may have moved.
func (s *invoiceService) UpdateInvoice(id int64, req UpdateInvoiceRequest) (*models.Invoice, error) {
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date before issue date", ErrValidation)
	}
	if req.TaxRate.Sign() < 0 {
		return nil, fmt.Errorf("%w: tax rate cannot be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.updateInvoiceTx(tx, id, req); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice transaction: %w", err)
	}
	return s.GetInvoiceByID(id)
}

func (s *invoiceService) updateInvoiceTx(exec repositories.SQLExecutor, id int64, req UpdateInvoiceRequest) error {
	inv, err := s.lockEditableInvoice(exec, id)
	if err != nil {
		return err
	}

	inv.CustomerName = req.CustomerName
	inv.CustomerEmail = req.CustomerEmail
	inv.CustomerPhone = req.CustomerPhone
	inv.CustomerAddress = req.CustomerAddress
	inv.IssueDate = req.IssueDate
	inv.DueDate = req.DueDate
	inv.TaxRate = req.TaxRate
	inv.Notes = req.Notes
	if err := s.invoiceRepo.UpdateInvoice(exec, inv); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return s.recalculateTotalsTx(exec, inv)
}

// DeleteInvoice removes a draft outright; anything past draft stays on
// the books and can only be cancelled.
func (s *invoiceService) DeleteInvoice(id int64) error {
	inv, err := s.GetInvoiceByID(id)
	if err != nil {
		return err
	}
	if inv.Status != models.InvoiceDraft {
		return fmt.Errorf("%w: only draft invoices can be deleted", ErrInvoiceNotEditable)
	}
	if err := s.invoiceRepo.DeleteInvoice(s.db, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

func (s *invoiceService) SendInvoice(id int64) (*models.Invoice, error) {
	inv, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceDraft {
		return nil, ErrInvoiceNotEditable
	}
	if err := s.invoiceRepo.UpdateInvoiceStatus(s.db, id, models.InvoiceSent); err != nil {
		return nil, fmt.Errorf("failed to mark invoice sent: %w", err)
	}
	inv.Status = models.InvoiceSent
	return inv, nil
}

func (s *invoiceService) CancelInvoice(id int64) error {
	inv, err := s.GetInvoiceByID(id)
	if err != nil {
		return err
	}
	if inv.PaidAmount.Sign() > 0 {
		return fmt.Errorf("%w: invoice has payments", ErrInvoiceNotEditable)
	}
	if err := s.invoiceRepo.UpdateInvoiceStatus(s.db, id, models.InvoiceCancelled); err != nil {
		return fmt.Errorf("failed to cancel invoice: %w", err)
	}
	return nil
}

// AddItem appends a line and recomputes the totals in one transaction.
func (s *invoiceService) AddItem(invoiceID int64, req CreateInvoiceItemRequest) (*models.Invoice, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.lockEditableInvoice(tx, invoiceID)
	if err != nil {
		return nil, err
	}

	item := &models.InvoiceItem{
		InvoiceID:   invoiceID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}
	if _, err := s.invoiceRepo.CreateInvoiceItem(tx, item); err != nil {
		return nil, fmt.Errorf("failed to create invoice item: %w", err)
	}

	if err := s.recalculateTotalsTx(tx, inv); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit add-item transaction: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) UpdateItem(invoiceID int64, item *models.InvoiceItem) (*models.Invoice, error) {
	if item.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.lockEditableInvoice(tx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateInvoiceItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceItemNotFound
		}
		return nil, fmt.Errorf("failed to update invoice item: %w", err)
	}

	if err := s.recalculateTotalsTx(tx, inv); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update-item transaction: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) RemoveItem(invoiceID, itemID int64) (*models.Invoice, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.lockEditableInvoice(tx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.DeleteInvoiceItem(tx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceItemNotFound
		}
		return nil, fmt.Errorf("failed to delete invoice item: %w", err)
	}

	if err := s.recalculateTotalsTx(tx, inv); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit remove-item transaction: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

// lockEditableInvoice locks the row and rejects edits once money has
// moved or the invoice is closed.
func (s *invoiceService) lockEditableInvoice(exec repositories.SQLExecutor, invoiceID int64) (*models.Invoice, error) {
	inv, err := s.invoiceRepo.GetInvoiceForUpdate(exec, invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}
	if inv.Status != models.InvoiceDraft && inv.Status != models.InvoiceSent {
		return nil, ErrInvoiceNotEditable
	}
	return inv, nil
}

func (s *invoiceService) recalculateTotalsTx(exec repositories.SQLExecutor, inv *models.Invoice) error {
	items, err := s.invoiceRepo.GetInvoiceItemsTx(exec, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to reload invoice items: %w", err)
	}
	inv.Items = items
	inv.CalculateTotals()
	if err := s.invoiceRepo.UpdateInvoiceTotals(exec, inv); err != nil {
		return fmt.Errorf("failed to store invoice totals: %w", err)
	}
	return nil
}

// RecordPayment creates the payment, bumps the invoice paid amount and
// re-evaluates its status, then posts the receipt to the ledger, all in
// one transaction. A missing revenue category only skips the ledger
// entry.
func (s *invoiceService) RecordPayment(invoiceID int64, req RecordPaymentRequest, userID *int64) (*models.Invoice, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recordPaymentTx(tx, invoiceID, req, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) recordPaymentTx(exec repositories.SQLExecutor, invoiceID int64, req RecordPaymentRequest, userID *int64) error {
	if req.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	inv, err := s.invoiceRepo.GetInvoiceForUpdate(exec, invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to lock invoice: %w", err)
	}
	if inv.Status == models.InvoiceCancelled {
		return ErrInvoiceNotEditable
	}
	if req.Amount.GreaterThan(inv.RemainingBalance()) {
		return fmt.Errorf("%w: remaining %s, offered %s", ErrOverpayment, inv.RemainingBalance(), req.Amount)
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	payment := &models.Payment{
		PaymentNumber: utils.NewDocumentNumber("PAY"),
		InvoiceID:     invoiceID,
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}
	if _, err := s.invoiceRepo.CreatePayment(exec, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	inv.PaidAmount = inv.PaidAmount.Add(req.Amount)
	inv.UpdateStatus(time.Now())
	if err := s.invoiceRepo.UpdateInvoicePayment(exec, invoiceID, inv.PaidAmount, inv.Status); err != nil {
		return fmt.Errorf("failed to update invoice payment: %w", err)
	}

	revenueType := models.AccountRevenue
	categories, err := s.accountingRepo.GetCategories(&revenueType)
	if err != nil {
		return fmt.Errorf("failed to look up revenue categories: %w", err)
	}
	if len(categories) == 0 {
		utils.LogWarn("no revenue category configured, payment recorded without ledger entry", map[string]interface{}{
			"invoice_id": invoiceID,
		})
		return nil
	}

	txn := &models.Transaction{
		TransactionNumber: utils.NewDocumentNumber("TRX"),
		TransactionType:   models.TransactionIncome,
		CategoryID:        categories[0].ID,
		Date:              paymentDate,
		Amount:            req.Amount,
		PaymentMethod:     req.PaymentMethod,
		Reference:         &inv.InvoiceNumber,
		Description:       fmt.Sprintf("Invoice %s payment", inv.InvoiceNumber),
		CreatedBy:         userID,
	}
	if _, err := s.accountingRepo.CreateTransaction(exec, txn); err != nil {
		return fmt.Errorf("failed to post payment to ledger: %w", err)
	}
	return nil
}

// MarkOverdueInvoices sweeps unpaid invoices past their due date and
// flips them to OVERDUE. Returns how many changed.
func (s *invoiceService) MarkOverdueInvoices() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	candidates, err := s.invoiceRepo.GetOverdueCandidates(tx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	changed := 0
	for i := range candidates {
		inv := &candidates[i]
		inv.UpdateStatus(now)
		if inv.Status != models.InvoiceOverdue {
			continue
		}
		if err := s.invoiceRepo.UpdateInvoiceStatus(tx, inv.ID, models.InvoiceOverdue); err != nil {
			return 0, fmt.Errorf("failed to mark invoice %d overdue: %w", inv.ID, err)
		}
		changed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit overdue sweep: %w", err)
	}
	return changed, nil
}
