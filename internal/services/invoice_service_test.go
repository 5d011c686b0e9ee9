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

type fakeInvoiceRepo struct {
	repositories.InvoiceRepository
	invoice      *models.Invoice
	items        []models.InvoiceItem
	payments     []*models.Payment
	paidAmounts  []decimal.Decimal
	paidStatuses []string
	updated      []*models.Invoice
	totalsWrites []*models.Invoice
	deleted      []int64
}

func (r *fakeInvoiceRepo) GetInvoiceForUpdate(_ repositories.SQLExecutor, _ int64) (*models.Invoice, error) {
	if r.invoice == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.invoice
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetInvoiceByID(_ int64) (*models.Invoice, error) {
	if r.invoice == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.invoice
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetInvoiceItems(_ int64) ([]models.InvoiceItem, error) {
	return r.items, nil
}

func (r *fakeInvoiceRepo) GetInvoiceItemsTx(_ repositories.SQLExecutor, _ int64) ([]models.InvoiceItem, error) {
	return r.items, nil
}

func (r *fakeInvoiceRepo) GetPayments(_ int64) ([]models.Payment, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) UpdateInvoice(_ repositories.SQLExecutor, inv *models.Invoice) error {
	copied := *inv
	r.updated = append(r.updated, &copied)
	return nil
}

func (r *fakeInvoiceRepo) UpdateInvoiceTotals(_ repositories.SQLExecutor, inv *models.Invoice) error {
	copied := *inv
	r.totalsWrites = append(r.totalsWrites, &copied)
	return nil
}

func (r *fakeInvoiceRepo) DeleteInvoice(_ repositories.SQLExecutor, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeInvoiceRepo) CreatePayment(_ repositories.SQLExecutor, p *models.Payment) (int64, error) {
	p.ID = int64(len(r.payments) + 1)
	r.payments = append(r.payments, p)
	return p.ID, nil
}

func (r *fakeInvoiceRepo) UpdateInvoicePayment(_ repositories.SQLExecutor, _ int64, paidAmount decimal.Decimal, status string) error {
	r.paidAmounts = append(r.paidAmounts, paidAmount)
	r.paidStatuses = append(r.paidStatuses, status)
	return nil
}

type fakeAccountingRepo struct {
	repositories.AccountingRepository
	categories   []models.AccountCategory
	transactions []*models.Transaction
}

func (r *fakeAccountingRepo) GetCategories(_ *string) ([]models.AccountCategory, error) {
	return r.categories, nil
}

func (r *fakeAccountingRepo) CreateTransaction(_ repositories.SQLExecutor, txn *models.Transaction) (int64, error) {
	txn.ID = int64(len(r.transactions) + 1)
	r.transactions = append(r.transactions, txn)
	return txn.ID, nil
}

func sentInvoice(total, paid int64) *models.Invoice {
	return &models.Invoice{
		ID:            1,
		InvoiceNumber: "FAC-TEST",
		CustomerName:  "Bistro Client",
		TotalAmount:   decimal.NewFromInt(total),
		PaidAmount:    decimal.NewFromInt(paid),
		Status:        models.InvoiceSent,
	}
}

func paymentRequest(amount int64) RecordPaymentRequest {
	return RecordPaymentRequest{
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: models.PaymentCard,
	}
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	invoice := sentInvoice(100, 0)
	invoice.Status = models.InvoiceDraft
	invoiceRepo := &fakeInvoiceRepo{
		invoice: invoice,
		items: []models.InvoiceItem{
			{InvoiceID: 1, Description: "Catering", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
	}
	svc := &invoiceService{invoiceRepo: invoiceRepo}

	err := svc.updateInvoiceTx(nil, 1, UpdateInvoiceRequest{
		CustomerName: "Bistro Client",
		IssueDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		TaxRate:      decimal.NewFromInt(20),
	})

	require.NoError(t, err)
	require.Len(t, invoiceRepo.totalsWrites, 1)
	totals := invoiceRepo.totalsWrites[0]
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(4)))
	assert.True(t, totals.TotalAmount.Equal(decimal.NewFromInt(24)))
}

func TestUpdateInvoiceRejectsPaidInvoice(t *testing.T) {
	invoice := sentInvoice(100, 100)
	invoice.Status = models.InvoicePaid
	invoiceRepo := &fakeInvoiceRepo{invoice: invoice}
	svc := &invoiceService{invoiceRepo: invoiceRepo}

	err := svc.updateInvoiceTx(nil, 1, UpdateInvoiceRequest{CustomerName: "Bistro Client"})
	assert.ErrorIs(t, err, ErrInvoiceNotEditable)
	assert.Empty(t, invoiceRepo.updated)
}

func TestDeleteInvoiceDraftOnly(t *testing.T) {
	draft := sentInvoice(100, 0)
	draft.Status = models.InvoiceDraft
	invoiceRepo := &fakeInvoiceRepo{invoice: draft}
	svc := &invoiceService{invoiceRepo: invoiceRepo}

	require.NoError(t, svc.DeleteInvoice(1))
	assert.Equal(t, []int64{1}, invoiceRepo.deleted)

	invoiceRepo.invoice = sentInvoice(100, 0)
	err := svc.DeleteInvoice(1)
	assert.ErrorIs(t, err, ErrInvoiceNotEditable)
	assert.Len(t, invoiceRepo.deleted, 1)
}

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: sentInvoice(100, 0)}
	accountingRepo := &fakeAccountingRepo{
		categories: []models.AccountCategory{{ID: 3, AccountType: models.AccountRevenue}},
	}
	svc := &invoiceService{invoiceRepo: invoiceRepo, accountingRepo: accountingRepo}

	err := svc.recordPaymentTx(nil, 1, paymentRequest(40), nil)
	require.NoError(t, err)
	require.Len(t, invoiceRepo.payments, 1)
	assert.Equal(t, []string{models.InvoicePartiallyPaid}, invoiceRepo.paidStatuses)
	assert.True(t, invoiceRepo.paidAmounts[0].Equal(decimal.NewFromInt(40)))

	invoiceRepo.invoice.PaidAmount = decimal.NewFromInt(40)
	err = svc.recordPaymentTx(nil, 1, paymentRequest(60), nil)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, invoiceRepo.paidStatuses[1])
	assert.True(t, invoiceRepo.paidAmounts[1].Equal(decimal.NewFromInt(100)))
}

func TestRecordPaymentPostsLedgerEntry(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: sentInvoice(100, 0)}
	accountingRepo := &fakeAccountingRepo{
		categories: []models.AccountCategory{{ID: 3, AccountType: models.AccountRevenue}},
	}
	svc := &invoiceService{invoiceRepo: invoiceRepo, accountingRepo: accountingRepo}

	err := svc.recordPaymentTx(nil, 1, paymentRequest(100), nil)
	require.NoError(t, err)
	require.Len(t, accountingRepo.transactions, 1)

	txn := accountingRepo.transactions[0]
	assert.Equal(t, models.TransactionIncome, txn.TransactionType)
	assert.Equal(t, int64(3), txn.CategoryID)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, txn.Reference)
	assert.Equal(t, "FAC-TEST", *txn.Reference)
}

func TestRecordPaymentSkipsLedgerWithoutRevenueCategory(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: sentInvoice(100, 0)}
	accountingRepo := &fakeAccountingRepo{}
	svc := &invoiceService{invoiceRepo: invoiceRepo, accountingRepo: accountingRepo}

	err := svc.recordPaymentTx(nil, 1, paymentRequest(100), nil)
	require.NoError(t, err)
	// The payment lands even when no ledger category is configured.
	require.Len(t, invoiceRepo.payments, 1)
	assert.Empty(t, accountingRepo.transactions)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: sentInvoice(100, 70)}
	svc := &invoiceService{invoiceRepo: invoiceRepo, accountingRepo: &fakeAccountingRepo{}}

	err := svc.recordPaymentTx(nil, 1, paymentRequest(40), nil)
	assert.ErrorIs(t, err, ErrOverpayment)
	assert.Empty(t, invoiceRepo.payments)
}

func TestRecordPaymentValidation(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: sentInvoice(100, 0)}
	svc := &invoiceService{invoiceRepo: invoiceRepo, accountingRepo: &fakeAccountingRepo{}}

	err := svc.recordPaymentTx(nil, 1, RecordPaymentRequest{Amount: decimal.Zero, PaymentMethod: models.PaymentCash}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.recordPaymentTx(nil, 1, RecordPaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: "IOU"}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	cancelled := sentInvoice(100, 0)
	cancelled.Status = models.InvoiceCancelled
	invoiceRepo.invoice = cancelled
	err = svc.recordPaymentTx(nil, 1, paymentRequest(10), nil)
	assert.ErrorIs(t, err, ErrInvoiceNotEditable)

	invoiceRepo.invoice = nil
	err = svc.recordPaymentTx(nil, 1, paymentRequest(10), nil)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
