package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice, invoice item and
// payment database operations.
type InvoiceRepository interface {
	CreateInvoice(executor SQLExecutor, inv *models.Invoice) (int64, error)
	GetInvoices(status *string) ([]models.Invoice, error)
	GetInvoiceByID(id int64) (*models.Invoice, error)
	GetInvoiceForUpdate(executor SQLExecutor, id int64) (*models.Invoice, error)
	UpdateInvoice(executor SQLExecutor, inv *models.Invoice) error
	UpdateInvoiceTotals(executor SQLExecutor, inv *models.Invoice) error
	UpdateInvoicePayment(executor SQLExecutor, id int64, paidAmount decimal.Decimal, status string) error
	UpdateInvoiceStatus(executor SQLExecutor, id int64, status string) error
	DeleteInvoice(executor SQLExecutor, id int64) error
	GetOverdueCandidates(executor SQLExecutor, asOf time.Time) ([]models.Invoice, error)

	CreateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) (int64, error)
	GetInvoiceItems(invoiceID int64) ([]models.InvoiceItem, error)
	GetInvoiceItemsTx(executor SQLExecutor, invoiceID int64) ([]models.InvoiceItem, error)
	UpdateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) error
	DeleteInvoiceItem(executor SQLExecutor, id int64) error

	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPayments(invoiceID int64) ([]models.Payment, error)
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, invoice_number, customer_name, customer_email, customer_phone,
	customer_address, issue_date, due_date, subtotal, tax_rate, tax_amount, total_amount,
	paid_amount, status, notes, created_by, created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }, inv *models.Invoice) error {
	return row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &inv.CustomerEmail,
		&inv.CustomerPhone, &inv.CustomerAddress, &inv.IssueDate, &inv.DueDate, &inv.Subtotal,
		&inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount, &inv.PaidAmount, &inv.Status, &inv.Notes,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *invoiceRepository) CreateInvoice(executor SQLExecutor, inv *models.Invoice) (int64, error) {
	query := `INSERT INTO invoices (invoice_number, customer_name, customer_email, customer_phone,
	            customer_address, issue_date, due_date, subtotal, tax_rate, tax_amount,
	            total_amount, paid_amount, status, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, inv.InvoiceNumber, inv.CustomerName, inv.CustomerEmail,
		inv.CustomerPhone, inv.CustomerAddress, inv.IssueDate, inv.DueDate, inv.Subtotal,
		inv.TaxRate, inv.TaxAmount, inv.TotalAmount, inv.PaidAmount, inv.Status, inv.Notes,
		inv.CreatedBy, now, now).Scan(&inv.ID)
	if err != nil {
		return 0, translateError(err, "creating invoice")
	}
	return inv.ID, nil
}

func (r *invoiceRepository) GetInvoices(status *string) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
	          FROM invoices
	          WHERE ($1::text IS NULL OR status = $1)
	          ORDER BY issue_date DESC, id DESC`
	rows, err := r.db.Query(query, status)
	if err != nil {
		return nil, translateError(err, "listing invoices")
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		var inv models.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, translateError(err, "scanning invoice")
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepository) GetInvoiceByID(id int64) (*models.Invoice, error) {
	inv := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if err := scanInvoice(r.db.QueryRow(query, id), inv); err != nil {
		return nil, translateError(err, "getting invoice")
	}
	return inv, nil
}

// GetInvoiceForUpdate locks the invoice row so concurrent payments
// serialize on the paid amount.
func (r *invoiceRepository) GetInvoiceForUpdate(executor SQLExecutor, id int64) (*models.Invoice, error) {
	inv := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	if err := scanInvoice(executor.QueryRow(query, id), inv); err != nil {
		return nil, translateError(err, "locking invoice")
	}
	return inv, nil
}

func (r *invoiceRepository) UpdateInvoice(executor SQLExecutor, inv *models.Invoice) error {
	query := `UPDATE invoices
	          SET customer_name = $1, customer_email = $2, customer_phone = $3,
	              customer_address = $4, issue_date = $5, due_date = $6, tax_rate = $7,
	              notes = $8, updated_at = $9
	          WHERE id = $10`
	res, err := executor.Exec(query, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.CustomerAddress, inv.IssueDate, inv.DueDate, inv.TaxRate, inv.Notes, time.Now(), inv.ID)
	if err != nil {
		return translateError(err, "updating invoice")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) UpdateInvoiceTotals(executor SQLExecutor, inv *models.Invoice) error {
	query := `UPDATE invoices
	          SET subtotal = $1, tax_amount = $2, total_amount = $3, updated_at = $4
	          WHERE id = $5`
	res, err := executor.Exec(query, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, time.Now(), inv.ID)
	if err != nil {
		return translateError(err, "updating invoice totals")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) UpdateInvoicePayment(executor SQLExecutor, id int64, paidAmount decimal.Decimal, status string) error {
	res, err := executor.Exec(
		`UPDATE invoices SET paid_amount = $1, status = $2, updated_at = $3 WHERE id = $4`,
		paidAmount, status, time.Now(), id)
	if err != nil {
		return translateError(err, "updating invoice payment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) UpdateInvoiceStatus(executor SQLExecutor, id int64, status string) error {
	res, err := executor.Exec(
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return translateError(err, "updating invoice status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) DeleteInvoice(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting invoice")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOverdueCandidates returns unpaid, non-cancelled invoices past their
// due date for the overdue sweep.
func (r *invoiceRepository) GetOverdueCandidates(executor SQLExecutor, asOf time.Time) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
	          FROM invoices
	          WHERE due_date < $1 AND status IN ('DRAFT', 'SENT', 'PARTIALLY_PAID')
	          ORDER BY due_date`
	rows, err := executor.Query(query, asOf)
	if err != nil {
		return nil, translateError(err, "listing overdue candidates")
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		var inv models.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, translateError(err, "scanning overdue candidate")
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepository) CreateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) (int64, error) {
	query := `INSERT INTO invoice_items (invoice_id, description, quantity, unit_price)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, item.InvoiceID, item.Description, item.Quantity,
		item.UnitPrice).Scan(&item.ID)
	if err != nil {
		return 0, translateError(err, "creating invoice item")
	}
	return item.ID, nil
}

func (r *invoiceRepository) GetInvoiceItems(invoiceID int64) ([]models.InvoiceItem, error) {
	return r.GetInvoiceItemsTx(r.db, invoiceID)
}

// GetInvoiceItemsTx reads items through the given executor so total
// recomputation sees rows written earlier in the same transaction.
func (r *invoiceRepository) GetInvoiceItemsTx(executor SQLExecutor, invoiceID int64) ([]models.InvoiceItem, error) {
	query := `SELECT id, invoice_id, description, quantity, unit_price
	          FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := executor.Query(query, invoiceID)
	if err != nil {
		return nil, translateError(err, "listing invoice items")
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity,
			&item.UnitPrice); err != nil {
			return nil, translateError(err, "scanning invoice item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *invoiceRepository) UpdateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) error {
	res, err := executor.Exec(
		`UPDATE invoice_items SET description = $1, quantity = $2, unit_price = $3 WHERE id = $4`,
		item.Description, item.Quantity, item.UnitPrice, item.ID)
	if err != nil {
		return translateError(err, "updating invoice item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) DeleteInvoiceItem(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM invoice_items WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting invoice item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (payment_number, invoice_id, payment_date, amount,
	            payment_method, reference, notes, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	err := executor.QueryRow(query, payment.PaymentNumber, payment.InvoiceID, payment.PaymentDate,
		payment.Amount, payment.PaymentMethod, payment.Reference, payment.Notes, payment.CreatedBy,
		time.Now()).Scan(&payment.ID)
	if err != nil {
		return 0, translateError(err, "creating payment")
	}
	return payment.ID, nil
}

func (r *invoiceRepository) GetPayments(invoiceID int64) ([]models.Payment, error) {
	query := `SELECT id, payment_number, invoice_id, payment_date, amount, payment_method,
	            reference, notes, created_by, created_at
	          FROM payments WHERE invoice_id = $1 ORDER BY payment_date`
	rows, err := r.db.Query(query, invoiceID)
	if err != nil {
		return nil, translateError(err, "listing payments")
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.PaymentNumber, &p.InvoiceID, &p.PaymentDate, &p.Amount,
			&p.PaymentMethod, &p.Reference, &p.Notes, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, translateError(err, "scanning payment")
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
