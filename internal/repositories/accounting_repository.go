package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// AccountingRepository defines the interface for ledger, category and
// budget database operations.
type AccountingRepository interface {
	CreateCategory(executor SQLExecutor, category *models.AccountCategory) (int64, error)
	GetCategories(accountType *string) ([]models.AccountCategory, error)
	GetCategoryByID(id int64) (*models.AccountCategory, error)
	UpdateCategory(executor SQLExecutor, category *models.AccountCategory) error
	DeleteCategory(executor SQLExecutor, id int64) error

	CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetTransactionByID(id int64) (*models.Transaction, error)
	UpdateTransaction(executor SQLExecutor, txn *models.Transaction) error
	DeleteTransaction(executor SQLExecutor, id int64) error
	SumTransactions(transactionType string, categoryID *int64, from, to time.Time) (decimal.Decimal, error)

	CreateBudget(executor SQLExecutor, budget *models.Budget) (int64, error)
	GetBudgets(year *int) ([]models.Budget, error)
	GetBudgetByID(id int64) (*models.Budget, error)
	UpdateBudget(executor SQLExecutor, budget *models.Budget) error
	DeleteBudget(executor SQLExecutor, id int64) error
}

type accountingRepository struct {
	db *sql.DB
}

// NewAccountingRepository creates a new instance of AccountingRepository.
func NewAccountingRepository(db *sql.DB) AccountingRepository {
	return &accountingRepository{db: db}
}

func (r *accountingRepository) CreateCategory(executor SQLExecutor, category *models.AccountCategory) (int64, error) {
	query := `INSERT INTO account_categories (name, account_type, code, description, is_active,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, category.Name, category.AccountType, category.Code,
		category.Description, category.IsActive, now, now).Scan(&category.ID)
	if err != nil {
		return 0, translateError(err, "creating account category")
	}
	return category.ID, nil
}

func (r *accountingRepository) GetCategories(accountType *string) ([]models.AccountCategory, error) {
	query := `SELECT id, name, account_type, code, description, is_active, created_at, updated_at
	          FROM account_categories
	          WHERE ($1::text IS NULL OR account_type = $1)
	          ORDER BY code`
	rows, err := r.db.Query(query, accountType)
	if err != nil {
		return nil, translateError(err, "listing account categories")
	}
	defer rows.Close()

	categories := []models.AccountCategory{}
	for rows.Next() {
		var c models.AccountCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.AccountType, &c.Code, &c.Description, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning account category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *accountingRepository) GetCategoryByID(id int64) (*models.AccountCategory, error) {
	c := &models.AccountCategory{}
	query := `SELECT id, name, account_type, code, description, is_active, created_at, updated_at
	          FROM account_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.AccountType, &c.Code, &c.Description,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting account category")
	}
	return c, nil
}

func (r *accountingRepository) UpdateCategory(executor SQLExecutor, category *models.AccountCategory) error {
	query := `UPDATE account_categories
	          SET name = $1, account_type = $2, code = $3, description = $4, is_active = $5, updated_at = $6
	          WHERE id = $7`
	res, err := executor.Exec(query, category.Name, category.AccountType, category.Code,
		category.Description, category.IsActive, time.Now(), category.ID)
	if err != nil {
		return translateError(err, "updating account category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountingRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM account_categories WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting account category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const transactionColumns = `id, transaction_number, transaction_type, category_id, date, amount,
	payment_method, reference, description, notes, receipt_path, created_by, created_at, updated_at`

func (r *accountingRepository) CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions (transaction_number, transaction_type, category_id, date,
	            amount, payment_method, reference, description, notes, receipt_path, created_by,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, txn.TransactionNumber, txn.TransactionType, txn.CategoryID,
		txn.Date, txn.Amount, txn.PaymentMethod, txn.Reference, txn.Description, txn.Notes,
		txn.ReceiptPath, txn.CreatedBy, now, now).Scan(&txn.ID)
	if err != nil {
		return 0, translateError(err, "creating transaction")
	}
	return txn.ID, nil
}

func (r *accountingRepository) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + `, COUNT(*) OVER() AS total_count FROM transactions WHERE 1=1`)

	args := []interface{}{}
	argID := 1
	if filters.CategoryID != nil {
		sb.WriteString(fmt.Sprintf(" AND category_id = $%d", argID))
		args = append(args, *filters.CategoryID)
		argID++
	}
	if filters.TransactionType != nil {
		sb.WriteString(fmt.Sprintf(" AND transaction_type = $%d", argID))
		args = append(args, *filters.TransactionType)
		argID++
	}
	if filters.DateFrom != nil {
		sb.WriteString(fmt.Sprintf(" AND date >= $%d", argID))
		args = append(args, *filters.DateFrom)
		argID++
	}
	if filters.DateTo != nil {
		sb.WriteString(fmt.Sprintf(" AND date <= $%d", argID))
		args = append(args, *filters.DateTo)
		argID++
	}

	sb.WriteString(" ORDER BY date DESC, id DESC")
	if filters.PageSize > 0 {
		offset := (filters.Page - 1) * filters.PageSize
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, filters.PageSize, offset)
	}

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, 0, translateError(err, "listing transactions")
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	var total int64
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.TransactionNumber, &t.TransactionType, &t.CategoryID, &t.Date,
			&t.Amount, &t.PaymentMethod, &t.Reference, &t.Description, &t.Notes, &t.ReceiptPath,
			&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, translateError(err, "scanning transaction")
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}

func (r *accountingRepository) GetTransactionByID(id int64) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.TransactionNumber, &t.TransactionType,
		&t.CategoryID, &t.Date, &t.Amount, &t.PaymentMethod, &t.Reference, &t.Description, &t.Notes,
		&t.ReceiptPath, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting transaction")
	}
	return t, nil
}

func (r *accountingRepository) UpdateTransaction(executor SQLExecutor, txn *models.Transaction) error {
	query := `UPDATE transactions
	          SET transaction_type = $1, category_id = $2, date = $3, amount = $4,
	              payment_method = $5, reference = $6, description = $7, notes = $8,
	              receipt_path = $9, updated_at = $10
	          WHERE id = $11`
	res, err := executor.Exec(query, txn.TransactionType, txn.CategoryID, txn.Date, txn.Amount,
		txn.PaymentMethod, txn.Reference, txn.Description, txn.Notes, txn.ReceiptPath, time.Now(),
		txn.ID)
	if err != nil {
		return translateError(err, "updating transaction")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountingRepository) DeleteTransaction(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting transaction")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SumTransactions totals ledger amounts of one type over [from, to),
// optionally restricted to a category. Budget actuals are computed with
// this rather than a persisted running balance.
func (r *accountingRepository) SumTransactions(transactionType string, categoryID *int64, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
	          WHERE transaction_type = $1
	            AND ($2::bigint IS NULL OR category_id = $2)
	            AND date >= $3 AND date < $4`
	if err := r.db.QueryRow(query, transactionType, categoryID, from, to).Scan(&sum); err != nil {
		return decimal.Zero, translateError(err, "summing transactions")
	}
	return sum, nil
}

func (r *accountingRepository) CreateBudget(executor SQLExecutor, budget *models.Budget) (int64, error) {
	query := `INSERT INTO budgets (category_id, period, year, month, budgeted_amount, notes,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, budget.CategoryID, budget.Period, budget.Year, budget.Month,
		budget.BudgetedAmount, budget.Notes, now, now).Scan(&budget.ID)
	if err != nil {
		return 0, translateError(err, "creating budget")
	}
	return budget.ID, nil
}

func (r *accountingRepository) GetBudgets(year *int) ([]models.Budget, error) {
	query := `SELECT id, category_id, period, year, month, budgeted_amount, notes, created_at, updated_at
	          FROM budgets
	          WHERE ($1::int IS NULL OR year = $1)
	          ORDER BY year DESC, month DESC NULLS LAST`
	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, translateError(err, "listing budgets")
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Period, &b.Year, &b.Month, &b.BudgetedAmount,
			&b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning budget")
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *accountingRepository) GetBudgetByID(id int64) (*models.Budget, error) {
	b := &models.Budget{}
	query := `SELECT id, category_id, period, year, month, budgeted_amount, notes, created_at, updated_at
	          FROM budgets WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&b.ID, &b.CategoryID, &b.Period, &b.Year, &b.Month,
		&b.BudgetedAmount, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting budget")
	}
	return b, nil
}

func (r *accountingRepository) UpdateBudget(executor SQLExecutor, budget *models.Budget) error {
	query := `UPDATE budgets
	          SET category_id = $1, period = $2, year = $3, month = $4, budgeted_amount = $5,
	              notes = $6, updated_at = $7
	          WHERE id = $8`
	res, err := executor.Exec(query, budget.CategoryID, budget.Period, budget.Year, budget.Month,
		budget.BudgetedAmount, budget.Notes, time.Now(), budget.ID)
	if err != nil {
		return translateError(err, "updating budget")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountingRepository) DeleteBudget(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting budget")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
