package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
	"resto_backend/pkg/utils"
)

var (
	ErrAccountCategoryNotFound = errors.New("account category not found")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInvalidPeriod           = errors.New("invalid budget period")
	ErrAccountCategoryInUse    = errors.New("category has transactions or budgets")
)

// RecordTransactionRequest posts a manual ledger entry.
type RecordTransactionRequest struct {
	TransactionType string          `json:"transaction_type" binding:"required"`
	CategoryID      int64           `json:"category_id" binding:"required"`
	Date            *string         `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	Reference       *string         `json:"reference,omitempty"`
	Description     string          `json:"description" binding:"required"`
	Notes           *string         `json:"notes,omitempty"`
}

// BudgetReport is a budget row with its recomputed actuals.
type BudgetReport struct {
	Budget         models.Budget   `json:"budget"`
	ActualAmount   decimal.Decimal `json:"actual_amount"`
	Variance       decimal.Decimal `json:"variance"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
}

// FinancialSummary aggregates the ledger over a date window.
type FinancialSummary struct {
	DateFrom     string          `json:"date_from"`
	DateTo       string          `json:"date_to"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetResult    decimal.Decimal `json:"net_result"`
}

// --- AccountingService Interface ---
type AccountingService interface {
	CreateCategory(category *models.AccountCategory) error
	GetCategories(accountType *string) ([]models.AccountCategory, error)
	GetCategoryByID(id int64) (*models.AccountCategory, error)
	UpdateCategory(category *models.AccountCategory) error
	DeleteCategory(id int64) error

	RecordTransaction(req RecordTransactionRequest, userID *int64) (*models.Transaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetTransactionByID(id int64) (*models.Transaction, error)
	UpdateTransaction(txn *models.Transaction) error
	DeleteTransaction(id int64) error
	GetFinancialSummary(dateFrom, dateTo string) (*FinancialSummary, error)

	CreateBudget(budget *models.Budget) error
	GetBudgets(year *int) ([]BudgetReport, error)
	GetBudgetByID(id int64) (*BudgetReport, error)
	UpdateBudget(budget *models.Budget) error
	DeleteBudget(id int64) error
}

// --- accountingService Implementation ---
type accountingService struct {
	accountingRepo repositories.AccountingRepository
	db             *sql.DB
}

// NewAccountingService creates a new instance of AccountingService.
func NewAccountingService(ar repositories.AccountingRepository, db *sql.DB) AccountingService {
	return &accountingService{accountingRepo: ar, db: db}
}

func (s *accountingService) CreateCategory(category *models.AccountCategory) error {
	if !models.IsValidAccountType(category.AccountType) {
		return fmt.Errorf("%w: %s", ErrInvalidAccountType, category.AccountType)
	}
	category.IsActive = true
	if _, err := s.accountingRepo.CreateCategory(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: category code", ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *accountingService) GetCategories(accountType *string) ([]models.AccountCategory, error) {
	if accountType != nil && !models.IsValidAccountType(*accountType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccountType, *accountType)
	}
	return s.accountingRepo.GetCategories(accountType)
}

func (s *accountingService) GetCategoryByID(id int64) (*models.AccountCategory, error) {
	category, err := s.accountingRepo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *accountingService) UpdateCategory(category *models.AccountCategory) error {
	if !models.IsValidAccountType(category.AccountType) {
		return fmt.Errorf("%w: %s", ErrInvalidAccountType, category.AccountType)
	}
	if err := s.accountingRepo.UpdateCategory(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAccountCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: category code", ErrConflict)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (s *accountingService) DeleteCategory(id int64) error {
	if err := s.accountingRepo.DeleteCategory(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAccountCategoryNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrAccountCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *accountingService) RecordTransaction(req RecordTransactionRequest, userID *int64) (*models.Transaction, error) {
	if req.TransactionType != models.TransactionIncome && req.TransactionType != models.TransactionExpense {
		return nil, fmt.Errorf("%w: invalid transaction type %q", ErrValidation, req.TransactionType)
	}
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment method %q", ErrValidation, req.PaymentMethod)
	}

	date := time.Now()
	if req.Date != nil {
		parsed, err := parseDay(*req.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	if _, err := s.accountingRepo.GetCategoryByID(req.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	txn := &models.Transaction{
		TransactionNumber: utils.NewDocumentNumber("TRX"),
		TransactionType:   req.TransactionType,
		CategoryID:        req.CategoryID,
		Date:              date,
		Amount:            req.Amount,
		PaymentMethod:     req.PaymentMethod,
		Reference:         req.Reference,
		Description:       req.Description,
		Notes:             req.Notes,
		CreatedBy:         userID,
	}
	if _, err := s.accountingRepo.CreateTransaction(s.db, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

func (s *accountingService) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return s.accountingRepo.GetTransactions(filters)
}

func (s *accountingService) GetTransactionByID(id int64) (*models.Transaction, error) {
	txn, err := s.accountingRepo.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (s *accountingService) UpdateTransaction(txn *models.Transaction) error {
	if txn.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !models.IsValidPaymentMethod(txn.PaymentMethod) {
		return fmt.Errorf("%w: invalid payment method %q", ErrValidation, txn.PaymentMethod)
	}
	if err := s.accountingRepo.UpdateTransaction(s.db, txn); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrAccountCategoryNotFound
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *accountingService) DeleteTransaction(id int64) error {
	if err := s.accountingRepo.DeleteTransaction(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// GetFinancialSummary totals income and expense over [dateFrom, dateTo].
func (s *accountingService) GetFinancialSummary(dateFrom, dateTo string) (*FinancialSummary, error) {
	from, err := parseDay(dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDay(dateTo)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date_to precedes date_from", ErrValidation)
	}
	// SumTransactions windows are half-open, so push the upper bound one
	// day past the requested (inclusive) end date.
	toExclusive := to.AddDate(0, 0, 1)

	income, err := s.accountingRepo.SumTransactions(models.TransactionIncome, nil, from, toExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	expense, err := s.accountingRepo.SumTransactions(models.TransactionExpense, nil, from, toExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expense: %w", err)
	}

	return &FinancialSummary{
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		TotalIncome:  income,
		TotalExpense: expense,
		NetResult:    income.Sub(expense),
	}, nil
}

func (s *accountingService) CreateBudget(budget *models.Budget) error {
	if err := s.validateBudget(budget); err != nil {
		return err
	}
	if _, err := s.accountingRepo.CreateBudget(s.db, budget); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: budget already exists for this category and period", ErrConflict)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrAccountCategoryNotFound
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (s *accountingService) GetBudgets(year *int) ([]BudgetReport, error) {
	budgets, err := s.accountingRepo.GetBudgets(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	reports := make([]BudgetReport, 0, len(budgets))
	for i := range budgets {
		report, err := s.buildBudgetReport(&budgets[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (s *accountingService) GetBudgetByID(id int64) (*BudgetReport, error) {
	budget, err := s.accountingRepo.GetBudgetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return s.buildBudgetReport(budget)
}

func (s *accountingService) UpdateBudget(budget *models.Budget) error {
	if err := s.validateBudget(budget); err != nil {
		return err
	}
	if err := s.accountingRepo.UpdateBudget(s.db, budget); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBudgetNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: budget already exists for this category and period", ErrConflict)
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

func (s *accountingService) DeleteBudget(id int64) error {
	if err := s.accountingRepo.DeleteBudget(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func (s *accountingService) validateBudget(budget *models.Budget) error {
	if !models.IsValidBudgetPeriod(budget.Period) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, budget.Period)
	}
	if budget.Period != models.BudgetYearly {
		if budget.Month == nil || *budget.Month < 1 || *budget.Month > 12 {
			return fmt.Errorf("%w: month is required for %s budgets", ErrValidation, budget.Period)
		}
	}
	if budget.BudgetedAmount.Sign() <= 0 {
		return fmt.Errorf("%w: budgeted amount must be positive", ErrValidation)
	}
	return nil
}

// buildBudgetReport recomputes actual spend for the budget's window. The
// ledger direction follows the category's account type: REVENUE tracks
// income, everything else tracks expense.
func (s *accountingService) buildBudgetReport(budget *models.Budget) (*BudgetReport, error) {
	transactionType := models.TransactionExpense
	if budget.Category != nil && budget.Category.AccountType == models.AccountRevenue {
		transactionType = models.TransactionIncome
	}

	from, to := budget.PeriodWindow()
	actual, err := s.accountingRepo.SumTransactions(transactionType, &budget.CategoryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget actuals: %w", err)
	}

	return &BudgetReport{
		Budget:         *budget,
		ActualAmount:   actual,
		Variance:       budget.Variance(actual),
		PercentageUsed: budget.PercentageUsed(actual),
	}, nil
}
