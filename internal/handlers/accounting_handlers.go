package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccountingHandler holds the accounting service.
type AccountingHandler struct {
	accountingService services.AccountingService
}

// NewAccountingHandler creates a new AccountingHandler.
func NewAccountingHandler(as services.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: as}
}

// --- Account Categories ---

func (h *AccountingHandler) CreateCategory(c *gin.Context) {
	var category models.AccountCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.accountingService.CreateCategory(&category); err != nil {
		utils.LogError(err, "CreateCategory: Error from accountingService.CreateCategory")
		if errors.Is(err, services.ErrInvalidAccountType) {
			respondBadRequest(c, "Invalid account type.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Category code already exists.", err)
		} else {
			respondInternal(c, "Failed to create account category.")
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *AccountingHandler) GetCategories(c *gin.Context) {
	categories, err := h.accountingService.GetCategories(queryStringPtr(c, "account_type"))
	if err != nil {
		utils.LogError(err, "GetCategories: Error from accountingService.GetCategories")
		if errors.Is(err, services.ErrInvalidAccountType) {
			respondBadRequest(c, "Invalid account type.", err)
		} else {
			respondInternal(c, "Failed to fetch account categories.")
		}
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *AccountingHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var category models.AccountCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	category.ID = id
	if err := h.accountingService.UpdateCategory(&category); err != nil {
		utils.LogError(err, "UpdateCategory: Error from accountingService.UpdateCategory")
		if errors.Is(err, services.ErrAccountCategoryNotFound) {
			respondNotFound(c, "Account category not found.", err)
		} else if errors.Is(err, services.ErrInvalidAccountType) {
			respondBadRequest(c, "Invalid account type.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Category code already exists.", err)
		} else {
			respondInternal(c, "Failed to update account category.")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *AccountingHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.accountingService.DeleteCategory(id); err != nil {
		utils.LogError(err, "DeleteCategory: Error from accountingService.DeleteCategory")
		if errors.Is(err, services.ErrAccountCategoryNotFound) {
			respondNotFound(c, "Account category not found.", err)
		} else if errors.Is(err, services.ErrAccountCategoryInUse) {
			respondConflict(c, "Category has transactions or budgets.", err)
		} else {
			respondInternal(c, "Failed to delete account category.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account category deleted successfully"})
}

// --- Transactions ---

// RecordTransaction posts a manual ledger entry.
func (h *AccountingHandler) RecordTransaction(c *gin.Context) {
	var req services.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	txn, err := h.accountingService.RecordTransaction(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "RecordTransaction: Error from accountingService.RecordTransaction")
		if errors.Is(err, services.ErrAccountCategoryNotFound) {
			respondNotFound(c, "Account category not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to record transaction.")
		}
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *AccountingHandler) GetTransactions(c *gin.Context) {
	var filters models.TransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	transactions, total, err := h.accountingService.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from accountingService.GetTransactions")
		respondInternal(c, "Failed to fetch transactions.")
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      transactions,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *AccountingHandler) GetTransactionByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	txn, err := h.accountingService.GetTransactionByID(id)
	if err != nil {
		utils.LogError(err, "GetTransactionByID: Error from accountingService.GetTransactionByID")
		if errors.Is(err, services.ErrTransactionNotFound) {
			respondNotFound(c, "Transaction not found.", err)
		} else {
			respondInternal(c, "Failed to fetch transaction.")
		}
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *AccountingHandler) UpdateTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var txn models.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	txn.ID = id
	if err := h.accountingService.UpdateTransaction(&txn); err != nil {
		utils.LogError(err, "UpdateTransaction: Error from accountingService.UpdateTransaction")
		if errors.Is(err, services.ErrTransactionNotFound) {
			respondNotFound(c, "Transaction not found.", err)
		} else if errors.Is(err, services.ErrAccountCategoryNotFound) {
			respondNotFound(c, "Account category not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update transaction.")
		}
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *AccountingHandler) DeleteTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.accountingService.DeleteTransaction(id); err != nil {
		utils.LogError(err, "DeleteTransaction: Error from accountingService.DeleteTransaction")
		if errors.Is(err, services.ErrTransactionNotFound) {
			respondNotFound(c, "Transaction not found.", err)
		} else {
			respondInternal(c, "Failed to delete transaction.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetFinancialSummary totals income and expense over a date window.
func (h *AccountingHandler) GetFinancialSummary(c *gin.Context) {
	summary, err := h.accountingService.GetFinancialSummary(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		utils.LogError(err, "GetFinancialSummary: Error from accountingService.GetFinancialSummary")
		if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to build financial summary.")
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- Budgets ---

func (h *AccountingHandler) CreateBudget(c *gin.Context) {
	var budget models.Budget
	if err := c.ShouldBindJSON(&budget); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.accountingService.CreateBudget(&budget); err != nil {
		utils.LogError(err, "CreateBudget: Error from accountingService.CreateBudget")
		if errors.Is(err, services.ErrAccountCategoryNotFound) {
			respondNotFound(c, "Account category not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Budget already exists for this category and period.", err)
		} else if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidPeriod) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create budget.")
		}
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// GetBudgets lists budgets with recomputed actuals and variance.
func (h *AccountingHandler) GetBudgets(c *gin.Context) {
	reports, err := h.accountingService.GetBudgets(queryIntPtr(c, "year"))
	if err != nil {
		utils.LogError(err, "GetBudgets: Error from accountingService.GetBudgets")
		respondInternal(c, "Failed to fetch budgets.")
		return
	}
	if reports == nil {
		reports = []services.BudgetReport{}
	}
	c.JSON(http.StatusOK, reports)
}

func (h *AccountingHandler) GetBudgetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.accountingService.GetBudgetByID(id)
	if err != nil {
		utils.LogError(err, "GetBudgetByID: Error from accountingService.GetBudgetByID")
		if errors.Is(err, services.ErrBudgetNotFound) {
			respondNotFound(c, "Budget not found.", err)
		} else {
			respondInternal(c, "Failed to fetch budget.")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AccountingHandler) UpdateBudget(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var budget models.Budget
	if err := c.ShouldBindJSON(&budget); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	budget.ID = id
	if err := h.accountingService.UpdateBudget(&budget); err != nil {
		utils.LogError(err, "UpdateBudget: Error from accountingService.UpdateBudget")
		if errors.Is(err, services.ErrBudgetNotFound) {
			respondNotFound(c, "Budget not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Budget already exists for this category and period.", err)
		} else if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidPeriod) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update budget.")
		}
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *AccountingHandler) DeleteBudget(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.accountingService.DeleteBudget(id); err != nil {
		utils.LogError(err, "DeleteBudget: Error from accountingService.DeleteBudget")
		if errors.Is(err, services.ErrBudgetNotFound) {
			respondNotFound(c, "Budget not found.", err)
		} else {
			respondInternal(c, "Failed to delete budget.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
