package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// --- Product Categories ---

func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.inventoryService.CreateCategory(&category); err != nil {
		utils.LogError(err, "CreateCategory: Error from inventoryService.CreateCategory")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Category name already exists.", err)
		} else {
			respondInternal(c, "Failed to create category.")
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *InventoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.inventoryService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from inventoryService.GetCategories")
		respondInternal(c, "Failed to fetch categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	category.ID = id
	if err := h.inventoryService.UpdateCategory(&category); err != nil {
		utils.LogError(err, "UpdateCategory: Error from inventoryService.UpdateCategory")
		if errors.Is(err, services.ErrCategoryNotFound) {
			respondNotFound(c, "Category not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Category name already exists.", err)
		} else {
			respondInternal(c, "Failed to update category.")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteCategory(id); err != nil {
		utils.LogError(err, "DeleteCategory: Error from inventoryService.DeleteCategory")
		if errors.Is(err, services.ErrCategoryNotFound) {
			respondNotFound(c, "Category not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Category is still referenced by products.", err)
		} else {
			respondInternal(c, "Failed to delete category.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// --- Suppliers ---

func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.inventoryService.CreateSupplier(&supplier); err != nil {
		utils.LogError(err, "CreateSupplier: Error from inventoryService.CreateSupplier")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Supplier already exists.", err)
		} else {
			respondInternal(c, "Failed to create supplier.")
		}
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *InventoryHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.inventoryService.GetSuppliers()
	if err != nil {
		utils.LogError(err, "GetSuppliers: Error from inventoryService.GetSuppliers")
		respondInternal(c, "Failed to fetch suppliers.")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *InventoryHandler) GetSupplierByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	supplier, err := h.inventoryService.GetSupplierByID(id)
	if err != nil {
		utils.LogError(err, "GetSupplierByID: Error from inventoryService.GetSupplierByID")
		if errors.Is(err, services.ErrSupplierNotFound) {
			respondNotFound(c, "Supplier not found.", err)
		} else {
			respondInternal(c, "Failed to fetch supplier.")
		}
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	supplier.ID = id
	if err := h.inventoryService.UpdateSupplier(&supplier); err != nil {
		utils.LogError(err, "UpdateSupplier: Error from inventoryService.UpdateSupplier")
		if errors.Is(err, services.ErrSupplierNotFound) {
			respondNotFound(c, "Supplier not found.", err)
		} else {
			respondInternal(c, "Failed to update supplier.")
		}
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *InventoryHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteSupplier(id); err != nil {
		utils.LogError(err, "DeleteSupplier: Error from inventoryService.DeleteSupplier")
		if errors.Is(err, services.ErrSupplierNotFound) {
			respondNotFound(c, "Supplier not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Supplier is still referenced.", err)
		} else {
			respondInternal(c, "Failed to delete supplier.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

// --- Products ---

func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.inventoryService.CreateProduct(&product); err != nil {
		utils.LogError(err, "CreateProduct: Error from inventoryService.CreateProduct")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Product reference already exists.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create product.")
		}
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *InventoryHandler) GetProducts(c *gin.Context) {
	onlyActive := c.DefaultQuery("active", "true") != "false"
	products, err := h.inventoryService.GetProducts(onlyActive)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from inventoryService.GetProducts")
		respondInternal(c, "Failed to fetch products.")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.inventoryService.GetProductByID(id)
	if err != nil {
		utils.LogError(err, "GetProductByID: Error from inventoryService.GetProductByID")
		if errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Product not found.", err)
		} else {
			respondInternal(c, "Failed to fetch product.")
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	product.ID = id
	if err := h.inventoryService.UpdateProduct(&product); err != nil {
		utils.LogError(err, "UpdateProduct: Error from inventoryService.UpdateProduct")
		if errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Product not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Product reference already exists.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update product.")
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeactivateProduct soft-deletes a product; history stays intact.
func (h *InventoryHandler) DeactivateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeactivateProduct(id); err != nil {
		utils.LogError(err, "DeactivateProduct: Error from inventoryService.DeactivateProduct")
		if errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Product not found.", err)
		} else {
			respondInternal(c, "Failed to deactivate product.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated successfully"})
}

func (h *InventoryHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.inventoryService.GetLowStockProducts()
	if err != nil {
		utils.LogError(err, "GetLowStockProducts: Error from inventoryService.GetLowStockProducts")
		respondInternal(c, "Failed to fetch low stock products.")
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- Stock Movements ---

// RecordMovement posts a stock movement and applies its delta to the
// product quantity.
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req services.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	movement, err := h.inventoryService.RecordMovement(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "RecordMovement: Error from inventoryService.RecordMovement")
		if errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Product not found.", err)
		} else if errors.Is(err, services.ErrInsufficientStock) {
			respondConflict(c, "Insufficient stock for this movement.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to record movement.")
		}
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *InventoryHandler) GetMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	movements, total, err := h.inventoryService.GetMovements(
		queryInt64Ptr(c, "product_id"),
		queryStringPtr(c, "movement_type"),
		page, pageSize,
	)
	if err != nil {
		utils.LogError(err, "GetMovements: Error from inventoryService.GetMovements")
		respondInternal(c, "Failed to fetch movements.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      movements,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// DeleteMovement removes a movement and reverses its stock effect.
func (h *InventoryHandler) DeleteMovement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteMovement(id); err != nil {
		utils.LogError(err, "DeleteMovement: Error from inventoryService.DeleteMovement")
		if errors.Is(err, services.ErrMovementNotFound) {
			respondNotFound(c, "Movement not found.", err)
		} else if errors.Is(err, services.ErrAdjustmentNotDeletable) {
			respondConflict(c, "Adjustment movements cannot be deleted.", err)
		} else if errors.Is(err, services.ErrInsufficientStock) {
			respondConflict(c, "Reversal would drive stock negative.", err)
		} else {
			respondInternal(c, "Failed to delete movement.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movement deleted and stock reversed"})
}
