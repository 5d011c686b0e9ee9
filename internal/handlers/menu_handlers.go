package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// --- Menu Categories ---

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var category models.MenuCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.menuService.CreateCategory(&category); err != nil {
		utils.LogError(err, "CreateCategory: Error from menuService.CreateCategory")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Menu category already exists.", err)
		} else {
			respondInternal(c, "Failed to create menu category.")
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from menuService.GetCategories")
		respondInternal(c, "Failed to fetch menu categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var category models.MenuCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	category.ID = id
	if err := h.menuService.UpdateCategory(&category); err != nil {
		utils.LogError(err, "UpdateCategory: Error from menuService.UpdateCategory")
		if errors.Is(err, services.ErrMenuCategoryNotFound) {
			respondNotFound(c, "Menu category not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Menu category already exists.", err)
		} else {
			respondInternal(c, "Failed to update menu category.")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteCategory(id); err != nil {
		utils.LogError(err, "DeleteCategory: Error from menuService.DeleteCategory")
		if errors.Is(err, services.ErrMenuCategoryNotFound) {
			respondNotFound(c, "Menu category not found.", err)
		} else if errors.Is(err, services.ErrMenuCategoryInUse) {
			respondConflict(c, "Menu category still has items.", err)
		} else {
			respondInternal(c, "Failed to delete menu category.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu category deleted successfully"})
}

// --- Menu Items ---

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.menuService.CreateMenuItem(&item); err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuService.CreateMenuItem")
		if errors.Is(err, services.ErrMenuCategoryNotFound) {
			respondNotFound(c, "Menu category not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create menu item.")
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	availableOnly := c.Query("available") == "true"
	items, err := h.menuService.GetMenuItems(queryInt64Ptr(c, "category_id"), availableOnly)
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuService.GetMenuItems")
		respondInternal(c, "Failed to fetch menu items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.GetMenuItemByID(id)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error from menuService.GetMenuItemByID")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			respondNotFound(c, "Menu item not found.", err)
		} else {
			respondInternal(c, "Failed to fetch menu item.")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	item.ID = id
	if err := h.menuService.UpdateMenuItem(&item); err != nil {
		utils.LogError(err, "UpdateMenuItem: Error from menuService.UpdateMenuItem")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			respondNotFound(c, "Menu item not found.", err)
		} else if errors.Is(err, services.ErrMenuCategoryNotFound) {
			respondNotFound(c, "Menu category not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update menu item.")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// SetAvailability flips the 86'd flag on a menu item.
func (h *MenuHandler) SetAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.menuService.SetAvailability(id, *req.IsAvailable); err != nil {
		utils.LogError(err, "SetAvailability: Error from menuService.SetAvailability")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			respondNotFound(c, "Menu item not found.", err)
		} else {
			respondInternal(c, "Failed to update availability.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteMenuItem(id); err != nil {
		utils.LogError(err, "DeleteMenuItem: Error from menuService.DeleteMenuItem")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			respondNotFound(c, "Menu item not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Menu item appears on orders and cannot be deleted.", err)
		} else {
			respondInternal(c, "Failed to delete menu item.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// --- Ingredients ---

// AddIngredient links a stock product to a menu item recipe.
func (h *MenuHandler) AddIngredient(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var ing models.MenuItemIngredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	ing.MenuItemID = itemID

	if err := h.menuService.AddIngredient(&ing); err != nil {
		utils.LogError(err, "AddIngredient: Error from menuService.AddIngredient")
		if errors.Is(err, services.ErrMenuItemNotFound) || errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Menu item or product not found.", err)
		} else if errors.Is(err, services.ErrIngredientDuplicate) {
			respondConflict(c, "Product is already an ingredient of this item.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to add ingredient.")
		}
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *MenuHandler) RemoveIngredient(c *gin.Context) {
	ingredientID, ok := parseIDParam(c, "ingredient_id")
	if !ok {
		return
	}
	if err := h.menuService.RemoveIngredient(ingredientID); err != nil {
		utils.LogError(err, "RemoveIngredient: Error from menuService.RemoveIngredient")
		if errors.Is(err, services.ErrIngredientNotFound) {
			respondNotFound(c, "Ingredient not found.", err)
		} else {
			respondInternal(c, "Failed to remove ingredient.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingredient removed"})
}
