package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler holds the purchase order service.
type PurchaseOrderHandler struct {
	poService services.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(ps services.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: ps}
}

// CreatePurchaseOrder creates a draft purchase order with its items.
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req services.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	po, err := h.poService.CreatePurchaseOrder(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreatePurchaseOrder: Error from poService.CreatePurchaseOrder")
		if errors.Is(err, services.ErrSupplierNotFound) || errors.Is(err, services.ErrProductNotFound) {
			respondNotFound(c, "Supplier or product not found.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to create purchase order.")
		}
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *PurchaseOrderHandler) GetPurchaseOrders(c *gin.Context) {
	orders, err := h.poService.GetPurchaseOrders(queryStringPtr(c, "status"))
	if err != nil {
		utils.LogError(err, "GetPurchaseOrders: Error from poService.GetPurchaseOrders")
		respondInternal(c, "Failed to fetch purchase orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *PurchaseOrderHandler) GetPurchaseOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.poService.GetPurchaseOrderByID(id)
	if err != nil {
		utils.LogError(err, "GetPurchaseOrderByID: Error from poService.GetPurchaseOrderByID")
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			respondNotFound(c, "Purchase order not found.", err)
		} else {
			respondInternal(c, "Failed to fetch purchase order.")
		}
		return
	}
	c.JSON(http.StatusOK, po)
}

// UpdateStatus moves a purchase order to SENT, CONFIRMED or CANCELLED.
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	po, err := h.poService.UpdateStatus(id, req.Status)
	if err != nil {
		utils.LogError(err, "UpdateStatus: Error from poService.UpdateStatus")
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			respondNotFound(c, "Purchase order not found.", err)
		} else if errors.Is(err, services.ErrPOAlreadyReceived) || errors.Is(err, services.ErrPONotEditable) {
			respondConflict(c, "Purchase order cannot change to this status.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to update purchase order status.")
		}
		return
	}
	c.JSON(http.StatusOK, po)
}

// ReceiveItems records a (possibly partial) delivery, creating IN
// movements and bumping stock.
func (h *PurchaseOrderHandler) ReceiveItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Items []services.ReceiveItemRequest `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	po, err := h.poService.ReceiveItems(id, req.Items, currentUserID(c))
	if err != nil {
		utils.LogError(err, "ReceiveItems: Error from poService.ReceiveItems")
		if errors.Is(err, services.ErrPurchaseOrderNotFound) || errors.Is(err, services.ErrPOItemNotFound) {
			respondNotFound(c, "Purchase order or item not found.", err)
		} else if errors.Is(err, services.ErrPOAlreadyReceived) {
			respondConflict(c, "Purchase order is already fully received.", err)
		} else if errors.Is(err, services.ErrPOEmptyReceive) || errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to receive items.")
		}
		return
	}
	c.JSON(http.StatusOK, po)
}

// DeletePurchaseOrder removes a draft or cancelled purchase order.
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.poService.DeletePurchaseOrder(id); err != nil {
		utils.LogError(err, "DeletePurchaseOrder: Error from poService.DeletePurchaseOrder")
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			respondNotFound(c, "Purchase order not found.", err)
		} else if errors.Is(err, services.ErrPONotEditable) {
			respondConflict(c, "Only draft or cancelled purchase orders can be deleted.", err)
		} else {
			respondInternal(c, "Failed to delete purchase order.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase order deleted successfully"})
}
