package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder creates an order with its initial items and deducts
// tracked ingredients from stock.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateOrder: Error from orderService.CreateOrder")
		h.respondOrderError(c, err, "Failed to create order.")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	orders, total, err := h.orderService.GetOrders(filters)
	if err != nil {
		utils.LogError(err, "GetOrders: Error from orderService.GetOrders")
		respondInternal(c, "Failed to fetch orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		utils.LogError(err, "GetOrderByID: Error from orderService.GetOrderByID")
		h.respondOrderError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// AddItems appends items to a pending or confirmed order.
func (h *OrderHandler) AddItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Items []services.CreateOrderItemRequest `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.AddItems(id, req.Items, currentUserID(c))
	if err != nil {
		utils.LogError(err, "AddItems: Error from orderService.AddItems")
		h.respondOrderError(c, err, "Failed to add items.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// RemoveItem removes an item and returns its tracked ingredients to
// stock.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.orderService.RemoveItem(id, itemID, currentUserID(c))
	if err != nil {
		utils.LogError(err, "RemoveItem: Error from orderService.RemoveItem")
		h.respondOrderError(c, err, "Failed to remove item.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateItemQuantity resizes a line and settles the stock difference.
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var req struct {
		Quantity int64 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItemQuantity(id, itemID, req.Quantity, currentUserID(c))
	if err != nil {
		utils.LogError(err, "UpdateItemQuantity: Error from orderService.UpdateItemQuantity")
		h.respondOrderError(c, err, "Failed to update item quantity.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes a pending or cancelled order.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(id, currentUserID(c)); err != nil {
		utils.LogError(err, "DeleteOrder: Error from orderService.DeleteOrder")
		h.respondOrderError(c, err, "Failed to delete order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// UpdateStatus moves an order through its workflow. Confirming spawns a
// kitchen ticket; cancelling returns tracked ingredients to stock.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
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

	order, err := h.orderService.UpdateStatus(id, req.Status, currentUserID(c))
	if err != nil {
		utils.LogError(err, "UpdateStatus: Error from orderService.UpdateStatus")
		h.respondOrderError(c, err, "Failed to update order status.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// MarkPaid settles a served order and posts the revenue ledger entry.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.MarkPaid(id, req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "MarkPaid: Error from orderService.MarkPaid")
		h.respondOrderError(c, err, "Failed to mark order paid.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// SetDiscount applies a flat discount and recomputes totals.
func (h *OrderHandler) SetDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Discount decimal.Decimal `json:"discount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.SetDiscount(id, req.Discount)
	if err != nil {
		utils.LogError(err, "SetDiscount: Error from orderService.SetDiscount")
		h.respondOrderError(c, err, "Failed to set discount.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- Kitchen Tickets ---

func (h *OrderHandler) GetKitchenTickets(c *gin.Context) {
	tickets, err := h.orderService.GetKitchenTickets(queryStringPtr(c, "status"))
	if err != nil {
		utils.LogError(err, "GetKitchenTickets: Error from orderService.GetKitchenTickets")
		respondInternal(c, "Failed to fetch kitchen tickets.")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// StartTicket moves a ticket to IN_PROGRESS and the order to PREPARING.
func (h *OrderHandler) StartTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.orderService.StartTicket(id)
	if err != nil {
		utils.LogError(err, "StartTicket: Error from orderService.StartTicket")
		h.respondOrderError(c, err, "Failed to start kitchen ticket.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// CompleteTicket moves a ticket to COMPLETED and the order to READY.
func (h *OrderHandler) CompleteTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.orderService.CompleteTicket(id)
	if err != nil {
		utils.LogError(err, "CompleteTicket: Error from orderService.CompleteTicket")
		h.respondOrderError(c, err, "Failed to complete kitchen ticket.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// respondOrderError maps order workflow errors to HTTP responses.
func (h *OrderHandler) respondOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrOrderItemNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrTableNotFound):
		respondNotFound(c, "Resource not found.", err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOrderNotEditable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrMenuItemUnavailable):
		respondConflict(c, err.Error(), err)
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrTableRequired):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		respondInternal(c, fallback)
	}
}
