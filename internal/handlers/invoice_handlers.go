package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler holds the invoice service.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// CreateInvoice creates a draft invoice with its lines.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateInvoice: Error from invoiceService.CreateInvoice")
		h.respondInvoiceError(c, err, "Failed to create invoice.")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetInvoices(queryStringPtr(c, "status"))
	if err != nil {
		utils.LogError(err, "GetInvoices: Error from invoiceService.GetInvoices")
		respondInternal(c, "Failed to fetch invoices.")
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoiceByID(id)
	if err != nil {
		utils.LogError(err, "GetInvoiceByID: Error from invoiceService.GetInvoiceByID")
		h.respondInvoiceError(c, err, "Failed to fetch invoice.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// SendInvoice moves a draft to SENT.
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.SendInvoice(id)
	if err != nil {
		utils.LogError(err, "SendInvoice: Error from invoiceService.SendInvoice")
		h.respondInvoiceError(c, err, "Failed to send invoice.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice amends the header of a draft or sent invoice.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(id, req)
	if err != nil {
		utils.LogError(err, "UpdateInvoice: Error from invoiceService.UpdateInvoice")
		h.respondInvoiceError(c, err, "Failed to update invoice.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes a draft invoice.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(id); err != nil {
		utils.LogError(err, "DeleteInvoice: Error from invoiceService.DeleteInvoice")
		h.respondInvoiceError(c, err, "Failed to delete invoice.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

// CancelInvoice voids an invoice with no recorded payments.
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.CancelInvoice(id); err != nil {
		utils.LogError(err, "CancelInvoice: Error from invoiceService.CancelInvoice")
		h.respondInvoiceError(c, err, "Failed to cancel invoice.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice cancelled"})
}

// AddItem appends a line to an editable invoice and recomputes totals.
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.AddItem(id, req)
	if err != nil {
		utils.LogError(err, "AddItem: Error from invoiceService.AddItem")
		h.respondInvoiceError(c, err, "Failed to add invoice item.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var item models.InvoiceItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	item.ID = itemID

	invoice, err := h.invoiceService.UpdateItem(id, &item)
	if err != nil {
		utils.LogError(err, "UpdateItem: Error from invoiceService.UpdateItem")
		h.respondInvoiceError(c, err, "Failed to update invoice item.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemoveItem(id, itemID)
	if err != nil {
		utils.LogError(err, "RemoveItem: Error from invoiceService.RemoveItem")
		h.respondInvoiceError(c, err, "Failed to remove invoice item.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// RecordPayment applies a payment, updates the invoice status and posts
// the revenue ledger entry.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.RecordPayment(id, req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "RecordPayment: Error from invoiceService.RecordPayment")
		h.respondInvoiceError(c, err, "Failed to record payment.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// MarkOverdueInvoices sweeps unpaid invoices past due and flips them to
// OVERDUE.
func (h *InvoiceHandler) MarkOverdueInvoices(c *gin.Context) {
	count, err := h.invoiceService.MarkOverdueInvoices()
	if err != nil {
		utils.LogError(err, "MarkOverdueInvoices: Error from invoiceService.MarkOverdueInvoices")
		respondInternal(c, "Failed to mark overdue invoices.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_overdue": count})
}

// respondInvoiceError maps invoice workflow errors to HTTP responses.
func (h *InvoiceHandler) respondInvoiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound),
		errors.Is(err, services.ErrInvoiceItemNotFound):
		respondNotFound(c, "Invoice or item not found.", err)
	case errors.Is(err, services.ErrInvoiceNotEditable),
		errors.Is(err, services.ErrOverpayment),
		errors.Is(err, services.ErrInvalidTransition):
		respondConflict(c, err.Error(), err)
	case errors.Is(err, services.ErrValidation):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		respondInternal(c, fallback)
	}
}
