package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockTakeHandler holds the stock take service.
type StockTakeHandler struct {
	stockTakeService services.StockTakeService
}

// NewStockTakeHandler creates a new StockTakeHandler.
func NewStockTakeHandler(ss services.StockTakeService) *StockTakeHandler {
	return &StockTakeHandler{stockTakeService: ss}
}

// StartStockTake opens a physical count and snapshots current quantities.
func (h *StockTakeHandler) StartStockTake(c *gin.Context) {
	var req struct {
		Notes *string `json:"notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	st, err := h.stockTakeService.StartStockTake(req.Notes, currentUserID(c))
	if err != nil {
		utils.LogError(err, "StartStockTake: Error from stockTakeService.StartStockTake")
		respondInternal(c, "Failed to start stock take.")
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *StockTakeHandler) GetStockTakes(c *gin.Context) {
	stockTakes, err := h.stockTakeService.GetStockTakes()
	if err != nil {
		utils.LogError(err, "GetStockTakes: Error from stockTakeService.GetStockTakes")
		respondInternal(c, "Failed to fetch stock takes.")
		return
	}
	c.JSON(http.StatusOK, stockTakes)
}

func (h *StockTakeHandler) GetStockTakeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	st, err := h.stockTakeService.GetStockTakeByID(id)
	if err != nil {
		utils.LogError(err, "GetStockTakeByID: Error from stockTakeService.GetStockTakeByID")
		if errors.Is(err, services.ErrStockTakeNotFound) {
			respondNotFound(c, "Stock take not found.", err)
		} else {
			respondInternal(c, "Failed to fetch stock take.")
		}
		return
	}
	c.JSON(http.StatusOK, st)
}

// RecordCounts saves physical quantities for items of an open count.
func (h *StockTakeHandler) RecordCounts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Counts []services.CountItemRequest `json:"counts" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.stockTakeService.RecordCounts(id, req.Counts); err != nil {
		utils.LogError(err, "RecordCounts: Error from stockTakeService.RecordCounts")
		if errors.Is(err, services.ErrStockTakeNotFound) || errors.Is(err, services.ErrStockTakeItemMissing) {
			respondNotFound(c, "Stock take or item not found.", err)
		} else if errors.Is(err, services.ErrStockTakeFinished) {
			respondConflict(c, "Stock take is no longer open.", err)
		} else if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to record counts.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Counts recorded successfully"})
}

// CompleteStockTake applies count discrepancies as adjustments.
func (h *StockTakeHandler) CompleteStockTake(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	st, err := h.stockTakeService.CompleteStockTake(id, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CompleteStockTake: Error from stockTakeService.CompleteStockTake")
		if errors.Is(err, services.ErrStockTakeNotFound) {
			respondNotFound(c, "Stock take not found.", err)
		} else if errors.Is(err, services.ErrStockTakeFinished) {
			respondConflict(c, "Stock take is no longer open.", err)
		} else {
			respondInternal(c, "Failed to complete stock take.")
		}
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StockTakeHandler) CancelStockTake(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.stockTakeService.CancelStockTake(id); err != nil {
		utils.LogError(err, "CancelStockTake: Error from stockTakeService.CancelStockTake")
		if errors.Is(err, services.ErrStockTakeNotFound) {
			respondNotFound(c, "Stock take not found.", err)
		} else if errors.Is(err, services.ErrStockTakeFinished) {
			respondConflict(c, "Stock take is no longer open.", err)
		} else {
			respondInternal(c, "Failed to cancel stock take.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock take cancelled"})
}

// DeleteStockTake removes a planned or cancelled count.
func (h *StockTakeHandler) DeleteStockTake(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.stockTakeService.DeleteStockTake(id); err != nil {
		utils.LogError(err, "DeleteStockTake: Error from stockTakeService.DeleteStockTake")
		if errors.Is(err, services.ErrStockTakeNotFound) {
			respondNotFound(c, "Stock take not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, err.Error(), err)
		} else {
			respondInternal(c, "Failed to delete stock take.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock take deleted"})
}
