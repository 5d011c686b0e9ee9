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

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// --- Table Locations ---

func (h *BookingHandler) CreateLocation(c *gin.Context) {
	var loc models.TableLocation
	if err := c.ShouldBindJSON(&loc); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.bookingService.CreateLocation(&loc); err != nil {
		utils.LogError(err, "CreateLocation: Error from bookingService.CreateLocation")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Location name already exists.", err)
		} else {
			respondInternal(c, "Failed to create location.")
		}
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *BookingHandler) GetLocations(c *gin.Context) {
	locations, err := h.bookingService.GetLocations()
	if err != nil {
		utils.LogError(err, "GetLocations: Error from bookingService.GetLocations")
		respondInternal(c, "Failed to fetch locations.")
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *BookingHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var loc models.TableLocation
	if err := c.ShouldBindJSON(&loc); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	loc.ID = id
	if err := h.bookingService.UpdateLocation(&loc); err != nil {
		utils.LogError(err, "UpdateLocation: Error from bookingService.UpdateLocation")
		if errors.Is(err, services.ErrLocationNotFound) {
			respondNotFound(c, "Location not found.", err)
		} else {
			respondInternal(c, "Failed to update location.")
		}
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *BookingHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.bookingService.DeleteLocation(id); err != nil {
		utils.LogError(err, "DeleteLocation: Error from bookingService.DeleteLocation")
		if errors.Is(err, services.ErrLocationNotFound) {
			respondNotFound(c, "Location not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Location still has tables.", err)
		} else {
			respondInternal(c, "Failed to delete location.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

// --- Tables ---

func (h *BookingHandler) CreateTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.bookingService.CreateTable(&table); err != nil {
		utils.LogError(err, "CreateTable: Error from bookingService.CreateTable")
		if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Table number already exists.", err)
		} else if errors.Is(err, services.ErrLocationNotFound) {
			respondNotFound(c, "Location not found.", err)
		} else {
			respondInternal(c, "Failed to create table.")
		}
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *BookingHandler) GetTables(c *gin.Context) {
	availableOnly := c.Query("available") == "true"
	tables, err := h.bookingService.GetTables(availableOnly)
	if err != nil {
		utils.LogError(err, "GetTables: Error from bookingService.GetTables")
		respondInternal(c, "Failed to fetch tables.")
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *BookingHandler) GetTableByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	table, err := h.bookingService.GetTableByID(id)
	if err != nil {
		utils.LogError(err, "GetTableByID: Error from bookingService.GetTableByID")
		if errors.Is(err, services.ErrTableNotFound) {
			respondNotFound(c, "Table not found.", err)
		} else {
			respondInternal(c, "Failed to fetch table.")
		}
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *BookingHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	table.ID = id
	if err := h.bookingService.UpdateTable(&table); err != nil {
		utils.LogError(err, "UpdateTable: Error from bookingService.UpdateTable")
		if errors.Is(err, services.ErrTableNotFound) {
			respondNotFound(c, "Table not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Table number already exists.", err)
		} else {
			respondInternal(c, "Failed to update table.")
		}
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *BookingHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.bookingService.DeleteTable(id); err != nil {
		utils.LogError(err, "DeleteTable: Error from bookingService.DeleteTable")
		if errors.Is(err, services.ErrTableNotFound) {
			respondNotFound(c, "Table not found.", err)
		} else if errors.Is(err, services.ErrConflict) {
			respondConflict(c, "Table has reservations or orders.", err)
		} else {
			respondInternal(c, "Failed to delete table.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted successfully"})
}

// GetAvailableTables lists free tables for a date, slot and party size.
func (h *BookingHandler) GetAvailableTables(c *gin.Context) {
	date := c.Query("date")
	timeSlot := c.Query("time_slot")
	minCapacity, _ := strconv.Atoi(c.DefaultQuery("guests", "1"))

	tables, err := h.bookingService.GetAvailableTables(date, timeSlot, minCapacity)
	if err != nil {
		utils.LogError(err, "GetAvailableTables: Error from bookingService.GetAvailableTables")
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidSlot) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to fetch available tables.")
		}
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}
	c.JSON(http.StatusOK, tables)
}

// --- Reservations ---

func (h *BookingHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.bookingService.CreateReservation(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateReservation: Error from bookingService.CreateReservation")
		h.respondReservationError(c, err, "Failed to create reservation.")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *BookingHandler) GetReservations(c *gin.Context) {
	var filters models.ReservationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservations, total, err := h.bookingService.GetReservations(filters)
	if err != nil {
		utils.LogError(err, "GetReservations: Error from bookingService.GetReservations")
		respondInternal(c, "Failed to fetch reservations.")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      reservations,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *BookingHandler) GetReservationByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.bookingService.GetReservationByID(id)
	if err != nil {
		utils.LogError(err, "GetReservationByID: Error from bookingService.GetReservationByID")
		h.respondReservationError(c, err, "Failed to fetch reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// UpdateReservation reschedules or amends an active reservation.
func (h *BookingHandler) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.bookingService.UpdateReservation(id, req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "UpdateReservation: Error from bookingService.UpdateReservation")
		h.respondReservationError(c, err, "Failed to update reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// UpdateReservationStatus confirms, cancels, completes or no-shows a
// reservation.
func (h *BookingHandler) UpdateReservationStatus(c *gin.Context) {
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

	reservation, err := h.bookingService.UpdateReservationStatus(id, req.Status, currentUserID(c))
	if err != nil {
		utils.LogError(err, "UpdateReservationStatus: Error from bookingService.UpdateReservationStatus")
		h.respondReservationError(c, err, "Failed to update reservation status.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *BookingHandler) GetReservationHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	history, err := h.bookingService.GetReservationHistory(id)
	if err != nil {
		utils.LogError(err, "GetReservationHistory: Error from bookingService.GetReservationHistory")
		h.respondReservationError(c, err, "Failed to fetch reservation history.")
		return
	}
	if history == nil {
		history = []models.ReservationHistory{}
	}
	c.JSON(http.StatusOK, history)
}

// --- Slot Availability ---

// SetSlotAvailability upserts the capacity ceiling for a date and slot.
func (h *BookingHandler) SetSlotAvailability(c *gin.Context) {
	var a models.TimeSlotAvailability
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if err := h.bookingService.SetSlotAvailability(&a); err != nil {
		utils.LogError(err, "SetSlotAvailability: Error from bookingService.SetSlotAvailability")
		if errors.Is(err, services.ErrInvalidSlot) {
			respondBadRequest(c, "Unknown time slot.", err)
		} else {
			respondInternal(c, "Failed to set slot availability.")
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetDayAvailability reports remaining capacity for every slot of a day.
func (h *BookingHandler) GetDayAvailability(c *gin.Context) {
	views, err := h.bookingService.GetDayAvailability(c.Query("date"))
	if err != nil {
		utils.LogError(err, "GetDayAvailability: Error from bookingService.GetDayAvailability")
		if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to fetch day availability.")
		}
		return
	}
	c.JSON(http.StatusOK, views)
}

// respondReservationError maps reservation workflow errors to HTTP
// responses.
func (h *BookingHandler) respondReservationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrTableNotFound):
		respondNotFound(c, "Resource not found.", err)
	case errors.Is(err, services.ErrTableTaken),
		errors.Is(err, services.ErrSlotFull),
		errors.Is(err, services.ErrSlotClosed),
		errors.Is(err, services.ErrInvalidTransition):
		respondConflict(c, err.Error(), err)
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidSlot),
		errors.Is(err, services.ErrTableTooSmall),
		errors.Is(err, services.ErrPastReservation):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		respondInternal(c, fallback)
	}
}
