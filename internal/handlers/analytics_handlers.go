package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler holds the analytics service.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(as services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: as}
}

// GetDashboard returns the live landing-page counters.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	counts, err := h.analyticsService.GetDashboard()
	if err != nil {
		utils.LogError(err, "GetDashboard: Error from analyticsService.GetDashboard")
		respondInternal(c, "Failed to build dashboard.")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetSalesSummary aggregates paid orders by day over a date window.
func (h *AnalyticsHandler) GetSalesSummary(c *gin.Context) {
	summary, err := h.analyticsService.GetSalesSummary(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		utils.LogError(err, "GetSalesSummary: Error from analyticsService.GetSalesSummary")
		if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to build sales summary.")
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetInventoryReport values stock and lists low/out-of-stock products.
func (h *AnalyticsHandler) GetInventoryReport(c *gin.Context) {
	report, err := h.analyticsService.GetInventoryReport()
	if err != nil {
		utils.LogError(err, "GetInventoryReport: Error from analyticsService.GetInventoryReport")
		respondInternal(c, "Failed to build inventory report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetReservationStats tallies reservations by status over a window.
func (h *AnalyticsHandler) GetReservationStats(c *gin.Context) {
	stats, err := h.analyticsService.GetReservationStats(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		utils.LogError(err, "GetReservationStats: Error from analyticsService.GetReservationStats")
		if errors.Is(err, services.ErrValidation) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		} else {
			respondInternal(c, "Failed to build reservation stats.")
		}
		return
	}
	c.JSON(http.StatusOK, stats)
}
