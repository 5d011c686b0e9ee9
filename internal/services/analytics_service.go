package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
)

// SalesSummary is the paid-order aggregate over a window.
type SalesSummary struct {
	DateFrom     string                       `json:"date_from"`
	DateTo       string                       `json:"date_to"`
	TotalOrders  int64                        `json:"total_orders"`
	TotalRevenue decimal.Decimal              `json:"total_revenue"`
	AverageOrder decimal.Decimal              `json:"average_order"`
	ByDay        []repositories.SalesByDayRow `json:"by_day"`
}

// InventoryReport values current stock and lists the products that need
// restocking.
type InventoryReport struct {
	Totals      repositories.InventoryTotals `json:"totals"`
	LowStock    []models.Product             `json:"low_stock"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// ReservationStats tallies reservations by status over a window.
type ReservationStats struct {
	DateFrom string                                `json:"date_from"`
	DateTo   string                                `json:"date_to"`
	Total    int64                                 `json:"total"`
	ByStatus []repositories.ReservationStatusCount `json:"by_status"`
}

// --- AnalyticsService Interface ---
type AnalyticsService interface {
	GetSalesSummary(dateFrom, dateTo string) (*SalesSummary, error)
	GetInventoryReport() (*InventoryReport, error)
	GetReservationStats(dateFrom, dateTo string) (*ReservationStats, error)
	GetDashboard() (*repositories.DashboardCounts, error)
}

// --- analyticsService Implementation ---
type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	productRepo   repositories.ProductRepository
}

// NewAnalyticsService creates a new instance of AnalyticsService.
func NewAnalyticsService(ar repositories.AnalyticsRepository, pr repositories.ProductRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: ar, productRepo: pr}
}

func (s *analyticsService) GetSalesSummary(dateFrom, dateTo string) (*SalesSummary, error) {
	from, to, err := parseWindow(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	byDay, err := s.analyticsRepo.GetSalesByDay(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	summary := &SalesSummary{
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		TotalRevenue: decimal.Zero,
		AverageOrder: decimal.Zero,
		ByDay:        byDay,
	}
	for i := range byDay {
		summary.TotalOrders += byDay[i].OrdersCount
		summary.TotalRevenue = summary.TotalRevenue.Add(byDay[i].Revenue)
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrder = summary.TotalRevenue.Div(decimal.NewFromInt(summary.TotalOrders))
	}
	return summary, nil
}

func (s *analyticsService) GetInventoryReport() (*InventoryReport, error) {
	totals, err := s.analyticsRepo.GetInventoryTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to value inventory: %w", err)
	}
	lowStock, err := s.productRepo.GetLowStockProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return &InventoryReport{
		Totals:      *totals,
		LowStock:    lowStock,
		GeneratedAt: time.Now(),
	}, nil
}

func (s *analyticsService) GetReservationStats(dateFrom, dateTo string) (*ReservationStats, error) {
	from, to, err := parseWindow(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.analyticsRepo.GetReservationStats(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reservations: %w", err)
	}

	stats := &ReservationStats{DateFrom: dateFrom, DateTo: dateTo, ByStatus: byStatus}
	for i := range byStatus {
		stats.Total += byStatus[i].Count
	}
	return stats, nil
}

func (s *analyticsService) GetDashboard() (*repositories.DashboardCounts, error) {
	counts, err := s.analyticsRepo.GetDashboardCounts(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return counts, nil
}

// parseWindow resolves an inclusive YYYY-MM-DD pair into a half-open
// [from, to) range.
func parseWindow(dateFrom, dateTo string) (time.Time, time.Time, error) {
	from, err := parseDay(dateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDay(dateTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to precedes date_from", ErrValidation)
	}
	return from, to.AddDate(0, 0, 1), nil
}
