package repositories

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"resto_backend/internal/models"
)

// SalesByDayRow is one day of paid-order aggregates.
type SalesByDayRow struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	OrdersCount int64           `json:"orders_count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ReservationStatusCount is the reservation tally for one status.
type ReservationStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// InventoryTotals is the stock valuation snapshot.
type InventoryTotals struct {
	ProductCount    int64           `json:"product_count"`
	StockValue      decimal.Decimal `json:"stock_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
}

// DashboardCounts are the live counters for the landing page.
type DashboardCounts struct {
	PendingOrders        int64           `json:"pending_orders"`
	OpenKitchenTickets   int64           `json:"open_kitchen_tickets"`
	TodayReservations    int64           `json:"today_reservations"`
	TodayRevenue         decimal.Decimal `json:"today_revenue"`
	UnpaidInvoicesAmount decimal.Decimal `json:"unpaid_invoices_amount"`
}

// --- AnalyticsRepository Interface ---
type AnalyticsRepository interface {
	GetSalesByDay(from, to time.Time) ([]SalesByDayRow, error)
	GetReservationStats(from, to time.Time) ([]ReservationStatusCount, error)
	GetInventoryTotals() (*InventoryTotals, error)
	GetDashboardCounts(now time.Time) (*DashboardCounts, error)
}

// --- analyticsRepository Implementation ---
type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository.
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// GetSalesByDay aggregates paid orders per calendar day over [from, to).
func (r *analyticsRepository) GetSalesByDay(from, to time.Time) ([]SalesByDayRow, error) {
	query := `
		SELECT TO_CHAR(paid_at, 'YYYY-MM-DD') AS day,
		       COUNT(*) AS orders_count,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE status = 'PAID' AND paid_at >= $1 AND paid_at < $2
		GROUP BY day
		ORDER BY day`
	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, translateError(err, "GetSalesByDay")
	}
	defer rows.Close()

	var result []SalesByDayRow
	for rows.Next() {
		var row SalesByDayRow
		if err := rows.Scan(&row.Date, &row.OrdersCount, &row.Revenue); err != nil {
			return nil, translateError(err, "GetSalesByDay scan")
		}
		result = append(result, row)
	}
	return result, translateError(rows.Err(), "GetSalesByDay rows")
}

// GetReservationStats tallies reservations by status over [from, to).
func (r *analyticsRepository) GetReservationStats(from, to time.Time) ([]ReservationStatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS cnt
		FROM reservations
		WHERE reservation_date >= $1 AND reservation_date < $2
		GROUP BY status
		ORDER BY status`
	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, translateError(err, "GetReservationStats")
	}
	defer rows.Close()

	var result []ReservationStatusCount
	for rows.Next() {
		var row ReservationStatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, translateError(err, "GetReservationStats scan")
		}
		result = append(result, row)
	}
	return result, translateError(rows.Err(), "GetReservationStats rows")
}

// GetInventoryTotals values the stock at current unit prices and counts
// products at or below their reorder level.
func (r *analyticsRepository) GetInventoryTotals() (*InventoryTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity_in_stock * unit_price), 0),
		       COUNT(*) FILTER (WHERE quantity_in_stock <= minimum_stock AND quantity_in_stock > 0),
		       COUNT(*) FILTER (WHERE quantity_in_stock <= 0)
		FROM products
		WHERE is_active = TRUE`
	totals := &InventoryTotals{}
	err := r.db.QueryRow(query).Scan(
		&totals.ProductCount,
		&totals.StockValue,
		&totals.LowStockCount,
		&totals.OutOfStockCount,
	)
	if err != nil {
		return nil, translateError(err, "GetInventoryTotals")
	}
	return totals, nil
}

// GetDashboardCounts gathers the landing-page counters in one pass.
func (r *analyticsRepository) GetDashboardCounts(now time.Time) (*DashboardCounts, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	counts := &DashboardCounts{}

	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM orders WHERE status IN ('PENDING', 'CONFIRMED', 'PREPARING', 'READY')`,
	).Scan(&counts.PendingOrders)
	if err != nil {
		return nil, translateError(err, "GetDashboardCounts orders")
	}

	err = r.db.QueryRow(
		`SELECT COUNT(*) FROM kitchen_tickets WHERE status IN ('NEW', 'IN_PROGRESS')`,
	).Scan(&counts.OpenKitchenTickets)
	if err != nil {
		return nil, translateError(err, "GetDashboardCounts tickets")
	}

	err = r.db.QueryRow(
		`SELECT COUNT(*) FROM reservations
		 WHERE reservation_date = $1::date AND status IN ('PENDING', 'CONFIRMED')`,
		startOfDay,
	).Scan(&counts.TodayReservations)
	if err != nil {
		return nil, translateError(err, "GetDashboardCounts reservations")
	}

	err = r.db.QueryRow(
		`SELECT COALESCE(SUM(total_amount), 0) FROM orders
		 WHERE status = 'PAID' AND paid_at >= $1 AND paid_at < $2`,
		startOfDay, endOfDay,
	).Scan(&counts.TodayRevenue)
	if err != nil {
		return nil, translateError(err, "GetDashboardCounts revenue")
	}

	err = r.db.QueryRow(
		`SELECT COALESCE(SUM(total_amount - paid_amount), 0) FROM invoices
		 WHERE status IN ($1, $2, $3)`,
		models.InvoiceSent, models.InvoicePartiallyPaid, models.InvoiceOverdue,
	).Scan(&counts.UnpaidInvoicesAmount)
	if err != nil {
		return nil, translateError(err, "GetDashboardCounts invoices")
	}

	return counts, nil
}
