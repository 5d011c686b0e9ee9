package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"
)

// StockMovementRepository defines the interface for stock ledger database
// operations. Movements are append-only; deletion exists only so a wrong
// entry can be reversed, and the service reverses its stock effect in the
// same transaction.
type StockMovementRepository interface {
	CreateMovement(executor SQLExecutor, m *models.StockMovement) (int64, error)
	GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error)
	GetMovementByID(id int64) (*models.StockMovement, error)
	DeleteMovement(executor SQLExecutor, id int64) error
}

type stockMovementRepository struct {
	db *sql.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository(db *sql.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) CreateMovement(executor SQLExecutor, m *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements
	            (product_id, movement_type, quantity, unit_price, reference, reason, notes, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		m.ProductID, m.MovementType, m.Quantity, m.UnitPrice, m.Reference, m.Reason, m.Notes,
		m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return 0, translateError(err, "creating stock movement")
	}
	return m.ID, nil
}

func (r *stockMovementRepository) GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error) {
	query := `SELECT m.id, m.product_id, m.movement_type, m.quantity, m.unit_price, m.reference,
	                 m.reason, m.notes, m.created_by, m.created_at,
	                 COUNT(*) OVER() AS total_count
	          FROM stock_movements m
	          WHERE ($1::bigint IS NULL OR m.product_id = $1)
	            AND ($2::text IS NULL OR m.movement_type = $2)
	          ORDER BY m.created_at DESC
	          LIMIT $3 OFFSET $4`

	if pageSize <= 0 {
		pageSize = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	rows, err := r.db.Query(query, productID, movementType, pageSize, offset)
	if err != nil {
		return nil, 0, translateError(err, "listing stock movements")
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	totalCount := 0
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.UnitPrice,
			&m.Reference, &m.Reason, &m.Notes, &m.CreatedBy, &m.CreatedAt, &totalCount); err != nil {
			return nil, 0, translateError(err, "scanning stock movement")
		}
		movements = append(movements, m)
	}
	return movements, totalCount, rows.Err()
}

func (r *stockMovementRepository) GetMovementByID(id int64) (*models.StockMovement, error) {
	m := &models.StockMovement{}
	query := `SELECT id, product_id, movement_type, quantity, unit_price, reference, reason, notes,
	                 created_by, created_at
	          FROM stock_movements WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity,
		&m.UnitPrice, &m.Reference, &m.Reason, &m.Notes, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, translateError(err, "getting stock movement")
	}
	return m, nil
}

func (r *stockMovementRepository) DeleteMovement(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting stock movement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
