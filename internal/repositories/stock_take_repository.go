package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// StockTakeRepository defines the interface for physical inventory count
// database operations.
type StockTakeRepository interface {
	CreateStockTake(executor SQLExecutor, st *models.StockTake) (int64, error)
	GetStockTakes() ([]models.StockTake, error)
	GetStockTakeByID(id int64) (*models.StockTake, error)
	UpdateStockTakeStatus(executor SQLExecutor, id int64, status string) error
	DeleteStockTake(executor SQLExecutor, id int64) error

	CreateStockTakeItem(executor SQLExecutor, item *models.StockTakeItem) (int64, error)
	GetStockTakeItems(stockTakeID int64) ([]models.StockTakeItem, error)
	SetItemPhysicalQuantity(executor SQLExecutor, itemID int64, physical decimal.Decimal) error
}

type stockTakeRepository struct {
	db *sql.DB
}

// NewStockTakeRepository creates a new instance of StockTakeRepository.
func NewStockTakeRepository(db *sql.DB) StockTakeRepository {
	return &stockTakeRepository{db: db}
}

func (r *stockTakeRepository) CreateStockTake(executor SQLExecutor, st *models.StockTake) (int64, error) {
	query := `INSERT INTO stock_takes (inventory_number, inventory_date, status, notes, created_by,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, st.InventoryNumber, st.InventoryDate, st.Status, st.Notes,
		st.CreatedBy, now, now).Scan(&st.ID)
	if err != nil {
		return 0, translateError(err, "creating stock take")
	}
	return st.ID, nil
}

func (r *stockTakeRepository) GetStockTakes() ([]models.StockTake, error) {
	query := `SELECT id, inventory_number, inventory_date, status, notes, created_by, created_at, updated_at
	          FROM stock_takes ORDER BY inventory_date DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing stock takes")
	}
	defer rows.Close()

	takes := []models.StockTake{}
	for rows.Next() {
		var st models.StockTake
		if err := rows.Scan(&st.ID, &st.InventoryNumber, &st.InventoryDate, &st.Status, &st.Notes,
			&st.CreatedBy, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning stock take")
		}
		takes = append(takes, st)
	}
	return takes, rows.Err()
}

func (r *stockTakeRepository) GetStockTakeByID(id int64) (*models.StockTake, error) {
	st := &models.StockTake{}
	query := `SELECT id, inventory_number, inventory_date, status, notes, created_by, created_at, updated_at
	          FROM stock_takes WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&st.ID, &st.InventoryNumber, &st.InventoryDate, &st.Status,
		&st.Notes, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting stock take")
	}
	return st, nil
}

func (r *stockTakeRepository) UpdateStockTakeStatus(executor SQLExecutor, id int64, status string) error {
	res, err := executor.Exec(
		`UPDATE stock_takes SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return translateError(err, "updating stock take status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockTakeRepository) DeleteStockTake(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM stock_takes WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting stock take")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockTakeRepository) CreateStockTakeItem(executor SQLExecutor, item *models.StockTakeItem) (int64, error) {
	query := `INSERT INTO stock_take_items (stock_take_id, product_id, theoretical_quantity,
	            physical_quantity, notes)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query, item.StockTakeID, item.ProductID, item.TheoreticalQuantity,
		item.PhysicalQuantity, item.Notes).Scan(&item.ID)
	if err != nil {
		return 0, translateError(err, "creating stock take item")
	}
	return item.ID, nil
}

func (r *stockTakeRepository) GetStockTakeItems(stockTakeID int64) ([]models.StockTakeItem, error) {
	query := `SELECT id, stock_take_id, product_id, theoretical_quantity, physical_quantity, notes
	          FROM stock_take_items WHERE stock_take_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, stockTakeID)
	if err != nil {
		return nil, translateError(err, "listing stock take items")
	}
	defer rows.Close()

	items := []models.StockTakeItem{}
	for rows.Next() {
		var item models.StockTakeItem
		if err := rows.Scan(&item.ID, &item.StockTakeID, &item.ProductID, &item.TheoreticalQuantity,
			&item.PhysicalQuantity, &item.Notes); err != nil {
			return nil, translateError(err, "scanning stock take item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *stockTakeRepository) SetItemPhysicalQuantity(executor SQLExecutor, itemID int64, physical decimal.Decimal) error {
	res, err := executor.Exec(
		`UPDATE stock_take_items SET physical_quantity = $1 WHERE id = $2`, physical, itemID)
	if err != nil {
		return translateError(err, "updating physical quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
