package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"
)

// MenuRepository defines the interface for menu catalog database operations.
type MenuRepository interface {
	CreateMenuCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error)
	GetMenuCategories() ([]models.MenuCategory, error)
	GetMenuCategoryByID(id int64) (*models.MenuCategory, error)
	UpdateMenuCategory(executor SQLExecutor, category *models.MenuCategory) error
	DeleteMenuCategory(executor SQLExecutor, id int64) error

	CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error)
	GetMenuItemByID(id int64) (*models.MenuItem, error)
	UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error
	SetMenuItemAvailability(executor SQLExecutor, id int64, available bool) error
	DeleteMenuItem(executor SQLExecutor, id int64) error

	CreateIngredient(executor SQLExecutor, ing *models.MenuItemIngredient) (int64, error)
	GetIngredients(menuItemID int64) ([]models.MenuItemIngredient, error)
	DeleteIngredient(executor SQLExecutor, id int64) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateMenuCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error) {
	query := `INSERT INTO menu_categories (name, description, icon, display_order, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, category.Name, category.Description, category.Icon,
		category.DisplayOrder, category.IsActive, now, now).Scan(&category.ID)
	if err != nil {
		return 0, translateError(err, "creating menu category")
	}
	return category.ID, nil
}

func (r *menuRepository) GetMenuCategories() ([]models.MenuCategory, error) {
	query := `SELECT id, name, description, icon, display_order, is_active, created_at, updated_at
	          FROM menu_categories ORDER BY display_order, name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing menu categories")
	}
	defer rows.Close()

	categories := []models.MenuCategory{}
	for rows.Next() {
		var c models.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.DisplayOrder,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning menu category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *menuRepository) GetMenuCategoryByID(id int64) (*models.MenuCategory, error) {
	c := &models.MenuCategory{}
	query := `SELECT id, name, description, icon, display_order, is_active, created_at, updated_at
	          FROM menu_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Icon,
		&c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting menu category")
	}
	return c, nil
}

func (r *menuRepository) UpdateMenuCategory(executor SQLExecutor, category *models.MenuCategory) error {
	query := `UPDATE menu_categories
	          SET name = $1, description = $2, icon = $3, display_order = $4, is_active = $5, updated_at = $6
	          WHERE id = $7`
	res, err := executor.Exec(query, category.Name, category.Description, category.Icon,
		category.DisplayOrder, category.IsActive, time.Now(), category.ID)
	if err != nil {
		return translateError(err, "updating menu category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteMenuCategory(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting menu category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const menuItemColumns = `id, name, category_id, description, price, track_inventory, image_path,
	calories, preparation_time, is_available, is_vegetarian, is_vegan, is_gluten_free, is_spicy,
	created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }, m *models.MenuItem) error {
	return row.Scan(&m.ID, &m.Name, &m.CategoryID, &m.Description, &m.Price, &m.TrackInventory,
		&m.ImagePath, &m.Calories, &m.PreparationTime, &m.IsAvailable, &m.IsVegetarian,
		&m.IsVegan, &m.IsGlutenFree, &m.IsSpicy, &m.CreatedAt, &m.UpdatedAt)
}

func (r *menuRepository) CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items (name, category_id, description, price, track_inventory, image_path,
	            calories, preparation_time, is_available, is_vegetarian, is_vegan, is_gluten_free,
	            is_spicy, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, item.Name, item.CategoryID, item.Description, item.Price,
		item.TrackInventory, item.ImagePath, item.Calories, item.PreparationTime, item.IsAvailable,
		item.IsVegetarian, item.IsVegan, item.IsGlutenFree, item.IsSpicy, now, now).Scan(&item.ID)
	if err != nil {
		return 0, translateError(err, "creating menu item")
	}
	return item.ID, nil
}

func (r *menuRepository) GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + `
	          FROM menu_items
	          WHERE ($1::bigint IS NULL OR category_id = $1)
	            AND ($2::boolean = false OR is_available = true)
	          ORDER BY name`
	rows, err := r.db.Query(query, categoryID, availableOnly)
	if err != nil {
		return nil, translateError(err, "listing menu items")
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var m models.MenuItem
		if err := scanMenuItem(rows, &m); err != nil {
			return nil, translateError(err, "scanning menu item")
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *menuRepository) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	if err := scanMenuItem(r.db.QueryRow(query, id), m); err != nil {
		return nil, translateError(err, "getting menu item")
	}
	return m, nil
}

func (r *menuRepository) UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items
	          SET name = $1, category_id = $2, description = $3, price = $4, track_inventory = $5,
	              image_path = $6, calories = $7, preparation_time = $8, is_available = $9,
	              is_vegetarian = $10, is_vegan = $11, is_gluten_free = $12, is_spicy = $13,
	              updated_at = $14
	          WHERE id = $15`
	res, err := executor.Exec(query, item.Name, item.CategoryID, item.Description, item.Price,
		item.TrackInventory, item.ImagePath, item.Calories, item.PreparationTime, item.IsAvailable,
		item.IsVegetarian, item.IsVegan, item.IsGlutenFree, item.IsSpicy, time.Now(), item.ID)
	if err != nil {
		return translateError(err, "updating menu item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) SetMenuItemAvailability(executor SQLExecutor, id int64, available bool) error {
	res, err := executor.Exec(
		`UPDATE menu_items SET is_available = $1, updated_at = $2 WHERE id = $3`,
		available, time.Now(), id)
	if err != nil {
		return translateError(err, "updating menu item availability")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteMenuItem(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting menu item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) CreateIngredient(executor SQLExecutor, ing *models.MenuItemIngredient) (int64, error) {
	query := `INSERT INTO menu_item_ingredients (menu_item_id, product_id, quantity_needed)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	err := executor.QueryRow(query, ing.MenuItemID, ing.ProductID, ing.QuantityNeeded).Scan(&ing.ID)
	if err != nil {
		return 0, translateError(err, "creating menu item ingredient")
	}
	return ing.ID, nil
}

func (r *menuRepository) GetIngredients(menuItemID int64) ([]models.MenuItemIngredient, error) {
	query := `SELECT i.id, i.menu_item_id, i.product_id, i.quantity_needed
	          FROM menu_item_ingredients i
	          WHERE i.menu_item_id = $1
	          ORDER BY i.id`
	rows, err := r.db.Query(query, menuItemID)
	if err != nil {
		return nil, translateError(err, "listing menu item ingredients")
	}
	defer rows.Close()

	ingredients := []models.MenuItemIngredient{}
	for rows.Next() {
		var ing models.MenuItemIngredient
		if err := rows.Scan(&ing.ID, &ing.MenuItemID, &ing.ProductID, &ing.QuantityNeeded); err != nil {
			return nil, translateError(err, "scanning menu item ingredient")
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (r *menuRepository) DeleteIngredient(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM menu_item_ingredients WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting menu item ingredient")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
