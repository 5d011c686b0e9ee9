package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product, category and
// supplier database operations.
type ProductRepository interface {
	// Category methods
	CreateCategory(executor SQLExecutor, c *models.ProductCategory) (int64, error)
	GetCategories() ([]models.ProductCategory, error)
	GetCategoryByID(id int64) (*models.ProductCategory, error)
	UpdateCategory(executor SQLExecutor, c *models.ProductCategory) error
	DeleteCategory(executor SQLExecutor, id int64) error

	// Supplier methods
	CreateSupplier(executor SQLExecutor, s *models.Supplier) (int64, error)
	GetSuppliers() ([]models.Supplier, error)
	GetSupplierByID(id int64) (*models.Supplier, error)
	UpdateSupplier(executor SQLExecutor, s *models.Supplier) error
	DeleteSupplier(executor SQLExecutor, id int64) error

	// Product methods
	CreateProduct(executor SQLExecutor, p *models.Product) (int64, error)
	GetProducts(onlyActive bool) ([]models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProductForUpdate(executor SQLExecutor, id int64) (*models.Product, error)
	UpdateProduct(executor SQLExecutor, p *models.Product) error
	SetProductQuantity(executor SQLExecutor, id int64, quantity decimal.Decimal) error
	AdjustProductQuantity(executor SQLExecutor, id int64, delta decimal.Decimal) error
	DeactivateProduct(executor SQLExecutor, id int64) error
	GetLowStockProducts() ([]models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// --- Category Methods ---

func (r *productRepository) CreateCategory(executor SQLExecutor, c *models.ProductCategory) (int64, error) {
	query := `INSERT INTO product_categories (name, description, icon, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, c.Name, c.Description, c.Icon, now, now).Scan(&c.ID)
	if err != nil {
		return 0, translateError(err, "creating product category")
	}
	return c.ID, nil
}

func (r *productRepository) GetCategories() ([]models.ProductCategory, error) {
	query := `SELECT id, name, description, icon, created_at, updated_at
	          FROM product_categories ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing product categories")
	}
	defer rows.Close()

	categories := []models.ProductCategory{}
	for rows.Next() {
		var c models.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning product category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *productRepository) GetCategoryByID(id int64) (*models.ProductCategory, error) {
	c := &models.ProductCategory{}
	query := `SELECT id, name, description, icon, created_at, updated_at
	          FROM product_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting product category")
	}
	return c, nil
}

func (r *productRepository) UpdateCategory(executor SQLExecutor, c *models.ProductCategory) error {
	query := `UPDATE product_categories SET name = $1, description = $2, icon = $3, updated_at = $4
	          WHERE id = $5`
	res, err := executor.Exec(query, c.Name, c.Description, c.Icon, time.Now(), c.ID)
	if err != nil {
		return translateError(err, "updating product category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting product category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Supplier Methods ---

const supplierColumns = `id, name, contact_person, email, phone, address, website, tax_id,
	payment_terms, is_active, notes, created_at, updated_at`

func scanSupplier(row interface{ Scan(...interface{}) error }, s *models.Supplier) error {
	return row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Website,
		&s.TaxID, &s.PaymentTerms, &s.IsActive, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
}

func (r *productRepository) CreateSupplier(executor SQLExecutor, s *models.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, contact_person, email, phone, address, website, tax_id,
	            payment_terms, is_active, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if s.PaymentTerms == "" {
		s.PaymentTerms = "30 days"
	}
	now := time.Now()
	err := executor.QueryRow(query, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.Website,
		s.TaxID, s.PaymentTerms, true, s.Notes, now, now).Scan(&s.ID)
	if err != nil {
		return 0, translateError(err, "creating supplier")
	}
	return s.ID, nil
}

func (r *productRepository) GetSuppliers() ([]models.Supplier, error) {
	rows, err := r.db.Query(`SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, translateError(err, "listing suppliers")
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		var s models.Supplier
		if err := scanSupplier(rows, &s); err != nil {
			return nil, translateError(err, "scanning supplier")
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *productRepository) GetSupplierByID(id int64) (*models.Supplier, error) {
	s := &models.Supplier{}
	err := scanSupplier(r.db.QueryRow(`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id), s)
	if err != nil {
		return nil, translateError(err, "getting supplier")
	}
	return s, nil
}

func (r *productRepository) UpdateSupplier(executor SQLExecutor, s *models.Supplier) error {
	query := `UPDATE suppliers
	          SET name = $1, contact_person = $2, email = $3, phone = $4, address = $5, website = $6,
	              tax_id = $7, payment_terms = $8, is_active = $9, notes = $10, updated_at = $11
	          WHERE id = $12`
	res, err := executor.Exec(query, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.Website,
		s.TaxID, s.PaymentTerms, s.IsActive, s.Notes, time.Now(), s.ID)
	if err != nil {
		return translateError(err, "updating supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteSupplier(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(`DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Product Methods ---

const productColumns = `id, name, reference, category_id, supplier_id, unit, quantity_in_stock,
	minimum_stock, optimal_stock, unit_price, description, barcode, image_path, is_active,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Reference, &p.CategoryID, &p.SupplierID, &p.Unit,
		&p.QuantityInStock, &p.MinimumStock, &p.OptimalStock, &p.UnitPrice, &p.Description,
		&p.Barcode, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) CreateProduct(executor SQLExecutor, p *models.Product) (int64, error) {
	query := `INSERT INTO products (name, reference, category_id, supplier_id, unit, quantity_in_stock,
	            minimum_stock, optimal_stock, unit_price, description, barcode, image_path, is_active,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, p.Name, p.Reference, p.CategoryID, p.SupplierID, p.Unit,
		p.QuantityInStock, p.MinimumStock, p.OptimalStock, p.UnitPrice, p.Description, p.Barcode,
		p.ImagePath, true, now, now).Scan(&p.ID)
	if err != nil {
		return 0, translateError(err, "creating product")
	}
	return p.ID, nil
}

func (r *productRepository) GetProducts(onlyActive bool) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, translateError(err, "scanning product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	p := &models.Product{}
	err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id), p)
	if err != nil {
		return nil, translateError(err, "getting product")
	}
	return p, nil
}

// GetProductForUpdate loads a product with a row lock so concurrent
// movements against the same product serialize instead of racing.
func (r *productRepository) GetProductForUpdate(executor SQLExecutor, id int64) (*models.Product, error) {
	p := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	if err := scanProduct(executor.QueryRow(query, id), p); err != nil {
		return nil, translateError(err, "locking product")
	}
	return p, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, p *models.Product) error {
	// quantity_in_stock deliberately excluded: it changes only through
	// SetProductQuantity/AdjustProductQuantity inside movement transactions.
	query := `UPDATE products
	          SET name = $1, reference = $2, category_id = $3, supplier_id = $4, unit = $5,
	              minimum_stock = $6, optimal_stock = $7, unit_price = $8, description = $9,
	              barcode = $10, image_path = $11, is_active = $12, updated_at = $13
	          WHERE id = $14`
	res, err := executor.Exec(query, p.Name, p.Reference, p.CategoryID, p.SupplierID, p.Unit,
		p.MinimumStock, p.OptimalStock, p.UnitPrice, p.Description, p.Barcode, p.ImagePath,
		p.IsActive, time.Now(), p.ID)
	if err != nil {
		return translateError(err, "updating product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) SetProductQuantity(executor SQLExecutor, id int64, quantity decimal.Decimal) error {
	res, err := executor.Exec(
		`UPDATE products SET quantity_in_stock = $1, updated_at = $2 WHERE id = $3`,
		quantity, time.Now(), id)
	if err != nil {
		return translateError(err, "setting product quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) AdjustProductQuantity(executor SQLExecutor, id int64, delta decimal.Decimal) error {
	res, err := executor.Exec(
		`UPDATE products SET quantity_in_stock = quantity_in_stock + $1, updated_at = $2 WHERE id = $3`,
		delta, time.Now(), id)
	if err != nil {
		return translateError(err, "adjusting product quantity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateProduct soft-deletes a product; products are never hard-deleted
// once movements reference them.
func (r *productRepository) DeactivateProduct(executor SQLExecutor, id int64) error {
	res, err := executor.Exec(
		`UPDATE products SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return translateError(err, "deactivating product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) GetLowStockProducts() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE is_active = TRUE AND quantity_in_stock < minimum_stock
	          ORDER BY quantity_in_stock`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing low stock products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, translateError(err, "scanning product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
