package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory groups menu items (starters, mains, desserts, drinks...).
type MenuCategory struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Icon         *string   `json:"icon,omitempty" db:"icon"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a sellable dish. When TrackInventory is set, ordering the
// item deducts its ingredients from stock.
type MenuItem struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name" binding:"required"`
	CategoryID      int64           `json:"category_id" db:"category_id" binding:"required"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	TrackInventory  bool            `json:"track_inventory" db:"track_inventory"`
	ImagePath       *string         `json:"image_path,omitempty" db:"image_path"`
	Calories        *int            `json:"calories,omitempty" db:"calories"`
	PreparationTime *int            `json:"preparation_time,omitempty" db:"preparation_time"`
	IsAvailable     bool            `json:"is_available" db:"is_available"`
	IsVegetarian    bool            `json:"is_vegetarian" db:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan" db:"is_vegan"`
	IsGlutenFree    bool            `json:"is_gluten_free" db:"is_gluten_free"`
	IsSpicy         bool            `json:"is_spicy" db:"is_spicy"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Category    *MenuCategory        `json:"category,omitempty"`
	Ingredients []MenuItemIngredient `json:"ingredients,omitempty"`
}

// MenuItemIngredient is the recipe quantity linking a dish to a stocked
// product. Unique per (menu_item, product).
type MenuItemIngredient struct {
	ID             int64           `json:"id" db:"id"`
	MenuItemID     int64           `json:"menu_item_id" db:"menu_item_id"`
	ProductID      int64           `json:"product_id" db:"product_id" binding:"required"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed" db:"quantity_needed"`

	Product *Product `json:"product,omitempty"`
}
