package services

import (
	"database/sql"
	"errors"
	"fmt"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"
)

var (
	ErrMenuCategoryNotFound = errors.New("menu category not found")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrIngredientNotFound   = errors.New("menu item ingredient not found")
	ErrMenuCategoryInUse    = errors.New("menu category is referenced by items")
	ErrIngredientDuplicate  = errors.New("product is already an ingredient of this item")
)

// --- MenuService Interface ---
type MenuService interface {
	CreateCategory(c *models.MenuCategory) error
	GetCategories() ([]models.MenuCategory, error)
	UpdateCategory(c *models.MenuCategory) error
	DeleteCategory(id int64) error

	CreateMenuItem(item *models.MenuItem) error
	GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error)
	GetMenuItemByID(id int64) (*models.MenuItem, error)
	UpdateMenuItem(item *models.MenuItem) error
	SetAvailability(id int64, available bool) error
	DeleteMenuItem(id int64) error

	AddIngredient(ing *models.MenuItemIngredient) error
	RemoveIngredient(id int64) error
}

// --- menuService Implementation ---
type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, db: db}
}

func (s *menuService) CreateCategory(c *models.MenuCategory) error {
	c.IsActive = true
	if _, err := s.menuRepo.CreateMenuCategory(s.db, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: category name", ErrConflict)
		}
		return fmt.Errorf("failed to create menu category: %w", err)
	}
	return nil
}

func (s *menuService) GetCategories() ([]models.MenuCategory, error) {
	return s.menuRepo.GetMenuCategories()
}

func (s *menuService) UpdateCategory(c *models.MenuCategory) error {
	if err := s.menuRepo.UpdateMenuCategory(s.db, c); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuCategoryNotFound
		}
		return fmt.Errorf("failed to update menu category: %w", err)
	}
	return nil
}

func (s *menuService) DeleteCategory(id int64) error {
	if err := s.menuRepo.DeleteMenuCategory(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuCategoryNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrMenuCategoryInUse
		}
		return fmt.Errorf("failed to delete menu category: %w", err)
	}
	return nil
}

func (s *menuService) CreateMenuItem(item *models.MenuItem) error {
	if item.Price.Sign() < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if _, err := s.menuRepo.GetMenuCategoryByID(item.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuCategoryNotFound
		}
		return fmt.Errorf("failed to fetch menu category: %w", err)
	}
	item.IsAvailable = true
	if _, err := s.menuRepo.CreateMenuItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrMenuCategoryNotFound
		}
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (s *menuService) GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error) {
	return s.menuRepo.GetMenuItems(categoryID, availableOnly)
}

func (s *menuService) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetMenuItemByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	ingredients, err := s.menuRepo.GetIngredients(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item ingredients: %w", err)
	}
	item.Ingredients = ingredients
	return item, nil
}

func (s *menuService) UpdateMenuItem(item *models.MenuItem) error {
	if item.Price.Sign() < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if err := s.menuRepo.UpdateMenuItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrMenuCategoryNotFound
		}
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

func (s *menuService) SetAvailability(id int64, available bool) error {
	if err := s.menuRepo.SetMenuItemAvailability(s.db, id, available); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to update availability: %w", err)
	}
	return nil
}

func (s *menuService) DeleteMenuItem(id int64) error {
	if err := s.menuRepo.DeleteMenuItem(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: menu item appears on orders", ErrConflict)
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

func (s *menuService) AddIngredient(ing *models.MenuItemIngredient) error {
	if ing.QuantityNeeded.Sign() <= 0 {
		return fmt.Errorf("%w: ingredient quantity must be positive", ErrValidation)
	}
	if _, err := s.menuRepo.CreateIngredient(s.db, ing); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrIngredientDuplicate
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: menu item or product missing", ErrValidation)
		}
		return fmt.Errorf("failed to add ingredient: %w", err)
	}
	return nil
}

func (s *menuService) RemoveIngredient(id int64) error {
	if err := s.menuRepo.DeleteIngredient(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrIngredientNotFound
		}
		return fmt.Errorf("failed to remove ingredient: %w", err)
	}
	return nil
}
