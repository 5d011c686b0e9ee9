package services

import (
	"testing"

	"resto_backend/internal/models"
	"resto_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *fakeMenuRepo) CreateMenuItem(_ repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	if r.items == nil {
		r.items = map[int64]*models.MenuItem{}
	}
	item.ID = int64(len(r.items) + 1)
	r.items[item.ID] = item
	return item.ID, nil
}

func TestCreateMenuItemChecksCategory(t *testing.T) {
	menuRepo := &fakeMenuRepo{}
	svc := &menuService{menuRepo: menuRepo}

	err := svc.CreateMenuItem(&models.MenuItem{
		Name:       "Steak Frites",
		CategoryID: 3,
		Price:      decimal.NewFromInt(18),
	})
	assert.ErrorIs(t, err, ErrMenuCategoryNotFound)
	assert.Empty(t, menuRepo.items)
}

func TestCreateMenuItemDefaultsAvailable(t *testing.T) {
	menuRepo := &fakeMenuRepo{
		categories: map[int64]*models.MenuCategory{
			3: {ID: 3, Name: "Mains"},
		},
	}
	svc := &menuService{menuRepo: menuRepo}

	item := &models.MenuItem{
		Name:       "Steak Frites",
		CategoryID: 3,
		Price:      decimal.NewFromInt(18),
	}
	require.NoError(t, svc.CreateMenuItem(item))
	assert.True(t, item.IsAvailable)
	require.Len(t, menuRepo.items, 1)
}
