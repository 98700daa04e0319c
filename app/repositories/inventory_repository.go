package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

// InventoryRepository handles database operations for InventoryItem.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// All returns every item ordered by id.
func (r *InventoryRepository) All(ctx context.Context) ([]models.InventoryItem, error) {
	defer metrics.ObserveDBQuery("inventory.all", time.Now())

	items := []models.InventoryItem{}
	if err := r.db.WithContext(ctx).Order("item_id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	return items, nil
}

// Create inserts item and fills in its id.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	defer metrics.ObserveDBQuery("inventory.create", time.Now())

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("inventory: create: %w", err)
	}
	return nil
}

// Delete removes the item with id. It reports false when no row matched.
func (r *InventoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	defer metrics.ObserveDBQuery("inventory.delete", time.Now())

	res := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("inventory: delete %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
