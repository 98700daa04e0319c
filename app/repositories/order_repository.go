package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Summaries returns every order with its item count, ordered by id.
func (r *OrderRepository) Summaries(ctx context.Context) ([]models.OrderSummary, error) {
	defer metrics.ObserveDBQuery("orders.summaries", time.Now())

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Select("item_id", "order_id") }).
		Order("order_id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}

	out := make([]models.OrderSummary, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].Summarize())
	}
	return out, nil
}

// Find loads the order with id and its items. It returns an error wrapping
// gorm.ErrRecordNotFound when the order does not exist.
func (r *OrderRepository) Find(ctx context.Context, id uint) (models.Order, error) {
	defer metrics.ObserveDBQuery("orders.find", time.Now())

	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_id") }).
		First(&order, id).Error
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: find %d: %w", id, err)
	}
	if order.Items == nil {
		order.Items = []models.InventoryItem{}
	}
	return order, nil
}

// Create inserts order together with its items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("orders.create", time.Now())

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("orders: create: %w", err)
	}
	return nil
}

// Delete detaches the order's items and removes the order in one
// transaction. It reports false when the order does not exist.
func (r *OrderRepository) Delete(ctx context.Context, id uint) (bool, error) {
	defer metrics.ObserveDBQuery("orders.delete", time.Now())

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("order_id").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		if err := tx.Model(&models.InventoryItem{}).
			Where("order_id = ?", id).
			Update("order_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return false, fmt.Errorf("orders: delete %d: %w", id, err)
	}
	return found, nil
}
