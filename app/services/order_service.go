package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/apperr"
	"github.com/shashiranjanraj/logitrack/pkg/cache"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

// OrderStore persists orders and their items.
type OrderStore interface {
	Summaries(ctx context.Context) ([]models.OrderSummary, error)
	Find(ctx context.Context, id uint) (models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// NewOrder is the input for creating an order. A nil DatePlaced means now.
type NewOrder struct {
	CustomerName string
	DatePlaced   *time.Time
	Items        []NewItem
}

// OrderList is the result of OrderService.ListAll.
type OrderList struct {
	Orders    []models.OrderSummary
	QueryTime time.Duration
}

// OrderLookup is the result of OrderService.GetByID. QueryTime is zero on a
// cache hit.
type OrderLookup struct {
	Order     models.Order
	CacheHit  bool
	QueryTime time.Duration
}

// OrderService owns every cache.Order(id) entry.
type OrderService struct {
	repo  OrderStore
	cache cache.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewOrderService(repo OrderStore, store cache.Store, ttl time.Duration) *OrderService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &OrderService{repo: repo, cache: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for default dates and timing.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// ListAll returns a summary of every order. It is never cached.
func (s *OrderService) ListAll(ctx context.Context) (OrderList, error) {
	start := s.now()
	orders, err := s.repo.Summaries(ctx)
	if err != nil {
		return OrderList{}, apperr.Internal("list orders", err)
	}
	return OrderList{Orders: orders, QueryTime: s.now().Sub(start)}, nil
}

// GetByID returns order id with its items, from cache when a live entry
// exists. Missing orders are not cached.
func (s *OrderService) GetByID(ctx context.Context, id uint) (OrderLookup, error) {
	key := cache.Order(id)
	log := logger.WithCtx(ctx)

	var order models.Order
	hit, err := s.cache.Get(ctx, key, &order)
	if err != nil {
		log.Warn("cache read failed", "key", key.String(), "error", err)
	}
	if hit && err == nil {
		return OrderLookup{Order: order, CacheHit: true}, nil
	}

	start := s.now()
	order, err = s.repo.Find(ctx, id)
	elapsed := s.now().Sub(start)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderLookup{QueryTime: elapsed}, apperr.NotFound("Order %d not found", id)
	}
	if err != nil {
		return OrderLookup{}, apperr.Internal("find order", err)
	}

	if err := s.cache.Set(ctx, key, order, s.ttl); err != nil {
		log.Warn("cache fill failed", "key", key.String(), "error", err)
	}
	return OrderLookup{Order: order, QueryTime: elapsed}, nil
}

// Create stores a new order with its items in one insert.
func (s *OrderService) Create(ctx context.Context, in NewOrder) (models.Order, error) {
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		return models.Order{}, apperr.ValidationFields("CustomerName is required.", map[string]string{"customerName": "CustomerName is required."})
	}

	placed := s.now().UTC()
	if in.DatePlaced != nil {
		placed = in.DatePlaced.UTC()
	}

	order := models.Order{CustomerName: customer, DatePlaced: placed, Items: []models.InventoryItem{}}
	for _, it := range in.Items {
		order.AddItem(models.InventoryItem{
			Name:     strings.TrimSpace(it.Name),
			Quantity: it.Quantity,
			Location: strings.TrimSpace(it.Location),
		})
	}

	if err := s.repo.Create(ctx, &order); err != nil {
		return models.Order{}, apperr.Internal("create order", err)
	}

	if err := s.invalidate(ctx, order.OrderID); err != nil {
		return models.Order{}, err
	}
	logger.WithCtx(ctx).Info("order created", "order_id", order.OrderID, "summary", order.Summary())
	return order, nil
}

// Delete detaches the order's items, removes the order and drops its
// cache entry.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete order", err)
	}
	if !found {
		return apperr.NotFound("Order %d not found", id)
	}

	if err := s.invalidate(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("order deleted", "order_id", id)
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, id uint) error {
	key := cache.Order(id)
	if err := s.cache.Remove(ctx, key); err != nil {
		return apperr.Internal("invalidate "+key.String(), err)
	}
	metrics.CacheInvalidations.WithLabelValues(string(key.Kind)).Inc()
	return nil
}
