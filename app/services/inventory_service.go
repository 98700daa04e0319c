package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/apperr"
	"github.com/shashiranjanraj/logitrack/pkg/cache"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

// InventoryStore persists inventory items.
type InventoryStore interface {
	All(ctx context.Context) ([]models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// NewItem is the input for creating an inventory item.
type NewItem struct {
	Name     string
	Quantity int
	Location string
}

// InventoryList is the result of InventoryService.ListAll. QueryTime is
// zero on a cache hit.
type InventoryList struct {
	Items     []models.InventoryItem
	CacheHit  bool
	QueryTime time.Duration
}

// InventoryService owns the cache.InventoryAll entry: it is the only code
// that fills or removes it.
type InventoryService struct {
	repo  InventoryStore
	cache cache.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewInventoryService(repo InventoryStore, store cache.Store, ttl time.Duration) *InventoryService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &InventoryService{repo: repo, cache: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for query timing.
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

// ListAll returns every item, from cache when a live entry exists.
//
// A create or delete that lands between the store read and the cache fill
// below can be overwritten by the stale list for up to one TTL.
func (s *InventoryService) ListAll(ctx context.Context) (InventoryList, error) {
	key := cache.InventoryAll()
	log := logger.WithCtx(ctx)

	var items []models.InventoryItem
	hit, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		log.Warn("cache read failed", "key", key.String(), "error", err)
	}
	if hit && err == nil {
		return InventoryList{Items: items, CacheHit: true}, nil
	}

	start := s.now()
	items, err = s.repo.All(ctx)
	if err != nil {
		return InventoryList{}, apperr.Internal("list inventory", err)
	}
	elapsed := s.now().Sub(start)

	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		log.Warn("cache fill failed", "key", key.String(), "error", err)
	}
	return InventoryList{Items: items, QueryTime: elapsed}, nil
}

// Create trims and stores a new item, then drops the cached list.
func (s *InventoryService) Create(ctx context.Context, in NewItem) (models.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.InventoryItem{}, apperr.ValidationFields("Name is required.", map[string]string{"name": "Name is required."})
	}

	item := models.InventoryItem{
		Name:     name,
		Quantity: in.Quantity,
		Location: strings.TrimSpace(in.Location),
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return models.InventoryItem{}, apperr.Internal("create inventory item", err)
	}

	if err := s.invalidate(ctx); err != nil {
		return models.InventoryItem{}, err
	}
	logger.WithCtx(ctx).Info("inventory item created", "item_id", item.ItemID)
	return item, nil
}

// Delete removes item id, then drops the cached list.
func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete inventory item", err)
	}
	if !found {
		return apperr.NotFound("Inventory item %d not found", id)
	}

	if err := s.invalidate(ctx); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("inventory item deleted", "item_id", id)
	return nil
}

func (s *InventoryService) invalidate(ctx context.Context) error {
	key := cache.InventoryAll()
	if err := s.cache.Remove(ctx, key); err != nil {
		return apperr.Internal("invalidate "+key.String(), err)
	}
	metrics.CacheInvalidations.WithLabelValues(string(key.Kind)).Inc()
	return nil
}
