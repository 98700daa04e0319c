// Package cache provides the read-through cache used by the inventory and
// order endpoints.
//
// Keys are typed so that callers cannot collide by formatting strings by
// hand. Each key has a single owning writer:
//
//	cache.InventoryAll()  written and removed only by the inventory service
//	cache.Order(id)       written and removed only by the order service
//
// Values are stored JSON encoded, so a reader never shares memory with the
// writer that filled the entry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DefaultTTL is the absolute lifetime of every cache entry.
const DefaultTTL = 30 * time.Second

// Kind tags the family a key belongs to.
type Kind string

const (
	KindInventoryAll Kind = "inventory_all"
	KindOrder        Kind = "order"
)

// Key identifies one cache entry.
type Key struct {
	Kind Kind
	ID   uint
}

// InventoryAll is the key of the full inventory list.
func InventoryAll() Key { return Key{Kind: KindInventoryAll} }

// Order is the key of a single order with its items.
func Order(id uint) Key { return Key{Kind: KindOrder, ID: id} }

// String renders the wire form: "inventory_all" or "order_{id}".
func (k Key) String() string {
	if k.Kind == KindInventoryAll {
		return string(k.Kind)
	}
	return string(k.Kind) + "_" + strconv.FormatUint(uint64(k.ID), 10)
}

// Store is a keyed cache with per-entry absolute expiry.
type Store interface {
	// Get decodes the entry under key into dest. It reports false on a miss
	// or an expired entry.
	Get(ctx context.Context, key Key, dest interface{}) (bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key Key, value interface{}, ttl time.Duration) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key Key) error
}

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("cache: unknown driver")

// Options configures New.
type Options struct {
	Driver        string // "memory" | "redis"
	SizeLimit     int64
	RedisAddr     string
	RedisPassword string
}

// New builds the configured Store. The redis driver is pinged before it is
// returned.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(opts.SizeLimit), nil
	case "redis":
		r, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w %q (supported: memory, redis)", ErrUnknownDriver, opts.Driver)
	}
}
