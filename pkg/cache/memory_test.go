package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/logitrack/pkg/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "inventory_all", cache.InventoryAll().String())
	assert.Equal(t, "order_42", cache.Order(42).String())
	assert.NotEqual(t, cache.Order(1).String(), cache.Order(11).String())
}

func TestMemory_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(0)

	var out []string
	hit, err := m.Get(ctx, cache.InventoryAll(), &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, m.Set(ctx, cache.InventoryAll(), []string{"a", "b"}, cache.DefaultTTL))
	hit, err = m.Get(ctx, cache.InventoryAll(), &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, m.Remove(ctx, cache.InventoryAll()))
	hit, _ = m.Get(ctx, cache.InventoryAll(), &out)
	assert.False(t, hit)

	// Removing an absent key is fine.
	assert.NoError(t, m.Remove(ctx, cache.Order(9)))
}

func TestMemory_ValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(0)

	in := []int{1, 2, 3}
	require.NoError(t, m.Set(ctx, cache.Order(1), in, time.Minute))
	in[0] = 99

	var out []int
	hit, err := m.Get(ctx, cache.Order(1), &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestMemory_AbsoluteExpiry(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := cache.NewMemory(0).WithClock(c.Now)

	require.NoError(t, m.Set(ctx, cache.Order(7), "order", cache.DefaultTTL))

	var out string
	c.Advance(29 * time.Second)
	hit, _ := m.Get(ctx, cache.Order(7), &out)
	assert.True(t, hit, "entry should survive inside the TTL window")

	c.Advance(time.Second)
	hit, _ = m.Get(ctx, cache.Order(7), &out)
	assert.False(t, hit, "entry should expire exactly at the TTL")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SizeLimit(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := cache.NewMemory(3).WithClock(c.Now)

	require.NoError(t, m.Set(ctx, cache.InventoryAll(), []int{1, 2}, time.Second))
	require.NoError(t, m.Set(ctx, cache.Order(1), "one", time.Minute))

	// Full: a two-element value does not fit and is silently dropped.
	require.NoError(t, m.Set(ctx, cache.Order(2), []int{1, 2}, time.Minute))
	var out []int
	hit, _ := m.Get(ctx, cache.Order(2), &out)
	assert.False(t, hit)

	// Once the list expires its share is reclaimed.
	c.Advance(2 * time.Second)
	require.NoError(t, m.Set(ctx, cache.Order(2), []int{1, 2}, time.Minute))
	hit, _ = m.Get(ctx, cache.Order(2), &out)
	assert.True(t, hit)
}

func TestMemory_OverwriteReleasesSize(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(2)

	require.NoError(t, m.Set(ctx, cache.InventoryAll(), []int{1, 2}, time.Minute))
	require.NoError(t, m.Set(ctx, cache.InventoryAll(), []int{3, 4}, time.Minute))

	var out []int
	hit, _ := m.Get(ctx, cache.InventoryAll(), &out)
	assert.True(t, hit)
	assert.Equal(t, []int{3, 4}, out)
}

func TestNew_Drivers(t *testing.T) {
	s, err := cache.New(context.Background(), cache.Options{Driver: "memory", SizeLimit: 10})
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, s)

	_, err = cache.New(context.Background(), cache.Options{Driver: "memcached"})
	assert.ErrorIs(t, err, cache.ErrUnknownDriver)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(1024)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			var out uint
			_ = m.Set(ctx, cache.Order(id), id, time.Minute)
			_, _ = m.Get(ctx, cache.Order(id), &out)
			_ = m.Remove(ctx, cache.InventoryAll())
		}(uint(i))
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
