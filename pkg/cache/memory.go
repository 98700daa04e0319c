package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

type memoryEntry struct {
	data      []byte
	size      int64
	expiresAt time.Time
}

// Memory is a process-local Store.
//
// SizeLimit is advisory accounting: a slice value counts as its length, any
// other value as 1. When storing an entry would push the total over the
// limit, expired entries are purged first; if there is still no room the
// entry is dropped and Set returns nil. A zero limit disables accounting.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	used      int64
	sizeLimit int64
	now       func() time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory(sizeLimit int64) *Memory {
	return &Memory{
		entries:   make(map[string]memoryEntry),
		sizeLimit: sizeLimit,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for expiry. Used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	return m
}

func (m *Memory) Get(_ context.Context, key Key, dest interface{}) (bool, error) {
	k := key.String()

	m.mu.Lock()
	e, ok := m.entries[k]
	if ok && !m.now().Before(e.expiresAt) {
		m.deleteLocked(k)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true, nil
}

func (m *Memory) Set(_ context.Context, key Key, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	size := entrySize(value)
	k := key.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteLocked(k)
	if m.sizeLimit > 0 && m.used+size > m.sizeLimit {
		m.purgeExpiredLocked()
		if m.used+size > m.sizeLimit {
			return nil
		}
	}

	m.entries[k] = memoryEntry{data: data, size: size, expiresAt: m.now().Add(ttl)}
	m.used += size
	return nil
}

func (m *Memory) Remove(_ context.Context, key Key) error {
	m.mu.Lock()
	m.deleteLocked(key.String())
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) deleteLocked(k string) {
	if e, ok := m.entries[k]; ok {
		m.used -= e.size
		delete(m.entries, k)
	}
}

func (m *Memory) purgeExpiredLocked() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			m.deleteLocked(k)
		}
	}
}

func entrySize(value interface{}) int64 {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return int64(v.Len())
	}
	return 1
}
