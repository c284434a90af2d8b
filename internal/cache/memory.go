package cache

import (
	"sync"
	"time"
)

// MemoryCache is an in-process TTL cache. Entries are immutable once
// written and expire on read; CleanExpired reclaims entries that were
// never read again.
type MemoryCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryItem[T]
}

type memoryItem[T any] struct {
	data      T
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache whose entries live for ttl.
func NewMemoryCache[T any](ttl time.Duration) *MemoryCache[T] {
	return &MemoryCache[T]{
		ttl:   ttl,
		items: make(map[string]memoryItem[T]),
	}
}

// Get retrieves a value, dropping it when the TTL has elapsed.
func (c *MemoryCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	item, exists := c.items[key]
	if !exists {
		return zero, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return item.data, true
}

// Set stores a value with the configured TTL.
func (c *MemoryCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = memoryItem[T]{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a key from the cache.
func (c *MemoryCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size returns the number of stored entries, expired ones included.
func (c *MemoryCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired removes all expired entries and returns how many were removed.
func (c *MemoryCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}
