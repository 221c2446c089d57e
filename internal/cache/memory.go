// Package cache provides the in-process TTL cache used by the caching
// fetcher wrappers. Entries expire lazily: an expired entry is removed
// on the read that observes it, and there is no background sweep, so
// memory use is bounded by the number of distinct keys seen.
package cache

import (
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is a thread-safe in-memory cache with per-entry TTL expiration.
// The clock is injectable so expiry behavior can be tested deterministically.
type Memory[T any] struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]memoryEntry[T]
}

// NewMemory creates a cache backed by the real clock.
func NewMemory[T any]() *Memory[T] {
	return NewMemoryWithClock[T](time.Now)
}

// NewMemoryWithClock creates a cache that reads time from now.
func NewMemoryWithClock[T any](now func() time.Time) *Memory[T] {
	return &Memory[T]{
		now:   now,
		items: make(map[string]memoryEntry[T]),
	}
}

// Get returns the cached value for key, or false if missing or expired.
// An entry whose deadline has passed is indistinguishable from one that
// was never stored.
func (m *Memory[T]) Get(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.items, key)
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key for ttl, overwriting any prior entry.
func (m *Memory[T]) Set(key string, value T, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry[T]{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
}

// Delete removes an entry from the cache.
func (m *Memory[T]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len returns the number of entries currently held, expired or not.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes all entries from the cache.
func (m *Memory[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]memoryEntry[T])
}
