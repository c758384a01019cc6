package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryCache is a mutex-guarded in-process Backend. It backs tests and
// single-node deployments that run without Redis. Entries with a ttl are
// lazily expired on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

var _ Backend = (*MemoryCache)(nil)

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the value stored under key, or ErrMiss.
func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", ErrMiss
	}
	return entry.value, nil
}

// Set stores value under key. A zero ttl means no expiry.
func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Incr atomically increments the integer stored under key.
// A missing or non-numeric value counts as zero.
func (m *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, _ := strconv.ParseInt(m.entries[key].value, 10, 64)
	current++
	m.entries[key] = memoryEntry{value: strconv.FormatInt(current, 10)}
	return current, nil
}

// Delete removes key.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Len reports the number of live entries; used by tests.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
