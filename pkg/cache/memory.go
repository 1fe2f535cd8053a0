package cache

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store. Entries are never evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get returns the entry for key or ErrCacheMiss. Freshness is the caller's call.
func (m *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	cp := *entry
	return &cp, nil
}

// Set stores entry under entry.Key, replacing any previous value.
func (m *MemoryStore) Set(_ context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	cp := *entry

	m.mu.Lock()
	m.entries[entry.Key] = &cp
	size := len(m.entries)
	m.mu.Unlock()

	CacheEntries.WithLabelValues("memory").Set(float64(size))
	return nil
}

// Len returns the number of slots, stale ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
