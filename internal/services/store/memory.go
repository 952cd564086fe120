package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	items       map[string]string
	quota       int64
	currentSize int64
	stats       Stats
}

// NewMemoryStore creates an in-memory store. A quota of zero disables the limit.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]string),
		quota: quota,
	}
}

// Get retrieves a value from the store
func (ms *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	value, exists := ms.items[key]
	ms.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&ms.stats.Misses, 1)
		return "", false, nil
	}
	atomic.AddInt64(&ms.stats.Hits, 1)
	return value, true, nil
}

// Set stores a value, rejecting writes over quota rather than evicting
func (ms *MemoryStore) Set(ctx context.Context, key, value string) error {
	size := int64(len(key) + len(value))

	ms.mu.Lock()
	defer ms.mu.Unlock()

	others := ms.currentSize
	if old, exists := ms.items[key]; exists {
		others -= int64(len(key) + len(old))
	}
	if ms.quota > 0 && others+size > ms.quota {
		atomic.AddInt64(&ms.stats.Rejected, 1)
		return fmt.Errorf("set %s (%d bytes, %d in use, quota %d): %w", key, size, others, ms.quota, ErrQuotaExceeded)
	}

	ms.items[key] = value
	ms.currentSize = others + size
	atomic.AddInt64(&ms.stats.Sets, 1)
	return nil
}

// Delete removes a value from the store
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	if old, exists := ms.items[key]; exists {
		delete(ms.items, key)
		ms.currentSize -= int64(len(key) + len(old))
		atomic.AddInt64(&ms.stats.Deletes, 1)
	}
	ms.mu.Unlock()
	return nil
}

// Usage returns the current footprint in bytes
func (ms *MemoryStore) Usage(ctx context.Context) (int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.currentSize, nil
}

// Stats returns store statistics
func (ms *MemoryStore) Stats() Stats {
	ms.mu.RLock()
	size := ms.currentSize
	ms.mu.RUnlock()

	return Stats{
		Hits:     atomic.LoadInt64(&ms.stats.Hits),
		Misses:   atomic.LoadInt64(&ms.stats.Misses),
		Sets:     atomic.LoadInt64(&ms.stats.Sets),
		Deletes:  atomic.LoadInt64(&ms.stats.Deletes),
		Rejected: atomic.LoadInt64(&ms.stats.Rejected),
		Size:     size,
		Quota:    ms.quota,
	}
}
