package store

import (
	"context"
	"sync"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

// MemoryCache is a concurrency-safe in-memory snapshot cache.
type MemoryCache struct {
	mu sync.RWMutex

	// key: registry fingerprint
	data map[string]weather.Snapshot
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]weather.Snapshot),
	}
}

// Get returns the snapshot stored under key, stale or not.
func (c *MemoryCache) Get(_ context.Context, key string) (weather.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.data[key]
	if !ok {
		return weather.Snapshot{}, weather.ErrCacheMiss
	}
	return snap, nil
}

// Put replaces the snapshot stored under key.
func (c *MemoryCache) Put(_ context.Context, key string, snap weather.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = snap
	return nil
}

// Invalidate removes the snapshot stored under key. Removing a missing key
// is not an error.
func (c *MemoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}
