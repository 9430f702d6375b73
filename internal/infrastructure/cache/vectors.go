package cache

import (
	"context"
	"sync"

	"github.com/visara/backend/internal/domain"
)

// defaultMaxEntries bounds the cache so a long-running process with many
// distinct texts cannot grow without limit
const defaultMaxEntries = 4096

// VectorCache is a thread-safe, bounded in-memory store for embedding
// vectors. Entries are keyed by (model, canonical text) and are pure
// functions of their key, so they never expire and an idempotent overwrite
// by a concurrent writer is harmless. Constructed fresh per test.
type VectorCache struct {
	data       map[string][]float64
	maxEntries int
	mutex      sync.RWMutex
}

// NewVectorCache creates a new vector cache with the given capacity.
// A non-positive capacity falls back to the default.
func NewVectorCache(maxEntries int) *VectorCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &VectorCache{
		data:       make(map[string][]float64),
		maxEntries: maxEntries,
	}
}

// Get retrieves a vector from the cache
func (c *VectorCache) Get(ctx context.Context, key string) ([]float64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	vec, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	return vec, nil
}

// Set stores a vector in the cache. When the cache is at capacity and the
// key is new, one existing entry is evicted; map iteration order makes the
// victim arbitrary, which is acceptable for a pure memoization cache.
func (c *VectorCache) Set(ctx context.Context, key string, vector []float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		for victim := range c.data {
			delete(c.data, victim)
			break
		}
	}

	// Copy so later mutation of the caller's slice cannot corrupt the cache
	stored := make([]float64, len(vector))
	copy(stored, vector)
	c.data[key] = stored

	return nil
}

// Size returns the current number of cached vectors (for debugging/monitoring)
func (c *VectorCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all cached vectors
func (c *VectorCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string][]float64)
}
