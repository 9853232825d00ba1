// ABOUTME: In-memory cache implementation on patrickmn/go-cache
// ABOUTME: Holds reader settings and positions for single-process deployments

package memory

import (
	"context"
	"time"

	readererrors "pagereader-api/core/errors"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements the Cache interface in process memory
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a cache that purges expired items every cleanupInterval
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a copy of the value stored under key
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, &readererrors.NotFoundError{Resource: "cache key", ID: key}
	}

	stored := value.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a copy of value. A zero ttl never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.Delete(key)
	return nil
}

// Len returns the number of stored items, expired ones included until purged
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
