// Package interfaces defines the collaborator contracts used throughout the reader core.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the key-value contract behind the settings and positions store.
// Implementations can be Redis, in-memory, SQLite or any other backend.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "sync:settings", data, 0)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "sync:settings")
//	if errors.IsNotFound(err) {
//		// absent
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns a *errors.NotFoundError if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
