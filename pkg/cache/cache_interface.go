package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Keeps the implementation swappable (Redis, in-memory for tests).
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns found=false on cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache
	Delete(ctx context.Context, keys ...string) error

	// Exists checks key presence without reading the value
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the connection
	Ping(ctx context.Context) error
}
