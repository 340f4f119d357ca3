package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get reports three outcomes: (data, true, nil) on a hit, (nil, false, nil)
// on a miss, and (nil, false, err) on a backend failure. An expired entry is
// a miss, not an error.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
