// Package cache stores solved routings so that repeated runs with the same
// graph, lattice and solver options return immediately.
//
// Backends implement [Cache]: [NullCache] disables caching, [FileCache]
// keeps entries under a local directory for the CLI, [BadgerCache] uses an
// embedded key-value store and [RedisCache] a shared Redis server. Keys are
// produced by a [Keyer] so that callers can scope them per tenant.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is reported
	// as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is how long solved routings are kept.
const DefaultTTL = 30 * 24 * time.Hour
