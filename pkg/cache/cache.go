// Package cache stores computed status reports between requests.
//
// Status checks are expensive: each one downloads a manifest and runs the
// external resolver. The [Cache] interface lets the engine keep a finished
// report for a short TTL, with backends for every deployment shape:
//
//   - [FileCache]: local directory, used by the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: shared cache for deployments that already run MongoDB
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Implementations must be safe for concurrent use. A TTL of zero means the
// entry does not expire.
type Cache interface {
	// Get returns the cached value for key. The boolean is false on a miss
	// or when the entry expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
