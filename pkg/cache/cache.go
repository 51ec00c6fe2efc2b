// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte store with per-entry TTL. Three implementations are
// provided: [FileCache] for the CLI, [RedisCache] for the HTTP server and
// [NullCache] when caching is disabled. Keys are built by a [Keyer] from a
// content hash of the input and the options that affect the output, so a
// changed document or option never reads a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// NewNullCache returns a cache that stores nothing, used for --no-cache.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nullCache) Delete(context.Context, string) error { return nil }

func (nullCache) Close() error { return nil }
