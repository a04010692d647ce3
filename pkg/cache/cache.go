// Package cache stores pipeline outputs keyed by content hashes.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the XDG cache directory), [RedisCache] for the HTTP server
// and [NullCache] when caching is disabled. Keys come from a [Keyer]; wrap it
// in a [ScopedKeyer] to give each render session its own namespace.
package cache

import (
	"context"
	"time"
)

// Time-to-live of cached entries.
const (
	// TTLTree applies to trees built from cloc input. Input is addressed by
	// content hash, so entries never go stale; the TTL only bounds disk use.
	TTLTree = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered images and exports.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}
