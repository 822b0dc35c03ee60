// Package cache stores computed layouts, fitted frames and rendered artifacts.
//
// Three backends share the [Cache] interface:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries on disk for the CLI
//   - [RedisCache] shares entries between server replicas
//
// Keys are built by a [Keyer] so that every entry point (CLI, HTTP API)
// addresses the same entry for the same inputs:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey("paper", 5)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Layout descriptors depend only on N and the
// skin table, so they live longest.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLFrame    = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
