package cache

import (
	"context"
	"time"
)

// Cache is the contract for the shared cache layer. The translation cache
// and hot article reads go through this interface so the implementation can
// be swapped in tests.
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// found = false means a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL. ttl = 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	// (e.g. "translation:<id>:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
