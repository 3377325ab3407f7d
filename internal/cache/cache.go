package cache

import (
	"context"
	"time"
)

// Cache maps short codes to original URLs in front of the store.
// A miss is ("", nil); errors mean the cache itself failed and callers fall back to the store.
type Cache interface {
	// Set stores a key-value pair with expiration
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Ping checks the cache connection
	Ping(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}

// RedirectKey is the cache key for a short code's target
func RedirectKey(shortCode string) string {
	return "url:" + shortCode
}
