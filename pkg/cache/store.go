package cache

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// DefaultStaleTTL is how long an entry stays readable through GetStale after
// it stops being fresh.
const DefaultStaleTTL = 24 * time.Hour

// Store is the cache collaborator used by the fetch pipeline.
//
// Set takes the freshness in seconds: > 0 keeps the value fresh for that long,
// 0 expires it immediately and < 0 stores it already expired. Values written
// with any duration stay available to GetStale for the store's stale
// retention window.
type Store interface {
	// Get returns a fresh value, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetStale returns a value regardless of freshness, or ErrCacheMiss.
	GetStale(ctx context.Context, key string) ([]byte, error)

	// Set stores a value that stays fresh for the given number of seconds.
	Set(ctx context.Context, key string, value []byte, seconds int) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}

// retention is how long a backend must keep an entry: its remaining
// freshness plus the stale window.
func retention(entry *Entry, staleTTL time.Duration) time.Duration {
	ttl := entry.TTL()
	if ttl > math.MaxInt64-staleTTL {
		return math.MaxInt64
	}
	return ttl + staleTTL
}
