// Package cache provides the cache layer behind the branding and orbit clients.
//
// The package covers three concerns:
//
// - Deterministic cache key derivation (CacheKey)
// - Freshness derivation from upstream response headers (CacheSeconds)
// - Pluggable stores with stale read support (RedisStore, MemoryStore, NullStore)
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create store, keep stale entries for a day past freshness
//	store := cache.NewRedisStore(redisClient, 24*time.Hour)
//
//	// Create cache key
//	key := cache.CacheKey{
//		Namespace: "branding",
//		URL:       "https://branding.files.bbci.co.uk/branding/live/projects/br-123.json",
//		Params:    map[string]string{"projectId": "br-123"},
//	}
//
//	data, err := store.Get(ctx, key.String())
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from upstream
//	}
//
// # Freshness
//
// CacheSeconds resolves how long a payload stays fresh, in this order:
//
//  1. an explicit override (non-nil, >= 0)
//  2. Cache-Control max-age
//  3. Expires minus Date, where a non-positive difference becomes -1
//  4. FallbackCacheSeconds (1800)
//
// # Expiry Contract
//
// Every Store implements the same expiry semantics for Set:
//
//   - seconds > 0: fresh for that many seconds
//   - seconds == 0: expires immediately
//   - seconds < 0: already expired (ExpiredSentinel is -1)
//
// Expired entries are not returned by Get but remain readable through GetStale
// until the store's stale retention window has passed. Some backends treat a
// zero TTL as "never expire"; no Store in this package does, and the -1 sentinel
// exists so that callers never have to rely on a backend's interpretation of 0.
//
// # Metrics
//
//   - branding_cache_hits_total{layer} - Fresh cache hits
//   - branding_cache_misses_total{layer} - Cache misses (absent or expired)
//   - branding_cache_stale_reads_total{layer} - Successful stale reads
//   - branding_cache_written_bytes_total{layer} - Bytes written
//   - branding_cache_errors_total{operation} - Cache operation errors
package cache
