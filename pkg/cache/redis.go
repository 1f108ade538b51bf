package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const layerRedis = "redis"

// RedisStore is a Store backed by Redis.
//
// Entries are stored as JSON envelopes carrying their own expiry, so that
// Redis keeps them for freshness + stale retention while Get still honours
// the freshness window.
type RedisStore struct {
	redis    *redis.Client
	staleTTL time.Duration
}

// NewRedisStore creates a new Redis-backed store. A non-positive staleTTL
// falls back to DefaultStaleTTL.
func NewRedisStore(redisClient *redis.Client, staleTTL time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if staleTTL <= 0 {
		staleTTL = DefaultStaleTTL
	}
	return &RedisStore{
		redis:    redisClient,
		staleTTL: staleTTL,
	}
}

// Get retrieves a fresh value by key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if entry.IsExpired() {
		CacheMisses.WithLabelValues(layerRedis).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerRedis).Inc()
	return entry.Data, nil
}

// GetStale retrieves a value by key ignoring its freshness.
func (s *RedisStore) GetStale(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	CacheStaleReads.WithLabelValues(layerRedis).Inc()
	return entry.Data, nil
}

func (s *RedisStore) load(ctx context.Context, key string) (*Entry, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(layerRedis).Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Set stores a value that stays fresh for the given number of seconds.
// Redis expires the key once the stale retention window has also passed.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, seconds int) error {
	if value == nil {
		return fmt.Errorf("cache value cannot be nil")
	}

	entry := NewEntry(value, seconds, time.Now())

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key, data, retention(entry, s.staleTTL)).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheWrittenBytes.WithLabelValues(layerRedis).Add(float64(len(data)))

	return nil
}

// Delete removes a cache entry.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}
