package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, staleTTL time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, staleTTL), mr
}

func TestRedisStore_GetSet(t *testing.T) {
	store, _ := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "branding:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "branding:abc", []byte(`{"head":"h"}`), 60))

	got, err := store.Get(ctx, "branding:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"head":"h"}`, string(got))
}

func TestRedisStore_EnvelopeAndTTL(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`{"head":"h"}`), 60))

	raw, err := mr.Get("k")
	require.NoError(t, err)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.JSONEq(t, `{"head":"h"}`, string(entry.Data))
	assert.WithinDuration(t, entry.CachedAt.Add(60*time.Second), entry.Expires, time.Second)

	// Redis keeps the key for freshness plus the stale window
	ttl := mr.TTL("k")
	assert.Greater(t, ttl, time.Hour)
	assert.LessOrEqual(t, ttl, time.Hour+60*time.Second)
}

func TestRedisStore_ExpiredEntryIsStale(t *testing.T) {
	store, _ := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`{"head":"h"}`), ExpiredSentinel))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := store.GetStale(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"head":"h"}`, string(got))
}

func TestRedisStore_StaleWindowElapsed(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`{"head":"h"}`), 0))
	mr.FastForward(2 * time.Minute)

	_, err := store.GetStale(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_InvalidEntry(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set("k", "not-json"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = store.GetStale(ctx, "k")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte(`{}`), 60))
	require.NoError(t, store.Delete(ctx, "k"))

	assert.False(t, mr.Exists("k"))
	_, err := store.GetStale(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_SetNil(t *testing.T) {
	store, _ := setupRedisStore(t, time.Hour)
	assert.Error(t, store.Set(context.Background(), "k", nil, 60))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.Error(t, store.Set(context.Background(), "k", []byte(`{}`), 60))
}

func TestNewRedisStore_NilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewRedisStore(nil, time.Hour) })
}
