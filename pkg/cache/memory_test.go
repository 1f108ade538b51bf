package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryStore(staleTTL time.Duration) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2016, 10, 13, 16, 10, 30, 0, time.UTC)}
	store := NewMemoryStore(staleTTL)
	store.now = clock.Now
	return store, clock
}

func TestMemoryStore_GetSet(t *testing.T) {
	store, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() on empty store error = %v, want ErrCacheMiss", err)
	}

	if err := store.Set(ctx, "k", []byte(`{"head":"h"}`), 60); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"head":"h"}` {
		t.Errorf("Get() = %s, want %s", got, `{"head":"h"}`)
	}
}

func TestMemoryStore_SetCopiesValue(t *testing.T) {
	store, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	value := []byte("abc")
	if err := store.Set(ctx, "k", value, 60); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'x'

	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed with caller slice: %s", got)
	}
}

func TestMemoryStore_SetNil(t *testing.T) {
	store, _ := newTestMemoryStore(time.Hour)
	if err := store.Set(context.Background(), "k", nil, 60); err == nil {
		t.Error("Set(nil) should fail")
	}
}

func TestMemoryStore_Freshness(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int
		advance   time.Duration
		wantFresh bool
		wantStale bool
	}{
		{name: "within freshness", seconds: 60, advance: 30 * time.Second, wantFresh: true, wantStale: true},
		{name: "past freshness within stale window", seconds: 60, advance: 2 * time.Minute, wantFresh: false, wantStale: true},
		{name: "past stale window", seconds: 60, advance: 60*time.Second + time.Hour, wantFresh: false, wantStale: false},
		{name: "zero seconds", seconds: 0, advance: 0, wantFresh: false, wantStale: true},
		{name: "sentinel", seconds: ExpiredSentinel, advance: 0, wantFresh: false, wantStale: true},
		{name: "sentinel past stale window", seconds: ExpiredSentinel, advance: time.Hour, wantFresh: false, wantStale: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, clock := newTestMemoryStore(time.Hour)
			ctx := context.Background()

			if err := store.Set(ctx, "k", []byte("v"), tt.seconds); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			clock.Advance(tt.advance)

			_, err := store.Get(ctx, "k")
			if fresh := err == nil; fresh != tt.wantFresh {
				t.Errorf("Get() fresh = %v, want %v (err=%v)", fresh, tt.wantFresh, err)
			}

			_, err = store.GetStale(ctx, "k")
			if stale := err == nil; stale != tt.wantStale {
				t.Errorf("GetStale() found = %v, want %v (err=%v)", stale, tt.wantStale, err)
			}
		})
	}
}

func TestMemoryStore_EvictsPastStaleWindow(t *testing.T) {
	store, clock := newTestMemoryStore(time.Minute)
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("v"), 10)
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}

	clock.Advance(2 * time.Minute)
	if _, err := store.GetStale(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetStale() error = %v, want ErrCacheMiss", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() after eviction = %d, want 0", store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("v"), 60)
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
	}
	if _, err := store.GetStale(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetStale() after Delete error = %v, want ErrCacheMiss", err)
	}

	// Deleting a missing key is not an error
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemoryStore_DefaultStaleTTL(t *testing.T) {
	store := NewMemoryStore(0)
	if store.staleTTL != DefaultStaleTTL {
		t.Errorf("staleTTL = %v, want %v", store.staleTTL, DefaultStaleTTL)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, "shared", []byte("v"), 60)
				_, _ = store.Get(ctx, "shared")
				_, _ = store.GetStale(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	if _, err := store.Get(ctx, "shared"); err != nil {
		t.Errorf("Get() after concurrent writes error = %v", err)
	}
}

func TestNullStore(t *testing.T) {
	store := NewNullStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 60); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
	if _, err := store.GetStale(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetStale() error = %v, want ErrCacheMiss", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
