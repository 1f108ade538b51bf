package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const layerMemory = "memory"

type memoryItem struct {
	entry   *Entry
	evictAt time.Time
}

// MemoryStore is an in-process Store. Entries past their stale retention
// window are dropped lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]memoryItem
	staleTTL time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty in-process store. A non-positive staleTTL
// falls back to DefaultStaleTTL.
func NewMemoryStore(staleTTL time.Duration) *MemoryStore {
	if staleTTL <= 0 {
		staleTTL = DefaultStaleTTL
	}
	return &MemoryStore{
		items:    make(map[string]memoryItem),
		staleTTL: staleTTL,
		now:      time.Now,
	}
}

// Get returns a fresh value, or ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	item, ok := s.lookup(key)
	if !ok || item.entry.isExpiredAt(s.now()) {
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerMemory).Inc()
	return item.entry.Data, nil
}

// GetStale returns a value regardless of freshness, or ErrCacheMiss.
func (s *MemoryStore) GetStale(_ context.Context, key string) ([]byte, error) {
	item, ok := s.lookup(key)
	if !ok {
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	CacheStaleReads.WithLabelValues(layerMemory).Inc()
	return item.entry.Data, nil
}

func (s *MemoryStore) lookup(key string) (memoryItem, bool) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return memoryItem{}, false
	}

	if !s.now().Before(item.evictAt) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have replaced the item.
		if current, ok := s.items[key]; ok && !s.now().Before(current.evictAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return memoryItem{}, false
	}

	return item, true
}

// Set stores a value that stays fresh for the given number of seconds.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, seconds int) error {
	if value == nil {
		return fmt.Errorf("cache value cannot be nil")
	}

	now := s.now()
	entry := NewEntry(append([]byte(nil), value...), seconds, now)
	evictAt := entry.Expires
	if evictAt.Before(now) {
		evictAt = now
	}

	s.mu.Lock()
	s.items[key] = memoryItem{
		entry:   entry,
		evictAt: evictAt.Add(s.staleTTL),
	}
	s.mu.Unlock()

	CacheWrittenBytes.WithLabelValues(layerMemory).Add(float64(len(value)))
	return nil
}

// Delete removes a value.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of retained entries, fresh or stale.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
