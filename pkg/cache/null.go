package cache

import "context"

// NullStore never stores anything. Every read is a miss.
type NullStore struct{}

// NewNullStore returns a Store that caches nothing.
func NewNullStore() NullStore {
	return NullStore{}
}

func (NullStore) Get(context.Context, string) ([]byte, error)      { return nil, ErrCacheMiss }
func (NullStore) GetStale(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (NullStore) Set(context.Context, string, []byte, int) error   { return nil }
func (NullStore) Delete(context.Context, string) error             { return nil }

var (
	_ Store = NullStore{}
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
