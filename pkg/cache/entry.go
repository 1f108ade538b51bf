package cache

import (
	"encoding/json"
	"math"
	"time"
)

// maxFreshSeconds is the longest freshness a time.Duration can hold.
const maxFreshSeconds = math.MaxInt64 / int64(time.Second)

// Entry is the envelope a Store keeps per key.
type Entry struct {
	// Data is the raw upstream payload
	Data json.RawMessage `json:"data"`

	// Expires is when the entry stops being fresh
	Expires time.Time `json:"expires"`

	// CachedAt is when we cached this payload
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry builds an entry that stays fresh for the given number of seconds.
// Zero or negative seconds produce an entry that is already expired.
func NewEntry(data []byte, seconds int, now time.Time) *Entry {
	return &Entry{
		Data:     data,
		Expires:  now.Add(freshFor(seconds)),
		CachedAt: now,
	}
}

// freshFor converts seconds to a Duration, saturating instead of overflowing.
func freshFor(seconds int) time.Duration {
	s := int64(seconds)
	if s > maxFreshSeconds {
		s = maxFreshSeconds
	}
	return time.Duration(s) * time.Second
}

// IsExpired returns true if the entry is no longer fresh.
func (e *Entry) IsExpired() bool {
	return e.isExpiredAt(time.Now())
}

func (e *Entry) isExpiredAt(now time.Time) bool {
	return !now.Before(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
