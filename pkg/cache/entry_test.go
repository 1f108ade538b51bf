package cache

import (
	"math"
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expired entry",
			expires: time.Now().Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "valid entry",
			expires: time.Now().Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "just expired",
			expires: time.Now().Add(-1 * time.Second),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{
				Expires: tt.expires,
			}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2016, 10, 13, 16, 10, 30, 0, time.UTC)

	tests := []struct {
		name        string
		seconds     int
		wantExpired bool
	}{
		{name: "fresh", seconds: 60, wantExpired: false},
		{name: "zero expires immediately", seconds: 0, wantExpired: true},
		{name: "sentinel already expired", seconds: ExpiredSentinel, wantExpired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry([]byte(`{"head":"x"}`), tt.seconds, now)

			if want := now.Add(time.Duration(tt.seconds) * time.Second); !entry.Expires.Equal(want) {
				t.Errorf("Expires = %v, want %v", entry.Expires, want)
			}
			if !entry.CachedAt.Equal(now) {
				t.Errorf("CachedAt = %v, want %v", entry.CachedAt, now)
			}
			if got := entry.isExpiredAt(now); got != tt.wantExpired {
				t.Errorf("isExpiredAt(now) = %v, want %v", got, tt.wantExpired)
			}
		})
	}
}

func TestNewEntry_VeryLongFreshness(t *testing.T) {
	now := time.Date(2016, 10, 13, 16, 10, 30, 0, time.UTC)

	for _, seconds := range []int{math.MaxInt32, math.MaxInt} {
		entry := NewEntry([]byte(`{"head":"x"}`), seconds, now)

		if entry.isExpiredAt(now) {
			t.Errorf("seconds=%d: entry is expired, want fresh", seconds)
		}
		if !entry.Expires.After(now.Add(50 * 365 * 24 * time.Hour)) {
			t.Errorf("seconds=%d: Expires = %v, want decades ahead", seconds, entry.Expires)
		}
		if r := retention(entry, DefaultStaleTTL); r <= DefaultStaleTTL {
			t.Errorf("seconds=%d: retention = %v, want more than the stale window", seconds, r)
		}
	}
}

func TestEntry_TTL(t *testing.T) {
	expired := &Entry{Expires: time.Now().Add(-1 * time.Minute)}
	if ttl := expired.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}

	fresh := &Entry{Expires: time.Now().Add(5 * time.Minute)}
	if ttl := fresh.TTL(); ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL() = %v, want ~5m", ttl)
	}
}
