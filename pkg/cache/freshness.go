package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// FallbackCacheSeconds is used when neither an override nor usable
	// response headers are present.
	FallbackCacheSeconds = 1800

	// ExpiredSentinel marks a payload as already expired. It is used instead
	// of 0 when Expires is not after Date.
	ExpiredSentinel = -1
)

// CacheSeconds computes how long an upstream payload stays fresh.
//
// Precedence:
//   - override, if non-nil and >= 0, verbatim
//   - Cache-Control max-age, verbatim (may be 0 or negative)
//   - Expires minus Date when both parse; ExpiredSentinel if <= 0
//   - FallbackCacheSeconds
func CacheSeconds(override *int, headers http.Header) int {
	if override != nil && *override >= 0 {
		return *override
	}

	if maxAge, ok := ParseMaxAge(headers); ok {
		return maxAge
	}

	if seconds, ok := expiresMinusDate(headers); ok {
		return seconds
	}

	return FallbackCacheSeconds
}

// ParseMaxAge extracts the max-age directive from the Cache-Control header(s).
func ParseMaxAge(headers http.Header) (int, bool) {
	for _, line := range headers.Values("Cache-Control") {
		for _, directive := range strings.Split(line, ",") {
			name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
			if !found || !strings.EqualFold(strings.TrimSpace(name), "max-age") {
				continue
			}

			value = strings.Trim(strings.TrimSpace(value), `"`)
			seconds, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			return seconds, true
		}
	}
	return 0, false
}

// expiresMinusDate returns Expires - Date in whole seconds. Both headers must
// be present and valid HTTP dates.
func expiresMinusDate(headers http.Header) (int, bool) {
	expires, ok := parseHTTPDate(headers, "Expires")
	if !ok {
		return 0, false
	}
	date, ok := parseHTTPDate(headers, "Date")
	if !ok {
		return 0, false
	}

	seconds := int(expires.Sub(date) / time.Second)
	if seconds <= 0 {
		return ExpiredSentinel, true
	}
	return seconds, true
}

func parseHTTPDate(headers http.Header, name string) (time.Time, bool) {
	value := headers.Get(name)
	if value == "" {
		return time.Time{}, false
	}

	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
