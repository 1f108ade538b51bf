package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// DefaultNamespace is used when a CacheKey has no namespace.
const DefaultNamespace = "branding"

// CacheKey identifies a cached upstream payload.
type CacheKey struct {
	// Namespace is the per-client prefix (e.g., "branding", "orbit")
	Namespace string

	// URL is the fully resolved upstream URL
	URL string

	// Params are the logical request parameters (e.g., {"language": "cy"})
	Params map[string]string
}

// String generates a deterministic cache key string.
// Format: namespace:md5(url + canonical params)
//
// Example:
//
//	branding:4f7c0e0a0c4d7d0b2b1d6bd7a1a0d7d9
func (k CacheKey) String() string {
	namespace := k.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	sum := md5.Sum([]byte(k.URL + canonicalParams(k.Params)))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// canonicalParams serializes params with sorted keys. Empty and nil maps
// serialize identically.
func canonicalParams(params map[string]string) string {
	if len(params) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(key))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(params[key]))
	}
	b.WriteByte('}')
	return b.String()
}
