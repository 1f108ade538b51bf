package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits by layer (redis, memory)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branding_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses, including expired entries
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branding_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	// CacheStaleReads tracks entries served through GetStale
	CacheStaleReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branding_cache_stale_reads_total",
			Help: "Total number of successful stale cache reads",
		},
		[]string{"layer"},
	)

	// CacheWrittenBytes tracks bytes written by layer
	CacheWrittenBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branding_cache_written_bytes_total",
			Help: "Total number of bytes written to the cache",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branding_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
