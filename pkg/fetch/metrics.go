package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for fetch pipeline operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branding_fetch_requests_total",
		Help: "Total upstream requests by client and status",
	}, []string{"client", "status"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "branding_fetch_duration_seconds",
		Help:    "Upstream request duration in seconds by client",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3},
	}, []string{"client"})

	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branding_fetch_errors_total",
		Help: "Total upstream fetch errors by client and class",
	}, []string{"client", "class"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branding_fetch_cache_lookups_total",
		Help: "Cache lookups by client and result (hit, miss, refresh)",
	}, []string{"client", "result"})

	staleFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branding_stale_fallbacks_total",
		Help: "Fetch failures answered with stale cached data",
	}, []string{"client"})

	malformedResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branding_malformed_responses_total",
		Help: "Upstream payloads rejected as invalid or malformed",
	}, []string{"client"})
)
