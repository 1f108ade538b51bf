// Package metrics exposes the Prometheus registry the branding and orbit
// clients register with. Metrics are defined in their own packages (cache,
// fetch) via promauto; this package documents them and serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all client metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics in Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves Gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - branding_cache_hits_total{layer} (Counter): Fresh entries served by store layer
//   - branding_cache_misses_total{layer} (Counter): Lookups without a fresh entry
//   - branding_cache_stale_reads_total{layer} (Counter): Expired entries served as fallback
//   - branding_cache_written_bytes_total{layer} (Counter): Bytes written by layer
//   - branding_cache_errors_total{operation} (Counter): Store operation errors
//
// Fetch Metrics (pkg/fetch):
//   - branding_fetch_requests_total{client, status} (Counter): Upstream requests by HTTP status
//   - branding_fetch_duration_seconds{client} (Histogram): Upstream request duration
//   - branding_fetch_errors_total{client, class} (Counter): Failures by class (client, not_found, server, network, timeout)
//   - branding_fetch_cache_lookups_total{client, result} (Counter): Lookups by result (hit, miss, refresh)
//   - branding_stale_fallbacks_total{client} (Counter): Failures answered from a stale entry
//   - branding_malformed_responses_total{client} (Counter): Payloads rejected by validation
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate per client
//   sum by (client) (rate(branding_fetch_cache_lookups_total{result="hit"}[5m])) /
//   sum by (client) (rate(branding_fetch_cache_lookups_total[5m]))
//
//   # Stale Fallback Rate
//   rate(branding_stale_fallbacks_total[5m])
//
//   # Upstream Error Rate by class
//   sum by (class) (rate(branding_fetch_errors_total[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(branding_fetch_duration_seconds_bucket[5m]))
