// Package metrics exposes the Prometheus registry shared by all packages.
// Metrics are defined next to the code that records them (cache, client,
// lookup) and registered on Registry through promauto.With; this package
// only serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every package's metrics are created on. It is
// the default Prometheus registerer, which Handler gathers from.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving the default gatherer.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Metrics Documentation
//
// Lookup Metrics (pkg/lookup):
//   - lookup_requests_total (Counter): Lookup calls
//   - lookup_keys_total{source} (Counter): Requested ids by source (cache, remote, unresolved)
//   - lookup_batches_total{outcome} (Counter): Dispatched batches by outcome (success, failure)
//   - lookup_batch_duration_seconds (Histogram): Remote batch fetch latency
//   - lookup_batches_in_flight (Gauge): Batches currently being fetched
//   - lookup_duration_seconds (Histogram): End-to-end lookup latency
//
// Cache Metrics (pkg/cache):
//   - lookup_cache_hits_total{layer} (Counter): Contains hits by backend (memory, lru, redis)
//   - lookup_cache_misses_total{layer} (Counter): Contains misses by backend
//   - lookup_cache_writes_total{layer} (Counter): Records written by backend
//   - lookup_cache_errors_total{layer,operation} (Counter): Backend failures and rejected writes
//   - lookup_cache_lru_evictions_total (Counter): LRU size/TTL evictions
//
// Remote API Metrics (pkg/client):
//   - lookup_api_requests_total{endpoint,status} (Counter): Requests by endpoint and HTTP status
//   - lookup_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - lookup_api_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, decode)
//   - lookup_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - lookup_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - lookup_api_retry_exhausted_total{error_class} (Counter): Calls that exhausted retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(lookup_keys_total{source="cache"}[5m])) / sum(rate(lookup_keys_total[5m]))
//
//   # Batch Failure Rate
//   rate(lookup_batches_total{outcome="failure"}[5m]) / rate(lookup_batches_total[5m])
//
//   # P95 Batch Latency
//   histogram_quantile(0.95, rate(lookup_batch_duration_seconds_bucket[5m]))
