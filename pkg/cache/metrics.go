package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sternrassler/social-lookup/pkg/metrics"
)

// Cache layers used as metric labels.
const (
	LayerMemory = "memory"
	LayerLRU    = "lru"
	LayerRedis  = "redis"
)

var (
	// CacheHits counts Contains checks that found a record, by layer. Get is
	// not counted, so a partition check followed by a read-back counts once.
	// A tiered store counts per layer: an L2 hit is also an L1 miss.
	CacheHits = promauto.With(metrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_cache_hits_total",
			Help: "Total number of user cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses counts Contains checks that found nothing, by layer
	CacheMisses = promauto.With(metrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_cache_misses_total",
			Help: "Total number of user cache misses",
		},
		[]string{"layer"},
	)

	// CacheWrites tracks stored records by layer
	CacheWrites = promauto.With(metrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_cache_writes_total",
			Help: "Total number of user records written to the cache",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks backend failures and rejected writes
	CacheErrors = promauto.With(metrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"layer", "operation"}, // "contains", "get", "put"
	)

	lruEvictions = promauto.With(metrics.Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "lookup_cache_lru_evictions_total",
			Help: "Total number of records evicted from the LRU store by size or TTL",
		},
	)
)

func observe(layer string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(layer).Inc()
		return
	}
	CacheMisses.WithLabelValues(layer).Inc()
}
