package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sternrassler/social-lookup/pkg/metrics"
)

// Prometheus metrics for lookups.
var (
	lookupRequestsTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "lookup_requests_total",
		Help: "Total bulk lookups",
	})

	lookupKeysTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_keys_total",
		Help: "Requested user ids by source (cache, remote, unresolved)",
	}, []string{"source"})

	lookupBatchesTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_batches_total",
		Help: "Remote batches dispatched by outcome",
	}, []string{"outcome"})

	lookupBatchDuration = promauto.With(metrics.Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "lookup_batch_duration_seconds",
		Help:    "Remote batch fetch duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
	})

	lookupBatchesInFlight = promauto.With(metrics.Registry).NewGauge(prometheus.GaugeOpts{
		Name: "lookup_batches_in_flight",
		Help: "Remote batches currently being fetched",
	})

	lookupDuration = promauto.With(metrics.Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "lookup_duration_seconds",
		Help:    "End-to-end bulk lookup duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 15, 30},
	})
)
