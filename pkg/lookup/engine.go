package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// Engine is the bulk lookup entry point. It holds no per-call state; any
// number of lookups may run concurrently against the same store.
type Engine struct {
	store        cache.Store
	orchestrator *Orchestrator
	config       Config
	logger       zerolog.Logger
}

// NewEngine creates a lookup engine over store and fetcher.
func NewEngine(store cache.Store, fetcher users.BatchFetcher, config Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("batch fetcher is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lookup config: %w", err)
	}

	return &Engine{
		store:        store,
		orchestrator: NewOrchestrator(fetcher, store, config),
		config:       config,
		logger:       logging.NewLogger("lookup"),
	}, nil
}

// Lookup returns the records for ids: freshly fetched ones first, then cached
// ones. Ids that could not be resolved are absent. Duplicate cached ids yield
// duplicate records. Lookup never fails; remote failures shrink the result.
func (e *Engine) Lookup(ctx context.Context, ids []users.ID) []users.User {
	return e.LookupReport(ctx, ids).Users
}

// LookupReport performs Lookup and also reports per-batch outcomes and the
// ids that were not resolved.
func (e *Engine) LookupReport(ctx context.Context, ids []users.ID) *Report {
	ctx, span := tracer.Start(ctx, "lookup.Lookup", trace.WithAttributes(
		attribute.Int("lookup.requested", len(ids)),
	))
	defer span.End()

	start := time.Now()
	lookupRequestsTotal.Inc()
	logger := logging.FromContext(ctx, e.logger)

	hits, missing := Partition(ctx, ids, e.store)
	logger.Debug().
		Int("requested", len(ids)).
		Int("cache_hits", len(hits)).
		Int("missing", len(missing)).
		Msg("Partitioned lookup")

	resolution := e.orchestrator.ResolveMissing(ctx, missing)

	cached := make([]users.User, 0, len(hits))
	served := make([]users.ID, 0, len(hits))
	var evicted []users.ID
	seen := make(map[users.ID]struct{})
	for _, id := range hits {
		if u, ok := e.store.Get(ctx, id); ok {
			cached = append(cached, u)
			served = append(served, id)
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			evicted = append(evicted, id)
		}
	}

	// An evicting store may drop an entry between partitioning and
	// read-back; such ids are fetched like any other missing id.
	batches := resolution.Batches
	fresh := resolution.Users
	if len(evicted) > 0 {
		logger.Debug().Int("evicted", len(evicted)).Msg("Re-fetching evicted cache hits")
		refetch := e.orchestrator.ResolveMissing(ctx, evicted)
		fresh = append(fresh, refetch.Users...)
		batches = append(batches, renumber(refetch.Batches, len(batches))...)
		missing = append(missing, evicted...)
	}

	found := make([]users.User, 0, len(fresh)+len(cached))
	found = append(found, fresh...)
	found = append(found, cached...)

	report := &Report{
		Users:      found,
		Requested:  len(ids),
		CacheHits:  served,
		Missing:    missing,
		Batches:    batches,
		Unresolved: unresolved(ids, found),
	}
	e.record(logger, span, report, time.Since(start))
	return report
}

// Refresh re-fetches ids regardless of what is cached and overwrites the
// cached records with the fresh ones.
func (e *Engine) Refresh(ctx context.Context, ids []users.ID) *Report {
	ctx, span := tracer.Start(ctx, "lookup.Refresh", trace.WithAttributes(
		attribute.Int("lookup.requested", len(ids)),
	))
	defer span.End()

	start := time.Now()
	lookupRequestsTotal.Inc()
	logger := logging.FromContext(ctx, e.logger)

	distinct := distinctIDs(ids)
	resolution := e.orchestrator.ResolveMissing(ctx, distinct)

	report := &Report{
		Users:      resolution.Users,
		Requested:  len(ids),
		Missing:    distinct,
		Batches:    resolution.Batches,
		Unresolved: unresolved(ids, resolution.Users),
	}
	e.record(logger, span, report, time.Since(start))
	return report
}

// renumber shifts batch indexes by offset so that a second dispatch round
// continues the numbering of the first.
func renumber(batches []BatchResult, offset int) []BatchResult {
	for i := range batches {
		batches[i].Index += offset
		if fe, ok := batches[i].Err.(*FetchError); ok {
			fe.Batch += offset
		}
	}
	return batches
}

// Store returns the cache store backing the engine.
func (e *Engine) Store() cache.Store {
	return e.store
}

func (e *Engine) record(logger zerolog.Logger, span trace.Span, r *Report, elapsed time.Duration) {
	lookupDuration.Observe(elapsed.Seconds())
	lookupKeysTotal.WithLabelValues("cache").Add(float64(len(r.CacheHits)))
	lookupKeysTotal.WithLabelValues("remote").Add(float64(len(r.Missing)))
	lookupKeysTotal.WithLabelValues("unresolved").Add(float64(len(r.Unresolved)))

	failed := len(r.Failed())
	span.SetAttributes(
		attribute.Int("lookup.cache_hits", len(r.CacheHits)),
		attribute.Int("lookup.missing", len(r.Missing)),
		attribute.Int("lookup.resolved", len(r.Users)),
		attribute.Int("lookup.failed_batches", failed),
	)

	logger.Info().
		Int("requested", r.Requested).
		Int("cache_hits", len(r.CacheHits)).
		Int("missing", len(r.Missing)).
		Int("batches", len(r.Batches)).
		Int("failed_batches", failed).
		Int("resolved", len(r.Users)).
		Int("unresolved", len(r.Unresolved)).
		Dur("duration", elapsed).
		Msg("Lookup complete")
}
