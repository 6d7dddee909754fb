package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/social-lookup/pkg/batch"
	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

var tracer = otel.Tracer("github.com/Sternrassler/social-lookup/pkg/lookup")

// Orchestrator fetches missing ids from the users API in parallel batches
// and feeds the results into the cache.
type Orchestrator struct {
	fetcher users.BatchFetcher
	store   cache.Store
	config  Config
	logger  zerolog.Logger
}

// NewOrchestrator creates a batch orchestrator. Zero-valued config fields
// fall back to DefaultConfig.
func NewOrchestrator(fetcher users.BatchFetcher, store cache.Store, config Config) *Orchestrator {
	if fetcher == nil || store == nil {
		panic("orchestrator requires a fetcher and a store")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = users.MaxBatchSize
	}
	if config.MaxConcurrency < 0 {
		config.MaxConcurrency = 0
	}
	if config.BatchTimeout < 0 {
		config.BatchTimeout = 0
	}

	return &Orchestrator{
		fetcher: fetcher,
		store:   store,
		config:  config,
		logger:  logging.NewLogger("lookup"),
	}
}

// ResolveMissing fetches missing in batches and waits for every batch.
// A failed batch contributes no users and is reported in the returned
// Resolution; it is never returned as an error.
func (o *Orchestrator) ResolveMissing(ctx context.Context, missing []users.ID) *Resolution {
	batches := batch.Split(missing, o.config.BatchSize)
	if len(batches) == 0 {
		return &Resolution{}
	}

	logger := logging.FromContext(ctx, o.logger)
	start := time.Now()

	logger.Debug().
		Int("missing", len(missing)).
		Int("batches", len(batches)).
		Int("max_concurrency", o.config.MaxConcurrency).
		Msg("Dispatching batches")

	results := make([]BatchResult, len(batches))

	var g errgroup.Group
	if o.config.MaxConcurrency > 0 {
		g.SetLimit(o.config.MaxConcurrency)
	}
	for i, ids := range batches {
		g.Go(func() error {
			results[i] = o.fetchBatch(ctx, logger, i, ids)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	res := &Resolution{Batches: results}
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			continue
		}
		res.Users = append(res.Users, r.Users...)
	}

	event := logger.Debug()
	if failed > 0 {
		event = logger.Warn()
	}
	event.
		Int("batches", len(batches)).
		Int("failed_batches", failed).
		Int("fetched", len(res.Users)).
		Dur("duration", time.Since(start)).
		Msg("Batches complete")

	return res
}

// fetchBatch runs one remote call and caches what it returns.
func (o *Orchestrator) fetchBatch(ctx context.Context, logger zerolog.Logger, index int, ids []users.ID) (result BatchResult) {
	result = BatchResult{Index: index, IDs: ids}

	ctx, span := tracer.Start(ctx, "lookup.fetchBatch", trace.WithAttributes(
		attribute.Int("lookup.batch.index", index),
		attribute.Int("lookup.batch.size", len(ids)),
	))
	defer span.End()

	lookupBatchesInFlight.Inc()
	start := time.Now()
	defer func() {
		lookupBatchesInFlight.Dec()
		result.Duration = time.Since(start)
		lookupBatchDuration.Observe(result.Duration.Seconds())

		if result.OK() {
			lookupBatchesTotal.WithLabelValues("success").Inc()
			return
		}
		lookupBatchesTotal.WithLabelValues("failure").Inc()
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "batch fetch failed")
		logger.Warn().
			Err(result.Err).
			Int("batch", index).
			Int("batch_size", len(ids)).
			Msg("Batch fetch failed")
	}()

	fetched, err := o.fetch(ctx, ids)
	if err != nil {
		result.Err = &FetchError{Batch: index, IDs: ids, Err: err}
		return result
	}

	for _, u := range fetched {
		o.store.Put(ctx, u.ID, u)
	}
	result.Users = fetched

	logger.Debug().
		Int("batch", index).
		Int("batch_size", len(ids)).
		Int("fetched", len(fetched)).
		Msg("Batch fetched")

	return result
}

// fetch calls the fetcher under the per-batch timeout. A panicking fetcher
// fails only its own batch.
func (o *Orchestrator) fetch(ctx context.Context, ids []users.ID) (fetched []users.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			fetched, err = nil, fmt.Errorf("fetcher panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.config.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.BatchTimeout)
		defer cancel()
	}

	return o.fetcher.FetchBatch(ctx, ids)
}
