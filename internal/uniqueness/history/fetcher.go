// Package history resolves historical submission pointers to canonical
// payloads: corpus store first, encrypted artifact on a miss.
package history

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/metrics"
	"dataproof/internal/uniqueness/ports"
	"dataproof/pkg/platform/sentinel"
)

const (
	defaultPointerTimeout = 45 * time.Second
	defaultConcurrency    = 4

	sourceCache    = "cache"
	sourceArtifact = "artifact"
)

// Fetcher resolves pointers concurrently. A pointer that cannot be resolved is
// logged and skipped, so the result is a best-effort lower bound of history.
type Fetcher struct {
	store       ports.CorpusStore
	source      ports.ArtifactSource
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	timeout     time.Duration
	concurrency int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithPointerTimeout bounds each pointer's cache lookup plus cold path.
func WithPointerTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithConcurrency bounds how many pointers are resolved at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// New constructs a Fetcher.
func New(store ports.CorpusStore, source ports.ArtifactSource, opts ...Option) (*Fetcher, error) {
	if store == nil {
		return nil, errors.New("corpus store is required")
	}
	if source == nil {
		return nil, errors.New("artifact source is required")
	}

	f := &Fetcher{
		store:       store,
		source:      source,
		logger:      slog.Default(),
		tracer:      otel.Tracer("dataproof/uniqueness/history"),
		timeout:     defaultPointerTimeout,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch returns the payloads of every pointer that resolved, in pointer order.
// With useCache false the corpus store is neither read nor filled.
func (f *Fetcher) Fetch(ctx context.Context, pointers []models.HistoricalPointer, useCache bool) []models.CanonicalPayload {
	if len(pointers) == 0 {
		return nil
	}

	var prefetched map[string][]models.CanonicalPayload
	if useCache {
		prefetched = f.prefetch(ctx, pointers)
	}

	results := make([][]models.CanonicalPayload, len(pointers))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, pointer := range pointers {
		g.Go(func() error {
			results[i] = f.resolve(ctx, pointer, useCache, prefetched)
			return nil
		})
	}
	// resolve never returns an error; failures are already logged per pointer.
	_ = g.Wait()

	var out []models.CanonicalPayload
	for _, payloads := range results {
		out = append(out, payloads...)
	}
	return out
}

// prefetch resolves all pointer ids in one round trip when the store supports
// it. A nil map means the store could not batch and each pointer does its own
// lookup.
func (f *Fetcher) prefetch(ctx context.Context, pointers []models.HistoricalPointer) map[string][]models.CanonicalPayload {
	batch, ok := f.store.(ports.BatchReader)
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(pointers))
	for _, p := range pointers {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	found, err := batch.GetMany(ctx, ids)
	if err != nil {
		f.logger.WarnContext(ctx, "corpus batch lookup failed, falling back to per-pointer lookups",
			"pointers", len(ids),
			"error", err,
		)
		return nil
	}
	if found == nil {
		found = map[string][]models.CanonicalPayload{}
	}
	return found
}

func (f *Fetcher) resolve(
	ctx context.Context,
	pointer models.HistoricalPointer,
	useCache bool,
	prefetched map[string][]models.CanonicalPayload,
) []models.CanonicalPayload {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	ctx, span := f.tracer.Start(ctx, "history.resolve",
		trace.WithAttributes(attribute.String("pointer.id", pointer.ID)))
	defer span.End()

	cacheable := useCache && pointer.ID != ""

	if cacheable {
		start := time.Now()
		if payloads, ok := f.lookup(ctx, pointer.ID, prefetched); ok {
			f.metrics.ObservePointerFetch(sourceCache, "hit", time.Since(start))
			span.SetAttributes(attribute.String("pointer.source", sourceCache))
			return payloads
		}
	}

	start := time.Now()
	payloads, err := f.source.Retrieve(ctx, pointer)
	if err != nil {
		f.metrics.ObservePointerFetch(sourceArtifact, "failed", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "pointer skipped")
		f.logger.WarnContext(ctx, "historical pointer skipped",
			"pointer_id", pointer.ID,
			"stage", StageOf(err),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}
	f.metrics.ObservePointerFetch(sourceArtifact, "ok", time.Since(start))
	span.SetAttributes(attribute.String("pointer.source", sourceArtifact))

	if cacheable {
		// Read-through fill so the next submission finds this pointer warm.
		if err := f.store.Put(ctx, pointer.ID, payloads); err != nil {
			f.logger.DebugContext(ctx, "corpus fill failed",
				"pointer_id", pointer.ID,
				"error", err,
			)
		}
	}
	return payloads
}

func (f *Fetcher) lookup(
	ctx context.Context,
	id string,
	prefetched map[string][]models.CanonicalPayload,
) ([]models.CanonicalPayload, bool) {
	if prefetched != nil {
		payloads, ok := prefetched[id]
		return payloads, ok
	}

	payloads, err := f.store.Get(ctx, id)
	if err == nil {
		return payloads, true
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		f.logger.WarnContext(ctx, "corpus lookup failed, using artifact",
			"pointer_id", id,
			"error", err,
		)
	}
	return nil, false
}
