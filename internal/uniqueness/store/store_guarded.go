package store

import (
	"context"
	"errors"
	"log/slog"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/ports"
	"dataproof/pkg/platform/circuit"
	"dataproof/pkg/platform/sentinel"
)

// Guarded puts a circuit breaker in front of a networked store. While the
// breaker is open, reads and writes fail fast with sentinel.ErrUnavailable;
// Available keeps probing the backend and closes the breaker once it answers
// again.
type Guarded struct {
	inner   ports.CorpusStore
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// guardedBatch is a Guarded store whose backend also supports batch reads.
type guardedBatch struct {
	*Guarded
	batch ports.BatchReader
}

// Guard wraps inner. The result implements ports.BatchReader iff inner does.
func Guard(inner ports.CorpusStore, breaker *circuit.Breaker, logger *slog.Logger) ports.CorpusStore {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guarded{inner: inner, breaker: breaker, logger: logger}
	if batch, ok := inner.(ports.BatchReader); ok {
		return &guardedBatch{Guarded: g, batch: batch}
	}
	return g
}

func (g *Guarded) Get(ctx context.Context, id string) ([]models.CanonicalPayload, error) {
	if g.breaker.IsOpen() {
		return nil, sentinel.ErrUnavailable
	}
	payloads, err := g.inner.Get(ctx, id)
	g.record(ctx, err)
	return payloads, err
}

func (g *Guarded) Put(ctx context.Context, id string, payloads []models.CanonicalPayload) error {
	if g.breaker.IsOpen() {
		return sentinel.ErrUnavailable
	}
	err := g.inner.Put(ctx, id, payloads)
	g.record(ctx, err)
	return err
}

// Available probes the backend even while open.
func (g *Guarded) Available(ctx context.Context) bool {
	if g.inner.Available(ctx) {
		usePrimary, change := g.breaker.RecordSuccess()
		if change.Closed {
			g.logger.InfoContext(ctx, "corpus store recovered", "breaker", g.breaker.Name())
		}
		return usePrimary
	}
	_, change := g.breaker.RecordFailure()
	if change.Opened {
		g.logger.WarnContext(ctx, "corpus store circuit opened", "breaker", g.breaker.Name())
	}
	return false
}

func (b *guardedBatch) GetMany(ctx context.Context, ids []string) (map[string][]models.CanonicalPayload, error) {
	if b.breaker.IsOpen() {
		return nil, sentinel.ErrUnavailable
	}
	found, err := b.batch.GetMany(ctx, ids)
	b.record(ctx, err)
	return found, err
}

// record feeds the breaker. Misses and decode errors say nothing about
// backend health; only ErrUnavailable counts as a failure.
func (g *Guarded) record(ctx context.Context, err error) {
	if err != nil && errors.Is(err, sentinel.ErrUnavailable) {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "corpus store circuit opened",
				"breaker", g.breaker.Name(),
				"error", err,
			)
		}
		return
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "corpus store recovered", "breaker", g.breaker.Name())
	}
}
