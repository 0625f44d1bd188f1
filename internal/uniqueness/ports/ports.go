// Package ports defines the interfaces the uniqueness engine depends on.
// Implementations live in store (corpus backends) and history (pointer
// resolution); tests use the generated mocks.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks CorpusStore,ArtifactSource,PointerSource,HistoryFetcher

import (
	"context"

	"dataproof/internal/proof/models"
)

// CorpusStore maps a submission id to its canonical payloads. It is the only
// state shared across submissions.
type CorpusStore interface {
	// Get returns the stored payloads for id. Misses return sentinel.ErrNotFound;
	// an unreachable backend returns an error wrapping sentinel.ErrUnavailable.
	Get(ctx context.Context, id string) ([]models.CanonicalPayload, error)

	// Put stores payloads under id, overwriting any previous value.
	Put(ctx context.Context, id string, payloads []models.CanonicalPayload) error

	// Available reports whether the backend can be reached right now.
	Available(ctx context.Context) bool
}

// BatchReader is implemented by stores that can resolve many ids in one round
// trip. Missing ids are absent from the returned map.
type BatchReader interface {
	GetMany(ctx context.Context, ids []string) (map[string][]models.CanonicalPayload, error)
}

// ArtifactSource retrieves and canonicalizes a historical submission from its
// encrypted archive.
type ArtifactSource interface {
	Retrieve(ctx context.Context, pointer models.HistoricalPointer) ([]models.CanonicalPayload, error)
}

// PointerSource lists the historical submissions a new submission is compared
// against.
type PointerSource interface {
	Pointers(ctx context.Context, walletAddress string) ([]models.HistoricalPointer, error)
}

// HistoryFetcher resolves pointers to payloads, best effort.
type HistoryFetcher interface {
	Fetch(ctx context.Context, pointers []models.HistoricalPointer, useCache bool) []models.CanonicalPayload
}
