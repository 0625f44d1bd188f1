// Package events publishes proof results to downstream consumers. Publishing
// is best effort: a proof is never failed because its event could not be sent.
package events

import (
	"context"
	"sync"
	"time"
)

// TypeProofGenerated is the only event type emitted today.
const TypeProofGenerated = "proof.generated"

// ProofEvent summarizes one generated proof.
type ProofEvent struct {
	Type            string    `json:"type"`
	ProofRunID      string    `json:"proof_run_id"`
	DLPID           string    `json:"dlp_id"`
	SubmissionID    string    `json:"submission_id"`
	WalletAddress   string    `json:"wallet_address"`
	Valid           bool      `json:"valid"`
	Score           float64   `json:"score"`
	Authenticity    float64   `json:"authenticity"`
	Ownership       float64   `json:"ownership"`
	Uniqueness      float64   `json:"uniqueness"`
	Quality         float64   `json:"quality"`
	SubTypes        []string  `json:"sub_types,omitempty"`
	CorpusPersisted bool      `json:"corpus_persisted"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher sends proof events.
type Publisher interface {
	Publish(ctx context.Context, event ProofEvent) error
	Close() error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, ProofEvent) error { return nil }
func (Nop) Close() error                              { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []ProofEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event ProofEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []ProofEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProofEvent(nil), r.events...)
}
