// Package store holds the corpus store backends: a pass-through cache from
// submission id to canonical payloads. None of them enforce expiry.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/metrics"
	"dataproof/pkg/platform/sentinel"
)

const (
	// DefaultKeyPrefix namespaces corpus entries in shared key spaces.
	DefaultKeyPrefix = "corpus:"

	entryVersion = 1
)

// Backend names, used in config and as metric labels.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendPebble   = "pebble"
	BackendMemory   = "memory"
	BackendNone     = "none"
)

// entry is the serialized form of a corpus value.
type entry struct {
	Version  int                       `json:"v"`
	Payloads []models.CanonicalPayload `json:"payloads"`
}

func encodeEntry(payloads []models.CanonicalPayload) ([]byte, error) {
	if payloads == nil {
		payloads = []models.CanonicalPayload{}
	}
	b, err := json.Marshal(entry{Version: entryVersion, Payloads: payloads})
	if err != nil {
		return nil, fmt.Errorf("encode corpus entry: %w", err)
	}
	return b, nil
}

func decodeEntry(b []byte) ([]models.CanonicalPayload, error) {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode corpus entry: %w", err)
	}
	if e.Version != entryVersion {
		return nil, fmt.Errorf("decode corpus entry: unsupported version %d", e.Version)
	}
	return e.Payloads, nil
}

// Option configures a store.
type Option func(*options)

type options struct {
	prefix  string
	metrics *metrics.Metrics
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithMetrics records lookups and writes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) key(id string) string {
	return o.prefix + id
}

// Unavailable is the explicit "no corpus store" state. Every call reports
// sentinel.ErrUnavailable, which sends the orchestrator down the cold path and
// skips persistence.
type Unavailable struct{}

// NewUnavailable returns a store that is never reachable.
func NewUnavailable() *Unavailable {
	return &Unavailable{}
}

func (Unavailable) Get(context.Context, string) ([]models.CanonicalPayload, error) {
	return nil, sentinel.ErrUnavailable
}

func (Unavailable) Put(context.Context, string, []models.CanonicalPayload) error {
	return sentinel.ErrUnavailable
}

func (Unavailable) Available(context.Context) bool {
	return false
}
