package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/sentinel"
)

// PebbleStore keeps the corpus in an embedded Pebble database, for single-node
// deployments without a shared cache. Writes are synced: one write happens per
// processed submission so throughput is not a concern.
type PebbleStore struct {
	db   *pebble.DB
	opts options

	// mu is held shared by reads and writes and exclusively by Close.
	mu     sync.RWMutex
	closed bool
}

// OpenPebbleStore opens (or creates) the database at path.
func OpenPebbleStore(path string, opts ...Option) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{
		Cache:        pebble.NewCache(16 << 20), // 16 MB
		MemTableSize: 8 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("open pebble corpus at %s: %w", path, err)
	}
	return &PebbleStore{db: db, opts: newOptions(opts)}, nil
}

func (s *PebbleStore) Get(_ context.Context, id string) ([]models.CanonicalPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, sentinel.ErrUnavailable
	}

	value, closer, err := s.db.Get([]byte(s.opts.key(id)))
	if errors.Is(err, pebble.ErrNotFound) {
		s.opts.metrics.RecordLookup(BackendPebble, "miss")
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		s.opts.metrics.RecordLookup(BackendPebble, "unavailable")
		return nil, fmt.Errorf("pebble get %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close; decodeEntry copies what it needs.
	payloads, err := decodeEntry(value)
	if err != nil {
		return nil, err
	}
	s.opts.metrics.RecordLookup(BackendPebble, "hit")
	return payloads, nil
}

func (s *PebbleStore) Put(_ context.Context, id string, payloads []models.CanonicalPayload) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return sentinel.ErrUnavailable
	}

	b, err := encodeEntry(payloads)
	if err != nil {
		return err
	}
	if err := s.db.Set([]byte(s.opts.key(id)), b, pebble.Sync); err != nil {
		s.opts.metrics.RecordWrite(BackendPebble, "failed")
		return fmt.Errorf("pebble set %s: %w", id, err)
	}
	s.opts.metrics.RecordWrite(BackendPebble, "ok")
	return nil
}

func (s *PebbleStore) Available(context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Close waits for in-flight reads and writes, then closes the database. Later
// calls report unavailable.
func (s *PebbleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
