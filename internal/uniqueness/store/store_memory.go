package store

import (
	"context"
	"sync"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/sentinel"
)

// MemoryStore keeps corpus entries in process. Values are stored encoded so
// callers never share slices or maps with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	opts    options
}

// NewMemoryStore constructs an empty in-memory corpus store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		opts:    newOptions(opts),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]models.CanonicalPayload, error) {
	s.mu.RLock()
	b, ok := s.entries[s.opts.key(id)]
	s.mu.RUnlock()
	if !ok {
		s.opts.metrics.RecordLookup(BackendMemory, "miss")
		return nil, sentinel.ErrNotFound
	}
	s.opts.metrics.RecordLookup(BackendMemory, "hit")
	return decodeEntry(b)
}

func (s *MemoryStore) Put(_ context.Context, id string, payloads []models.CanonicalPayload) error {
	b, err := encodeEntry(payloads)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[s.opts.key(id)] = b
	s.mu.Unlock()
	s.opts.metrics.RecordWrite(BackendMemory, "ok")
	return nil
}

// GetMany resolves several ids under one read lock.
func (s *MemoryStore) GetMany(_ context.Context, ids []string) (map[string][]models.CanonicalPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]models.CanonicalPayload, len(ids))
	for _, id := range ids {
		b, ok := s.entries[s.opts.key(id)]
		if !ok {
			continue
		}
		payloads, err := decodeEntry(b)
		if err != nil {
			return nil, err
		}
		out[id] = payloads
	}
	return out, nil
}

func (s *MemoryStore) Available(context.Context) bool {
	return true
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
