package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lib/pq"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/sentinel"
)

const createCorpusTable = `
	CREATE TABLE IF NOT EXISTS corpus_entries (
		id         TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresStore persists corpus entries in PostgreSQL. The table is created
// on first contact, so a database that was down at startup recovers once it
// comes back.
type PostgresStore struct {
	db   *sql.DB
	opts options

	migrateMu sync.Mutex
	migrated  atomic.Bool
}

// NewPostgresStore constructs a PostgreSQL-backed corpus store.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	return &PostgresStore{
		db:   db,
		opts: newOptions(opts),
	}
}

// Migrate creates the corpus table if it does not exist. Once it succeeds
// later calls are no-ops.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s.migrated.Load() {
		return nil
	}
	s.migrateMu.Lock()
	defer s.migrateMu.Unlock()
	if s.migrated.Load() {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, createCorpusTable); err != nil {
		return fmt.Errorf("migrate corpus_entries: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.migrated.Store(true)
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) ([]models.CanonicalPayload, error) {
	if err := s.Migrate(ctx); err != nil {
		s.opts.metrics.RecordLookup(BackendPostgres, "unavailable")
		return nil, err
	}

	var b []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM corpus_entries WHERE id = $1`, s.opts.key(id),
	).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		s.opts.metrics.RecordLookup(BackendPostgres, "miss")
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		s.opts.metrics.RecordLookup(BackendPostgres, "unavailable")
		return nil, fmt.Errorf("find corpus entry: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.opts.metrics.RecordLookup(BackendPostgres, "hit")
	return decodeEntry(b)
}

// GetMany resolves several ids with one ANY($1) query.
func (s *PostgresStore) GetMany(ctx context.Context, ids []string) (map[string][]models.CanonicalPayload, error) {
	out := make(map[string][]models.CanonicalPayload, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}

	byKey := make(map[string]string, len(ids))
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.opts.key(id)
		byKey[keys[i]] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM corpus_entries WHERE id = ANY($1)`, pq.Array(keys),
	)
	if err != nil {
		return nil, fmt.Errorf("find corpus entries: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var b []byte
		if err := rows.Scan(&key, &b); err != nil {
			return nil, fmt.Errorf("scan corpus entry: %w", err)
		}
		payloads, err := decodeEntry(b)
		if err != nil {
			continue
		}
		out[byKey[key]] = payloads
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corpus entries: %w", err)
	}

	s.opts.metrics.RecordLookup(BackendPostgres, "batch")
	return out, nil
}

// Put upserts the entry; a concurrent write to the same id resolves to
// whichever commits last.
func (s *PostgresStore) Put(ctx context.Context, id string, payloads []models.CanonicalPayload) error {
	b, err := encodeEntry(payloads)
	if err != nil {
		return err
	}
	if err := s.Migrate(ctx); err != nil {
		s.opts.metrics.RecordWrite(BackendPostgres, "failed")
		return err
	}
	query := `
		INSERT INTO corpus_entries (id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.opts.key(id), b); err != nil {
		s.opts.metrics.RecordWrite(BackendPostgres, "failed")
		return fmt.Errorf("save corpus entry: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.opts.metrics.RecordWrite(BackendPostgres, "ok")
	return nil
}

func (s *PostgresStore) Available(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	if s.db.PingContext(ctx) != nil {
		return false
	}
	return s.Migrate(ctx) == nil
}
