package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/sentinel"
)

// RedisStore is the networked corpus store. Entries are written without a
// TTL; retention is an operator policy outside this service.
type RedisStore struct {
	client *redis.Client
	opts   options
}

// NewRedisStore wraps an existing client. A nil client yields a store that is
// permanently unavailable.
func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	return &RedisStore{
		client: client,
		opts:   newOptions(opts),
	}
}

// Get reads one corpus entry with GET.
func (s *RedisStore) Get(ctx context.Context, id string) ([]models.CanonicalPayload, error) {
	if s.client == nil {
		return nil, sentinel.ErrUnavailable
	}

	b, err := s.client.Get(ctx, s.opts.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.opts.metrics.RecordLookup(BackendRedis, "miss")
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		s.opts.metrics.RecordLookup(BackendRedis, "unavailable")
		return nil, fmt.Errorf("redis get %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}

	s.opts.metrics.RecordLookup(BackendRedis, "hit")
	return decodeEntry(b)
}

// GetMany resolves several ids with a single MGET.
func (s *RedisStore) GetMany(ctx context.Context, ids []string) (map[string][]models.CanonicalPayload, error) {
	if s.client == nil {
		return nil, sentinel.ErrUnavailable
	}
	if len(ids) == 0 {
		return map[string][]models.CanonicalPayload{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.opts.key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		s.opts.metrics.RecordLookup(BackendRedis, "unavailable")
		return nil, fmt.Errorf("redis mget: %w: %w", sentinel.ErrUnavailable, err)
	}

	out := make(map[string][]models.CanonicalPayload, len(ids))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.opts.metrics.RecordLookup(BackendRedis, "miss")
			continue
		}
		payloads, err := decodeEntry([]byte(raw))
		if err != nil {
			// A corrupt entry is a miss; the cold path can still resolve it.
			s.opts.metrics.RecordLookup(BackendRedis, "miss")
			continue
		}
		s.opts.metrics.RecordLookup(BackendRedis, "hit")
		out[ids[i]] = payloads
	}
	return out, nil
}

// Put overwrites the entry for id with SET.
func (s *RedisStore) Put(ctx context.Context, id string, payloads []models.CanonicalPayload) error {
	if s.client == nil {
		return sentinel.ErrUnavailable
	}

	b, err := encodeEntry(payloads)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.opts.key(id), b, 0).Err(); err != nil {
		s.opts.metrics.RecordWrite(BackendRedis, "failed")
		return fmt.Errorf("redis set %s: %w: %w", id, sentinel.ErrUnavailable, err)
	}
	s.opts.metrics.RecordWrite(BackendRedis, "ok")
	return nil
}

// Available pings the server.
func (s *RedisStore) Available(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	return s.client.Ping(ctx).Err() == nil
}
