//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/store"
	"dataproof/pkg/platform/sentinel"
	"dataproof/pkg/testutil/containers"
)

func payloads(tag string) []models.CanonicalPayload {
	return []models.CanonicalPayload{{
		SubType: "NETFLIX_HISTORY",
		Fields: map[string]models.CanonicalValue{
			"rows": {Kind: models.KindSequence, Items: []string{"r1-" + tag, "r2-" + tag}},
		},
	}}
}

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.True(s.store.Available(ctx))

	s.Require().NoError(s.store.Put(ctx, "sub-1", payloads("a")))
	got, err := s.store.Get(ctx, "sub-1")
	s.Require().NoError(err)
	s.Equal(payloads("a"), got)

	_, err = s.store.Get(ctx, "sub-2")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestEntriesHaveNoExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "sub-ttl", payloads("a")))

	ttl, err := s.redis.Client.TTL(ctx, store.DefaultKeyPrefix+"sub-ttl").Result()
	s.Require().NoError(err)
	s.Equal(time.Duration(-1), ttl)
}

func (s *RedisStoreSuite) TestGetMany() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "a", payloads("a")))
	s.Require().NoError(s.store.Put(ctx, "b", payloads("b")))
	s.Require().NoError(s.redis.Client.Set(ctx, store.DefaultKeyPrefix+"corrupt", "{", 0).Err())

	got, err := s.store.GetMany(ctx, []string{"a", "missing", "b", "corrupt"})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal(payloads("a"), got["a"])
	s.Equal(payloads("b"), got["b"])
}

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.pg.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE corpus_entries`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestRoundTripAndUpsert() {
	ctx := context.Background()
	s.True(s.store.Available(ctx))

	s.Require().NoError(s.store.Put(ctx, "sub-1", payloads("a")))
	s.Require().NoError(s.store.Put(ctx, "sub-1", payloads("b")))

	got, err := s.store.Get(ctx, "sub-1")
	s.Require().NoError(err)
	s.Equal(payloads("b"), got)

	_, err = s.store.Get(ctx, "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestGetMany() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "a", payloads("a")))
	s.Require().NoError(s.store.Put(ctx, "b", payloads("b")))

	got, err := s.store.GetMany(ctx, []string{"a", "b", "c"})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal(payloads("a"), got["a"])
}

func (s *PostgresStoreSuite) TestMigrateIsIdempotent() {
	ctx := context.Background()
	s.NoError(s.store.Migrate(ctx))
	s.NoError(store.NewPostgresStore(s.pg.DB).Migrate(ctx))
}

func (s *PostgresStoreSuite) TestFreshStoreCreatesMissingTable() {
	ctx := context.Background()
	_, err := s.pg.DB.Exec(`DROP TABLE corpus_entries`)
	s.Require().NoError(err)
	defer func() { s.Require().NoError(s.store.Migrate(ctx)) }()

	fresh := store.NewPostgresStore(s.pg.DB)
	s.Require().NoError(fresh.Put(ctx, "sub-1", payloads("a")))

	got, err := fresh.Get(ctx, "sub-1")
	s.Require().NoError(err)
	s.Equal(payloads("a"), got)
}
