package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "24", cfg.Proof.DLPID)
	assert.Equal(t, "/input", cfg.Proof.InputDir)
	assert.Equal(t, "redis", cfg.Corpus.Backend)
	assert.Equal(t, "sha256", cfg.Canonical.Algorithm)
	assert.Equal(t, 180*time.Second, cfg.Ownership.JWTExpiration)
	assert.Equal(t, "default_secret", cfg.Ownership.JWTSecret)
	assert.Equal(t, 4, cfg.History.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Corpus.Timeout)
	assert.False(t, cfg.History.MergeHistorical)
	assert.Empty(t, cfg.Events.Brokers)
	assert.False(t, cfg.Redis.Configured())
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PWD", "pw")
	t.Setenv("CORPUS_BACKEND", "Pebble")
	t.Setenv("HASH_ALGORITHM", "BLAKE3")
	t.Setenv("HISTORY_FETCH_TIMEOUT", "12")
	t.Setenv("HISTORY_FETCH_CONCURRENCY", "8")
	t.Setenv("NOVELTY_MERGE_HISTORY", "true")
	t.Setenv("JWT_EXPIRATION_TIME", "60")
	t.Setenv("VALID_DOMAINS", "a.org, b.org ,a.org")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FILE_ID", "file-9")
	t.Setenv("CORPUS_TIMEOUT", "750ms")

	cfg := FromEnv()

	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr())
	assert.True(t, cfg.Redis.Configured())
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, "pebble", cfg.Corpus.Backend)
	assert.Equal(t, "blake3", cfg.Canonical.Algorithm)
	assert.Equal(t, 12*time.Second, cfg.History.FetchTimeout)
	assert.Equal(t, 8, cfg.History.Concurrency)
	assert.True(t, cfg.History.MergeHistorical)
	assert.Equal(t, time.Minute, cfg.Ownership.JWTExpiration)
	assert.Equal(t, []string{"a.org", "b.org"}, cfg.Authenticity.ValidDomains)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "file-9", cfg.Proof.SubmissionID)
	assert.Equal(t, 750*time.Millisecond, cfg.Corpus.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("HISTORY_FETCH_CONCURRENCY", "many")
	t.Setenv("HISTORY_FETCH_TIMEOUT", "soon")
	t.Setenv("NOVELTY_MERGE_HISTORY", "perhaps")

	cfg := FromEnv()

	assert.Equal(t, 4, cfg.History.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.History.FetchTimeout)
	assert.False(t, cfg.History.MergeHistorical)
}

func TestValidate(t *testing.T) {
	cfg := FromEnv()

	cfg.Corpus.Backend = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Corpus.Backend = "postgres"
	assert.Error(t, cfg.Validate(), "postgres needs a DSN")

	cfg.Corpus.PostgresDSN = "postgres://localhost/corpus"
	assert.NoError(t, cfg.Validate())

	cfg.Canonical.Algorithm = "md5"
	assert.Error(t, cfg.Validate())
}
