// Package config loads process configuration from the environment. Every
// field has a default so the proof CLI runs with no variables set.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	liststrings "dataproof/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	LogLevel     string
	Server       Server
	Proof        Proof
	Redis        Redis
	Corpus       Corpus
	History      History
	Canonical    Canonical
	Ownership    Ownership
	Authenticity Authenticity
	Score        Score
	Events       Events
}

// Server captures HTTP server configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Proof captures batch proof settings.
type Proof struct {
	DLPID        string
	InputDir     string
	OutputDir    string
	SubmissionID string
}

// Redis captures the corpus cache connection. URL wins over the discrete
// host, port and password fields.
type Redis struct {
	URL          string
	Host         string
	Port         string
	Password     string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns host:port, or "" when no host is configured.
func (r Redis) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(r.Host, port)
}

// Configured reports whether any Redis location was given.
func (r Redis) Configured() bool {
	return r.URL != "" || r.Host != ""
}

// Corpus selects the corpus store backend.
type Corpus struct {
	Backend          string
	PebblePath       string
	PostgresDSN      string
	KeyPrefix        string
	Timeout          time.Duration
	BreakerFailures  int
	BreakerSuccesses int
}

// History captures historical pointer resolution.
type History struct {
	Pointers         string
	FetchTimeout     time.Duration
	Concurrency      int
	MaxArtifactBytes int64
	MergeHistorical  bool
	TempDir          string
}

// Canonical selects the content digest.
type Canonical struct {
	Algorithm string
}

// Ownership captures the validator call.
type Ownership struct {
	ValidatorURL  string
	JWTSecret     string
	JWTExpiration time.Duration
	Timeout       time.Duration
}

// Authenticity captures accepted witness suffixes.
type Authenticity struct {
	ValidDomains []string
}

// Score captures composer weights in their raw "name=value,..." form.
type Score struct {
	Weights string
}

// Events captures the proof event sink. No brokers means events are dropped.
type Events struct {
	Brokers           []string
	Topic             string
	Partitions        int
	ReplicationFactor int
}

const (
	defaultJWTSecret = "default_secret"
	defaultTopic     = "proof-events"
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		LogLevel: envString("LOG_LEVEL", "info"),
		Server: Server{
			Addr:            envString("PROOF_ADDR", ":8080"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Proof: Proof{
			DLPID:        envString("DLP_ID", "24"),
			InputDir:     envString("INPUT_DIR", "/input"),
			OutputDir:    envString("OUTPUT_DIR", "/output"),
			SubmissionID: envString("FILE_ID", ""),
		},
		Redis: Redis{
			URL:          envString("REDIS_URL", ""),
			Host:         envString("REDIS_HOST", ""),
			Port:         envString("REDIS_PORT", "6379"),
			Password:     envString("REDIS_PWD", ""),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Corpus: Corpus{
			Backend:          strings.ToLower(envString("CORPUS_BACKEND", "redis")),
			PebblePath:       envString("CORPUS_PEBBLE_PATH", "./data/corpus"),
			PostgresDSN:      envString("CORPUS_POSTGRES_DSN", ""),
			KeyPrefix:        envString("CORPUS_KEY_PREFIX", "corpus:"),
			Timeout:          envDuration("CORPUS_TIMEOUT", 5*time.Second),
			BreakerFailures:  envInt("CORPUS_BREAKER_FAILURES", 5),
			BreakerSuccesses: envInt("CORPUS_BREAKER_SUCCESSES", 2),
		},
		History: History{
			Pointers:         envString("HISTORICAL_POINTERS", ""),
			FetchTimeout:     envDuration("HISTORY_FETCH_TIMEOUT", 45*time.Second),
			Concurrency:      envInt("HISTORY_FETCH_CONCURRENCY", 4),
			MaxArtifactBytes: int64(envInt("HISTORY_MAX_ARTIFACT_BYTES", 64<<20)),
			MergeHistorical:  envBool("NOVELTY_MERGE_HISTORY", false),
			TempDir:          envString("HISTORY_TEMP_DIR", ""),
		},
		Canonical: Canonical{
			Algorithm: strings.ToLower(envString("HASH_ALGORITHM", "sha256")),
		},
		Ownership: Ownership{
			ValidatorURL:  envString("VALIDATOR_BASE_API_URL", ""),
			JWTSecret:     envString("JWT_SECRET_KEY", defaultJWTSecret),
			JWTExpiration: envSeconds("JWT_EXPIRATION_TIME", 180*time.Second),
			Timeout:       envDuration("VALIDATOR_TIMEOUT", 10*time.Second),
		},
		Authenticity: Authenticity{
			ValidDomains: envList("VALID_DOMAINS", nil),
		},
		Score: Score{
			Weights: envString("SCORE_WEIGHTS", ""),
		},
		Events: Events{
			Brokers:           envList("KAFKA_BROKERS", nil),
			Topic:             envString("PROOF_EVENTS_TOPIC", defaultTopic),
			Partitions:        envInt("PROOF_EVENTS_PARTITIONS", 3),
			ReplicationFactor: envInt("PROOF_EVENTS_REPLICATION", 1),
		},
	}
}

// Validate rejects combinations that cannot work.
func (c Config) Validate() error {
	switch c.Corpus.Backend {
	case "redis", "postgres", "pebble", "memory", "none":
	default:
		return fmt.Errorf("CORPUS_BACKEND %q: expected redis, postgres, pebble, memory or none", c.Corpus.Backend)
	}
	if c.Corpus.Backend == "postgres" && c.Corpus.PostgresDSN == "" {
		return fmt.Errorf("CORPUS_POSTGRES_DSN is required for the postgres backend")
	}
	switch c.Canonical.Algorithm {
	case "sha256", "blake3":
	default:
		return fmt.Errorf("HASH_ALGORITHM %q: expected sha256 or blake3", c.Canonical.Algorithm)
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(envString(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(envString(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// envDuration accepts Go durations ("30s") and bare seconds ("30").
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := envString(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return envSeconds(key, fallback)
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(envString(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func envList(key string, fallback []string) []string {
	if list := liststrings.SplitList(envString(key, ""), ","); len(list) > 0 {
		return list
	}
	return fallback
}
