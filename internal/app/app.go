// Package app assembles the proof engine from configuration. Both binaries
// build the same object graph; only their front ends differ.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dataproof/internal/events"
	"dataproof/internal/platform/config"
	platformredis "dataproof/internal/platform/redis"
	proofmetrics "dataproof/internal/proof/metrics"
	proofservice "dataproof/internal/proof/service"
	"dataproof/internal/scoring/composer"
	"dataproof/internal/scoring/ownership"
	"dataproof/internal/uniqueness/canonical"
	"dataproof/internal/uniqueness/history"
	uniquenessmetrics "dataproof/internal/uniqueness/metrics"
	"dataproof/internal/uniqueness/novelty"
	"dataproof/internal/uniqueness/ports"
	uniquenessservice "dataproof/internal/uniqueness/service"
	"dataproof/internal/uniqueness/store"
	"dataproof/pkg/platform/circuit"
)

const (
	startupTimeout  = 10 * time.Second
	topicInitBudget = 5 * time.Second
)

// App is the assembled engine plus the resources it owns.
type App struct {
	Proofs    *proofservice.Service
	Corpus    ports.CorpusStore
	Publisher events.Publisher

	logger  *slog.Logger
	closers []func() error
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	registerer prometheus.Registerer
	fallbackID string
}

// WithRegisterer registers engine metrics on reg instead of the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *buildOptions) {
		if reg != nil {
			o.registerer = reg
		}
	}
}

// WithFallbackSubmissionID names submissions that carry no id of their own.
func WithFallbackSubmissionID(id string) Option {
	return func(o *buildOptions) {
		o.fallbackID = id
	}
}

// Build wires the engine. Only invalid configuration fails; an unreachable
// corpus backend or broker degrades the engine instead.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := buildOptions{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{logger: logger}
	um := uniquenessmetrics.NewWithRegisterer(o.registerer)
	pm := proofmetrics.NewWithRegisterer(o.registerer)

	corpus, err := a.openCorpus(ctx, cfg, um)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.Corpus = corpus

	canon := canonical.New(canonical.ParseAlgorithm(cfg.Canonical.Algorithm))

	pointerList, err := history.ParsePointers(cfg.History.Pointers)
	if err != nil {
		logger.Warn("ignoring unparseable historical pointers", "error", err)
	}

	artifactOpts := []history.ArtifactOption{
		history.WithMaxArtifactBytes(cfg.History.MaxArtifactBytes),
	}
	if cfg.History.TempDir != "" {
		artifactOpts = append(artifactOpts, history.WithTempDir(cfg.History.TempDir))
	}
	fetcher, err := history.New(corpus, history.NewArtifactSource(canon, artifactOpts...),
		history.WithLogger(logger),
		history.WithMetrics(um),
		history.WithPointerTimeout(cfg.History.FetchTimeout),
		history.WithConcurrency(cfg.History.Concurrency),
	)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	uniqueness, err := uniquenessservice.New(canon, corpus, fetcher, history.NewStaticPointers(pointerList),
		uniquenessservice.WithLogger(logger),
		uniquenessservice.WithMetrics(um),
		uniquenessservice.WithComparator(novelty.New(
			novelty.WithMergedHistory(cfg.History.MergeHistorical),
			novelty.WithMetrics(um),
		)),
		uniquenessservice.WithFallbackSubmissionID(o.fallbackID),
		uniquenessservice.WithStoreTimeout(cfg.Corpus.Timeout),
	)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	verifier, err := ownership.NewVerifier(cfg.Ownership.JWTSecret,
		ownership.WithValidatorURL(cfg.Ownership.ValidatorURL),
		ownership.WithExpiration(cfg.Ownership.JWTExpiration),
		ownership.WithHTTPClient(&http.Client{Timeout: cfg.Ownership.Timeout}),
		ownership.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	weights := composer.DefaultWeights()
	if cfg.Score.Weights != "" {
		if weights, err = composer.ParseWeights(cfg.Score.Weights); err != nil {
			return nil, errors.Join(fmt.Errorf("SCORE_WEIGHTS: %w", err), a.Close())
		}
	}

	a.Publisher = a.openPublisher(ctx, cfg.Events)

	a.Proofs, err = proofservice.New(uniqueness, verifier,
		proofservice.WithLogger(logger),
		proofservice.WithMetrics(pm),
		proofservice.WithPublisher(a.Publisher),
		proofservice.WithDLPID(cfg.Proof.DLPID),
		proofservice.WithValidDomains(cfg.Authenticity.ValidDomains),
		proofservice.WithWeights(weights),
	)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	logger.Info("proof engine ready",
		"corpus_backend", cfg.Corpus.Backend,
		"hash_algorithm", string(canon.Algorithm()),
		"historical_pointers", len(pointerList),
		"events", len(cfg.Events.Brokers) > 0,
	)
	return a, nil
}

// Close releases every resource Build opened, last opened first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openCorpus(ctx context.Context, cfg config.Config, m *uniquenessmetrics.Metrics) (ports.CorpusStore, error) {
	storeOpts := []store.Option{store.WithKeyPrefix(cfg.Corpus.KeyPrefix), store.WithMetrics(m)}
	breaker := circuit.New("corpus-"+cfg.Corpus.Backend,
		circuit.WithFailureThreshold(cfg.Corpus.BreakerFailures),
		circuit.WithSuccessThreshold(cfg.Corpus.BreakerSuccesses),
	)

	switch cfg.Corpus.Backend {
	case store.BackendRedis:
		startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()
		client, err := platformredis.New(startCtx, cfg.Redis)
		if client == nil {
			if err != nil {
				return nil, err
			}
			a.logger.Warn("redis not configured, corpus store disabled")
			return store.NewUnavailable(), nil
		}
		a.closers = append(a.closers, client.Close)
		if err != nil {
			a.logger.Warn("redis unreachable at startup, running degraded", "error", err)
		}
		return store.Guard(store.NewRedisStore(client.Client, storeOpts...), breaker, a.logger), nil

	case store.BackendPostgres:
		db, err := sql.Open("postgres", cfg.Corpus.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		pg := store.NewPostgresStore(db, storeOpts...)
		startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()
		if err := pg.Migrate(startCtx); err != nil {
			a.logger.Warn("postgres corpus migration failed, running degraded", "error", err)
		}
		return store.Guard(pg, breaker, a.logger), nil

	case store.BackendPebble:
		pb, err := store.OpenPebbleStore(cfg.Corpus.PebblePath, storeOpts...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pb.Close)
		return pb, nil

	case store.BackendMemory:
		return store.NewMemoryStore(storeOpts...), nil

	default:
		return store.NewUnavailable(), nil
	}
}

func (a *App) openPublisher(ctx context.Context, cfg config.Events) events.Publisher {
	if len(cfg.Brokers) == 0 {
		return events.Nop{}
	}
	kp, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, events.WithLogger(a.logger))
	if err != nil {
		a.logger.Warn("proof events disabled", "error", err)
		return events.Nop{}
	}
	a.closers = append(a.closers, kp.Close)

	initCtx, cancel := context.WithTimeout(ctx, topicInitBudget)
	defer cancel()
	if err := kp.EnsureTopic(initCtx, int32(cfg.Partitions), int16(cfg.ReplicationFactor)); err != nil {
		a.logger.Warn("could not ensure proof events topic", "topic", cfg.Topic, "error", err)
	}
	return kp
}
