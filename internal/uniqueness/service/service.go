// Package service runs the uniqueness engine for one submission: canonicalize
// the current payloads, resolve history, compare, then persist the current
// payloads so later submissions can be compared against them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/canonical"
	"dataproof/internal/uniqueness/metrics"
	"dataproof/internal/uniqueness/novelty"
	"dataproof/internal/uniqueness/ports"
)

// Stage names a step of one evaluation run, in execution order.
type Stage string

const (
	StageIngest              Stage = "INGEST"
	StageCanonicalizeCurrent Stage = "CANONICALIZE_CURRENT"
	StageFetchHistory        Stage = "FETCH_HISTORY"
	StageCompare             Stage = "COMPARE"
	StagePersist             Stage = "PERSIST"
	StageReturn              Stage = "RETURN"
)

const (
	derivedIDPrefix     = "sub_"
	defaultStoreTimeout = 5 * time.Second
)

// Evaluation is the outcome of one run. Result is always populated; the other
// fields describe how it was reached.
type Evaluation struct {
	Result          models.UniquenessResult
	SubmissionID    string
	Persisted       bool
	CacheAvailable  bool
	HistoricalCount int
}

// Service orchestrates the uniqueness engine.
type Service struct {
	canonicalizer *canonical.Canonicalizer
	store         ports.CorpusStore
	fetcher       ports.HistoryFetcher
	pointers      ports.PointerSource
	comparator    *novelty.Comparator
	fallbackID    string
	storeTimeout  time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithComparator replaces the default last-write-wins comparator.
func WithComparator(c *novelty.Comparator) Option {
	return func(s *Service) {
		if c != nil {
			s.comparator = c
		}
	}
}

// WithFallbackSubmissionID sets the id used when a submission carries none,
// typically the input file id of a batch run.
func WithFallbackSubmissionID(id string) Option {
	return func(s *Service) {
		s.fallbackID = strings.TrimSpace(id)
	}
}

// WithStoreTimeout bounds each availability probe and persist call.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// New constructs the orchestrator.
func New(
	canonicalizer *canonical.Canonicalizer,
	store ports.CorpusStore,
	fetcher ports.HistoryFetcher,
	pointers ports.PointerSource,
	opts ...Option,
) (*Service, error) {
	if canonicalizer == nil {
		return nil, errors.New("canonicalizer is required")
	}
	if store == nil {
		return nil, errors.New("corpus store is required")
	}
	if fetcher == nil {
		return nil, errors.New("history fetcher is required")
	}
	if pointers == nil {
		return nil, errors.New("pointer source is required")
	}

	s := &Service{
		canonicalizer: canonicalizer,
		store:         store,
		fetcher:       fetcher,
		pointers:      pointers,
		comparator:    novelty.New(),
		storeTimeout:  defaultStoreTimeout,
		logger:        slog.Default(),
		tracer:        otel.Tracer("dataproof/uniqueness"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate scores a submission's uniqueness. It never fails: unreachable
// history, an unavailable store and a failed persist all degrade into the
// returned Evaluation.
func (s *Service) Evaluate(ctx context.Context, sub *models.Submission) *Evaluation {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	ctx, span := s.tracer.Start(ctx, "uniqueness.evaluate")
	defer span.End()

	// INGEST
	if sub == nil {
		sub = &models.Submission{}
	}
	eval := &Evaluation{}

	// CANONICALIZE_CURRENT
	current := s.canonicalizer.CanonicalizeAll(sub.Contributions)
	eval.SubmissionID = s.submissionID(sub, current)
	span.SetAttributes(
		attribute.String("submission.id", eval.SubmissionID),
		attribute.Int("submission.payloads", len(current)),
	)

	// Nothing to score and nothing worth persisting: writing an empty entry
	// would erase whatever the corpus holds under this id.
	if len(current) == 0 {
		eval.Result = models.UniquenessResult{Entries: []models.NoveltyResult{}}
		s.metrics.RecordWrite("orchestrator", "skipped")
		s.logger.InfoContext(ctx, "submission has no scorable contributions",
			"submission_id", eval.SubmissionID,
		)
		return eval
	}

	// FETCH_HISTORY
	eval.CacheAvailable = s.available(ctx)
	if !eval.CacheAvailable {
		s.logger.WarnContext(ctx, "corpus store unavailable, history will be fetched from artifacts",
			"submission_id", eval.SubmissionID,
		)
	}
	historical := s.fetchHistory(ctx, sub.WalletAddress, eval)
	eval.HistoricalCount = len(historical)

	// COMPARE
	eval.Result = s.comparator.Compare(current, historical)

	// PERSIST
	eval.Persisted = s.persist(ctx, eval, current)

	// RETURN
	s.logger.InfoContext(ctx, "uniqueness evaluated",
		"submission_id", eval.SubmissionID,
		"sub_types", len(eval.Result.Entries),
		"historical_payloads", eval.HistoricalCount,
		"uniqueness_score", eval.Result.Score,
		"persisted", eval.Persisted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return eval
}

func (s *Service) fetchHistory(ctx context.Context, wallet string, eval *Evaluation) []models.CanonicalPayload {
	pointers, err := s.pointers.Pointers(ctx, wallet)
	if err != nil {
		s.logger.WarnContext(ctx, "historical pointers unavailable, treating history as empty",
			"submission_id", eval.SubmissionID,
			"error", err,
		)
		return nil
	}

	// A reprocessed submission must not be compared against its own entry.
	filtered := pointers[:0:0]
	for _, p := range pointers {
		if p.ID != "" && p.ID == eval.SubmissionID {
			continue
		}
		filtered = append(filtered, p)
	}
	return s.fetcher.Fetch(ctx, filtered, eval.CacheAvailable)
}

func (s *Service) available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Available(ctx)
}

func (s *Service) persist(ctx context.Context, eval *Evaluation, current []models.CanonicalPayload) bool {
	if !eval.CacheAvailable {
		s.metrics.RecordWrite("orchestrator", "skipped")
		return false
	}
	putCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Put(putCtx, eval.SubmissionID, current); err != nil {
		s.metrics.RecordWrite("orchestrator", "failed")
		s.logger.WarnContext(ctx, "failed to persist canonical payloads",
			"submission_id", eval.SubmissionID,
			"error", err,
		)
		return false
	}
	s.metrics.RecordWrite("orchestrator", "ok")
	return true
}

// submissionID prefers the submission's own id, then the configured fallback,
// then a digest of the wallet and payloads so reprocessing the same input
// overwrites the same corpus entry.
func (s *Service) submissionID(sub *models.Submission, current []models.CanonicalPayload) string {
	if id := strings.TrimSpace(sub.ID); id != "" {
		return id
	}
	if s.fallbackID != "" {
		return s.fallbackID
	}
	digest := s.canonicalizer.Digest(struct {
		Wallet   string                    `json:"wallet"`
		Payloads []models.CanonicalPayload `json:"payloads"`
	}{sub.WalletAddress, current})
	if i := strings.IndexByte(digest, ':'); i >= 0 {
		digest = digest[i+1:]
	}
	if len(digest) > 32 {
		digest = digest[:32]
	}
	return derivedIDPrefix + digest
}
