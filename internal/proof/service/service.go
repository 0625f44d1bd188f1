// Package service generates proofs: it scores a submission on authenticity,
// ownership, uniqueness and quality and composes the verdict.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dataproof/internal/events"
	"dataproof/internal/proof/metrics"
	"dataproof/internal/proof/models"
	"dataproof/internal/proof/ports"
	"dataproof/internal/scoring/authenticity"
	"dataproof/internal/scoring/composer"
	"dataproof/internal/scoring/contribution"
	"dataproof/internal/scoring/quality"
	uniqueness "dataproof/internal/uniqueness/service"
	"dataproof/pkg/platform/sentinel"
)

const defaultDLPID = "24"

// Service generates proofs.
type Service struct {
	uniqueness   ports.UniquenessEvaluator
	ownership    ports.OwnershipScorer
	publisher    events.Publisher
	dlpID        string
	validDomains []string
	qualityTable quality.Table
	weights      composer.Weights
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
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

// WithPublisher sends every generated proof to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithDLPID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.dlpID = id
		}
	}
}

// WithValidDomains sets the witness suffixes accepted for authenticity.
func WithValidDomains(domains []string) Option {
	return func(s *Service) {
		if len(domains) > 0 {
			s.validDomains = domains
		}
	}
}

func WithQualityTable(t quality.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.qualityTable = t
		}
	}
}

func WithWeights(w composer.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithClock overrides time.Now for generated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a proof Service.
func New(uniqueness ports.UniquenessEvaluator, ownership ports.OwnershipScorer, opts ...Option) (*Service, error) {
	if uniqueness == nil {
		return nil, errors.New("uniqueness evaluator is required")
	}
	if ownership == nil {
		return nil, errors.New("ownership scorer is required")
	}

	s := &Service{
		uniqueness:   uniqueness,
		ownership:    ownership,
		publisher:    events.Nop{},
		dlpID:        defaultDLPID,
		validDomains: authenticity.DefaultValidDomains,
		qualityTable: quality.DefaultTable(),
		weights:      composer.DefaultWeights(),
		logger:       slog.Default(),
		tracer:       otel.Tracer("dataproof/proof"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate scores one submission. Only a submission without a wallet address
// is rejected; every other degraded collaborator lowers the affected score.
func (s *Service) Generate(ctx context.Context, sub *models.Submission) (*models.ProofResponse, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveGenerateLatency(time.Since(start)) }()

	if sub == nil {
		return nil, fmt.Errorf("%w: submission is required", sentinel.ErrInvalidInput)
	}
	wallet := strings.TrimSpace(sub.WalletAddress)
	if wallet == "" {
		return nil, fmt.Errorf("%w: wallet address is required", sentinel.ErrInvalidInput)
	}

	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "proof.generate", trace.WithAttributes(
		attribute.String("proof.run_id", runID),
		attribute.Int("submission.contributions", len(sub.Contributions)),
	))
	defer span.End()

	subTypes := sub.SubTypes()
	authScore := authenticity.Score(sub.Contributions, s.validDomains)

	var (
		ownershipScore float64
		eval           *uniqueness.Evaluation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score, err := s.ownership.Score(gctx, wallet, subTypes)
		if err != nil {
			return fmt.Errorf("ownership: %w", err)
		}
		ownershipScore = score
		return nil
	})
	g.Go(func() error {
		eval = s.uniqueness.Evaluate(gctx, sub)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if eval == nil {
		eval = &uniqueness.Evaluation{}
	}

	qualityScore := quality.Score(sub.Contributions, eval.Result, s.qualityTable)
	contrib := contribution.Score(sub.Contributions)

	scores := composer.Scores{
		Authenticity: authScore,
		Ownership:    ownershipScore,
		Uniqueness:   eval.Result.Score,
		Quality:      qualityScore,
	}
	final, valid := composer.Compose(scores, s.weights)

	resp := &models.ProofResponse{
		DLPID:        s.dlpID,
		Valid:        valid,
		Score:        final,
		Authenticity: scores.Authenticity,
		Ownership:    scores.Ownership,
		Uniqueness:   scores.Uniqueness,
		Quality:      scores.Quality,
		Attributes: models.ProofAttributes{
			SubmissionID:                eval.SubmissionID,
			WalletAddress:               wallet,
			TotalContributionScore:      contrib.Total,
			NormalizedContributionScore: contrib.Normalized,
			UniqueEntries:               eval.Result.Entries,
		},
		Metadata: models.ProofMetadata{
			DLPID:       s.dlpID,
			ProofRunID:  runID,
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
	}

	s.metrics.RecordProof(valid, final, map[string]float64{
		"authenticity": scores.Authenticity,
		"ownership":    scores.Ownership,
		"uniqueness":   scores.Uniqueness,
		"quality":      scores.Quality,
	})
	span.SetAttributes(attribute.Bool("proof.valid", valid), attribute.Float64("proof.score", final))

	s.logger.InfoContext(ctx, "proof generated",
		"proof_run_id", runID,
		"submission_id", eval.SubmissionID,
		"valid", valid,
		"score", final,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.publish(ctx, resp, subTypes, eval)
	return resp, nil
}

func (s *Service) publish(ctx context.Context, resp *models.ProofResponse, subTypes []string, eval *uniqueness.Evaluation) {
	event := events.ProofEvent{
		Type:            events.TypeProofGenerated,
		ProofRunID:      resp.Metadata.ProofRunID,
		DLPID:           resp.DLPID,
		SubmissionID:    eval.SubmissionID,
		WalletAddress:   resp.Attributes.WalletAddress,
		Valid:           resp.Valid,
		Score:           resp.Score,
		Authenticity:    resp.Authenticity,
		Ownership:       resp.Ownership,
		Uniqueness:      resp.Uniqueness,
		Quality:         resp.Quality,
		SubTypes:        subTypes,
		CorpusPersisted: eval.Persisted,
		OccurredAt:      s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncPublishFailures()
		s.logger.WarnContext(ctx, "failed to publish proof event",
			"proof_run_id", event.ProofRunID,
			"error", err,
		)
	}
}
