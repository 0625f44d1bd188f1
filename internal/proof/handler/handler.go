package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/httputil"
	"dataproof/pkg/platform/sentinel"
)

const (
	maxSubmissionBytes = 16 << 20
	healthProbeTimeout = 2 * time.Second
)

// Service generates proofs.
type Service interface {
	Generate(ctx context.Context, sub *models.Submission) (*models.ProofResponse, error)
}

// HealthChecker reports whether the corpus store can be reached.
type HealthChecker interface {
	Available(ctx context.Context) bool
}

// Handler wires proof endpoints to the proof service.
type Handler struct {
	service Service
	health  HealthChecker
	logger  *slog.Logger
}

// New constructs a proof handler.
func New(service Service, health HealthChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		health:  health,
		logger:  logger,
	}
}

// Register mounts proof endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/proof/evaluate", h.HandleEvaluate)
	r.Get("/healthz", h.HandleHealth)
}

// HandleEvaluate handles POST /proof/evaluate. The body is the submission
// document itself.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload_too_large"})
			return
		}
		httputil.WriteError(w, fmt.Errorf("%w: read body: %w", sentinel.ErrInvalidInput, err))
		return
	}

	sub, err := models.ParseSubmission(body)
	if err != nil {
		h.logger.InfoContext(ctx, "rejected unparseable submission",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp, err := h.service.Generate(ctx, sub)
	if err != nil {
		h.logger.ErrorContext(ctx, "proof generation failed",
			"request_id", requestID,
			"wallet_address", sub.WalletAddress,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "proof evaluated",
		"request_id", requestID,
		"proof_run_id", resp.Metadata.ProofRunID,
		"valid", resp.Valid,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string `json:"status"`
	Corpus string `json:"corpus"`
}

// HandleHealth handles GET /healthz. An unreachable corpus store degrades
// uniqueness scoring but does not make the service unhealthy.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Corpus: "available"}
	if h.health == nil || !h.health.Available(ctx) {
		resp.Status = "degraded"
		resp.Corpus = "unavailable"
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
