package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dataproof/internal/proof/models"
	"dataproof/pkg/platform/sentinel"
	"dataproof/pkg/testutil"
)

// =============================================================================
// Proof Handler Test Suite
// =============================================================================
// Justification for unit tests: the handler owns the HTTP contract (body is
// the raw submission, unparseable JSON is a 400, service input errors are a
// 400, everything else is a 500) independently of scoring.

type HandlerSuite struct {
	suite.Suite
	service *stubService
	health  *stubHealth
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

type stubService struct {
	got  *models.Submission
	resp *models.ProofResponse
	err  error
}

func (s *stubService) Generate(_ context.Context, sub *models.Submission) (*models.ProofResponse, error) {
	s.got = sub
	return s.resp, s.err
}

type stubHealth struct{ available bool }

func (s *stubHealth) Available(context.Context) bool { return s.available }

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{}
	s.health = &stubHealth{available: true}
	s.router = chi.NewRouter()
	New(s.service, s.health, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

const submissionBody = `{
  "walletAddress": "0xabc",
  "contribution": [{"type": "NETFLIX", "taskSubType": "NETFLIX_HISTORY", "securedSharedData": {"t": {"0": "x"}}}]
}`

func (s *HandlerSuite) TestEvaluateReturnsProof() {
	s.service.resp = &models.ProofResponse{DLPID: "24", Valid: true, Score: 0.8}

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proof/evaluate", submissionBody))

	s.Equal(http.StatusOK, rr.Code)
	got := testutil.DecodeJSON[models.ProofResponse](s.T(), rr)
	s.True(got.Valid)
	s.Equal(0.8, got.Score)
	s.Require().NotNil(s.service.got)
	s.Equal("0xabc", s.service.got.WalletAddress)
	s.Equal("NETFLIX_HISTORY", s.service.got.Contributions[0].SubType)
}

func (s *HandlerSuite) TestUnparseableBodyIsBadRequest() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proof/evaluate", `{"walletAddress":`))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	s.Nil(s.service.got)
}

func (s *HandlerSuite) TestServiceErrorsAreMapped() {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: wallet address is required", sentinel.ErrInvalidInput), http.StatusBadRequest, "bad_request"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		s.service.err = tc.err
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proof/evaluate", submissionBody))
		testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
	}
}

func (s *HandlerSuite) TestOversizedBodyIsRejected() {
	body := `{"walletAddress":"` + strings.Repeat("a", maxSubmissionBytes) + `"}`

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proof/evaluate", body))

	s.Equal(http.StatusRequestEntityTooLarge, rr.Code)
}

func (s *HandlerSuite) TestHealth() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", ""))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(healthResponse{Status: "ok", Corpus: "available"}, testutil.DecodeJSON[healthResponse](s.T(), rr))

	s.health.available = false
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", ""))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(healthResponse{Status: "degraded", Corpus: "unavailable"}, testutil.DecodeJSON[healthResponse](s.T(), rr))
}
