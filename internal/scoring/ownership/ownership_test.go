package ownership

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dataproof/pkg/platform/sentinel"
)

// =============================================================================
// Ownership Verifier Test Suite
// =============================================================================
// Justification for unit tests: the validator is an external service, so the
// only way to pin the request contract (bearer token, JSON body) and the
// failure mapping (every non-2xx and transport error scores 0) is against an
// httptest server.

type VerifierSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *VerifierSuite) newVerifier(opts ...Option) *Verifier {
	v, err := NewVerifier("test-secret", append([]Option{WithLogger(s.logger)}, opts...)...)
	s.Require().NoError(err)
	return v
}

func (s *VerifierSuite) TestRequiresSigningKey() {
	_, err := NewVerifier("")
	s.Error(err)
}

func (s *VerifierSuite) TestEmptyWalletIsInvalidInput() {
	_, err := s.newVerifier().Score(context.Background(), "  ", nil)
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *VerifierSuite) TestNoValidatorScoresOneWhenTokenSigns() {
	score, err := s.newVerifier().Score(context.Background(), "0xabc", []string{"NETFLIX_HISTORY"})
	s.Require().NoError(err)
	s.Equal(1.0, score)
}

func (s *VerifierSuite) TestTokenRoundTrip() {
	v := s.newVerifier(WithExpiration(time.Minute))

	token, err := v.GenerateToken("0xabc", []string{"A", "B"})
	s.Require().NoError(err)

	claims, err := v.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal("0xabc", claims.WalletAddress)
	s.Equal([]string{"A", "B"}, claims.SubTypes)
	s.NotEmpty(claims.ID)
	s.WithinDuration(time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func (s *VerifierSuite) TestTokenFromOtherKeyIsRejected() {
	other, err := NewVerifier("other-secret")
	s.Require().NoError(err)
	token, err := other.GenerateToken("0xabc", nil)
	s.Require().NoError(err)

	_, err = s.newVerifier().ValidateToken(token)
	s.Error(err)
}

func (s *VerifierSuite) TestValidatorRequestContract() {
	v := s.newVerifier()
	var gotAuth string
	var gotBody verifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal(VerifyPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		s.NoError(json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	score, err := s.newVerifier(WithValidatorURL(srv.URL+"/")).Score(context.Background(), "0xabc", []string{"X"})

	s.Require().NoError(err)
	s.Equal(1.0, score)
	s.Equal("0xabc", gotBody.WalletAddress)
	s.Equal([]string{"X"}, gotBody.SubTypes)
	s.Require().True(strings.HasPrefix(gotAuth, "Bearer "))
	claims, err := v.ValidateToken(strings.TrimPrefix(gotAuth, "Bearer "))
	s.Require().NoError(err)
	s.Equal("0xabc", claims.WalletAddress)
}

func TestValidatorResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   float64
	}{
		{name: "ok without body", status: http.StatusOK, want: 1},
		{name: "created", status: http.StatusCreated, body: `{}`, want: 1},
		{name: "explicitly verified", status: http.StatusOK, body: `{"verified":true}`, want: 1},
		{name: "explicitly rejected", status: http.StatusOK, body: `{"verified":false}`, want: 0},
		{name: "bad request", status: http.StatusBadRequest, want: 0},
		{name: "unauthorized", status: http.StatusUnauthorized, want: 0},
		{name: "server error", status: http.StatusInternalServerError, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v, err := NewVerifier("k", WithValidatorURL(srv.URL), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			require.NoError(t, err)

			got, err := v.Score(context.Background(), "0xabc", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnreachableValidatorScoresZero(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v, err := NewVerifier("k", WithValidatorURL(url), WithHTTPClient(&http.Client{Timeout: time.Second}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	got, err := v.Score(context.Background(), "0xabc", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}
