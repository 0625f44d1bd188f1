// Package ownership proves a submitter controls the wallet it claims by
// presenting a short-lived signed token to the validator service.
package ownership

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dataproof/pkg/platform/sentinel"
)

const (
	defaultExpiration = 180 * time.Second
	defaultTimeout    = 10 * time.Second
	defaultIssuer     = "dataproof"

	// VerifyPath is appended to the validator base URL.
	VerifyPath = "/api/ownership/verify"
)

// Claims are carried in the ownership token.
type Claims struct {
	WalletAddress string   `json:"wallet_address"`
	SubTypes      []string `json:"sub_types,omitempty"`
	jwt.RegisteredClaims
}

type verifyRequest struct {
	WalletAddress string   `json:"walletAddress"`
	SubTypes      []string `json:"subTypes"`
}

type verifyResponse struct {
	Verified *bool `json:"verified"`
}

// Verifier issues ownership tokens and asks the validator to confirm them.
type Verifier struct {
	signingKey   []byte
	issuer       string
	expiresIn    time.Duration
	validatorURL string
	client       *http.Client
	logger       *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithValidatorURL sets the validator base URL. Without one, ownership only
// requires that a token can be signed.
func WithValidatorURL(url string) Option {
	return func(v *Verifier) {
		v.validatorURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

func WithExpiration(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.expiresIn = d
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		if client != nil {
			v.client = client
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewVerifier constructs a Verifier signing HS256 tokens with signingKey.
func NewVerifier(signingKey string, opts ...Option) (*Verifier, error) {
	if signingKey == "" {
		return nil, errors.New("ownership signing key is required")
	}
	v := &Verifier{
		signingKey: []byte(signingKey),
		issuer:     defaultIssuer,
		expiresIn:  defaultExpiration,
		client:     &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// GenerateToken signs a token binding the wallet to the submitted sub-types.
func (v *Verifier) GenerateToken(wallet string, subTypes []string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		WalletAddress: wallet,
		SubTypes:      subTypes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(v.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   wallet,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(v.signingKey)
}

// ValidateToken parses a token issued by this Verifier.
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, fmt.Errorf("validate ownership token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid ownership token claims")
	}
	return claims, nil
}

// Score returns 1.0 when ownership is confirmed and 0.0 otherwise. Only a
// missing wallet address is an error; validator failures score 0.
func (v *Verifier) Score(ctx context.Context, wallet string, subTypes []string) (float64, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return 0, fmt.Errorf("%w: wallet address is required", sentinel.ErrInvalidInput)
	}

	token, err := v.GenerateToken(wallet, subTypes)
	if err != nil {
		v.logger.WarnContext(ctx, "failed to sign ownership token", "error", err)
		return 0, nil
	}
	if v.validatorURL == "" {
		return 1, nil
	}

	verified, err := v.verify(ctx, token, wallet, subTypes)
	if err != nil {
		v.logger.WarnContext(ctx, "ownership validation failed",
			"wallet_address", wallet,
			"error", err,
		)
		return 0, nil
	}
	if !verified {
		return 0, nil
	}
	return 1, nil
}

func (v *Verifier) verify(ctx context.Context, token, wallet string, subTypes []string) (bool, error) {
	if subTypes == nil {
		subTypes = []string{}
	}
	body, err := json.Marshal(verifyRequest{WalletAddress: wallet, SubTypes: subTypes})
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.validatorURL+VerifyPath, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call validator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("validator returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	var decoded verifyResponse
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &decoded) == nil && decoded.Verified != nil {
		return *decoded.Verified, nil
	}
	return true, nil
}
