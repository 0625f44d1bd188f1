package history

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/canonical"
)

const (
	defaultMaxArtifactBytes int64 = 64 << 20 // 64 MB
	defaultDownloadTimeout        = 30 * time.Second
)

// ArtifactSource resolves a pointer by downloading its encrypted archive,
// decrypting it, locating the submission document and canonicalizing it with
// the same rule used for current submissions.
//
// Each retrieval works in its own temporary directory which is removed on
// every exit path.
type ArtifactSource struct {
	client        *http.Client
	canonicalizer *canonical.Canonicalizer
	maxBytes      int64
	tempDir       string
}

// ArtifactOption configures an ArtifactSource.
type ArtifactOption func(*ArtifactSource)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(client *http.Client) ArtifactOption {
	return func(s *ArtifactSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithMaxArtifactBytes caps the downloaded and the decompressed size.
func WithMaxArtifactBytes(n int64) ArtifactOption {
	return func(s *ArtifactSource) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithTempDir sets the parent directory for per-retrieval work directories.
func WithTempDir(dir string) ArtifactOption {
	return func(s *ArtifactSource) {
		s.tempDir = dir
	}
}

// NewArtifactSource constructs the cold-path retriever.
func NewArtifactSource(canonicalizer *canonical.Canonicalizer, opts ...ArtifactOption) *ArtifactSource {
	s := &ArtifactSource{
		client:        &http.Client{Timeout: defaultDownloadTimeout},
		canonicalizer: canonicalizer,
		maxBytes:      defaultMaxArtifactBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Retrieve runs download, decrypt, extract and parse for one pointer.
func (s *ArtifactSource) Retrieve(ctx context.Context, pointer models.HistoricalPointer) ([]models.CanonicalPayload, error) {
	if pointer.URL == "" {
		return nil, newFetchError(pointer.ID, StageDownload, ErrNoLocator)
	}

	workDir, err := os.MkdirTemp(s.tempDir, "artifact-*")
	if err != nil {
		return nil, newFetchError(pointer.ID, StageDownload, fmt.Errorf("create work dir: %w", err))
	}
	defer os.RemoveAll(workDir)

	encrypted := filepath.Join(workDir, "artifact.enc")
	if err := s.download(ctx, pointer.URL, encrypted); err != nil {
		return nil, newFetchError(pointer.ID, StageDownload, err)
	}

	f, err := os.Open(encrypted)
	if err != nil {
		return nil, newFetchError(pointer.ID, StageDecrypt, err)
	}
	plain, err := decryptArtifact(f, pointer.Passphrase, s.maxBytes)
	f.Close()
	if err != nil {
		return nil, newFetchError(pointer.ID, StageDecrypt, err)
	}

	doc, err := extractDocument(plain, s.maxBytes)
	if err != nil {
		return nil, newFetchError(pointer.ID, StageExtract, err)
	}

	sub, err := models.ParseSubmission(doc)
	if err != nil {
		return nil, newFetchError(pointer.ID, StageParse, err)
	}
	return s.canonicalizer.CanonicalizeAll(sub.Contributions), nil
}

// download streams the artifact to dst, refusing bodies over maxBytes.
func (s *ArtifactSource) download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("get artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get artifact: unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > s.maxBytes {
		return ErrArtifactTooLarge
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if n > s.maxBytes {
		return ErrArtifactTooLarge
	}
	return nil
}
