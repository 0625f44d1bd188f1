package history

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/canonical"
)

const historicalDoc = `{
  "walletAddress": "0xabc",
  "contribution": [
    {"type": "AMAZON", "taskSubType": "AMAZON_ORDER_HISTORY",
     "securedSharedData": {"orders": {"o1": "book", "o2": "lamp"}}}
  ]
}`

func encrypt(t *testing.T, plain []byte, passphrase string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := openpgp.SymmetricallyEncrypt(&buf, []byte(passphrase), nil, nil)
	require.NoError(t, err)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func armored(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func serve(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSource(t *testing.T, opts ...ArtifactOption) (*ArtifactSource, string) {
	t.Helper()
	dir := t.TempDir()
	return NewArtifactSource(canonical.New(canonical.SHA256), append([]ArtifactOption{WithTempDir(dir)}, opts...)...), dir
}

func assertWorkDirRemoved(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "per-retrieval work directory must be removed")
}

func TestRetrieveEncryptedZip(t *testing.T) {
	archive := zipped(t, map[string]string{
		"__MACOSX/._submission.json": "junk",
		"readme.txt":                 "not json",
		"data/submission.json":       historicalDoc,
	}, "__MACOSX/._submission.json", "readme.txt", "data/submission.json")
	srv := serve(t, encrypt(t, archive, "s3cret"), http.StatusOK)

	src, dir := newSource(t)
	got, err := src.Retrieve(context.Background(), models.HistoricalPointer{ID: "h1", URL: srv.URL, Passphrase: "s3cret"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AMAZON_ORDER_HISTORY", got[0].SubType)
	assert.Len(t, got[0].Fields["orders"].Fields, 2)
	assertWorkDirRemoved(t, dir)
}

func TestRetrieveMatchesCurrentCanonicalization(t *testing.T) {
	srv := serve(t, encrypt(t, []byte(historicalDoc), "pw"), http.StatusOK)
	src, _ := newSource(t)

	got, err := src.Retrieve(context.Background(), models.HistoricalPointer{ID: "h1", URL: srv.URL, Passphrase: "pw"})
	require.NoError(t, err)

	sub, err := models.ParseSubmission([]byte(historicalDoc))
	require.NoError(t, err)
	want := canonical.New(canonical.SHA256).CanonicalizeAll(sub.Contributions)

	assert.Equal(t, want, got)
}

func TestRetrieveContainerFormats(t *testing.T) {
	cases := []struct {
		name string
		body func(t *testing.T) []byte
	}{
		{name: "armored plain json", body: func(t *testing.T) []byte {
			return armored(t, encrypt(t, []byte(historicalDoc), "pw"))
		}},
		{name: "gzip", body: func(t *testing.T) []byte {
			return encrypt(t, gzipped(t, []byte(historicalDoc)), "pw")
		}},
		{name: "zstd", body: func(t *testing.T) []byte {
			return encrypt(t, zstded(t, []byte(historicalDoc)), "pw")
		}},
		{name: "zip inside gzip", body: func(t *testing.T) []byte {
			inner := zipped(t, map[string]string{"s.json": historicalDoc}, "s.json")
			return encrypt(t, gzipped(t, inner), "pw")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.body(t), http.StatusOK)
			src, dir := newSource(t)

			got, err := src.Retrieve(context.Background(), models.HistoricalPointer{ID: "h", URL: srv.URL, Passphrase: "pw"})

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "AMAZON_ORDER_HISTORY", got[0].SubType)
			assertWorkDirRemoved(t, dir)
		})
	}
}

func TestRetrieveUnencryptedWithoutPassphrase(t *testing.T) {
	srv := serve(t, []byte(historicalDoc), http.StatusOK)
	src, _ := newSource(t)

	got, err := src.Retrieve(context.Background(), models.HistoricalPointer{ID: "h", URL: srv.URL})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRetrieveFailures(t *testing.T) {
	cases := []struct {
		name      string
		pointer   func(t *testing.T) models.HistoricalPointer
		opts      []ArtifactOption
		wantStage Stage
		wantErr   error
	}{
		{
			name: "no url",
			pointer: func(t *testing.T) models.HistoricalPointer {
				return models.HistoricalPointer{ID: "h"}
			},
			wantStage: StageDownload,
			wantErr:   ErrNoLocator,
		},
		{
			name: "not found",
			pointer: func(t *testing.T) models.HistoricalPointer {
				return models.HistoricalPointer{ID: "h", URL: serve(t, nil, http.StatusNotFound).URL, Passphrase: "pw"}
			},
			wantStage: StageDownload,
		},
		{
			name: "too large",
			pointer: func(t *testing.T) models.HistoricalPointer {
				return models.HistoricalPointer{ID: "h", URL: serve(t, bytes.Repeat([]byte("x"), 4096), http.StatusOK).URL}
			},
			opts:      []ArtifactOption{WithMaxArtifactBytes(1024)},
			wantStage: StageDownload,
			wantErr:   ErrArtifactTooLarge,
		},
		{
			name: "wrong passphrase",
			pointer: func(t *testing.T) models.HistoricalPointer {
				body := encrypt(t, []byte(historicalDoc), "right")
				return models.HistoricalPointer{ID: "h", URL: serve(t, body, http.StatusOK).URL, Passphrase: "wrong"}
			},
			wantStage: StageDecrypt,
			wantErr:   ErrBadPassphrase,
		},
		{
			name: "archive without json",
			pointer: func(t *testing.T) models.HistoricalPointer {
				archive := zipped(t, map[string]string{"notes.txt": "hello"}, "notes.txt")
				body := encrypt(t, archive, "pw")
				return models.HistoricalPointer{ID: "h", URL: serve(t, body, http.StatusOK).URL, Passphrase: "pw"}
			},
			wantStage: StageExtract,
			wantErr:   ErrNoDocument,
		},
		{
			name: "document is not an object",
			pointer: func(t *testing.T) models.HistoricalPointer {
				body := encrypt(t, []byte(`{"walletAddress": `), "pw")
				return models.HistoricalPointer{ID: "h", URL: serve(t, body, http.StatusOK).URL, Passphrase: "pw"}
			},
			wantStage: StageParse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, dir := newSource(t, tc.opts...)

			got, err := src.Retrieve(context.Background(), tc.pointer(t))

			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tc.wantStage, StageOf(err))
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			}

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "h", fe.PointerID)
			assertWorkDirRemoved(t, dir)
		})
	}
}

func TestLooksEncrypted(t *testing.T) {
	assert.True(t, looksEncrypted([]byte("-----BEGIN PGP MESSAGE-----")))
	assert.True(t, looksEncrypted([]byte{0xc3, 0x0d}))
	assert.False(t, looksEncrypted([]byte(`{"a":1}`)))
	assert.False(t, looksEncrypted(append([]byte{0xef, 0xbb, 0xbf}, '{')))
	assert.False(t, looksEncrypted(nil))
}

func TestExtractNestingIsBounded(t *testing.T) {
	data := []byte(historicalDoc)
	for range maxNesting + 2 {
		data = gzipped(t, data)
	}

	_, err := extractDocument(data, 1<<20)

	assert.ErrorIs(t, err, ErrNoDocument)
}
