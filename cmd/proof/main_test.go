package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataproof/internal/platform/config"
	"dataproof/internal/proof/models"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.FromEnv()
	cfg.Corpus.Backend = "memory"
	cfg.Events.Brokers = nil
	cfg.Proof.InputDir = t.TempDir()
	cfg.Proof.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func writeInput(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// run registers metrics on the default registry, so the whole flow is
// exercised once per test binary.
func TestRunWritesResults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Proof.SubmissionID = "file-1"
	writeInput(t, cfg.Proof.InputDir, "a.json", `{
		"walletAddress": "0xabc",
		"contribution": [{
			"type": "AMAZON",
			"subType": "AMAZON_ORDER_HISTORY",
			"witnesses": ["wss://witness.reclaimprotocol.org/ws"],
			"securedSharedData": {"orders": {"0": "book"}}
		}]
	}`)
	writeInput(t, cfg.Proof.InputDir, "b.json", `not json`)
	writeInput(t, cfg.Proof.InputDir, "notes.txt", `ignored`)

	err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Proof.OutputDir, resultsFile))
	require.NoError(t, err)
	var resp models.ProofResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "file-1", resp.Attributes.SubmissionID)
	assert.Equal(t, "0xabc", resp.Attributes.WalletAddress)
	assert.True(t, resp.Valid)
	assert.Equal(t, 1.0, resp.Uniqueness)
}

func TestInputFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := inputFiles(dir)
	assert.Error(t, err, "empty dir")

	writeInput(t, dir, "b.JSON", "{}")
	writeInput(t, dir, "a.json", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.json"), 0o755))

	files, err := inputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.JSON")}, files)

	_, err = inputFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
