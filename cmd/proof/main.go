package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"dataproof/internal/app"
	"dataproof/internal/platform/config"
	"dataproof/internal/platform/logger"
	"dataproof/internal/proof/models"
)

const resultsFile = "results.json"

// main scores every submission in INPUT_DIR and writes the proof to
// OUTPUT_DIR/results.json.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("proof generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	inputs, err := inputFiles(cfg.Proof.InputDir)
	if err != nil {
		return err
	}

	engine, err := app.Build(ctx, cfg, log, app.WithFallbackSubmissionID(cfg.Proof.SubmissionID))
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warn("failed to release engine resources", "error", err)
		}
	}()

	var last *models.ProofResponse
	for _, path := range inputs {
		resp, err := proveFile(ctx, engine, path)
		if err != nil {
			log.Warn("skipping input file", "file", filepath.Base(path), "error", err)
			continue
		}
		log.Info("processed input file",
			"file", filepath.Base(path),
			"submission_id", resp.Attributes.SubmissionID,
			"valid", resp.Valid,
			"score", resp.Score,
		)
		last = resp
	}
	if last == nil {
		return errors.New("no input file produced a proof")
	}
	return writeResult(cfg.Proof.OutputDir, last)
}

// inputFiles lists *.json files in dir in name order.
func inputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .json input in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func proveFile(ctx context.Context, engine *app.App, path string) (*models.ProofResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sub, err := models.ParseSubmission(data)
	if err != nil {
		return nil, err
	}
	return engine.Proofs.Generate(ctx, sub)
}

func writeResult(dir string, resp *models.ProofResponse) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, resultsFile), data, 0o644); err != nil {
		return fmt.Errorf("write proof: %w", err)
	}
	return nil
}
