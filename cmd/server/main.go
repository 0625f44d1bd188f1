package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dataproof/internal/app"
	"dataproof/internal/platform/config"
	"dataproof/internal/platform/httpserver"
	"dataproof/internal/platform/logger"
	"dataproof/internal/platform/metrics"
	"dataproof/internal/proof/handler"
	"dataproof/pkg/platform/middleware/requestlog"
)

// main wires the proof engine behind the HTTP API and keeps the server
// lifecycle small. Scoring lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("failed to build proof engine", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestlog.Middleware(log))
	router.Use(middleware.Recoverer)
	router.Use(metrics.New().Middleware)
	handler.New(engine.Proofs, engine.Corpus, log).Register(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting proof server", "addr", cfg.Server.Addr)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		log.Info("shutting down proof server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := engine.Close(); err != nil {
		log.Warn("failed to release engine resources", "error", err)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
