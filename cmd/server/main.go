package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jthorne/pdfoutline/internal/api"
	"github.com/jthorne/pdfoutline/internal/config"
	"github.com/jthorne/pdfoutline/internal/outline"
	"github.com/jthorne/pdfoutline/internal/pipeline"
	"github.com/jthorne/pdfoutline/internal/scorer"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	known, err := outline.LoadKnownSet(cfg.KnownOutlinesPath)
	if err != nil {
		log.Error("failed to load known outlines", "path", cfg.KnownOutlinesPath, "error", err)
		os.Exit(1)
	}
	if known.Len() > 0 {
		log.Info("known outlines loaded", "count", known.Len())
	}

	var sc *scorer.Client
	var engineScorer outline.Scorer
	if cfg.ScorerURL != "" {
		sc = scorer.NewClient(cfg.ScorerURL, cfg.ScorerAPIKey, cfg.ScorerTimeout)
		engineScorer = sc
		defer sc.Close()
		log.Info("external scorer enabled", "url", cfg.ScorerURL)
	}

	engine := outline.NewEngine(known, engineScorer, cfg.ScorerTimeout, cfg.OutlineOptions(), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := pipeline.NewOrchestrator(cfg, engine, log)
	orch.Start(ctx)

	server := api.NewServer(orch, sc, cfg, log)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port, "workers", cfg.WorkerCount)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	orch.Stop()
	log.Info("stopped")
}
