// Command outline extracts structured outlines from every supported
// document in a directory and writes one JSON record per input file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jthorne/pdfoutline/internal/config"
	"github.com/jthorne/pdfoutline/internal/outline"
	"github.com/jthorne/pdfoutline/internal/pipeline"
	"github.com/jthorne/pdfoutline/internal/scorer"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	inputDir := flag.String("input", cfg.InputDir, "directory of documents to process")
	outputDir := flag.String("output", cfg.OutputDir, "directory for JSON outline records")
	flag.Parse()

	known, err := outline.LoadKnownSet(cfg.KnownOutlinesPath)
	if err != nil {
		log.Error("failed to load known outlines", "path", cfg.KnownOutlinesPath, "error", err)
		os.Exit(1)
	}

	var engineScorer outline.Scorer
	if cfg.ScorerURL != "" {
		sc := scorer.NewClient(cfg.ScorerURL, cfg.ScorerAPIKey, cfg.ScorerTimeout)
		engineScorer = sc
		defer sc.Close()
	}

	engine := outline.NewEngine(known, engineScorer, cfg.ScorerTimeout, cfg.OutlineOptions(), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewBatchRunner(engine, log, cfg.WorkerCount, cfg.DocTimeout)
	summary, err := runner.Run(ctx, *inputDir, *outputDir)
	if err != nil {
		log.Error("batch failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
