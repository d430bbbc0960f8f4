package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
	"github.com/jthorne/pdfoutline/internal/parser"
)

// BatchRunner processes every supported file in a directory on a
// bounded worker pool and writes one JSON record per input. Documents
// are independent: one file's failure never aborts the batch, and a
// failed file simply has no corresponding output.
type BatchRunner struct {
	engine     *outline.Engine
	log        *slog.Logger
	workers    int
	docTimeout time.Duration
}

func NewBatchRunner(engine *outline.Engine, log *slog.Logger, workers int, docTimeout time.Duration) *BatchRunner {
	if workers <= 0 {
		workers = 4
	}
	if docTimeout <= 0 {
		docTimeout = 30 * time.Second
	}
	return &BatchRunner{engine: engine, log: log, workers: workers, docTimeout: docTimeout}
}

// Summary reports the outcome of a batch run.
type Summary struct {
	Processed int
	Failed    int
}

type fileResult struct {
	name string
	err  error
}

// Run walks inputDir for supported files and writes <stem>.json records
// into outputDir.
func (r *BatchRunner) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		r.log.Warn("no supported files in input directory", "dir", inputDir)
		return Summary{}, nil
	}
	r.log.Info("starting batch", "files", len(files), "workers", r.workers)

	sem := make(chan struct{}, r.workers)
	results := make(chan fileResult, len(files))
	for _, name := range files {
		sem <- struct{}{}
		go func(name string) {
			defer func() { <-sem }()
			results <- fileResult{name: name, err: r.processFile(ctx, inputDir, outputDir, name)}
		}(name)
	}

	var summary Summary
	for range files {
		res := <-results
		if res.err != nil {
			summary.Failed++
			r.log.Error("file failed", "file", res.name, "error", res.err)
		} else {
			summary.Processed++
		}
	}
	r.log.Info("batch complete", "processed", summary.Processed, "failed", summary.Failed)
	return summary, nil
}

func (r *BatchRunner) processFile(ctx context.Context, inputDir, outputDir, name string) error {
	start := time.Now()

	dctx, cancel := context.WithTimeout(ctx, r.docTimeout)
	defer cancel()

	f, err := os.Open(filepath.Join(inputDir, name))
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	p, err := parser.ForFile(name)
	if err != nil {
		return err
	}
	doc, err := p.Parse(f, name)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	var record outline.DocumentRecord
	var path string
	if doc.Native {
		record = outline.AssembleNative(doc.Title, doc.Headings)
		path = "native"
	} else {
		decision, err := r.engine.Extract(dctx, doc.Blocks)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		record = decision.Record
		path = string(decision.Path)
	}

	outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, outName), data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	r.log.Info("processed",
		"file", name,
		"output", outName,
		"path", path,
		"headings", len(record.Outline),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
