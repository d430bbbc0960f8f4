package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
	"github.com/jthorne/pdfoutline/internal/parser"
)

// Worker processes a single document job: parse, then classify through
// the hybrid decision engine (or take the native-markup shortcut).
type Worker struct {
	engine     *outline.Engine
	log        *slog.Logger
	docTimeout time.Duration
}

func NewWorker(engine *outline.Engine, log *slog.Logger, docTimeout time.Duration) *Worker {
	return &Worker{engine: engine, log: log, docTimeout: docTimeout}
}

// Process runs the extraction pipeline for one job. All failures are
// isolated to the job; the caller's context is only consulted for
// shutdown.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// The per-document timeout bounds pathological inputs without
	// affecting other documents in flight.
	dctx, cancel := context.WithTimeout(ctx, w.docTimeout)
	defer cancel()

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if err := dctx.Err(); err != nil {
		log.Error("document timed out during parse")
		job.AddError("timeout: " + err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetStatus(StatusClassifying, "classifying")

	if doc.Native {
		record := outline.AssembleNative(doc.Title, doc.Headings)
		job.SetResult(record, "native", "")
		job.SetStatus(StatusCompleted, "done")
		log.Info("outline extracted", "path", "native", "headings", len(record.Outline))
		return
	}

	decision, err := w.engine.Extract(dctx, doc.Blocks)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("document timed out during classification")
			job.AddError("timeout: " + err.Error())
		} else {
			log.Error("classification aborted", "error", err)
			job.AddError(err.Error())
		}
		job.SetStatus(StatusFailed, "classifying")
		return
	}

	job.SetResult(decision.Record, string(decision.Path), decision.Fingerprint)
	job.SetStatus(StatusCompleted, "done")
	log.Info("outline extracted",
		"path", decision.Path,
		"headings", len(decision.Record.Outline),
		"candidates", decision.Candidates,
		"reranked", decision.Reranked,
		"dropped", decision.Dropped,
	)
}
