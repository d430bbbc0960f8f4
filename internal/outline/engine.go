package outline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// DecisionPath identifies which strategy produced a record.
type DecisionPath string

const (
	// PathKnown is the exact-match path: the document's fingerprint hit
	// the calibration table and the stored outline was returned verbatim.
	PathKnown DecisionPath = "known"
	// PathHeuristic is the generalization path: font statistics, pattern
	// matching, and optional scorer re-ranking.
	PathHeuristic DecisionPath = "heuristic"
)

// Decision is the engine's output for one document: the record plus
// which path produced it and re-ranking diagnostics.
type Decision struct {
	Path        DecisionPath
	Fingerprint string
	Record      DocumentRecord

	// Heuristic-path diagnostics.
	Candidates int // headings accepted by the classifier
	Reranked   int // candidates sent to the external scorer
	Dropped    int // candidates the scorer rejected
}

// TransientError marks a scorer failure worth one retry within the
// deadline before degrading to heuristics-only.
type TransientError interface {
	error
	Transient() bool
}

// Engine produces the final DocumentRecord for one document, choosing
// once per document between the exact-match path and the heuristic
// pipeline. All state is read-only after construction, so one Engine
// serves concurrent workers.
type Engine struct {
	known         *KnownSet
	scorer        Scorer
	scorerTimeout time.Duration
	opts          Options
	log           *slog.Logger
}

// NewEngine wires an engine. known may be empty and scorer may be nil;
// both degrade to the plain heuristic pipeline.
func NewEngine(known *KnownSet, scorer Scorer, scorerTimeout time.Duration, opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if scorerTimeout <= 0 {
		scorerTimeout = 10 * time.Second
	}
	return &Engine{
		known:         known,
		scorer:        scorer,
		scorerTimeout: scorerTimeout,
		opts:          opts.Normalize(),
		log:           log,
	}
}

// Extract runs the full decision for one document's blocks. The path
// choice happens before any per-block work and is never revisited. The
// only returned errors are context cancellation and deadline expiry.
func (e *Engine) Extract(ctx context.Context, blocks []layout.TextBlock) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	ordered := make([]layout.TextBlock, len(blocks))
	copy(ordered, blocks)
	layout.SortReadingOrder(ordered)

	if len(ordered) == 0 {
		// Zero extractable blocks is a valid empty document, not an error.
		return Decision{
			Path:   PathHeuristic,
			Record: DocumentRecord{Outline: []OutlineEntry{}},
		}, nil
	}

	fp := Fingerprint(ordered)
	if rec, ok := e.known.Lookup(fp); ok {
		return Decision{Path: PathKnown, Fingerprint: fp, Record: rec}, nil
	}

	profile := AnalyzeFonts(ordered, e.opts)
	matcher := NewMatcher(ordered, e.opts)
	classifier := NewClassifier(profile, matcher, e.opts)

	var cands []Candidate
	for i, b := range ordered {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Decision{}, err
			}
		}
		if c, ok := classifier.Classify(b); ok {
			cands = append(cands, c)
		}
	}
	cands = MergeContinuations(cands)
	accepted := len(cands)

	cands, reranked, dropped, err := e.rerank(ctx, cands)
	if err != nil {
		return Decision{}, err
	}

	resolved := Resolve(cands)
	title := ExtractTitle(ordered, resolved, e.opts)
	record := Assemble(title, resolved)

	return Decision{
		Path:        PathHeuristic,
		Fingerprint: fp,
		Record:      record,
		Candidates:  accepted,
		Reranked:    reranked,
		Dropped:     dropped,
	}, nil
}

// rerank consults the external scorer for candidates below the
// ambiguity threshold: scorer rejections drop a candidate, everything
// else keeps its heuristic level. Any scorer failure after one
// transient retry degrades the rest of the document to heuristics-only.
func (e *Engine) rerank(ctx context.Context, cands []Candidate) (kept []Candidate, reranked, dropped int, err error) {
	if e.scorer == nil || len(cands) == 0 {
		return cands, 0, 0, nil
	}

	sctx, cancel := context.WithTimeout(ctx, e.scorerTimeout)
	defer cancel()

	degraded := false
	kept = make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if degraded || c.Confidence >= e.opts.AmbiguityThreshold {
			kept = append(kept, c)
			continue
		}

		scores, serr := e.classifyOnce(sctx, c)
		if serr != nil {
			// Parent cancellation is the per-document timeout; surface it.
			if ctx.Err() != nil {
				return nil, reranked, dropped, ctx.Err()
			}
			e.log.Warn("scorer unavailable, keeping heuristic verdicts",
				"error", serr, "remaining", len(cands)-len(kept))
			degraded = true
			kept = append(kept, c)
			continue
		}

		reranked++
		if scores.Rejects() {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	return kept, reranked, dropped, nil
}

func (e *Engine) classifyOnce(ctx context.Context, c Candidate) (Scores, error) {
	features := Features{
		FontSize:     c.Block.FontSize,
		Bold:         c.Block.Bold,
		PagePosition: c.Block.RelY,
	}
	scores, err := e.scorer.Classify(ctx, c.Block.Text, features)
	var transient TransientError
	if err != nil && errors.As(err, &transient) && transient.Transient() && ctx.Err() == nil {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return Scores{}, ctx.Err()
		}
		scores, err = e.scorer.Classify(ctx, c.Block.Text, features)
	}
	return scores, err
}
