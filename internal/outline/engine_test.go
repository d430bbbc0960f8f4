package outline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jthorne/pdfoutline/internal/layout"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// engineDoc is a small two-page document with a title block, a keyword
// heading, a numbered heading, and a font-only heading.
func engineDoc() []layout.TextBlock {
	blocks := []layout.TextBlock{
		block("Distributed Query Planner", 0, 24, 20),
		boldBlock("INTRODUCTION", 0, 16, 60),
		block("1. Design Goals", 1, 12, 40),
		boldBlock("Design Notes", 1, 16, 200),
	}
	blocks = append(blocks, bodyBlocks(0, 12, 4)...)
	blocks = append(blocks, bodyBlocks(1, 12, 4)...)
	return blocks
}

func newTestEngine(known *KnownSet, sc Scorer) *Engine {
	return NewEngine(known, sc, time.Second, DefaultOptions(), testLogger())
}

func TestExtractHeuristicPath(t *testing.T) {
	e := newTestEngine(nil, nil)
	d, err := e.Extract(context.Background(), engineDoc())
	if err != nil {
		t.Fatal(err)
	}
	if d.Path != PathHeuristic {
		t.Errorf("path = %s, want heuristic", d.Path)
	}
	if d.Record.Title != "Distributed Query Planner" {
		t.Errorf("title = %q", d.Record.Title)
	}

	want := []OutlineEntry{
		{Level: "H1", Text: "INTRODUCTION", Page: 0},
		{Level: "H1", Text: "1. Design Goals", Page: 1},
		{Level: "H2", Text: "Design Notes", Page: 1},
	}
	if len(d.Record.Outline) != len(want) {
		t.Fatalf("outline = %+v, want %+v", d.Record.Outline, want)
	}
	for i, w := range want {
		if d.Record.Outline[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, d.Record.Outline[i], w)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := newTestEngine(nil, nil)
	doc := engineDoc()

	first, err := e.Extract(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Extract(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first.Record)
	b, _ := json.Marshal(second.Record)
	if string(a) != string(b) {
		t.Errorf("two runs over the same input differ:\n%s\n%s", a, b)
	}
}

func TestExtractInputOrderIrrelevant(t *testing.T) {
	doc := engineDoc()
	shuffled := make([]layout.TextBlock, len(doc))
	for i, b := range doc {
		shuffled[len(doc)-1-i] = b
	}

	e := newTestEngine(nil, nil)
	first, err := e.Extract(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Extract(context.Background(), shuffled)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first.Record)
	b, _ := json.Marshal(second.Record)
	if string(a) != string(b) {
		t.Errorf("block order changed the result:\n%s\n%s", a, b)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	e := newTestEngine(nil, nil)
	d, err := e.Extract(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Path != PathHeuristic {
		t.Errorf("path = %s, want heuristic", d.Path)
	}
	if d.Record.Outline == nil || len(d.Record.Outline) != 0 {
		t.Errorf("outline = %#v, want empty non-nil slice", d.Record.Outline)
	}
}

func TestExtractKnownPath(t *testing.T) {
	doc := engineDoc()
	ordered := make([]layout.TextBlock, len(doc))
	copy(ordered, doc)
	layout.SortReadingOrder(ordered)
	fp := Fingerprint(ordered)

	stored := DocumentRecord{
		Title:   "Hand Verified",
		Outline: []OutlineEntry{{Level: "H1", Text: "Exactly This", Page: 3}},
	}
	known := NewKnownSet(map[string]DocumentRecord{fp: stored})

	e := newTestEngine(known, rejectAllScorer{})
	d, err := e.Extract(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if d.Path != PathKnown {
		t.Fatalf("path = %s, want known", d.Path)
	}
	if d.Fingerprint != fp {
		t.Errorf("fingerprint = %q, want %q", d.Fingerprint, fp)
	}
	// The stored record is returned verbatim, untouched by heuristics
	// or the scorer.
	if d.Record.Title != stored.Title || len(d.Record.Outline) != 1 ||
		d.Record.Outline[0] != stored.Outline[0] {
		t.Errorf("record = %+v, want stored %+v", d.Record, stored)
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(nil, nil)
	if _, err := e.Extract(ctx, engineDoc()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// stubScorer scripts per-text responses and counts calls.
type stubScorer struct {
	mu      sync.Mutex
	calls   []string
	rejects map[string]bool
	err     error
}

func (s *stubScorer) Classify(ctx context.Context, text string, f Features) (Scores, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()
	if s.err != nil {
		return Scores{}, s.err
	}
	if s.rejects[text] {
		return Scores{None: 0.9, H1: 0.05, H2: 0.05}, nil
	}
	return Scores{None: 0.05, H1: 0.8, H2: 0.15}, nil
}

type rejectAllScorer struct{}

func (rejectAllScorer) Classify(ctx context.Context, text string, f Features) (Scores, error) {
	return Scores{None: 1}, nil
}

func TestRerankDropsScorerRejections(t *testing.T) {
	sc := &stubScorer{rejects: map[string]bool{"Design Notes": true}}
	e := newTestEngine(nil, sc)

	d, err := e.Extract(context.Background(), engineDoc())
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range d.Record.Outline {
		if entry.Text == "Design Notes" {
			t.Errorf("scorer-rejected candidate survived: %+v", entry)
		}
	}
	if d.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", d.Dropped)
	}
	// Only the ambiguous candidates are sent: the 1.0-confidence
	// keyword heading stays out of scorer traffic.
	for _, text := range sc.calls {
		if text == "INTRODUCTION" {
			t.Errorf("high-confidence candidate was sent to the scorer")
		}
	}
	if d.Reranked != len(sc.calls) {
		t.Errorf("Reranked = %d, scorer saw %d", d.Reranked, len(sc.calls))
	}
}

func TestScorerFailureDegradesToHeuristics(t *testing.T) {
	baseline, err := newTestEngine(nil, nil).Extract(context.Background(), engineDoc())
	if err != nil {
		t.Fatal(err)
	}

	sc := &stubScorer{err: errors.New("model offline")}
	d, err := newTestEngine(nil, sc).Extract(context.Background(), engineDoc())
	if err != nil {
		t.Fatalf("scorer failure must not fail extraction: %v", err)
	}

	a, _ := json.Marshal(baseline.Record)
	b, _ := json.Marshal(d.Record)
	if string(a) != string(b) {
		t.Errorf("degraded output differs from heuristics-only:\n%s\n%s", a, b)
	}
	if d.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0 when degraded", d.Dropped)
	}
}

type transientThenOK struct {
	mu       sync.Mutex
	failures int
}

type tempErr struct{}

func (tempErr) Error() string   { return "try again" }
func (tempErr) Transient() bool { return true }

func (s *transientThenOK) Classify(ctx context.Context, text string, f Features) (Scores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return Scores{}, tempErr{}
	}
	return Scores{None: 0.1, H2: 0.9}, nil
}

func TestScorerTransientErrorRetriedOnce(t *testing.T) {
	sc := &transientThenOK{failures: 1}
	e := newTestEngine(nil, sc)

	d, err := e.Extract(context.Background(), engineDoc())
	if err != nil {
		t.Fatal(err)
	}
	if d.Reranked == 0 {
		t.Errorf("expected the retried call to succeed and count as reranked")
	}
	found := false
	for _, entry := range d.Record.Outline {
		if entry.Text == "Design Notes" {
			found = true
		}
	}
	if !found {
		t.Errorf("accepted candidate missing from outline: %+v", d.Record.Outline)
	}
}
