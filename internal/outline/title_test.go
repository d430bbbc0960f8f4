package outline

import (
	"testing"

	"github.com/jthorne/pdfoutline/internal/layout"
)

func TestExtractTitleLargestFont(t *testing.T) {
	blocks := []layout.TextBlock{
		block("Distributed Query Planner", 0, 24, 40),
		block("A technical report", 0, 14, 80),
		block("body text goes here", 0, 12, 120),
	}
	got := ExtractTitle(blocks, nil, DefaultOptions())
	if got != "Distributed Query Planner" {
		t.Errorf("title = %q", got)
	}
}

func TestExtractTitleTopmostOnTie(t *testing.T) {
	blocks := []layout.TextBlock{
		block("Upper Candidate", 0, 20, 50),
		block("Lower Candidate", 0, 20, 200),
	}
	if got := ExtractTitle(blocks, nil, DefaultOptions()); got != "Upper Candidate" {
		t.Errorf("title = %q, want the topmost of equal sizes", got)
	}
}

func TestExtractTitleSkipsClaimedHeading(t *testing.T) {
	heading := block("INTRODUCTION", 0, 24, 40)
	blocks := []layout.TextBlock{
		heading,
		block("The Actual Title", 0, 20, 100),
	}
	cands := []Candidate{{Block: heading, Level: 1}}
	if got := ExtractTitle(blocks, cands, DefaultOptions()); got != "The Actual Title" {
		t.Errorf("title = %q, want the unclaimed block", got)
	}
}

func TestExtractTitleIgnoresLatePages(t *testing.T) {
	blocks := []layout.TextBlock{
		block("Modest Front Matter", 0, 14, 40),
		block("HUGE BACK MATTER", 5, 40, 40),
	}
	if got := ExtractTitle(blocks, nil, DefaultOptions()); got != "Modest Front Matter" {
		t.Errorf("title = %q, pages beyond the span must not win", got)
	}
}

func TestExtractTitleFallsBackToFirstH1(t *testing.T) {
	h1 := block("Getting Started", 3, 16, 40)
	cands := []Candidate{
		{Block: block("Details", 4, 14, 40), Level: 2},
		{Block: h1, Level: 1},
	}
	// No eligible block on the early pages.
	blocks := []layout.TextBlock{block("17", 0, 30, 40)}
	if got := ExtractTitle(blocks, cands, DefaultOptions()); got != "Getting Started" {
		t.Errorf("title = %q, want first level-1 heading", got)
	}
}

func TestExtractTitleEmpty(t *testing.T) {
	if got := ExtractTitle(nil, nil, DefaultOptions()); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
}

func TestExtractTitleRejectsNoiseAndLength(t *testing.T) {
	blocks := []layout.TextBlock{
		block("42", 0, 30, 10),
		block("Page 1 of 9", 0, 28, 30),
		block("ab", 0, 26, 50),
		block("Reasonable Title", 0, 14, 70),
	}
	if got := ExtractTitle(blocks, nil, DefaultOptions()); got != "Reasonable Title" {
		t.Errorf("title = %q", got)
	}
}
