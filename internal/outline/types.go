// Package outline implements heading detection and hierarchy
// classification over positioned text blocks extracted from a document.
package outline

import (
	"context"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// MaxLevel is the deepest hierarchy level emitted.
const MaxLevel = 4

// Options are the tunable heuristic thresholds of the detection
// pipeline. Values come from configuration; zero fields fall back to
// the defaults at use sites via Normalize.
type Options struct {
	// FontClusterTolerance is the relative size difference under which
	// two font sizes merge into the same heading tier (absorbs
	// rendering noise).
	FontClusterTolerance float64
	// MaxHeadingWords caps the word count for all-caps promotion.
	MaxHeadingWords int
	// MaxHeadingLength rejects any block longer than this many
	// characters outright.
	MaxHeadingLength int
	// RepeatHeaderPages is the number of distinct pages on which
	// identical text must repeat to be treated as a running
	// header/footer.
	RepeatHeaderPages int
	// AmbiguityThreshold is the confidence below which candidates are
	// re-ranked by the external scorer, when one is available.
	AmbiguityThreshold float64
	// TitlePageSpan is how many leading pages the title extractor
	// considers.
	TitlePageSpan int
}

// DefaultOptions returns the thresholds validated against the
// reference document set.
func DefaultOptions() Options {
	return Options{
		FontClusterTolerance: 0.05,
		MaxHeadingWords:      10,
		MaxHeadingLength:     200,
		RepeatHeaderPages:    3,
		AmbiguityThreshold:   0.75,
		TitlePageSpan:        2,
	}
}

// Normalize fills unset fields with defaults.
func (o Options) Normalize() Options {
	def := DefaultOptions()
	if o.FontClusterTolerance <= 0 {
		o.FontClusterTolerance = def.FontClusterTolerance
	}
	if o.MaxHeadingWords <= 0 {
		o.MaxHeadingWords = def.MaxHeadingWords
	}
	if o.MaxHeadingLength <= 0 {
		o.MaxHeadingLength = def.MaxHeadingLength
	}
	if o.RepeatHeaderPages <= 0 {
		o.RepeatHeaderPages = def.RepeatHeaderPages
	}
	if o.AmbiguityThreshold <= 0 {
		o.AmbiguityThreshold = def.AmbiguityThreshold
	}
	if o.TitlePageSpan <= 0 {
		o.TitlePageSpan = def.TitlePageSpan
	}
	return o
}

// Source identifies which signal promoted a block to heading candidate.
type Source string

const (
	SourceFont    Source = "font"
	SourcePattern Source = "pattern"
	SourceBoth    Source = "both"
)

// Candidate is a block promoted to consideration as a heading.
type Candidate struct {
	Block      layout.TextBlock
	Level      int     // tentative level 1..4
	Confidence float64 // in [0,1], diagnostics and scorer re-ranking only
	Source     Source
}

// OutlineEntry is one heading in the final outline. Immutable once
// assembled; the slice order is the reading order.
type OutlineEntry struct {
	Level string `json:"level"` // "H1".."H4"
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// DocumentRecord is the output record for one document. The serialized
// schema carries exactly these two fields.
type DocumentRecord struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

// NativeHeading is a heading read from explicit document markup
// (Markdown ATX levels, HTML h-tags, DOCX heading styles) rather than
// inferred from layout.
type NativeHeading struct {
	Level int
	Text  string
	Page  int
}

// Features are the block measurements sent to the external classifier.
type Features struct {
	FontSize     float64 `json:"font_size"`
	Bold         bool    `json:"bold"`
	PagePosition float64 `json:"page_position"` // vertical position in [0,1]
}

// Scores are per-class probabilities from the external classifier.
// None is the "not a heading" class.
type Scores struct {
	None float64 `json:"none"`
	H1   float64 `json:"h1"`
	H2   float64 `json:"h2"`
	H3   float64 `json:"h3"`
	H4   float64 `json:"h4"`
}

// Rejects reports whether the classifier considers the block not a
// heading at all.
func (s Scores) Rejects() bool {
	return s.None > s.H1 && s.None > s.H2 && s.None > s.H3 && s.None > s.H4
}

// Scorer is the external model capability consulted for ambiguous
// candidates. Implementations must be safe for concurrent use; a nil
// Scorer means heuristics-only operation.
type Scorer interface {
	Classify(ctx context.Context, text string, f Features) (Scores, error)
}
