package outline

import (
	"regexp"
	"strings"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// PatternMatch is the matcher's verdict for one block of text.
type PatternMatch struct {
	// Level is the pattern-suggested hierarchy level; 0 defers to the
	// font tier.
	Level int
	// Strong is true for numbering and keyword matches; all-caps-only
	// promotion is weak.
	Strong bool
}

var (
	// "Chapter 3", "PART IV", "Appendix A", "Section 2.1".
	sectionWordRe = regexp.MustCompile(`(?i)^(chapter|part|appendix|section)\s+(\d+|[ivxlcdm]+|[A-Z])\b`)
	// "1. Overview", "2.3 Details", "4.1.2 Edge cases".
	numberedRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+\S`)

	pureNumberRe = regexp.MustCompile(`^[\d\s.\-–]+$`)
	pageLabelRe  = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	captionRe    = regexp.MustCompile(`(?i)^(figure|table|fig\.|tab\.|chart|diagram)\s+\d+`)
)

// structuralKeywords are whole-line headings recognized regardless of
// font. The set is intentionally small; numbering and font signals
// carry most documents.
var structuralKeywords = map[string]bool{
	"abstract":          true,
	"acknowledgements":  true,
	"acknowledgments":   true,
	"appendix":          true,
	"background":        true,
	"bibliography":      true,
	"conclusion":        true,
	"conclusions":       true,
	"contents":          true,
	"discussion":        true,
	"glossary":          true,
	"introduction":      true,
	"methodology":       true,
	"overview":          true,
	"references":        true,
	"related work":      true,
	"results":           true,
	"summary":           true,
	"table of contents": true,
}

// Matcher recognizes heading-shaped text independent of font, and
// tracks document-wide text repetition to veto running headers and
// footers.
type Matcher struct {
	opts Options
	// pagesSeen maps normalized text to the set of pages it appears on.
	pagesSeen map[string]map[int]bool
}

// NewMatcher builds a matcher over the whole document. The single
// up-front pass records which texts repeat across pages.
func NewMatcher(blocks []layout.TextBlock, opts Options) *Matcher {
	m := &Matcher{
		opts:      opts.Normalize(),
		pagesSeen: make(map[string]map[int]bool),
	}
	for _, b := range blocks {
		key := repeatKey(b.Text)
		if key == "" {
			continue
		}
		if m.pagesSeen[key] == nil {
			m.pagesSeen[key] = make(map[int]bool)
		}
		m.pagesSeen[key][b.Page] = true
	}
	return m
}

// Match returns the pattern verdict for a block's text, or ok=false
// when no pattern applies.
func (m *Matcher) Match(text string) (PatternMatch, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PatternMatch{}, false
	}

	if sm := sectionWordRe.FindStringSubmatch(text); sm != nil {
		level := 1
		if strings.EqualFold(sm[1], "section") {
			level = 2
		}
		return PatternMatch{Level: level, Strong: true}, true
	}

	if nm := numberedRe.FindStringSubmatch(text); nm != nil {
		depth := strings.Count(nm[1], ".") + 1
		if depth > MaxLevel {
			depth = MaxLevel
		}
		return PatternMatch{Level: depth, Strong: true}, true
	}

	if structuralKeywords[keywordKey(text)] {
		return PatternMatch{Level: 1, Strong: true}, true
	}

	if isShortAllCaps(text, m.opts.MaxHeadingWords) {
		// Level deferred to the font tier when one exists.
		return PatternMatch{Level: 0, Strong: false}, true
	}

	return PatternMatch{}, false
}

// IsRunningHeader reports whether identical text repeats on at least
// the configured number of distinct pages.
func (m *Matcher) IsRunningHeader(text string) bool {
	pages := m.pagesSeen[repeatKey(text)]
	return len(pages) >= m.opts.RepeatHeaderPages
}

// IsNoise vetoes text that looks like a page number, a bare number, or
// a figure/table caption.
func (m *Matcher) IsNoise(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	return pureNumberRe.MatchString(text) ||
		pageLabelRe.MatchString(text) ||
		captionRe.MatchString(text)
}

func isShortAllCaps(text string, maxWords int) bool {
	if text != strings.ToUpper(text) {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	return len(strings.Fields(text)) <= maxWords
}

func repeatKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func keywordKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	key = strings.TrimSuffix(key, ":")
	return strings.TrimSpace(key)
}
