package outline

import (
	"strings"

	"github.com/jthorne/pdfoutline/internal/layout"
)

const (
	titleMinLength = 3
	titleMaxLength = 150
)

// ExtractTitle selects the block most likely to be the document title:
// the largest-font block on the early pages that is not already claimed
// as an H1 heading, preferring the topmost block on ties. Falls back to
// the first H1 heading's text, then to the empty string.
func ExtractTitle(blocks []layout.TextBlock, cands []Candidate, opts Options) string {
	opts = opts.Normalize()

	claimed := make(map[blockKey]bool)
	for _, c := range cands {
		if c.Level == 1 {
			claimed[keyOf(c.Block)] = true
		}
	}

	var best *layout.TextBlock
	for i := range blocks {
		b := &blocks[i]
		if b.Page >= opts.TitlePageSpan {
			break
		}
		if !titleEligible(b.Text) || claimed[keyOf(*b)] {
			continue
		}
		if best == nil ||
			b.FontSize > best.FontSize ||
			(b.FontSize == best.FontSize && (b.Page < best.Page ||
				(b.Page == best.Page && b.Y < best.Y))) {
			best = b
		}
	}
	if best != nil {
		return best.Text
	}

	for _, c := range cands {
		if c.Level == 1 {
			return c.Block.Text
		}
	}
	return ""
}

func titleEligible(text string) bool {
	if len(text) < titleMinLength || len(text) > titleMaxLength {
		return false
	}
	if pureNumberRe.MatchString(text) || pageLabelRe.MatchString(text) {
		return false
	}
	return !strings.Contains(strings.ToLower(text), "page ")
}

type blockKey struct {
	page int
	y    float64
	text string
}

func keyOf(b layout.TextBlock) blockKey {
	return blockKey{page: b.Page, y: b.Y, text: b.Text}
}
