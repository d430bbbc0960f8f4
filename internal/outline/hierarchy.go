package outline

import "github.com/jthorne/pdfoutline/internal/layout"

// Resolve reconciles tentative levels across the document into a
// consistent nesting. It is a single deterministic pass over candidates
// in reading order, maintaining a stack of open levels:
//
//   - a candidate may sit at most one level deeper than the deepest
//     open level; anything deeper is clamped, not rejected
//   - a heading at level k closes all open levels greater than k
//
// The result never contains an H(k+1) entry before some H(k) or
// shallower entry has appeared.
func Resolve(cands []Candidate) []Candidate {
	if len(cands) == 0 {
		return nil
	}

	resolved := make([]Candidate, 0, len(cands))
	var open []int // strictly increasing open levels

	for _, c := range cands {
		level := c.Level
		if level < 1 {
			level = 1
		}
		deepest := 0
		if len(open) > 0 {
			deepest = open[len(open)-1]
		}
		if level > deepest+1 {
			level = deepest + 1
		}
		for len(open) > 0 && open[len(open)-1] >= level {
			open = open[:len(open)-1]
		}
		open = append(open, level)

		c.Level = level
		resolved = append(resolved, c)
	}
	return resolved
}

// MergeContinuations joins headings that were split across lines by the
// layout engine: consecutive candidates on the same page, at the same
// tentative level, separated by no more than roughly one line height.
// A continuation that starts its own numbering is never merged.
func MergeContinuations(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}

	merged := make([]Candidate, 0, len(cands))
	merged = append(merged, cands[0])

	for _, c := range cands[1:] {
		prev := &merged[len(merged)-1]
		if c.Block.Page == prev.Block.Page &&
			c.Level == prev.Level &&
			!startsOwnNumbering(c.Block.Text) &&
			withinLineGap(prev.Block, c.Block) {
			prev.Block.Text += " " + c.Block.Text
			if c.Confidence > prev.Confidence {
				prev.Confidence = c.Confidence
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func startsOwnNumbering(text string) bool {
	return numberedRe.MatchString(text) || sectionWordRe.MatchString(text)
}

func withinLineGap(a, b layout.TextBlock) bool {
	size := a.FontSize
	if b.FontSize > size {
		size = b.FontSize
	}
	if size <= 0 {
		return false
	}
	gap := b.Y - a.Y
	return gap >= 0 && gap <= size*1.8
}
