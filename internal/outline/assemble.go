package outline

import (
	"fmt"
	"sort"
)

// Assemble orders the resolved headings by (page, vertical position),
// labels their levels, and packages title plus outline into the output
// record. Consecutive duplicates on the same page collapse to one entry.
func Assemble(title string, cands []Candidate) DocumentRecord {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Block.Page != sorted[j].Block.Page {
			return sorted[i].Block.Page < sorted[j].Block.Page
		}
		return sorted[i].Block.Y < sorted[j].Block.Y
	})

	outline := make([]OutlineEntry, 0, len(sorted))
	for _, c := range sorted {
		entry := OutlineEntry{
			Level: fmt.Sprintf("H%d", c.Level),
			Text:  c.Block.Text,
			Page:  c.Block.Page,
		}
		if n := len(outline); n > 0 &&
			outline[n-1].Text == entry.Text && outline[n-1].Page == entry.Page {
			continue
		}
		outline = append(outline, entry)
	}

	return DocumentRecord{Title: title, Outline: outline}
}

// AssembleNative builds a record from headings carried by explicit
// document markup. Levels still pass through the hierarchy resolver so
// a markup file that jumps from h1 to h4 produces a valid nesting.
func AssembleNative(title string, headings []NativeHeading) DocumentRecord {
	cands := make([]Candidate, 0, len(headings))
	for i, h := range headings {
		level := h.Level
		if level > MaxLevel {
			level = MaxLevel
		}
		c := Candidate{Level: level, Confidence: 1.0, Source: SourcePattern}
		c.Block.Text = h.Text
		c.Block.Page = h.Page
		c.Block.Y = float64(i) // preserve document order within a page
		cands = append(cands, c)
	}
	return Assemble(title, Resolve(cands))
}
