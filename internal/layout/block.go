package layout

import (
	"sort"
	"strings"
)

// TextBlock is one span of text as laid out on a page. Blocks on the
// same page compare by Y for top-to-bottom order; cross-page order is
// (Page, Y) lexicographic.
type TextBlock struct {
	Text     string  // trimmed, whitespace-normalized
	Page     int     // 0-based page number
	FontSize float64 // in points
	Bold     bool
	Y        float64 // top-of-block offset from the top of the page
	RelY     float64 // Y normalized by page height, in [0,1]
	BBox     BBox    // page-relative coordinates
}

// BBox is an axis-aligned bounding box in page coordinates.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// SortReadingOrder sorts blocks by (page, vertical position, horizontal
// position). The sort is stable so equal positions keep extraction order.
func SortReadingOrder(blocks []TextBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Page != blocks[j].Page {
			return blocks[i].Page < blocks[j].Page
		}
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
}

var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"\uFEFF", "",
	"\x00", "",
)

// NormalizeText collapses whitespace, expands common ligatures, and
// strips control characters and other extraction artifacts.
func NormalizeText(s string) string {
	s = ligatures.Replace(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demibold"}

// IsBoldFont reports whether a PDF font name indicates a bold face.
// Font names carry the style as a suffix, e.g. "Helvetica-Bold" or
// "ABCDEF+TimesNewRoman,Bold" for subset fonts.
func IsBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
