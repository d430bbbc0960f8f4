package outline

import (
	"testing"

	"github.com/jthorne/pdfoutline/internal/layout"
)

func newTestMatcher(blocks []layout.TextBlock) *Matcher {
	return NewMatcher(blocks, DefaultOptions())
}

func TestMatchPatterns(t *testing.T) {
	m := newTestMatcher(nil)

	tests := []struct {
		text   string
		level  int
		strong bool
		ok     bool
	}{
		{"Chapter 3 Results", 1, true, true},
		{"PART IV", 1, true, true},
		{"Appendix A Listings", 1, true, true},
		{"Section 2 Terminology", 2, true, true},
		{"1. Overview", 1, true, true},
		{"2.3 Details", 2, true, true},
		{"4.1.2 Edge cases", 3, true, true},
		{"1.2.3.4.5 Very deep", 4, true, true},
		{"Introduction", 1, true, true},
		{"References:", 1, true, true},
		{"TABLE OF CONTENTS", 1, true, true},
		{"SYSTEM DESIGN", 0, false, true},
		{"The quick brown fox jumps", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.text)
		if ok != tt.ok {
			t.Errorf("Match(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if got.Level != tt.level || got.Strong != tt.strong {
			t.Errorf("Match(%q) = %+v, want level=%d strong=%v", tt.text, got, tt.level, tt.strong)
		}
	}
}

func TestMatchAllCapsWordLimit(t *testing.T) {
	m := newTestMatcher(nil)
	long := "THIS HEADING HAS FAR TOO MANY WORDS TO BE PROMOTED BY CASE ALONE"
	if _, ok := m.Match(long); ok {
		t.Errorf("all-caps text over the word limit should not match")
	}
}

func TestIsNoise(t *testing.T) {
	m := newTestMatcher(nil)

	tests := []struct {
		text string
		want bool
	}{
		{"42", true},
		{"3 - 14", true},
		{"Page 7 of 20", true},
		{"Figure 3: throughput", true},
		{"Table 12 comparison", true},
		{"Introduction", false},
		{"7 dwarves", false},
	}
	for _, tt := range tests {
		if got := m.IsNoise(tt.text); got != tt.want {
			t.Errorf("IsNoise(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsRunningHeader(t *testing.T) {
	var blocks []layout.TextBlock
	for page := 0; page < 3; page++ {
		blocks = append(blocks, block("Journal of Testing", page, 10, 20))
	}
	blocks = append(blocks,
		block("Appears Twice", 0, 10, 700),
		block("Appears Twice", 1, 10, 700),
	)
	m := newTestMatcher(blocks)

	if !m.IsRunningHeader("Journal of Testing") {
		t.Errorf("text on 3 pages should be a running header")
	}
	// Case-insensitive repetition tracking.
	if !m.IsRunningHeader("JOURNAL OF TESTING") {
		t.Errorf("repetition tracking should ignore case")
	}
	if m.IsRunningHeader("Appears Twice") {
		t.Errorf("text on 2 pages is below the repeat threshold")
	}
	if m.IsRunningHeader("Never Seen") {
		t.Errorf("unseen text cannot be a running header")
	}
}

func TestIsRunningHeaderSamePageRepeats(t *testing.T) {
	// Many repeats on one page count as a single page.
	var blocks []layout.TextBlock
	for i := 0; i < 10; i++ {
		blocks = append(blocks, block("Sidebar Label", 0, 10, float64(i*50)))
	}
	m := newTestMatcher(blocks)
	if m.IsRunningHeader("Sidebar Label") {
		t.Errorf("repeats on a single page should not veto")
	}
}
