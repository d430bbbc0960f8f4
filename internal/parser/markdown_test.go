package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParse(t *testing.T) {
	src := `# Installation Guide

Some introductory prose.

## Requirements

### Hardware

Body text.

## Setup
`
	doc, err := (&MarkdownParser{}).Parse(strings.NewReader(src), "guide.md")
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Native {
		t.Fatal("markdown documents are native")
	}
	if doc.Title != "Installation Guide" {
		t.Errorf("title = %q", doc.Title)
	}

	wantLevels := []int{1, 2, 3, 2}
	wantTexts := []string{"Installation Guide", "Requirements", "Hardware", "Setup"}
	if len(doc.Headings) != len(wantLevels) {
		t.Fatalf("headings = %+v, want %d", doc.Headings, len(wantLevels))
	}
	for i, h := range doc.Headings {
		if h.Level != wantLevels[i] || h.Text != wantTexts[i] {
			t.Errorf("heading %d = %+v, want level=%d text=%q", i, h, wantLevels[i], wantTexts[i])
		}
	}
}

func TestMarkdownParseNoHeadings(t *testing.T) {
	doc, err := (&MarkdownParser{}).Parse(strings.NewReader("just a paragraph\n"), "notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "notes" {
		t.Errorf("title = %q, want filename stem", doc.Title)
	}
	if len(doc.Headings) != 0 {
		t.Errorf("headings = %+v, want none", doc.Headings)
	}
}
