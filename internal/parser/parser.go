// Package parser turns raw document bytes into input for outline
// extraction. PDFs yield positioned text blocks that go through the
// heuristic detection engine; formats with explicit heading markup
// (Markdown, HTML, DOCX) yield the headings directly.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jthorne/pdfoutline/internal/layout"
	"github.com/jthorne/pdfoutline/internal/outline"
)

// Document is the parser output for one file. Exactly one of Blocks or
// Headings is populated, flagged by Native.
type Document struct {
	Title    string                  // native title when the format declares one
	Blocks   []layout.TextBlock      // positioned text, needs heading detection
	Headings []outline.NativeHeading // explicit headings from markup
	Native   bool                    // true when Headings carry the outline
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
