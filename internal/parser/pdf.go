package parser

import (
	"io"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// PDFParser extracts positioned text blocks for heuristic heading
// detection. PDFs carry no reliable structural markup, so the outline
// engine does the classification downstream.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	ex := &layout.Extractor{FallbackPdftotext: p.FallbackPdftotext}
	blocks, err := ex.Extract(r)
	if err != nil {
		return nil, err
	}
	return &Document{Blocks: blocks}, nil
}
