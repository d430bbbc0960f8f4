package parser

import (
	"io"

	"github.com/jthorne/pdfoutline/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser reads heading structure from the goldmark AST.
// Markdown has no pages, so every heading reports page 0.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := &Document{Title: stem(filename), Native: true}
	titleSet := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		txt := string(heading.Text(src))
		if txt == "" {
			continue
		}
		if !titleSet && heading.Level == 1 {
			out.Title = txt
			titleSet = true
		}
		out.Headings = append(out.Headings, outline.NativeHeading{
			Level: heading.Level,
			Text:  txt,
		})
	}
	return out, nil
}
