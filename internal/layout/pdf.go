package layout

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Extractor turns a PDF byte stream into positioned text blocks. It
// tries the Go library first, then falls back to pdftotext if enabled.
// The fallback loses font information: every block comes back at the
// same size, so downstream detection runs on text patterns alone.
type Extractor struct {
	FallbackPdftotext bool
}

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// Glyphs whose baselines differ by less than this are one visual line.
	rowTolerance = 2.5
	// A horizontal gap wider than this many font sizes splits a line
	// into separate blocks (column boundary or leader dots).
	blockGapMultiplier = 3.0
	// A gap wider than this fraction of the font size is a word break.
	wordGapMultiplier = 0.3

	fallbackFontSize = 12.0
)

// Extract reads a whole PDF and returns its text blocks in reading order.
func (e *Extractor) Extract(r io.Reader) ([]TextBlock, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "pdfoutline-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	blocks, err := extractBlocks(tmpPath)
	if err != nil && e.FallbackPdftotext {
		blocks, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf blocks: %w", err)
	}
	return blocks, nil
}

func extractBlocks(path string) ([]TextBlock, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var blocks []TextBlock
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		_, pageHeight := pageDims(page)
		texts := filterGlyphs(page.Content().Text)
		for _, row := range groupRows(texts) {
			for _, run := range splitRuns(row) {
				b := runToBlock(run, i-1, pageHeight)
				if b.Text != "" {
					blocks = append(blocks, b)
				}
			}
		}
	}

	SortReadingOrder(blocks)
	return blocks, nil
}

func pageDims(page pdflib.Page) (w, h float64) {
	mb := page.V.Key("MediaBox")
	if mb.Kind() == pdflib.Array && mb.Len() >= 4 {
		w = mb.Index(2).Float64() - mb.Index(0).Float64()
		h = mb.Index(3).Float64() - mb.Index(1).Float64()
	}
	if w <= 0 {
		w = defaultPageWidth
	}
	if h <= 0 {
		h = defaultPageHeight
	}
	return w, h
}

func filterGlyphs(texts []pdflib.Text) []pdflib.Text {
	out := texts[:0:0]
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		out = append(out, t)
	}
	return out
}

// groupRows buckets glyphs into visual lines by baseline Y, ordered
// top of page first. PDF Y coordinates grow upward.
func groupRows(texts []pdflib.Text) [][]pdflib.Text {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]pdflib.Text
	current := []pdflib.Text{sorted[0]}
	rowY := sorted[0].Y
	for _, t := range sorted[1:] {
		if rowY-t.Y > rowTolerance {
			rows = append(rows, current)
			current = nil
			rowY = t.Y
		}
		current = append(current, t)
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// splitRuns breaks one visual line at large horizontal gaps so that
// side-by-side cells or columns become separate blocks.
func splitRuns(row []pdflib.Text) [][]pdflib.Text {
	var runs [][]pdflib.Text
	var current []pdflib.Text
	for _, t := range row {
		if len(current) > 0 {
			prev := current[len(current)-1]
			gap := t.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = fallbackFontSize
			}
			if gap > blockGapMultiplier*size {
				runs = append(runs, current)
				current = nil
			}
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

func runToBlock(run []pdflib.Text, page int, pageHeight float64) TextBlock {
	var sb strings.Builder
	var fontSize float64
	bold := false

	for i, t := range run {
		if i > 0 {
			prev := run[i-1]
			gap := t.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = fallbackFontSize
			}
			if gap > wordGapMultiplier*size && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		if t.FontSize > fontSize {
			fontSize = t.FontSize
		}
		if !bold && IsBoldFont(t.Font) {
			bold = true
		}
	}
	if fontSize <= 0 {
		fontSize = fallbackFontSize
	}

	baseline := run[0].Y
	yTop := pageHeight - baseline - fontSize
	if yTop < 0 {
		yTop = 0
	}
	last := run[len(run)-1]

	return TextBlock{
		Text:     NormalizeText(sb.String()),
		Page:     page,
		FontSize: fontSize,
		Bold:     bold,
		Y:        yTop,
		RelY:     yTop / pageHeight,
		BBox: BBox{
			X0: run[0].X,
			Y0: yTop,
			X1: last.X + last.W,
			Y1: pageHeight - baseline,
		},
	}
}

// extractPdftotext shells out to pdftotext. Pages arrive separated by
// form feeds; each nonempty line becomes a block at a uniform font size.
func extractPdftotext(path string) ([]TextBlock, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var blocks []TextBlock
	for page, pageText := range strings.Split(string(out), "\f") {
		lines := strings.Split(pageText, "\n")
		for i, line := range lines {
			text := NormalizeText(line)
			if text == "" {
				continue
			}
			y := float64(i) * fallbackFontSize
			relY := y / defaultPageHeight
			if relY > 1 {
				relY = 1
			}
			blocks = append(blocks, TextBlock{
				Text:     text,
				Page:     page,
				FontSize: fallbackFontSize,
				Y:        y,
				RelY:     relY,
				BBox:     BBox{Y0: y, Y1: y + fallbackFontSize},
			})
		}
	}
	return blocks, nil
}
