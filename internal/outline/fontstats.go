package outline

import (
	"math"
	"sort"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// FontProfile holds the document-wide font-size statistics the
// classifier needs: the body-text baseline and the size floors of the
// heading tiers.
type FontProfile struct {
	// BodySize is the most frequent font size, weighted by character
	// count so a few short large blocks cannot skew it.
	BodySize float64
	// TierThresholds are size floors ordered by prominence: a size
	// strictly above TierThresholds[k] belongs to tier k+1 or
	// shallower. At most MaxLevel entries; empty when the document has
	// no size variation above the baseline.
	TierThresholds []float64
}

// TierFor maps a font size to its heading tier (1 = most prominent).
// Returns 0 for body-sized text.
func (p FontProfile) TierFor(size float64) int {
	for i, th := range p.TierThresholds {
		if size > th {
			return i + 1
		}
	}
	return 0
}

// AnalyzeFonts computes the FontProfile for one document. Sizes are
// bucketed to 0.1pt to absorb floating-point jitter; distinct sizes
// above the baseline are clustered into at most MaxLevel bands, merging
// sizes within the configured relative tolerance.
func AnalyzeFonts(blocks []layout.TextBlock, opts Options) FontProfile {
	opts = opts.Normalize()
	if len(blocks) == 0 {
		return FontProfile{}
	}

	weights := make(map[float64]int)
	for _, b := range blocks {
		size := roundSize(b.FontSize)
		if size <= 0 {
			continue
		}
		weights[size] += len([]rune(b.Text))
	}
	if len(weights) == 0 {
		return FontProfile{}
	}

	body := 0.0
	bodyWeight := -1
	for size, w := range weights {
		// Ties break toward the smaller size: body text is never the
		// larger of two equally common sizes.
		if w > bodyWeight || (w == bodyWeight && size < body) {
			body = size
			bodyWeight = w
		}
	}

	var above []float64
	for size := range weights {
		if size > body {
			above = append(above, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(above)))

	profile := FontProfile{BodySize: body}
	if len(above) == 0 {
		return profile
	}

	// Cluster descending sizes into bands; a size joins the current
	// band while it stays within the tolerance of the band leader.
	bands := [][]float64{{above[0]}}
	for _, size := range above[1:] {
		leader := bands[len(bands)-1][0]
		if leader-size <= leader*opts.FontClusterTolerance {
			bands[len(bands)-1] = append(bands[len(bands)-1], size)
		} else if len(bands) < MaxLevel {
			bands = append(bands, []float64{size})
		} else {
			// Deeper variation collapses into the last tier.
			bands[len(bands)-1] = append(bands[len(bands)-1], size)
		}
	}

	// Each threshold sits halfway between a band's smallest member and
	// the next band's largest (or the body size), so members exceed it
	// strictly.
	for i, band := range bands {
		bandMin := band[len(band)-1]
		next := body
		if i+1 < len(bands) {
			next = bands[i+1][0]
		}
		profile.TierThresholds = append(profile.TierThresholds, (bandMin+next)/2)
	}
	return profile
}

func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}
