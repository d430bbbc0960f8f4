package outline

import (
	"github.com/jthorne/pdfoutline/internal/layout"
)

// Classifier combines the font profile, pattern verdicts, and
// positional vetoes into a per-block heading decision.
type Classifier struct {
	profile FontProfile
	matcher *Matcher
	opts    Options
}

// NewClassifier wires a classifier for one document. Both the profile
// and the matcher are document-local.
func NewClassifier(profile FontProfile, matcher *Matcher, opts Options) *Classifier {
	return &Classifier{profile: profile, matcher: matcher, opts: opts.Normalize()}
}

// Classify decides whether one block is a heading. The rules run in
// order and the first match wins:
//
//  1. running-header/footer or noise veto: reject
//  2. strong pattern: accept at the pattern level, refined shallower
//     when the font tier is more prominent
//  3. font tier + bold: accept at the font tier
//  4. font tier + weak pattern: accept at the font tier
//  5. otherwise reject
func (c *Classifier) Classify(b layout.TextBlock) (Candidate, bool) {
	if b.Text == "" || len(b.Text) > c.opts.MaxHeadingLength {
		return Candidate{}, false
	}
	if c.matcher.IsNoise(b.Text) || c.matcher.IsRunningHeader(b.Text) {
		return Candidate{}, false
	}

	tier := c.profile.TierFor(b.FontSize)
	match, matched := c.matcher.Match(b.Text)

	if matched && match.Strong {
		level := match.Level
		if level == 0 {
			level = 1
		}
		source := SourcePattern
		confidence := 0.7
		if tier > 0 {
			source = SourceBoth
			if tier < level {
				level = tier
			}
			if tier == level {
				confidence = 1.0
			} else {
				confidence = 0.85
			}
		}
		return Candidate{Block: b, Level: level, Confidence: confidence, Source: source}, true
	}

	if tier > 0 && b.Bold {
		return Candidate{Block: b, Level: tier, Confidence: 0.6, Source: SourceFont}, true
	}

	if tier > 0 && matched {
		return Candidate{Block: b, Level: tier, Confidence: 0.55, Source: SourceBoth}, true
	}

	return Candidate{}, false
}
