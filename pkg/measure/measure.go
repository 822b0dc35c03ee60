// Package measure estimates rendered text extents for headless layout.
//
// Two back-ends are provided: [Heuristic], a fixed per-rune width ratio in
// the spirit of a monospace estimate, and [Face], which sums real glyph
// advances from an OpenType font. Both are deterministic, which is what
// makes headless fitting reproducible.
package measure

import (
	"strings"
	"unicode"
)

// Measurer reports the rendered width of a single line of text and the
// line height, both in pixels, at a given font size.
type Measurer interface {
	Width(text string, sizePx float64) float64
	LineHeight(sizePx float64) float64
}

// DefaultLineHeight is the line-height multiplier used by both back-ends.
const DefaultLineHeight = 1.25

// Heuristic estimates widths from a per-rune ratio of the font size.
type Heuristic struct {
	CharWidth  float64 // average advance of a narrow rune, as a ratio of the size
	WideWidth  float64 // advance of a wide (CJK) rune
	SpaceWidth float64
	Leading    float64 // line height ratio
}

// NewHeuristic returns a heuristic tuned for proportional sans-serif faces.
func NewHeuristic() Heuristic {
	return Heuristic{CharWidth: 0.55, WideWidth: 1, SpaceWidth: 0.28, Leading: DefaultLineHeight}
}

// Width implements Measurer.
func (h Heuristic) Width(text string, sizePx float64) float64 {
	h = h.withDefaults()
	var units float64
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			units += h.SpaceWidth
		case isWide(r):
			units += h.WideWidth
		default:
			units += h.CharWidth
		}
	}
	return units * sizePx
}

// LineHeight implements Measurer.
func (h Heuristic) LineHeight(sizePx float64) float64 {
	return h.withDefaults().Leading * sizePx
}

func (h Heuristic) withDefaults() Heuristic {
	d := NewHeuristic()
	if h.CharWidth <= 0 {
		h.CharWidth = d.CharWidth
	}
	if h.WideWidth <= 0 {
		h.WideWidth = d.WideWidth
	}
	if h.SpaceWidth <= 0 {
		h.SpaceWidth = d.SpaceWidth
	}
	if h.Leading <= 0 {
		h.Leading = d.Leading
	}
	return h
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0xFF01 && r <= 0xFF60) || (r >= 0x3000 && r <= 0x303F)
}

// Wrap breaks text into lines no wider than maxWidth using greedy word
// wrapping. A single word wider than maxWidth gets a line of its own.
func Wrap(m Measurer, text string, sizePx, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if m.Width(candidate, sizePx) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
