package layout

import (
	"strconv"
	"strings"
)

// RootFontPx is the root font size tier tokens are resolved against.
const RootFontPx = 16.0

// Tier is a discrete font-size token.
type Tier string

// Ladder tokens, smallest first.
const (
	TextXS      Tier = "text-xs"
	TextSM      Tier = "text-sm"
	TextBase    Tier = "text-base"
	TextLG      Tier = "text-lg"
	TextXL      Tier = "text-xl"
	Text2XL     Tier = "text-2xl"
	Text3XL     Tier = "text-3xl"
	Text4XL     Tier = "text-4xl"
	Text5XL     Tier = "text-5xl"
	TextDisplay Tier = "3.375rem"
	Text6XL     Tier = "text-6xl"
	Text7XL     Tier = "text-7xl"
	Text8XL     Tier = "text-8xl"
	Text9XL     Tier = "text-9xl"
)

// Ladder lists every named tier in ascending size.
var Ladder = []Tier{
	TextXS, TextSM, TextBase, TextLG, TextXL, Text2XL, Text3XL,
	Text4XL, Text5XL, TextDisplay, Text6XL, Text7XL, Text8XL, Text9XL,
}

var tierRem = map[Tier]float64{
	TextXS:      0.75,
	TextSM:      0.875,
	TextBase:    1,
	TextLG:      1.125,
	TextXL:      1.25,
	Text2XL:     1.5,
	Text3XL:     1.875,
	Text4XL:     2.25,
	Text5XL:     3,
	TextDisplay: 3.375,
	Text6XL:     3.75,
	Text7XL:     4.5,
	Text8XL:     6,
	Text9XL:     8,
}

// Rem returns the tier size in rem. Arbitrary "<n>rem" and "<n>px" tokens
// are accepted so skins can declare intermediate tiers. Unknown tokens
// resolve to 1rem.
func (t Tier) Rem() float64 {
	if r, ok := tierRem[t]; ok {
		return r
	}
	s := strings.TrimSpace(string(t))
	switch {
	case strings.HasSuffix(s, "rem"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "rem"), 64); err == nil && v > 0 {
			return v
		}
	case strings.HasSuffix(s, "px"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64); err == nil && v > 0 {
			return v / RootFontPx
		}
	}
	return 1
}

// Px returns the tier size in CSS pixels.
func (t Tier) Px() float64 { return t.Rem() * RootFontPx }

// Rank returns the position of t on the ladder, or -1 for custom tokens.
func (t Tier) Rank() int {
	for i, l := range Ladder {
		if l == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a ladder token or a parsable length token.
func (t Tier) Valid() bool {
	if t.Rank() >= 0 {
		return true
	}
	s := strings.TrimSpace(string(t))
	for _, unit := range []string{"rem", "px"} {
		if strings.HasSuffix(s, unit) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, unit), 64)
			return err == nil && v > 0
		}
	}
	return false
}

// CSS returns the font-size declaration value for the tier.
func (t Tier) CSS() string {
	return CSSLength(t.Px())
}

// CSSLength formats a pixel value as a CSS length.
func CSSLength(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}
