package vdom

import (
	"strconv"
	"strings"

	"github.com/matzehuels/deckfit/pkg/fit"
)

// Rect is a laid-out node in canvas coordinates, after transforms.
type Rect struct {
	ID       int      `json:"id"`
	Kind     string   `json:"kind"`
	Classes  []string `json:"classes,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
	Text     string   `json:"text,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Bold     bool     `json:"bold,omitempty"`
	Overflow bool     `json:"overflow,omitempty"`
}

// Boxes flattens the laid-out tree into rectangles in document order.
// A scale transform on a node is applied to it and its whole subtree,
// around the node's transform origin.
func (d *Document) Boxes() []Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.Ready() {
		return nil
	}
	d.layout()

	var out []Rect
	var walk func(n *Node, t affine)
	walk = func(n *Node, t affine) {
		if s, ok := parseScale(n.style[fit.PropTransform]); ok {
			ox, oy := parseOrigin(n.style[fit.PropTransformOrigin], n.w, n.h)
			t = t.then(affine{s: s, tx: (n.x + ox) * (1 - s), ty: (n.y + oy) * (1 - s)})
		}
		x, y := t.apply(n.x, n.y)
		r := Rect{
			ID:      int(n.id),
			Kind:    n.Kind.String(),
			Classes: n.Classes,
			X:       x,
			Y:       y,
			W:       n.w * t.s,
			H:       n.h * t.s,
			Text:    n.Text,
			Bold:    n.Bold,
		}
		if n.Kind == KindText {
			r.Lines = n.lines
			r.FontSize = n.fontSize() * t.s
			r.Overflow = n.scrollW > n.w-2*n.PadX
		}
		out = append(out, r)
		for _, c := range n.Children {
			walk(c, t)
		}
	}
	walk(d.root, affine{s: 1})
	return out
}

// affine is a uniform scale followed by a translation.
type affine struct {
	s, tx, ty float64
}

func (a affine) apply(x, y float64) (float64, float64) {
	return a.s*x + a.tx, a.s*y + a.ty
}

// then returns the transform applying b in a's local space, then a.
func (a affine) then(b affine) affine {
	return affine{s: a.s * b.s, tx: a.s*b.tx + a.tx, ty: a.s*b.ty + a.ty}
}

func parseScale(v string) (float64, bool) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(v), "scale(")
	if !ok {
		return 0, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return 0, false
	}
	s, err := strconv.ParseFloat(strings.TrimSpace(inner), 64)
	if err != nil || s <= 0 {
		return 0, false
	}
	return s, true
}

// parseOrigin resolves a transform-origin value against a w×h box.
// Keywords, percentages and pixel lengths are understood; missing or
// invalid parts default to the center.
func parseOrigin(v string, w, h float64) (float64, float64) {
	parts := strings.Fields(v)
	switch len(parts) {
	case 0:
		return w / 2, h / 2
	case 1:
		if isVertical(parts[0]) {
			return w / 2, resolveOrigin(parts[0], h)
		}
		return resolveOrigin(parts[0], w), h / 2
	}
	if isVertical(parts[0]) || parts[1] == "left" || parts[1] == "right" {
		parts[0], parts[1] = parts[1], parts[0]
	}
	return resolveOrigin(parts[0], w), resolveOrigin(parts[1], h)
}

func isVertical(s string) bool { return s == "top" || s == "bottom" }

func resolveOrigin(s string, extent float64) float64 {
	switch s {
	case "left", "top":
		return 0
	case "right", "bottom":
		return extent
	case "center":
		return extent / 2
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		if f, err := strconv.ParseFloat(p, 64); err == nil {
			return extent * f / 100
		}
	}
	if p, ok := strings.CutSuffix(s, "px"); ok {
		if f, err := strconv.ParseFloat(p, 64); err == nil {
			return f
		}
	}
	return extent / 2
}
