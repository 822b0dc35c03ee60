// Package vdom is a headless element tree that lays out a slide and
// implements fit.Surface.
//
// The tree knows three kinds of node: boxes stack their children
// vertically, rows place them side by side, and text nodes hold a single
// run of text that either wraps to the available width or stays on one
// line. Text is measured with a measure.Measurer, so the same fitting
// solvers that run in a browser can run on a server and produce the sizes
// a browser would.
//
//	doc := vdom.Build(deck, layout.Compute(deck.N()), vdom.Options{})
//	report := fit.Run(doc, plan)
//	boxes := doc.Boxes()
package vdom

import (
	"slices"
	"strings"

	"github.com/matzehuels/deckfit/pkg/fit"
)

// Kind is the layout behaviour of a node.
type Kind int

const (
	// KindBox stacks children vertically.
	KindBox Kind = iota
	// KindRow places children side by side, centered as a group.
	KindRow
	// KindText holds a run of text.
	KindText
)

// String returns the kind name used in box dumps.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindRow:
		return "row"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Node is one element. Exported fields describe the element's CSS; the
// layout results are private and recomputed whenever a style changes.
type Node struct {
	Kind    Kind
	Classes []string

	// Width fixes the border-box width. Zero fills the parent.
	Width float64
	// Height fixes the border-box height. Zero fits the content.
	Height   float64
	PadX     float64
	PadY     float64
	Gap      float64
	Children []*Node

	Text     string
	FontSize float64 // CSS size in px
	Bold     bool
	// Wrap lets text break across lines. Unwrapped text overflows its box.
	Wrap bool
	// Inline shrinks the node to the width of its text.
	Inline bool
	// Center centers fixed-width or inline children horizontally.
	Center bool

	id     fit.Handle
	parent *Node
	style  map[string]string

	x, y, w, h float64
	scrollW    float64
	lines      []string
}

// Box returns a box node.
func Box(class string, children ...*Node) *Node {
	return &Node{Kind: KindBox, Classes: classList(class), Children: children}
}

// Row returns a row node.
func Row(class string, children ...*Node) *Node {
	return &Node{Kind: KindRow, Classes: classList(class), Children: children}
}

// Text returns a text node with the given CSS font size.
func Text(class, text string, sizePx float64) *Node {
	return &Node{Kind: KindText, Classes: classList(class), Text: text, FontSize: sizePx}
}

func classList(class string) []string {
	return strings.Fields(class)
}

// HasClass reports whether the node carries class c.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes, c)
}

// Handle returns the node's handle within its document.
func (n *Node) Handle() fit.Handle { return n.id }

// Lines returns the text lines of a laid-out text node.
func (n *Node) Lines() []string { return n.lines }
