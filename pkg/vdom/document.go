package vdom

import (
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/measure"
)

// Document owns a node tree and lays it out on a fixed canvas. It is safe
// for concurrent use; every method holds the document lock.
type Document struct {
	mu      sync.Mutex
	root    *Node
	nodes   []*Node
	m       measure.Measurer
	width   float64
	height  float64
	topSlot float64 // <0 centers vertically
	dirty   bool
}

var _ fit.Surface = (*Document)(nil)

// NewDocument wraps root in a document of the given canvas size. A nil
// measurer yields a document that reports itself as not ready, like a
// page without a layout engine.
func NewDocument(root *Node, m measure.Measurer, width, height float64) *Document {
	d := &Document{root: root, m: m, width: width, height: height, topSlot: -1, dirty: true}
	d.index(root, nil)
	return d
}

func (d *Document) index(n *Node, parent *Node) {
	if n == nil {
		return
	}
	n.id = fit.Handle(len(d.nodes))
	n.parent = parent
	if n.style == nil {
		n.style = make(map[string]string)
	}
	d.nodes = append(d.nodes, n)
	for _, c := range n.Children {
		d.index(c, n)
	}
}

// Root returns the root node.
func (d *Document) Root() *Node { return d.root }

// Node returns the node for h, or nil.
func (d *Document) Node(h fit.Handle) *Node {
	if int(h) < 0 || int(h) >= len(d.nodes) {
		return nil
	}
	return d.nodes[h]
}

// Ready implements fit.Surface.
func (d *Document) Ready() bool {
	return d != nil && d.root != nil && d.m != nil
}

// Query implements fit.Surface. Only single class selectors are matched.
func (d *Document) Query(selector string) []fit.Handle {
	class, ok := strings.CutPrefix(selector, ".")
	if !ok || class == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var hs []fit.Handle
	for _, n := range d.nodes {
		if n.HasClass(class) {
			hs = append(hs, n.id)
		}
	}
	return hs
}

// Measure implements fit.Surface. Extents are layout extents: transforms
// do not change them.
func (d *Document) Measure(h fit.Handle) fit.Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.Node(h)
	if n == nil {
		return fit.Metrics{}
	}
	d.layout()
	client := n.w - 2*n.PadX
	return fit.Metrics{
		Width:       n.w,
		Height:      n.h,
		ScrollWidth: max(n.scrollW, client),
		ClientWidth: client,
	}
}

// ComputedFontSize implements fit.Surface.
func (d *Document) ComputedFontSize(h fit.Handle) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.Node(h)
	if n == nil {
		return 0
	}
	return n.fontSize()
}

// Style implements fit.Surface.
func (d *Document) Style(h fit.Handle, prop string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.Node(h); n != nil {
		return n.style[prop]
	}
	return ""
}

// SetStyle implements fit.Surface.
func (d *Document) SetStyle(h fit.Handle, prop, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.Node(h)
	if n == nil {
		return
	}
	if value == "" {
		delete(n.style, prop)
	} else {
		n.style[prop] = value
	}
	if prop == fit.PropFontSize {
		d.dirty = true
	}
}

// ResetStyles removes every inline style, returning the tree to its
// initial markup.
func (d *Document) ResetStyles() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.nodes {
		clear(n.style)
	}
	d.dirty = true
}

// fontSize is the inline font size if one is set and parses, else the CSS
// size.
func (n *Node) fontSize() float64 {
	if v, ok := n.style[fit.PropFontSize]; ok {
		if px, ok := parsePx(v); ok {
			return px
		}
	}
	return n.FontSize
}

func parsePx(v string) (float64, bool) {
	s, ok := strings.CutSuffix(strings.TrimSpace(v), "px")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// layout recomputes every node's position and size if a style changed.
// The root fills the canvas and its children are centered vertically,
// or pinned at topSlot when it is set.
func (d *Document) layout() {
	if !d.dirty || d.root == nil || d.m == nil {
		return
	}
	d.place(d.root, 0, 0, d.width)
	if d.root.Height == 0 {
		d.root.h = max(d.root.h, d.height)
	}
	for _, c := range d.root.Children {
		y := d.topSlot
		if y < 0 {
			y = (d.height - c.h) / 2
		}
		d.shift(c, c.x, y)
	}
	d.dirty = false
}

// place lays out n with its top-left corner at (x, y) and avail pixels of
// width.
func (d *Document) place(n *Node, x, y, avail float64) {
	n.x, n.y = x, y
	n.w = avail
	if n.Width > 0 {
		n.w = n.Width
	}
	switch n.Kind {
	case KindText:
		d.placeText(n)
	case KindRow:
		d.placeRow(n)
	default:
		d.placeBox(n)
	}
	if n.Height > 0 {
		n.h = n.Height
	}
}

func (d *Document) placeText(n *Node) {
	size := n.fontSize()
	lh := d.m.LineHeight(size)
	inner := max(0, n.w-2*n.PadX)
	if n.Wrap {
		n.lines = measure.Wrap(d.m, n.Text, size, inner)
		widest := 0.0
		for _, l := range n.lines {
			widest = max(widest, d.m.Width(l, size))
		}
		n.scrollW = widest
		n.h = float64(max(1, len(n.lines)))*lh + 2*n.PadY
		return
	}
	tw := d.m.Width(n.Text, size)
	n.lines = []string{n.Text}
	n.scrollW = tw
	if n.Inline && n.Width == 0 {
		n.w = tw + 2*n.PadX
	}
	n.h = lh + 2*n.PadY
}

func (d *Document) placeBox(n *Node) {
	inner := max(0, n.w-2*n.PadX)
	cy := n.y + n.PadY
	widest := 0.0
	for i, c := range n.Children {
		if i > 0 {
			cy += n.Gap
		}
		d.place(c, n.x+n.PadX, cy, inner)
		if n.Center && c.w < inner {
			d.shift(c, n.x+n.PadX+(inner-c.w)/2, c.y)
		}
		widest = max(widest, c.w)
		cy += c.h
	}
	n.scrollW = widest
	n.h = cy - n.y + n.PadY
}

func (d *Document) placeRow(n *Node) {
	inner := max(0, n.w-2*n.PadX)
	total := 0.0
	for i, c := range n.Children {
		if i > 0 {
			total += n.Gap
		}
		cw := c.Width
		if cw == 0 {
			cw = inner / float64(len(n.Children))
		}
		total += cw
	}
	cx := n.x + n.PadX + max(0, inner-total)/2
	tallest := 0.0
	for _, c := range n.Children {
		cw := c.Width
		if cw == 0 {
			cw = inner / float64(len(n.Children))
		}
		d.place(c, cx, n.y+n.PadY, cw)
		tallest = max(tallest, c.h)
		cx += c.w + n.Gap
	}
	// Stretch children to the row height, as flex rows do.
	for _, c := range n.Children {
		if c.Height == 0 {
			c.h = tallest
		}
	}
	n.scrollW = total
	n.h = tallest + 2*n.PadY
}

// shift moves a laid-out subtree so its top-left corner is at (x, y).
func (d *Document) shift(n *Node, x, y float64) {
	dx, dy := x-n.x, y-n.y
	if dx == 0 && dy == 0 {
		return
	}
	var walk func(*Node)
	walk = func(m *Node) {
		m.x += dx
		m.y += dy
		for _, c := range m.Children {
			walk(c)
		}
	}
	walk(n)
}
