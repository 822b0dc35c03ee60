package render

import (
	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

// Frame is a fitted slide.
type Frame struct {
	Skin   string             `json:"skin"`
	Deck   content.Deck       `json:"deck"`
	Layout layout.Descriptor  `json:"layout"`
	Title  layout.TitleConfig `json:"title_config"`
	Report fit.Report         `json:"fit"`
	State  fit.State          `json:"state"`
	Boxes  []vdom.Rect        `json:"boxes"`
	Width  float64            `json:"width"`
	Height float64            `json:"height"`
}

// NewFrame captures the fitted state and boxes of doc.
func NewFrame(skin string, deck content.Deck, d layout.Descriptor, tc layout.TitleConfig, report fit.Report, cfg fit.Config, doc *vdom.Document) Frame {
	return Frame{
		Skin:   skin,
		Deck:   deck,
		Layout: d,
		Title:  tc,
		Report: report,
		State:  fit.Capture(doc, cfg),
		Boxes:  doc.Boxes(),
		Width:  layout.CanvasWidth,
		Height: layout.CanvasHeight,
	}
}

// boxesWithClass returns the boxes carrying class, in document order.
func (f Frame) boxesWithClass(class string) []vdom.Rect {
	var out []vdom.Rect
	for _, b := range f.Boxes {
		if hasClass(b, class) {
			out = append(out, b)
		}
	}
	return out
}

func hasClass(b vdom.Rect, class string) bool {
	for _, c := range b.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (f Frame) size() (float64, float64) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = layout.CanvasWidth
	}
	if h <= 0 {
		h = layout.CanvasHeight
	}
	return w, h
}
