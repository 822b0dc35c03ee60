package render

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	boxes  bool
	indent bool
}

// WithJSONBoxes includes the laid-out boxes, which are omitted by default
// because they dominate the output size.
func WithJSONBoxes() JSONOption { return func(r *jsonRenderer) { r.boxes = true } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Skin        string             `json:"skin"`
	MainTitle   string             `json:"main_title"`
	CardCount   int                `json:"card_count"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Layout      layout.Descriptor  `json:"layout"`
	CardWidth   float64            `json:"card_width"`
	CardWidthFn string             `json:"card_width_css"`
	Title       layout.TitleConfig `json:"title_config"`
	Fit         fit.Report         `json:"fit"`
	State       fit.State          `json:"state"`
	Boxes       []vdom.Rect        `json:"boxes,omitempty"`
}

// RenderJSON exports the frame's layout and fit results.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := f.size()
	out := jsonOutput{
		Skin:        f.Skin,
		MainTitle:   f.Deck.MainTitle,
		CardCount:   f.Deck.N(),
		Width:       w,
		Height:      h,
		Layout:      f.Layout,
		CardWidth:   f.Layout.CardWidth(f.Layout.ContentWidth()),
		CardWidthFn: f.Layout.CardWidthCSS(),
		Title:       f.Title,
		Fit:         f.Report,
		State:       f.State,
	}
	if r.boxes {
		out.Boxes = f.Boxes
	}

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return append(data, '\n'), nil
}
