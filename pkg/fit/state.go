package fit

import (
	"slices"
)

// State is the presentation state the solvers leave behind: the inline
// sizes and transform on the fitted elements. Two runs that end in equal
// States rendered identically.
type State struct {
	TitleFontSize   string   `json:"title_font_size"`
	CardFontSizes   []string `json:"card_font_sizes"`
	Transform       string   `json:"transform"`
	TransformOrigin string   `json:"transform_origin"`
}

// Capture reads the inline styles the solvers own from s.
func Capture(s Surface, cfg Config) State {
	var st State
	if !ready(s) {
		return st
	}
	cfg = cfg.normalized()
	if h, ok := first(s, cfg.TitleSelector); ok {
		st.TitleFontSize = s.Style(h, PropFontSize)
	}
	for _, h := range s.Query(cfg.CardTitleSelector) {
		st.CardFontSizes = append(st.CardFontSizes, s.Style(h, PropFontSize))
	}
	if h, ok := first(s, cfg.ContentSelector); ok {
		st.Transform = s.Style(h, PropTransform)
		st.TransformOrigin = s.Style(h, PropTransformOrigin)
	}
	return st
}

// Equal reports whether two states are identical.
func (st State) Equal(o State) bool {
	return st.TitleFontSize == o.TitleFontSize &&
		slices.Equal(st.CardFontSizes, o.CardFontSizes) &&
		st.Transform == o.Transform &&
		st.TransformOrigin == o.TransformOrigin
}
