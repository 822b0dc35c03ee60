package fit

// Handle identifies an element on a Surface.
type Handle int

// Metrics are the rendered extents of an element in CSS pixels.
//
// Width and Height are the border-box size. ScrollWidth is the width of the
// content including any overflow and ClientWidth the width available to it,
// so ScrollWidth > ClientWidth means the content overflows horizontally.
type Metrics struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ScrollWidth float64 `json:"scroll_width"`
	ClientWidth float64 `json:"client_width"`
}

// Overflows reports whether content is wider than the space given to it.
func (m Metrics) Overflows() bool {
	return m.ScrollWidth > m.ClientWidth
}

// Surface is the measurement capability the solvers run against.
//
// Measurements reflect the inline styles applied so far, so a Surface must
// re-lay out (or lazily recompute) after SetStyle. Style property names use
// their CSS spelling ("font-size", "transform-origin").
type Surface interface {
	// Ready reports whether elements can be measured at all.
	Ready() bool
	// Query returns the elements matching a single class selector in
	// document order.
	Query(selector string) []Handle
	Measure(h Handle) Metrics
	// ComputedFontSize returns the effective font size in pixels, taking
	// inline styles into account.
	ComputedFontSize(h Handle) float64
	// Style returns an inline style property, or "" if it is not set.
	Style(h Handle, prop string) string
	// SetStyle sets an inline style property. An empty value removes it.
	SetStyle(h Handle, prop, value string)
}

// Style property names touched by the solvers.
const (
	PropFontSize        = "font-size"
	PropTransform       = "transform"
	PropTransformOrigin = "transform-origin"
)

func ready(s Surface) bool {
	return s != nil && s.Ready()
}

func first(s Surface, selector string) (Handle, bool) {
	hs := s.Query(selector)
	if len(hs) == 0 {
		return 0, false
	}
	return hs[0], true
}
