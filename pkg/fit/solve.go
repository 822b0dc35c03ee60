package fit

import (
	"math"
	"strconv"

	"github.com/matzehuels/deckfit/pkg/layout"
)

// TitleResult is the outcome of fitting the main title.
type TitleResult struct {
	FontSize float64 `json:"font_size"`
	Steps    int     `json:"steps"`
	Fits     bool    `json:"fits"`
}

// CardResult is the outcome of clamping one card title.
type CardResult struct {
	BaseSize float64 `json:"base_size"`
	Floor    float64 `json:"floor"`
	FontSize float64 `json:"font_size"`
	Steps    int     `json:"steps"`
	Fits     bool    `json:"fits"`
}

// ViewportResult is the outcome of fitting the content wrapper.
// Scale is 1 and Applied false when no transform was needed.
type ViewportResult struct {
	ContentHeight float64 `json:"content_height"`
	Scale         float64 `json:"scale"`
	Applied       bool    `json:"applied"`
}

// shrink sets the font size of h to start and decrements it by step while
// over reports an overflow, the size is above floor and fewer than guard
// steps were taken. floor is capped at start. It returns the final size
// and the number of decrements.
func shrink(s Surface, h Handle, start, floor, step float64, guard int, over func() bool) (float64, int) {
	if floor > start {
		floor = start
	}
	size, steps := start, 0
	s.SetStyle(h, PropFontSize, layout.CSSLength(size))
	for over() && size > floor && steps < guard {
		size = math.Max(floor, size-step)
		s.SetStyle(h, PropFontSize, layout.CSSLength(size))
		steps++
	}
	return size, steps
}

// titleRange replaces unusable title sizes. A missing minimum means the
// title may not shrink at all.
func titleRange(tc layout.TitleConfig) layout.TitleConfig {
	if !positive(tc.InitialFontSize) {
		tc = layout.ComputeTitleConfig(1, nil)
	}
	if !positive(tc.MinFontSize) {
		tc.MinFontSize = tc.InitialFontSize
	}
	return tc
}

// SolveTitle fits the title element h. It starts at tc.InitialFontSize and
// steps down until the measured width is within cfg.MaxTitleWidthPx. The
// result never leaves [MinFontSize, InitialFontSize] and takes at most
// cfg.MaxIterations steps.
func SolveTitle(s Surface, h Handle, tc layout.TitleConfig, cfg Config) TitleResult {
	cfg = cfg.normalized()
	tc = titleRange(tc)
	over := func() bool { return s.Measure(h).Width > cfg.MaxTitleWidthPx }
	size, steps := shrink(s, h, tc.InitialFontSize, tc.MinFontSize, cfg.DecrementStepPx, cfg.MaxIterations, over)
	return TitleResult{FontSize: size, Steps: steps, Fits: !over()}
}

// CardFloor is the smallest size a card title with the given CSS size may
// shrink to: the larger of minPx and floor(base*ratio), never above base.
func CardFloor(base, minPx, ratio float64) float64 {
	return math.Min(base, math.Max(minPx, math.Floor(base*ratio)))
}

// ClampCardTitles fits every element matching cfg.CardTitleSelector on its
// own. Each element is first reset to its CSS size, so repeated calls give
// the same result. Elements that already fit keep no inline size.
func ClampCardTitles(s Surface, cfg Config) []CardResult {
	if !ready(s) {
		return nil
	}
	cfg = cfg.normalized()
	return clampCards(s, cfg.CardTitleSelector, cfg.CardTitleMinFontPx, cfg)
}

func clampCards(s Surface, selector string, minPx float64, cfg Config) []CardResult {
	hs := s.Query(selector)
	results := make([]CardResult, 0, len(hs))
	for _, h := range hs {
		s.SetStyle(h, PropFontSize, "")
		base := s.ComputedFontSize(h)
		if !positive(base) {
			continue
		}
		floor := CardFloor(base, minPx, cfg.CardTitleShrinkRatio)
		res := CardResult{BaseSize: base, Floor: floor, FontSize: base, Fits: true}
		over := func() bool { return s.Measure(h).Overflows() }
		if over() {
			res.FontSize, res.Steps = shrink(s, h, base, floor, cfg.DecrementStepPx, cfg.MaxIterations, over)
			res.Fits = !over()
		}
		results = append(results, res)
	}
	return results
}

// ViewportScale returns the uniform scale for content of the given natural
// height. ok is false when the content fits and no transform should be set.
// The scale never drops below floor.
func ViewportScale(contentHeight, maxHeight, floor float64) (scale float64, ok bool) {
	if !(contentHeight > maxHeight) {
		return 1, false
	}
	return math.Max(floor, maxHeight/contentHeight), true
}

// FormatScale formats a scale as a CSS transform value.
func FormatScale(scale float64) string {
	return "scale(" + strconv.FormatFloat(scale, 'f', -1, 64) + ")"
}

// FitViewport clears any previous transform on the content wrapper,
// measures its natural height and scales it down if it exceeds
// cfg.ViewportMaxHeightPx. When no scale is needed both transform
// properties stay absent.
func FitViewport(s Surface, cfg Config) ViewportResult {
	if !ready(s) {
		return ViewportResult{Scale: 1}
	}
	cfg = cfg.normalized()
	h, ok := first(s, cfg.ContentSelector)
	if !ok {
		return ViewportResult{Scale: 1}
	}
	s.SetStyle(h, PropTransform, "")
	s.SetStyle(h, PropTransformOrigin, "")
	height := s.Measure(h).Height
	res := ViewportResult{ContentHeight: height, Scale: 1}
	scale, apply := ViewportScale(height, cfg.ViewportMaxHeightPx, cfg.ViewportFloorScale)
	if !apply {
		return res
	}
	s.SetStyle(h, PropTransform, FormatScale(scale))
	s.SetStyle(h, PropTransformOrigin, cfg.TransformOrigin)
	res.Scale, res.Applied = scale, true
	return res
}
