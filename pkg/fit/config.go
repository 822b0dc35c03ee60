package fit

import (
	"math"
	"strings"
	"time"

	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// Default solver constants.
const (
	DefaultMaxTitleWidthPx      = 1680.0
	DefaultViewportMaxHeightPx  = 1040.0
	DefaultViewportFloorScale   = 0.6
	DefaultCardTitleMinFontPx   = 24.0
	DefaultCardTitleShrinkRatio = 0.7
	DefaultDecrementStepPx      = 1.0
	DefaultMaxIterations        = 100
	DefaultTransformOrigin      = "center center"
	DefaultFontTimeout          = 1500 * time.Millisecond

	DefaultTitleSelector     = ".deck-title"
	DefaultCardTitleSelector = ".card-title"
	DefaultContentSelector   = ".deck-content"
)

// Config holds the per-skin fitting constants. The zero value is usable:
// every zero field takes its default.
type Config struct {
	MaxTitleWidthPx      float64       `json:"max_title_width_px,omitempty" toml:"max_title_width_px"`
	ViewportMaxHeightPx  float64       `json:"viewport_max_height_px,omitempty" toml:"viewport_max_height_px"`
	ViewportFloorScale   float64       `json:"viewport_floor_scale,omitempty" toml:"viewport_floor_scale"`
	CardTitleMinFontPx   float64       `json:"card_title_min_font_px,omitempty" toml:"card_title_min_font_px"`
	CardTitleShrinkRatio float64       `json:"card_title_shrink_ratio,omitempty" toml:"card_title_shrink_ratio"`
	DecrementStepPx      float64       `json:"decrement_step_px,omitempty" toml:"decrement_step_px"`
	MaxIterations        int           `json:"max_iterations,omitempty" toml:"max_iterations"`
	TransformOrigin      string        `json:"transform_origin,omitempty" toml:"transform_origin"`
	FontTimeout          time.Duration `json:"font_timeout,omitempty" toml:"font_timeout"`

	TitleSelector     string `json:"title_selector,omitempty" toml:"title_selector"`
	CardTitleSelector string `json:"card_title_selector,omitempty" toml:"card_title_selector"`
	ContentSelector   string `json:"content_selector,omitempty" toml:"content_selector"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.MaxTitleWidthPx == 0 {
		c.MaxTitleWidthPx = DefaultMaxTitleWidthPx
	}
	if c.ViewportMaxHeightPx == 0 {
		c.ViewportMaxHeightPx = DefaultViewportMaxHeightPx
	}
	if c.ViewportFloorScale == 0 {
		c.ViewportFloorScale = DefaultViewportFloorScale
	}
	if c.CardTitleMinFontPx == 0 {
		c.CardTitleMinFontPx = DefaultCardTitleMinFontPx
	}
	if c.CardTitleShrinkRatio == 0 {
		c.CardTitleShrinkRatio = DefaultCardTitleShrinkRatio
	}
	if c.DecrementStepPx == 0 {
		c.DecrementStepPx = DefaultDecrementStepPx
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if strings.TrimSpace(c.TransformOrigin) == "" {
		c.TransformOrigin = DefaultTransformOrigin
	}
	if c.FontTimeout == 0 {
		c.FontTimeout = DefaultFontTimeout
	}
	if c.TitleSelector == "" {
		c.TitleSelector = DefaultTitleSelector
	}
	if c.CardTitleSelector == "" {
		c.CardTitleSelector = DefaultCardTitleSelector
	}
	if c.ContentSelector == "" {
		c.ContentSelector = DefaultContentSelector
	}
	return c
}

// Validate rejects values the solvers could not use.
func (c Config) Validate() error {
	c = c.WithDefaults()
	switch {
	case !positive(c.MaxTitleWidthPx):
		return errs.New(errs.ErrCodeInvalidInput, "max title width must be positive, got %g", c.MaxTitleWidthPx)
	case !positive(c.ViewportMaxHeightPx):
		return errs.New(errs.ErrCodeInvalidInput, "viewport max height must be positive, got %g", c.ViewportMaxHeightPx)
	case !positive(c.ViewportFloorScale) || c.ViewportFloorScale > 1:
		return errs.New(errs.ErrCodeInvalidInput, "viewport floor scale must be in (0, 1], got %g", c.ViewportFloorScale)
	case !positive(c.CardTitleMinFontPx):
		return errs.New(errs.ErrCodeInvalidInput, "card title min font must be positive, got %g", c.CardTitleMinFontPx)
	case !positive(c.CardTitleShrinkRatio) || c.CardTitleShrinkRatio > 1:
		return errs.New(errs.ErrCodeInvalidInput, "card title shrink ratio must be in (0, 1], got %g", c.CardTitleShrinkRatio)
	case !positive(c.DecrementStepPx):
		return errs.New(errs.ErrCodeInvalidInput, "decrement step must be positive, got %g", c.DecrementStepPx)
	case c.MaxIterations < 1:
		return errs.New(errs.ErrCodeInvalidInput, "max iterations must be at least 1, got %d", c.MaxIterations)
	case c.FontTimeout < 0:
		return errs.New(errs.ErrCodeInvalidInput, "font timeout must not be negative")
	}
	for _, sel := range []string{c.TitleSelector, c.CardTitleSelector, c.ContentSelector} {
		if !validSelector(sel) {
			return errs.New(errs.ErrCodeInvalidInput, "selector %q must be a single class selector", sel)
		}
	}
	return nil
}

// normalized is what the solvers actually use: defaults for zero fields and
// for any value Validate would reject.
func (c Config) normalized() Config {
	c = c.WithDefaults()
	d := DefaultConfig()
	if !positive(c.MaxTitleWidthPx) {
		c.MaxTitleWidthPx = d.MaxTitleWidthPx
	}
	if !positive(c.ViewportMaxHeightPx) {
		c.ViewportMaxHeightPx = d.ViewportMaxHeightPx
	}
	if !positive(c.ViewportFloorScale) || c.ViewportFloorScale > 1 {
		c.ViewportFloorScale = d.ViewportFloorScale
	}
	if !positive(c.CardTitleMinFontPx) {
		c.CardTitleMinFontPx = d.CardTitleMinFontPx
	}
	if !positive(c.CardTitleShrinkRatio) || c.CardTitleShrinkRatio > 1 {
		c.CardTitleShrinkRatio = d.CardTitleShrinkRatio
	}
	if !positive(c.DecrementStepPx) {
		c.DecrementStepPx = d.DecrementStepPx
	}
	if c.MaxIterations < 1 {
		c.MaxIterations = d.MaxIterations
	}
	if c.FontTimeout < 0 {
		c.FontTimeout = d.FontTimeout
	}
	return c
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func validSelector(sel string) bool {
	if len(sel) < 2 || sel[0] != '.' {
		return false
	}
	for _, r := range sel[1:] {
		ok := r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return false
		}
	}
	return true
}
