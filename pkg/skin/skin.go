// Package skin bundles the per-template constants of the fitting core.
//
// Every slide template shares one layout engine and one set of solvers; a
// [Skin] only carries the values that vary between templates: the solver
// thresholds, title overrides per bucket and, rarely, a custom breakpoint
// table. Three skins are built in and more can be loaded from TOML:
//
//	[[skin]]
//	name = "midnight"
//	[skin.fit]
//	max_title_width_px = 1700
//	viewport_floor_scale = 0.65
//	[skin.title_overrides."9+"]
//	initial_font_size = 52
//	min_font_size = 30
package skin

import (
	"strings"

	errs "github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
)

// Skin is the configuration a template passes to the shared core.
type Skin struct {
	Name           string                `json:"name" toml:"name"`
	Description    string                `json:"description,omitempty" toml:"description"`
	Fit            fit.Config            `json:"fit" toml:"fit"`
	TitleOverrides layout.TitleOverrides `json:"title_overrides,omitempty" toml:"title_overrides"`
	// Table replaces the default breakpoint table when it has rules.
	Table layout.Table `json:"table,omitempty" toml:"table"`
}

// Names of the built-in skins.
const (
	Aurora = "aurora"
	Slate  = "slate"
	Paper  = "paper"
)

// DefaultName is the skin used when none is requested.
const DefaultName = Paper

// Builtins returns the built-in skins.
func Builtins() []Skin {
	return []Skin{
		{
			Name:        Aurora,
			Description: "Centered hero layout with a wide title band",
			Fit: fit.Config{
				MaxTitleWidthPx:    1700,
				ViewportFloorScale: 0.65,
				TransformOrigin:    "center center",
			},
		},
		{
			Name:        Slate,
			Description: "Top-anchored grid that shrinks titles in 2px steps",
			Fit: fit.Config{
				MaxTitleWidthPx:    1650,
				ViewportFloorScale: 0.6,
				DecrementStepPx:    2,
				TransformOrigin:    "top left",
			},
			TitleOverrides: layout.TitleOverrides{
				layout.TitleBucket4: {InitialFontSize: 64, MinFontSize: 40},
			},
		},
		{
			Name:        Paper,
			Description: "Plain layout with the default constants",
		},
	}
}

// Validate checks the name, the solver config, the overrides and a custom
// table if present.
func (s Skin) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errs.New(errs.ErrCodeInvalidSkin, "skin name is required")
	}
	if err := s.Fit.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidSkin, err, "skin %q fit config", s.Name)
	}
	if err := s.TitleOverrides.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidSkin, err, "skin %q title overrides", s.Name)
	}
	if len(s.Table.Rules) > 0 {
		if err := s.Table.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidSkin, err, "skin %q table", s.Name)
		}
	}
	return nil
}

// Layout returns the descriptor for n cards under this skin.
func (s Skin) Layout(n int) layout.Descriptor {
	return s.Table.Compute(n)
}

// TitleConfig returns the title font range for n cards under this skin.
func (s Skin) TitleConfig(n int) layout.TitleConfig {
	return layout.ComputeTitleConfig(n, s.TitleOverrides)
}

// Config returns the skin's solver config with defaults filled in.
func (s Skin) Config() fit.Config {
	return s.Fit.WithDefaults()
}

// Plan returns the fitting plan for n cards under this skin.
func (s Skin) Plan(n int) fit.Plan {
	return fit.NewPlan(s.Fit, s.TitleConfig(n))
}

// TopAligned reports whether content scales from the top edge.
func (s Skin) TopAligned() bool {
	return strings.HasPrefix(strings.TrimSpace(s.Config().TransformOrigin), "top")
}
