// Package pipeline runs the complete layout → fit → render flow for a deck.
//
// The CLI and the HTTP API both go through a [Runner], so a deck renders the
// same way from either entry point and both share the cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: pick the grid descriptor and title font range for the card
//     count under the selected skin (cached per skin and count)
//  2. Fit: build the slide tree, run the title, card-title and viewport
//     solvers on it and capture the resulting frame (cached per deck)
//  3. Render: produce the requested outputs (JSON, standalone JS, SVG, PNG)
//     concurrently, each cached per frame and format
//
// With Options.Verify set, the standalone script is additionally executed
// against a fresh tree and must leave it in the same state as the native
// solvers.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Deck:    deck,
//	    Skin:    "aurora",
//	    Formats: []string{"svg", "js"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/render"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatJS   = "js"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatJS:   true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Text measurers selectable by name.
const (
	// MeasurerHeuristic estimates glyph widths from per-class averages.
	MeasurerHeuristic = "heuristic"
	// MeasurerFace measures with the embedded Go Regular font.
	MeasurerFace = "face"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Deck content.Deck `json:"deck"`
	Skin string       `json:"skin,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Measurer  string   `json:"measurer,omitempty"`
	Boxes     bool     `json:"boxes,omitempty"`      // include laid-out boxes in JSON output
	Outlines  bool     `json:"outlines,omitempty"`   // draw layout outlines in SVG/PNG
	EmbedFont bool     `json:"embed_font,omitempty"` // embed the font in SVG output
	Thumbnail int      `json:"thumbnail,omitempty"`  // PNG width in pixels, 0 keeps full size

	// Verify executes the standalone script and compares its result.
	Verify  bool `json:"verify,omitempty"`
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives this run's logs, typically scoped to a request or
	// command. Nil uses the Runner's logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Skin is the resolved skin name.
	Skin string

	// Descriptor is the grid chosen for the card count.
	Descriptor layout.Descriptor

	// TitleConfig is the main-title font range.
	TitleConfig layout.TitleConfig

	// Report describes what the solvers did.
	Report fit.Report

	// Frame is the fitted slide.
	Frame render.Frame

	// FrameHash is the content hash of the frame.
	FrameHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CardCount  int
	LayoutTime time.Duration
	FitTime    time.Duration
	RenderTime time.Duration
	VerifyTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the descriptor came from cache
	FrameHit  bool // Whether the fitted frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, js, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is valid.
func ValidateMeasurer(name string) error {
	switch name {
	case MeasurerHeuristic, MeasurerFace:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"invalid measurer: %q (must be one of: heuristic, face)", name)
}

// ParseFormats splits a comma separated list such as "svg,js".
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Deck.Validate(); err != nil {
		return err
	}
	if o.Skin == "" {
		o.Skin = skin.DefaultName
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Measurer == "" {
		o.Measurer = MeasurerHeuristic
	}
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	if o.Thumbnail < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "thumbnail width must be >= 0, got %d", o.Thumbnail)
	}
	o.validated = true
	return nil
}

// FrameKeyOpts returns cache key options for the fit stage.
func (o *Options) FrameKeyOpts(sk skin.Skin) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Skin:     sk.Name,
		SkinHash: skinHash(sk),
		Measurer: o.Measurer,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatJSON:
		opts.Boxes = o.Boxes
	case FormatSVG:
		opts.Outlines = o.Outlines
		opts.EmbedFont = o.EmbedFont
	case FormatPNG:
		opts.Outlines = o.Outlines
		opts.Thumbnail = o.Thumbnail
	}
	return opts
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
