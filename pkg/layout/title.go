package layout

import (
	"sort"

	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// TitleBucket names a range of the coarse title table.
type TitleBucket string

// Title buckets, smallest card count first.
const (
	TitleBucket1to3 TitleBucket = "1-3"
	TitleBucket4    TitleBucket = "4"
	TitleBucket5to6 TitleBucket = "5-6"
	TitleBucket7to8 TitleBucket = "7-8"
	TitleBucket9    TitleBucket = "9+"
)

// TitleBuckets lists the title buckets in table order.
var TitleBuckets = []TitleBucket{
	TitleBucket1to3, TitleBucket4, TitleBucket5to6, TitleBucket7to8, TitleBucket9,
}

// TitleConfig is the font-size range the main title may occupy, in pixels.
type TitleConfig struct {
	InitialFontSize float64 `json:"initial_font_size" toml:"initial_font_size"`
	MinFontSize     float64 `json:"min_font_size" toml:"min_font_size"`
}

// Validate rejects non-positive sizes and a minimum above the start size.
func (c TitleConfig) Validate() error {
	if c.InitialFontSize <= 0 || c.MinFontSize <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "title font sizes must be positive, got %g/%g", c.InitialFontSize, c.MinFontSize)
	}
	if c.MinFontSize > c.InitialFontSize {
		return errs.New(errs.ErrCodeInvalidInput, "min font size %g exceeds initial %g", c.MinFontSize, c.InitialFontSize)
	}
	return nil
}

// TitleOverrides replaces whole buckets of the default title table.
type TitleOverrides map[TitleBucket]TitleConfig

// Validate checks every override names a known bucket and a usable range.
func (o TitleOverrides) Validate() error {
	keys := make([]string, 0, len(o))
	for b := range o {
		keys = append(keys, string(b))
	}
	sort.Strings(keys)
	for _, k := range keys {
		b := TitleBucket(k)
		if _, ok := defaultTitleConfigs[b]; !ok {
			return errs.New(errs.ErrCodeInvalidInput, "unknown title bucket %q", b)
		}
		if err := o[b].Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "title bucket %q", b)
		}
	}
	return nil
}

var defaultTitleConfigs = map[TitleBucket]TitleConfig{
	TitleBucket1to3: {InitialFontSize: 80, MinFontSize: 48},
	TitleBucket4:    {InitialFontSize: 72, MinFontSize: 44},
	TitleBucket5to6: {InitialFontSize: 68, MinFontSize: 40},
	TitleBucket7to8: {InitialFontSize: 60, MinFontSize: 36},
	TitleBucket9:    {InitialFontSize: 56, MinFontSize: 32},
}

// TitleBucketFor returns the title bucket for n cards. Counts at or below
// zero share the first bucket.
func TitleBucketFor(n int) TitleBucket {
	switch {
	case n <= 3:
		return TitleBucket1to3
	case n == 4:
		return TitleBucket4
	case n <= 6:
		return TitleBucket5to6
	case n <= 8:
		return TitleBucket7to8
	default:
		return TitleBucket9
	}
}

// TitleConfigs returns the default title table with overrides applied.
// The result is a fresh map; neither input is modified.
func TitleConfigs(overrides TitleOverrides) map[TitleBucket]TitleConfig {
	out := make(map[TitleBucket]TitleConfig, len(defaultTitleConfigs))
	for b, c := range defaultTitleConfigs {
		out[b] = c
	}
	for b, c := range overrides {
		if _, ok := out[b]; ok {
			out[b] = c
		}
	}
	return out
}

// ComputeTitleConfig returns the title font range for n cards. An override
// for the matching bucket replaces the whole pair.
func ComputeTitleConfig(n int, overrides TitleOverrides) TitleConfig {
	b := TitleBucketFor(n)
	if c, ok := overrides[b]; ok {
		return c
	}
	return defaultTitleConfigs[b]
}
