package layout

import (
	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// Bucket names the card-count range a rule covers.
type Bucket string

// Canonical buckets of [DefaultTable].
const (
	Bucket1    Bucket = "1"
	Bucket2    Bucket = "2"
	Bucket3    Bucket = "3"
	Bucket4    Bucket = "4"
	Bucket5to6 Bucket = "5-6"
	Bucket7to8 Bucket = "7-8"
	Bucket9    Bucket = "9+"
)

// Spec is the fixed geometry tuple a rule maps its range to.
// Lengths are CSS pixels on the 1920×1080 canvas.
type Spec struct {
	Columns         int     `json:"columns" toml:"columns"`
	ContainerGap    float64 `json:"container_gap" toml:"container_gap"`
	WrapperGap      float64 `json:"wrapper_gap" toml:"wrapper_gap"`
	WrapperPaddingX float64 `json:"wrapper_padding_x" toml:"wrapper_padding_x"`
	CardPadding     float64 `json:"card_padding" toml:"card_padding"`
	IconSize        float64 `json:"icon_size" toml:"icon_size"`
	TitleSize       Tier    `json:"title_size" toml:"title_size"`
	DescSize        Tier    `json:"desc_size" toml:"desc_size"`
}

// Rule maps the inclusive card-count range [Min, Max] to a Spec.
// Max 0 marks the open-ended terminal rule.
type Rule struct {
	Min    int    `json:"min" toml:"min"`
	Max    int    `json:"max,omitempty" toml:"max"`
	Bucket Bucket `json:"bucket" toml:"bucket"`
	Spec   Spec   `json:"spec" toml:"spec"`
}

// Contains reports whether n falls inside the rule's range.
func (r Rule) Contains(n int) bool {
	if n < r.Min {
		return false
	}
	return r.Max == 0 || n <= r.Max
}

// Table is an ordered breakpoint table. Treat it as authoritative data:
// values are not derived from a formula and need not be strictly monotonic.
type Table struct {
	Rules []Rule `json:"rules" toml:"rules"`
}

// DefaultTable is the canonical breakpoint table.
var DefaultTable = Table{Rules: []Rule{
	{Min: 1, Max: 1, Bucket: Bucket1, Spec: Spec{
		Columns: 1, ContainerGap: 48, WrapperGap: 64, WrapperPaddingX: 360,
		CardPadding: 64, IconSize: 112, TitleSize: Text6XL, DescSize: Text3XL,
	}},
	{Min: 2, Max: 2, Bucket: Bucket2, Spec: Spec{
		Columns: 2, ContainerGap: 48, WrapperGap: 64, WrapperPaddingX: 200,
		CardPadding: 56, IconSize: 96, TitleSize: TextDisplay, DescSize: Text3XL,
	}},
	{Min: 3, Max: 3, Bucket: Bucket3, Spec: Spec{
		Columns: 3, ContainerGap: 40, WrapperGap: 56, WrapperPaddingX: 120,
		CardPadding: 48, IconSize: 88, TitleSize: Text5XL, DescSize: Text2XL,
	}},
	{Min: 4, Max: 4, Bucket: Bucket4, Spec: Spec{
		Columns: 4, ContainerGap: 32, WrapperGap: 56, WrapperPaddingX: 80,
		CardPadding: 40, IconSize: 72, TitleSize: Text4XL, DescSize: Text2XL,
	}},
	{Min: 5, Max: 6, Bucket: Bucket5to6, Spec: Spec{
		Columns: 3, ContainerGap: 32, WrapperGap: 48, WrapperPaddingX: 120,
		CardPadding: 36, IconSize: 64, TitleSize: Text4XL, DescSize: TextXL,
	}},
	{Min: 7, Max: 8, Bucket: Bucket7to8, Spec: Spec{
		Columns: 4, ContainerGap: 28, WrapperGap: 40, WrapperPaddingX: 80,
		CardPadding: 32, IconSize: 56, TitleSize: Text3XL, DescSize: TextLG,
	}},
	{Min: 9, Bucket: Bucket9, Spec: Spec{
		Columns: 4, ContainerGap: 24, WrapperGap: 32, WrapperPaddingX: 64,
		CardPadding: 28, IconSize: 48, TitleSize: Text2XL, DescSize: TextBase,
	}},
}}

// Rule returns the rule for card count n. Counts at or below zero use the
// first rule; counts no rule contains use the last one.
func (t Table) Rule(n int) Rule {
	rules := t.Rules
	if len(rules) == 0 {
		rules = DefaultTable.Rules
	}
	if n <= rules[0].Min {
		return rules[0]
	}
	for _, r := range rules {
		if r.Contains(n) {
			return r
		}
	}
	return rules[len(rules)-1]
}

// Validate checks that the rules start at 1, are contiguous and ascending,
// end in an open-ended rule and carry usable specs.
func (t Table) Validate() error {
	if len(t.Rules) == 0 {
		return errs.New(errs.ErrCodeInvalidTable, "table has no rules")
	}
	next := 1
	for i, r := range t.Rules {
		last := i == len(t.Rules)-1
		switch {
		case r.Min != next:
			return errs.New(errs.ErrCodeInvalidTable, "rule %q starts at %d, want %d", r.Bucket, r.Min, next)
		case r.Max == 0 && !last:
			return errs.New(errs.ErrCodeInvalidTable, "rule %q is open-ended but not last", r.Bucket)
		case r.Max != 0 && last:
			return errs.New(errs.ErrCodeInvalidTable, "last rule %q must be open-ended", r.Bucket)
		case r.Max != 0 && r.Max < r.Min:
			return errs.New(errs.ErrCodeInvalidTable, "rule %q has max %d below min %d", r.Bucket, r.Max, r.Min)
		}
		if err := r.Spec.validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidTable, err, "rule %q", r.Bucket)
		}
		next = r.Max + 1
	}
	return nil
}

func (s Spec) validate() error {
	if s.Columns < 1 {
		return errs.New(errs.ErrCodeInvalidTable, "columns must be at least 1, got %d", s.Columns)
	}
	for name, v := range map[string]float64{
		"container_gap":     s.ContainerGap,
		"wrapper_gap":       s.WrapperGap,
		"wrapper_padding_x": s.WrapperPaddingX,
		"card_padding":      s.CardPadding,
		"icon_size":         s.IconSize,
	} {
		if v < 0 {
			return errs.New(errs.ErrCodeInvalidTable, "%s must not be negative", name)
		}
	}
	if !s.TitleSize.Valid() {
		return errs.New(errs.ErrCodeInvalidTable, "unknown title tier %q", s.TitleSize)
	}
	if !s.DescSize.Valid() {
		return errs.New(errs.ErrCodeInvalidTable, "unknown desc tier %q", s.DescSize)
	}
	return nil
}
