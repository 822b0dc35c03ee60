package fit

import (
	"github.com/matzehuels/deckfit/pkg/layout"
)

// Report collects the results of the phases a routine ran.
type Report struct {
	// Skipped is set when the surface could not be measured and nothing ran.
	Skipped  bool            `json:"skipped,omitempty"`
	Title    *TitleResult    `json:"title,omitempty"`
	Cards    []CardResult    `json:"cards,omitempty"`
	Viewport *ViewportResult `json:"viewport,omitempty"`
}

func (r *Report) merge(o Report) {
	if o.Title != nil {
		r.Title = o.Title
	}
	if o.Cards != nil {
		r.Cards = o.Cards
	}
	if o.Viewport != nil {
		r.Viewport = o.Viewport
	}
}

// Routine is a fitting step that can run now against a Surface or be
// emitted as a standalone script performing the same step in a browser.
type Routine interface {
	Run(s Surface) Report
	Script() string
	// phases returns the bodies of a JavaScript function implementing the
	// routine with the helpers of scriptHelpers in scope.
	phases() []string
}

// TitleFit fits the main title.
type TitleFit struct {
	Config Config
	Title  layout.TitleConfig
}

// TitleRoutine returns the title solver as a routine.
func TitleRoutine(cfg Config, tc layout.TitleConfig) TitleFit {
	return TitleFit{Config: cfg.normalized(), Title: titleRange(tc)}
}

// Run implements Routine.
func (t TitleFit) Run(s Surface) Report {
	if !ready(s) {
		return Report{Skipped: true}
	}
	h, ok := first(s, t.Config.normalized().TitleSelector)
	if !ok {
		return Report{}
	}
	res := SolveTitle(s, h, t.Title, t.Config)
	return Report{Title: &res}
}

// Script implements Routine.
func (t TitleFit) Script() string { return script(t.Config.normalized(), t.phases()) }

// CardTitleFit clamps every card title matching Selector.
type CardTitleFit struct {
	Config   Config
	Selector string
	MinPx    float64
}

// CardTitleRoutine returns the card-title clamp as a routine. An empty
// selector or a non-positive minimum falls back to cfg.
func CardTitleRoutine(selector string, minPx float64, cfg Config) CardTitleFit {
	cfg = cfg.normalized()
	if !validSelector(selector) {
		selector = cfg.CardTitleSelector
	}
	if !positive(minPx) {
		minPx = cfg.CardTitleMinFontPx
	}
	return CardTitleFit{Config: cfg, Selector: selector, MinPx: minPx}
}

// Run implements Routine.
func (c CardTitleFit) Run(s Surface) Report {
	if !ready(s) {
		return Report{Skipped: true}
	}
	return Report{Cards: clampCards(s, c.Selector, c.MinPx, c.Config.normalized())}
}

// Script implements Routine.
func (c CardTitleFit) Script() string { return script(c.Config.normalized(), c.phases()) }

// ViewportFit scales the content wrapper.
type ViewportFit struct {
	Config Config
}

// ViewportRoutine returns the viewport solver as a routine.
func ViewportRoutine(cfg Config) ViewportFit {
	return ViewportFit{Config: cfg.normalized()}
}

// Run implements Routine.
func (v ViewportFit) Run(s Surface) Report {
	if !ready(s) {
		return Report{Skipped: true}
	}
	res := FitViewport(s, v.Config)
	return Report{Viewport: &res}
}

// Script implements Routine.
func (v ViewportFit) Script() string { return script(v.Config.normalized(), v.phases()) }

// Sequence runs routines in order. Its script runs every phase once, in
// order, behind a single font-ready gate.
type Sequence []Routine

// Run implements Routine.
func (q Sequence) Run(s Surface) Report {
	if !ready(s) {
		return Report{Skipped: true}
	}
	var r Report
	for _, step := range q {
		r.merge(step.Run(s))
	}
	return r
}

// Script implements Routine. The font timeout of the first step that
// carries a config is used for the gate.
func (q Sequence) Script() string {
	cfg := DefaultConfig()
	for _, step := range q {
		if c, ok := configOf(step); ok {
			cfg = c
			break
		}
	}
	return script(cfg, q.phases())
}

func (q Sequence) phases() []string {
	var out []string
	for _, step := range q {
		out = append(out, step.phases()...)
	}
	return out
}

func configOf(r Routine) (Config, bool) {
	switch v := r.(type) {
	case TitleFit:
		return v.Config.normalized(), true
	case CardTitleFit:
		return v.Config.normalized(), true
	case ViewportFit:
		return v.Config.normalized(), true
	}
	return Config{}, false
}

// Plan is everything needed to fit one slide.
type Plan struct {
	Config Config
	Title  layout.TitleConfig
}

// NewPlan returns a plan for the given skin config and title range.
func NewPlan(cfg Config, tc layout.TitleConfig) Plan {
	return Plan{Config: cfg.normalized(), Title: titleRange(tc)}
}

// TitlePhase returns the title routine of the plan.
func (p Plan) TitlePhase() Routine { return TitleRoutine(p.Config, p.Title) }

// CardPhase returns the card-title routine of the plan.
func (p Plan) CardPhase() Routine {
	cfg := p.Config.normalized()
	return CardTitleRoutine(cfg.CardTitleSelector, cfg.CardTitleMinFontPx, cfg)
}

// ViewportPhase returns the viewport routine of the plan.
func (p Plan) ViewportPhase() Routine { return ViewportRoutine(p.Config) }

// Routine returns the three phases in their required order: the viewport
// is measured only after both text passes are done.
func (p Plan) Routine() Sequence {
	return Sequence{p.TitlePhase(), p.CardPhase(), p.ViewportPhase()}
}

// Run fits the surface with every phase of plan. A surface that is not
// ready yields a skipped report and is left untouched.
func Run(s Surface, plan Plan) Report {
	return plan.Routine().Run(s)
}
