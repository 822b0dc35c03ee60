package jsrun

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/measure"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

func deck(n int, title string, cardTitle func(int) string) content.Deck {
	d := content.Deck{MainTitle: title}
	for i := 0; i < n; i++ {
		d.Cards = append(d.Cards, content.Card{
			Icon:  "dot",
			Title: cardTitle(i),
			Desc:  "Margins improved across <code>all</code> regions this quarter",
		})
	}
	return d
}

func shortTitle(i int) string { return fmt.Sprintf("Card %d", i+1) }

func longTitle(i int) string {
	if i%2 == 0 {
		return strings.Repeat("Infrastructure ", 3)
	}
	return "Ok"
}

var configs = map[string]fit.Config{
	"default": {},
	"aurora":  {MaxTitleWidthPx: 1700, ViewportFloorScale: 0.65},
	"slate":   {MaxTitleWidthPx: 1650, DecrementStepPx: 2, TransformOrigin: "top left"},
}

func TestDualModeEquivalence(t *testing.T) {
	titles := map[string]string{
		"short": "Quarterly Review",
		"long":  strings.Repeat("A Very Long Presentation Title ", 3),
	}
	cards := map[string]func(int) string{"short": shortTitle, "long": longTitle}

	for cfgName, cfg := range configs {
		for _, n := range []int{0, 1, 3, 4, 5, 9, 20} {
			for titleName, title := range titles {
				for cardName, cardFn := range cards {
					name := fmt.Sprintf("%s/n=%d/title=%s/cards=%s", cfgName, n, titleName, cardName)
					t.Run(name, func(t *testing.T) {
						checkEquivalent(t, deck(n, title, cardFn), cfg, measure.NewHeuristic())
					})
				}
			}
		}
	}
}

func TestDualModeEquivalenceFace(t *testing.T) {
	face := measure.MustGoRegular()
	defer face.Close()
	for _, n := range []int{2, 6, 12} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			checkEquivalent(t, deck(n, strings.Repeat("Glyph Advances Matter ", 4), longTitle), fit.Config{}, face)
		})
	}
}

func checkEquivalent(t *testing.T, d content.Deck, cfg fit.Config, m measure.Measurer, opts ...Option) {
	t.Helper()
	desc := layout.Compute(d.N())
	plan := fit.NewPlan(cfg, layout.ComputeTitleConfig(d.N(), nil))

	native := vdom.Build(d, desc, vdom.Options{Measurer: m})
	fit.Run(native, plan)
	want := fit.Capture(native, cfg)

	scripted := vdom.Build(d, desc, vdom.Options{Measurer: m})
	if err := Run(context.Background(), scripted, plan.Routine().Script(), opts...); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := fit.Capture(scripted, cfg); !got.Equal(want) {
		t.Errorf("script state = %+v\nGo state     = %+v", got, want)
	}
}

func TestSingleRoutines(t *testing.T) {
	d := deck(4, strings.Repeat("Wide Title ", 20), longTitle)
	desc := layout.Compute(4)
	cfg := fit.DefaultConfig()
	tc := layout.ComputeTitleConfig(4, nil)

	routines := map[string]fit.Routine{
		"title":    fit.TitleRoutine(cfg, tc),
		"cards":    fit.CardTitleRoutine(".card-title", 24, cfg),
		"viewport": fit.ViewportRoutine(cfg),
	}
	for name, r := range routines {
		t.Run(name, func(t *testing.T) {
			native := vdom.Build(d, desc, vdom.Options{})
			r.Run(native)
			scripted := vdom.Build(d, desc, vdom.Options{})
			if err := Run(context.Background(), scripted, r.Script()); err != nil {
				t.Fatal(err)
			}
			got, want := fit.Capture(scripted, cfg), fit.Capture(native, cfg)
			if !got.Equal(want) {
				t.Errorf("script state = %+v, Go state = %+v", got, want)
			}
		})
	}
}

func TestGatedPaths(t *testing.T) {
	d := deck(7, strings.Repeat("Gate ", 80), longTitle)
	tests := []struct {
		name string
		opts []Option
	}{
		{"fonts ready", []Option{WithFontsReady()}},
		{"loading", []Option{WithLoading()}},
		{"loading with fonts", []Option{WithLoading(), WithFontsReady()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEquivalent(t, d, fit.Config{}, measure.NewHeuristic(), tt.opts...)
		})
	}
}

func TestScriptIdempotent(t *testing.T) {
	d := deck(8, strings.Repeat("Repeat ", 50), longTitle)
	plan := fit.NewPlan(fit.Config{}, layout.ComputeTitleConfig(8, nil))
	doc := vdom.Build(d, layout.Compute(8), vdom.Options{})
	js := plan.Routine().Script()

	if err := Run(context.Background(), doc, js); err != nil {
		t.Fatal(err)
	}
	once := fit.Capture(doc, fit.Config{})
	if err := Run(context.Background(), doc, js); err != nil {
		t.Fatal(err)
	}
	if twice := fit.Capture(doc, fit.Config{}); !twice.Equal(once) {
		t.Errorf("second run = %+v, first = %+v", twice, once)
	}
}

func TestUnreadySurfaceIsNoop(t *testing.T) {
	doc := vdom.NewDocument(vdom.Box("deck-content"), nil, 1920, 1080)
	js := fit.NewPlan(fit.Config{}, layout.ComputeTitleConfig(3, nil)).Routine().Script()
	if err := Run(context.Background(), doc, js); err != nil {
		t.Fatalf("script threw without a document: %v", err)
	}
	if err := Run(context.Background(), nil, js); err != nil {
		t.Fatalf("script threw with nil surface: %v", err)
	}
}

func TestContextInterrupts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := Run(ctx, nil, "for (;;) {}"); err == nil {
		t.Error("endless script was not interrupted")
	}
}

func TestCamel(t *testing.T) {
	for in, want := range map[string]string{
		"font-size":        "fontSize",
		"transform":        "transform",
		"transform-origin": "transformOrigin",
	} {
		if got := camel(in); got != want {
			t.Errorf("camel(%q) = %q, want %q", in, got, want)
		}
	}
}
