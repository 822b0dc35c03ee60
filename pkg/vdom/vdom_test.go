package vdom

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/measure"
)

func deckOf(n int) content.Deck {
	d := content.Deck{MainTitle: "Quarterly Review"}
	for i := 0; i < n; i++ {
		d.Cards = append(d.Cards, content.Card{
			Icon:  "star",
			Title: fmt.Sprintf("Card %d", i+1),
			Desc:  "A short description with <strong>emphasis</strong> that wraps onto a second line",
		})
	}
	return d
}

func rectsByClass(rs []Rect, class string) []Rect {
	var out []Rect
	for _, r := range rs {
		for _, c := range r.Classes {
			if c == class {
				out = append(out, r)
			}
		}
	}
	return out
}

func TestBuildFiveCards(t *testing.T) {
	d := layout.Compute(5)
	doc := Build(deckOf(5), d, Options{})

	if got := len(doc.Query("." + ClassCardTitle)); got != 5 {
		t.Fatalf("card titles = %d, want 5", got)
	}
	rows := doc.Query("." + ClassRow)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, want := range []int{3, 2} {
		if got := len(doc.Node(rows[i]).Children); got != want {
			t.Errorf("row %d has %d cards, want %d", i, got, want)
		}
	}

	left, right := d.WrapperPaddingX, layout.CanvasWidth-d.WrapperPaddingX
	for _, r := range rectsByClass(doc.Boxes(), ClassCard) {
		if r.X < left-1e-9 || r.X+r.W > right+1e-9 {
			t.Errorf("card %d spans [%v, %v], outside [%v, %v]", r.ID, r.X, r.X+r.W, left, right)
		}
		if math.Abs(r.W-d.CardWidth(d.ContentWidth())) > 1e-9 {
			t.Errorf("card %d width = %v", r.ID, r.W)
		}
	}
}

func TestBuildZeroCards(t *testing.T) {
	doc := Build(deckOf(0), layout.Compute(0), Options{})
	if got := doc.Query("." + ClassCard); len(got) != 0 {
		t.Errorf("cards = %d, want 0", len(got))
	}
	if got := doc.Query("." + ClassTitle); len(got) != 1 {
		t.Errorf("titles = %d, want 1", len(got))
	}
}

func TestMeasureFollowsStyle(t *testing.T) {
	m := measure.NewHeuristic()
	doc := Build(deckOf(1), layout.Compute(1), Options{Measurer: m})
	h := doc.Query("." + ClassTitle)[0]

	if got, want := doc.Measure(h).Width, m.Width("Quarterly Review", 80); got != want {
		t.Errorf("title width = %v, want %v", got, want)
	}
	doc.SetStyle(h, fit.PropFontSize, "40px")
	if got, want := doc.Measure(h).Width, m.Width("Quarterly Review", 40); got != want {
		t.Errorf("title width after resize = %v, want %v", got, want)
	}
	if got := doc.ComputedFontSize(h); got != 40 {
		t.Errorf("ComputedFontSize() = %v, want 40", got)
	}
	doc.SetStyle(h, fit.PropFontSize, "")
	if got := doc.ComputedFontSize(h); got != 80 {
		t.Errorf("ComputedFontSize() after reset = %v, want 80", got)
	}
}

func TestCardTitleOverflow(t *testing.T) {
	deck := deckOf(4)
	deck.Cards[2].Title = strings.Repeat("Overflowing ", 6)
	doc := Build(deck, layout.Compute(4), Options{})

	hs := doc.Query("." + ClassCardTitle)
	if doc.Measure(hs[0]).Overflows() {
		t.Error("short card title overflows")
	}
	if !doc.Measure(hs[2]).Overflows() {
		t.Error("long card title does not overflow")
	}
}

func TestNotReadyWithoutMeasurer(t *testing.T) {
	doc := NewDocument(Box("x"), nil, 100, 100)
	if doc.Ready() {
		t.Error("document without measurer reports ready")
	}
	if doc.Boxes() != nil {
		t.Error("Boxes() on unready document not nil")
	}
}

func TestFitTallDeck(t *testing.T) {
	deck := deckOf(20)
	d := layout.Compute(20)
	doc := Build(deck, d, Options{})
	plan := fit.NewPlan(fit.Config{}, layout.ComputeTitleConfig(20, nil))

	content := doc.Query("." + ClassContent)[0]
	natural := doc.Measure(content).Height
	if natural <= fit.DefaultViewportMaxHeightPx {
		t.Fatalf("20-card deck height %v fits without scaling; test needs taller content", natural)
	}

	report := fit.Run(doc, plan)
	if report.Viewport == nil || !report.Viewport.Applied {
		t.Fatalf("viewport not scaled: %+v", report.Viewport)
	}

	r := rectsByClass(doc.Boxes(), ClassContent)[0]
	want := report.Viewport.ContentHeight * report.Viewport.Scale
	if math.Abs(r.H-want) > 1e-6 {
		t.Errorf("scaled content height = %v, want %v", r.H, want)
	}
	if r.Y < -1e-6 || r.Y+r.H > layout.CanvasHeight+1e-6 {
		t.Errorf("scaled content spans [%v, %v], outside the canvas", r.Y, r.Y+r.H)
	}
}

func TestResetStyles(t *testing.T) {
	doc := Build(deckOf(2), layout.Compute(2), Options{})
	fit.Run(doc, fit.NewPlan(fit.Config{}, layout.ComputeTitleConfig(2, nil)))
	doc.ResetStyles()
	if st := fit.Capture(doc, fit.Config{}); st.TitleFontSize != "" || st.Transform != "" {
		t.Errorf("styles left after reset: %+v", st)
	}
}

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		in     string
		ox, oy float64
	}{
		{"", 50, 20},
		{"center center", 50, 20},
		{"top left", 0, 0},
		{"left top", 0, 0},
		{"right bottom", 100, 40},
		{"25% 10px", 25, 10},
		{"top", 50, 0},
	}
	for _, tt := range tests {
		ox, oy := parseOrigin(tt.in, 100, 40)
		if ox != tt.ox || oy != tt.oy {
			t.Errorf("parseOrigin(%q) = (%v, %v), want (%v, %v)", tt.in, ox, oy, tt.ox, tt.oy)
		}
	}
}
