package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/fit/live"
	"github.com/matzehuels/deckfit/pkg/measure"
	"github.com/matzehuels/deckfit/pkg/skin"
)

func newTestInspectModel(t *testing.T, deck *content.Deck, n int) *inspectModel {
	t.Helper()
	m := newInspectModel(skin.Builtins(), 0, n, deck, measure.NewHeuristic())
	m.fitter = live.New(nil,
		live.WithTimings(live.Timings{Reflow: time.Hour, Settle: time.Hour, FontTimeout: time.Hour}),
		live.WithPassHook(func(p live.PassResult) {
			select {
			case m.passes <- p:
			default:
			}
		}),
	)
	t.Cleanup(func() { m.fitter.Close() })
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModelNavigation(t *testing.T) {
	m := newTestInspectModel(t, nil, 4)
	m.Init()

	if m.lr.Descriptor.CardCount != 4 {
		t.Fatalf("CardCount = %d, want 4", m.lr.Descriptor.CardCount)
	}
	if m.run != 1 {
		t.Fatalf("run = %d, want 1", m.run)
	}

	m.Update(key("right"))
	if m.n != 5 || m.lr.Descriptor.CardCount != 5 {
		t.Errorf("after right: n = %d, CardCount = %d, want 5", m.n, m.lr.Descriptor.CardCount)
	}
	m.Update(key("left"))
	m.Update(key("left"))
	if m.n != 3 {
		t.Errorf("after left twice: n = %d, want 3", m.n)
	}

	m.Update(key("tab"))
	if m.skinIdx != 1 {
		t.Errorf("skinIdx = %d, want 1", m.skinIdx)
	}
	if m.run != 5 {
		t.Errorf("run = %d, want 5", m.run)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectModelBounds(t *testing.T) {
	m := newTestInspectModel(t, nil, 1)
	m.Init()
	m.Update(key("left"))
	if m.n != 1 {
		t.Errorf("n = %d, want 1", m.n)
	}

	deck := placeholderDeck(6)
	fixed := newTestInspectModel(t, &deck, 6)
	fixed.Init()
	fixed.Update(key("right"))
	if fixed.n != 6 || fixed.lr.Descriptor.CardCount != 6 {
		t.Errorf("a loaded deck must keep its card count, got n = %d", fixed.n)
	}
}

func TestInspectModelDropsStalePasses(t *testing.T) {
	m := newTestInspectModel(t, nil, 4)
	m.Init()
	first := m.run
	m.Update(key("right"))
	if m.run == first {
		t.Fatalf("run token unchanged after refit: %d", m.run)
	}

	m.Update(passMsg{Run: first, Pass: live.PassSettle})
	if len(m.log) != 0 {
		t.Fatalf("stale pass recorded: %+v", m.log)
	}
	m.Update(passMsg{Run: m.run, Pass: live.PassReflow})
	if len(m.log) != 1 {
		t.Fatalf("log = %+v, want one pass", m.log)
	}
}

func TestInspectCardCount(t *testing.T) {
	empty := content.Deck{MainTitle: "Only a title"}
	large := placeholderDeck(maxInspectCards + 4)
	tests := []struct {
		name    string
		deck    *content.Deck
		cards   int
		want    int
		wantErr bool
	}{
		{"placeholder default", nil, 4, 4, false},
		{"placeholder upper bound", nil, maxInspectCards, maxInspectCards, false},
		{"placeholder zero", nil, 0, 0, true},
		{"placeholder too many", nil, maxInspectCards + 1, 0, true},
		{"deck without cards", &empty, 4, 0, false},
		{"deck above placeholder bound", &large, 4, maxInspectCards + 4, false},
		{"deck ignores --cards", &large, -3, maxInspectCards + 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inspectCardCount(tt.deck, tt.cards)
			if (err != nil) != tt.wantErr {
				t.Fatalf("inspectCardCount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("inspectCardCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInspectModelLoadedDeckSizes(t *testing.T) {
	for _, n := range []int{0, maxInspectCards + 4} {
		t.Run(fmt.Sprintf("%d cards", n), func(t *testing.T) {
			deck := placeholderDeck(n)
			m := newTestInspectModel(t, &deck, n)
			m.Init()
			if m.lr.Descriptor.CardCount != n {
				t.Errorf("CardCount = %d, want %d", m.lr.Descriptor.CardCount, n)
			}
			if m.run == 0 {
				t.Error("run token not taken from the fitter")
			}
			if !strings.Contains(m.View(), fmt.Sprintf("%d cards", n)) {
				t.Errorf("View() does not show %d cards", n)
			}
		})
	}
}

func TestInspectView(t *testing.T) {
	m := newTestInspectModel(t, nil, 7)
	m.Init()
	out := m.View()
	for _, want := range []string{m.skins[0].Name, "7 cards", "Bucket", "Title range", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestPlaceholderDeck(t *testing.T) {
	deck := placeholderDeck(3)
	if deck.N() != 3 {
		t.Fatalf("N() = %d, want 3", deck.N())
	}
	if err := deck.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
