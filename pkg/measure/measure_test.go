package measure

import (
	"strings"
	"testing"
)

func TestHeuristicWidth(t *testing.T) {
	h := NewHeuristic()
	tests := []struct {
		name string
		text string
		size float64
		want float64
	}{
		{"empty", "", 20, 0},
		{"ascii", "abcd", 10, 22},
		{"space", "a b", 10, 0.55*10*2 + 2.8},
		{"wide", "漢字", 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Width(tt.text, tt.size)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Width(%q, %v) = %v, want %v", tt.text, tt.size, got, tt.want)
			}
		})
	}
}

func TestHeuristicZeroValue(t *testing.T) {
	var h Heuristic
	if got, want := h.Width("abcd", 10), NewHeuristic().Width("abcd", 10); got != want {
		t.Errorf("zero Heuristic Width = %v, want %v", got, want)
	}
	if got := h.LineHeight(16); got != 20 {
		t.Errorf("LineHeight(16) = %v, want 20", got)
	}
}

func TestFaceMonotonic(t *testing.T) {
	f := MustGoRegular()
	defer f.Close()

	text := "Quarterly Review"
	prev := 0.0
	for size := 10.0; size <= 80; size += 10 {
		w := f.Width(text, size)
		if w <= prev {
			t.Fatalf("Width at %vpx = %v, not larger than %v", size, w, prev)
		}
		prev = w
	}
	if f.Width("", 20) != 0 || f.Width("x", 0) != 0 {
		t.Error("empty text or zero size should measure 0")
	}
}

func TestFaceDeterministic(t *testing.T) {
	a, b := MustGoRegular(), MustGoRegular()
	if a.Width("deckfit", 37) != b.Width("deckfit", 37) {
		t.Error("two faces disagree on the same input")
	}
}

func TestNewFaceInvalid(t *testing.T) {
	if _, err := NewFace([]byte("not a font")); err == nil {
		t.Error("NewFace(garbage) succeeded, want error")
	}
}

func TestWrap(t *testing.T) {
	h := NewHeuristic()
	text := "one two three four five six"
	lines := Wrap(h, text, 10, h.Width("one two three", 10)+0.5)
	if len(lines) != 2 {
		t.Fatalf("Wrap() = %q, want 2 lines", lines)
	}
	if got := strings.Join(lines, " "); got != text {
		t.Errorf("joined lines = %q, want %q", got, text)
	}
	if got := Wrap(h, "   ", 10, 100); got != nil {
		t.Errorf("Wrap(blank) = %q, want nil", got)
	}
	if got := Wrap(h, "supercalifragilistic", 10, 5); len(got) != 1 {
		t.Errorf("long word split into %d lines", len(got))
	}
}
