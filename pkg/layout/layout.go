package layout

import (
	"fmt"
	"strconv"
)

// CanvasWidth and CanvasHeight are the fixed logical slide dimensions.
const (
	CanvasWidth  = 1920.0
	CanvasHeight = 1080.0
)

// Descriptor is the geometry and typography of a slide with a given card
// count. It has no identity: recompute it whenever N changes.
type Descriptor struct {
	CardCount       int     `json:"card_count"`
	Bucket          Bucket  `json:"bucket"`
	Columns         int     `json:"columns"`
	Rows            int     `json:"rows"`
	CardWidthClass  string  `json:"card_width_class"`
	ContainerGap    float64 `json:"container_gap"`
	WrapperGap      float64 `json:"wrapper_gap"`
	WrapperPaddingX float64 `json:"wrapper_padding_x"`
	CardPadding     float64 `json:"card_padding"`
	IconSize        float64 `json:"icon_size"`
	TitleSize       Tier    `json:"title_size"`
	DescSize        Tier    `json:"desc_size"`
}

// Compute returns the descriptor for n cards from [DefaultTable].
func Compute(n int) Descriptor {
	return DefaultTable.Compute(n)
}

// Compute returns the descriptor for n cards from t.
func (t Table) Compute(n int) Descriptor {
	if n < 0 {
		n = 0
	}
	r := t.Rule(n)
	cols := max(1, r.Spec.Columns)
	rows := 0
	if n > 0 {
		rows = (n + cols - 1) / cols
	}
	return Descriptor{
		CardCount:       n,
		Bucket:          r.Bucket,
		Columns:         cols,
		Rows:            rows,
		CardWidthClass:  strconv.Itoa(cols) + "-column",
		ContainerGap:    r.Spec.ContainerGap,
		WrapperGap:      r.Spec.WrapperGap,
		WrapperPaddingX: r.Spec.WrapperPaddingX,
		CardPadding:     r.Spec.CardPadding,
		IconSize:        r.Spec.IconSize,
		TitleSize:       r.Spec.TitleSize,
		DescSize:        r.Spec.DescSize,
	}
}

// ContentWidth is the canvas width left after the horizontal wrapper padding.
func (d Descriptor) ContentWidth() float64 {
	return max(0, CanvasWidth-2*d.WrapperPaddingX)
}

// CardWidth evaluates (100% - gap*(cols-1)) / cols against a container
// width in pixels.
func (d Descriptor) CardWidth(containerPx float64) float64 {
	cols := max(1, d.Columns)
	w := (containerPx - d.ContainerGap*float64(cols-1)) / float64(cols)
	return max(0, w)
}

// CardWidthCSS returns the card width formula as a CSS calc() expression.
func (d Descriptor) CardWidthCSS() string {
	cols := max(1, d.Columns)
	if cols == 1 {
		return "100%"
	}
	return fmt.Sprintf("calc((100%% - %s) / %d)", CSSLength(d.ContainerGap*float64(cols-1)), cols)
}

// RowSizes returns the number of cards in each row, in render order.
// Only the last row may be partial.
func (d Descriptor) RowSizes() []int {
	if d.CardCount <= 0 {
		return nil
	}
	cols := max(1, d.Columns)
	sizes := make([]int, 0, d.Rows)
	for left := d.CardCount; left > 0; left -= cols {
		sizes = append(sizes, min(cols, left))
	}
	return sizes
}
