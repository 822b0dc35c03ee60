package vdom

import (
	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/measure"
)

// Class names of the canonical slide tree.
const (
	ClassCanvas    = "deck-canvas"
	ClassContent   = "deck-content"
	ClassTitle     = "deck-title"
	ClassGrid      = "deck-grid"
	ClassRow       = "card-row"
	ClassCard      = "card"
	ClassCardIcon  = "card-icon"
	ClassCardTitle = "card-title"
	ClassCardDesc  = "card-desc"
)

// DefaultCardGap is the vertical gap between a card's icon, title and
// description.
const DefaultCardGap = 16.0

// Options control Build.
type Options struct {
	// Measurer measures text. Nil selects measure.NewHeuristic().
	Measurer measure.Measurer
	// TitleFontPx is the CSS size of the main title. Zero selects the
	// initial size of the default title config for the card count.
	TitleFontPx float64
	// TopAligned pins the content TopOffset pixels below the canvas top
	// instead of centering it, for skins scaling from the top edge.
	TopAligned bool
	TopOffset  float64
	CardGap    float64
}

func (o Options) withDefaults(n int) Options {
	if o.Measurer == nil {
		o.Measurer = measure.NewHeuristic()
	}
	if o.TitleFontPx <= 0 {
		o.TitleFontPx = layout.ComputeTitleConfig(n, nil).InitialFontSize
	}
	if o.TopOffset <= 0 {
		o.TopOffset = (layout.CanvasHeight - 1040) / 2
	}
	if o.CardGap <= 0 {
		o.CardGap = DefaultCardGap
	}
	return o
}

// Build returns the canonical slide tree for deck laid out with d:
//
//	.deck-canvas
//	  .deck-content
//	    .deck-title
//	    .deck-grid
//	      .card-row
//	        .card
//	          .card-icon
//	          .card-title
//	          .card-desc
//
// Cards are split into rows of d.Columns; a partial last row is centered.
func Build(deck content.Deck, d layout.Descriptor, opts Options) *Document {
	opts = opts.withDefaults(deck.N())

	contentW := d.ContentWidth()
	cardW := d.CardWidth(contentW)

	title := Text(ClassTitle, deck.MainTitle, opts.TitleFontPx)
	title.Bold = true
	title.Inline = true

	grid := Box(ClassGrid)
	grid.Gap = d.ContainerGap
	cols := max(1, d.Columns)
	for start := 0; start < len(deck.Cards); start += cols {
		row := Row(ClassRow)
		row.Gap = d.ContainerGap
		for _, c := range deck.Cards[start:min(start+cols, len(deck.Cards))] {
			row.Children = append(row.Children, buildCard(c, d, cardW, opts))
		}
		grid.Children = append(grid.Children, row)
	}

	body := Box(ClassContent, title, grid)
	body.PadX = d.WrapperPaddingX
	body.Gap = d.WrapperGap
	body.Center = true

	root := Box(ClassCanvas, body)
	root.Width = layout.CanvasWidth
	root.Height = layout.CanvasHeight

	doc := NewDocument(root, opts.Measurer, layout.CanvasWidth, layout.CanvasHeight)
	if opts.TopAligned {
		doc.topSlot = opts.TopOffset
	}
	return doc
}

func buildCard(c content.Card, d layout.Descriptor, width float64, opts Options) *Node {
	icon := Box(ClassCardIcon)
	icon.Width = d.IconSize
	icon.Height = d.IconSize
	icon.Text = c.Icon

	title := Text(ClassCardTitle, c.Title, d.TitleSize.Px())
	title.Bold = true

	desc := Text(ClassCardDesc, content.PlainText(c.Desc), d.DescSize.Px())
	desc.Wrap = true

	card := Box(ClassCard, icon, title, desc)
	card.Width = width
	card.PadX = d.CardPadding
	card.PadY = d.CardPadding
	card.Gap = opts.CardGap
	card.Center = true
	return card
}
