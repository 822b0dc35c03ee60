package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/fit/live"
	"github.com/matzehuels/deckfit/pkg/measure"
	"github.com/matzehuels/deckfit/pkg/pipeline"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// maxInspectCards bounds the card count the inspector steps through.
const maxInspectCards = 16

var (
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(16)
	inspectPassStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand opens an interactive view of layouts and fit passes.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		skinName     string
		cards        int
		measurerName string
	)

	cmd := &cobra.Command{
		Use:   "inspect [deck]",
		Short: "Browse layouts and watch the fit passes interactively",
		Long: `Browse the layout descriptor and fit report of a slide.

Without a deck, placeholder cards are generated. Use left/right to change the
card count, tab to cycle skins and q to quit. The fit is rerun through the
staged scheduler on every change, and each pass is shown as it lands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deck *content.Deck
			if len(args) == 1 {
				d, err := pipeline.ReadDeck(args[0], "", cmd.InOrStdin())
				if err != nil {
					return err
				}
				deck = &d
			}
			n, err := inspectCardCount(deck, cards)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), deck, skinName, n, measurerName)
		},
	}

	cmd.Flags().StringVarP(&skinName, "skin", "s", "", "initial skin (default: paper)")
	c.registerSkinCompletion(cmd)
	cmd.Flags().IntVarP(&cards, "cards", "n", 4, "initial card count for placeholder decks")
	cmd.Flags().StringVar(&measurerName, "measurer", pipeline.MeasurerHeuristic, "text measurer: heuristic, face")

	return cmd
}

// inspectCardCount returns the card count to open the inspector with. A
// loaded deck keeps its own count; --cards is bounded only for placeholders.
func inspectCardCount(deck *content.Deck, cards int) (int, error) {
	if deck != nil {
		return deck.N(), nil
	}
	if cards < 1 || cards > maxInspectCards {
		return 0, errors.New(errors.ErrCodeInvalidInput, "--cards must be within 1..%d, got %d", maxInspectCards, cards)
	}
	return cards, nil
}

func (c *CLI) runInspect(ctx context.Context, deck *content.Deck, skinName string, cards int, measurerName string) error {
	skins, err := c.skins()
	if err != nil {
		return err
	}
	m, err := pipeline.Measurer(measurerName)
	if err != nil {
		return err
	}
	list := skins.List()
	start := 0
	if skinName != "" {
		sk, err := skins.Get(skinName)
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].Name == sk.Name {
				start = i
			}
		}
	}

	model := newInspectModel(list, start, cards, deck, m)
	// Pass logs would tear the alternate screen, so the fitter stays quiet.
	model.fitter = live.New(nil,
		live.WithPassHook(func(p live.PassResult) {
			select {
			case model.passes <- p:
			default:
			}
		}),
	)
	defer model.fitter.Close()

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// passMsg carries a pass result from the fitter's loop into the program.
type passMsg live.PassResult

// inspectModel is the bubbletea model of the inspect command.
type inspectModel struct {
	skins    []skin.Skin
	skinIdx  int
	n        int
	deck     *content.Deck
	measurer measure.Measurer

	fitter *live.Fitter
	passes chan live.PassResult

	// run is the token of the latest Rebind; passes of older runs still in
	// the channel are dropped.
	run     uint64
	lr      pipeline.LayoutResult
	initial fit.Report
	log     []live.PassResult
}

func newInspectModel(skins []skin.Skin, skinIdx, n int, deck *content.Deck, m measure.Measurer) *inspectModel {
	return &inspectModel{
		skins:    skins,
		skinIdx:  skinIdx,
		n:        n,
		deck:     deck,
		measurer: m,
		passes:   make(chan live.PassResult, 32),
	}
}

func (m *inspectModel) Init() tea.Cmd {
	m.refit()
	return m.waitForPass
}

// waitForPass blocks until the fitter reports the next pass.
func (m *inspectModel) waitForPass() tea.Msg {
	return passMsg(<-m.passes)
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.deck == nil && m.n > 1 {
				m.n--
				m.refit()
			}
		case "right", "l":
			if m.deck == nil && m.n < maxInspectCards {
				m.n++
				m.refit()
			}
		case "tab":
			m.skinIdx = (m.skinIdx + 1) % len(m.skins)
			m.refit()
		case "shift+tab":
			m.skinIdx = (m.skinIdx + len(m.skins) - 1) % len(m.skins)
			m.refit()
		}
	case passMsg:
		p := live.PassResult(msg)
		if p.Run != m.run {
			return m, m.waitForPass
		}
		m.log = append(m.log, p)
		if len(m.log) > 8 {
			m.log = m.log[len(m.log)-8:]
		}
		return m, m.waitForPass
	}
	return m, nil
}

// refit rebuilds the slide for the current skin and count and restarts
// the staged fit on it.
func (m *inspectModel) refit() {
	sk := m.skins[m.skinIdx]
	deck := m.currentDeck()
	m.lr = pipeline.Layout(sk, deck.N())
	doc := pipeline.Document(deck, sk, m.lr, m.measurer)
	m.log = nil
	layout := m.fitter.Rebind(doc, sk.Plan(deck.N()))
	m.run = layout.Run
	m.initial = layout.Report
}

func (m *inspectModel) currentDeck() content.Deck {
	if m.deck != nil {
		return *m.deck
	}
	return placeholderDeck(m.n)
}

// placeholderDeck returns a deck of n cards with representative text.
func placeholderDeck(n int) content.Deck {
	deck := content.Deck{MainTitle: "Quarterly platform review and roadmap highlights"}
	for i := 0; i < n; i++ {
		deck.Cards = append(deck.Cards, content.Card{
			Icon:  "●",
			Title: fmt.Sprintf("Workstream %d delivery status", i+1),
			Desc:  "Migrated the remaining services and cut p99 latency in half.",
		})
	}
	return deck
}

func (m *inspectModel) View() string {
	sk := m.skins[m.skinIdx]
	d := m.lr.Descriptor

	var b strings.Builder
	b.WriteString(inspectHeaderStyle.Render(fmt.Sprintf("%s · %d cards", sk.Name, d.CardCount)))
	b.WriteString("\n\n")

	row := func(k, v string) {
		b.WriteString(inspectKeyStyle.Render(k) + StyleValue.Render(v) + "\n")
	}
	row("Bucket", string(d.Bucket))
	row("Grid", fmt.Sprintf("%d × %d", d.Columns, d.Rows))
	row("Card width", d.CardWidthClass)
	row("Gaps", fmt.Sprintf("container %gpx, wrapper %gpx", d.ContainerGap, d.WrapperGap))
	row("Padding", fmt.Sprintf("wrapper %gpx, card %gpx", d.WrapperPaddingX, d.CardPadding))
	row("Icon", fmt.Sprintf("%gpx", d.IconSize))
	row("Type", fmt.Sprintf("title %s, desc %s", d.TitleSize, d.DescSize))
	row("Title range", fmt.Sprintf("%g → %gpx", m.lr.Title.InitialFontSize, m.lr.Title.MinFontSize))
	b.WriteString("\n")

	report := m.initial
	if len(m.log) > 0 {
		report = m.log[len(m.log)-1].Report
	}
	b.WriteString(reportView(report, m.lr.Title.MinFontSize, sk.Config().ViewportFloorScale))
	b.WriteString("\n")

	for _, p := range m.log {
		line := fmt.Sprintf("run %d  %-7s", p.Run, p.Pass)
		if p.TimedOut {
			line += "  (font timeout)"
		}
		b.WriteString(inspectPassStyle.Render(line) + "\n")
	}

	b.WriteString("\n" + StyleDim.Render("←/→ cards · tab skin · q quit") + "\n")
	return b.String()
}

// reportView renders a fit report, flagging values that reached a floor.
func reportView(r fit.Report, titleFloor, scaleFloor float64) string {
	if r.Skipped {
		return StyleWarning.Render("fit skipped: surface not measurable") + "\n"
	}
	var b strings.Builder
	if r.Title != nil {
		v := fmt.Sprintf("%gpx after %d steps", r.Title.FontSize, r.Title.Steps)
		if r.Title.FontSize <= titleFloor || !r.Title.Fits {
			v = StyleWarn.Render(v)
		}
		b.WriteString(inspectKeyStyle.Render("Title") + v + "\n")
	}
	if len(r.Cards) > 0 {
		clamped := 0
		for _, c := range r.Cards {
			if c.Steps > 0 {
				clamped++
			}
		}
		b.WriteString(inspectKeyStyle.Render("Card titles") + fmt.Sprintf("%d of %d shrunk", clamped, len(r.Cards)) + "\n")
	}
	if r.Viewport != nil {
		v := fmt.Sprintf("%s (content %gpx)", fit.FormatScale(r.Viewport.Scale), r.Viewport.ContentHeight)
		if r.Viewport.Applied && r.Viewport.Scale <= scaleFloor {
			v = StyleWarn.Render(v)
		}
		b.WriteString(inspectKeyStyle.Render("Viewport") + v + "\n")
	}
	return b.String()
}
