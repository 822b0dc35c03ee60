package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// stdout receives all status output; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// ANSI 256 palette shared by status lines, tables and the inspector.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleHighlight marks addresses and names worth spotting.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarn flags a fit value that hit its floor.
	StyleWarn = lipgloss.NewStyle().Foreground(colorRed)
	// StyleWarning colors warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// marker is the leading glyph of a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func status(m marker, body string) {
	fmt.Fprintln(stdout, m.style.Render(m.glyph)+" "+body)
}

func printSuccess(format string, args ...any) {
	status(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(markError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints one row of a descriptor listing.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints a run summary on one line, ending in whether every
// stage came from cache: "5 cards · 5-6 · 3×2 · cached".
func printStats(parts []string, cached bool) {
	tail := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		tail = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	dimmed := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		dimmed = append(dimmed, StyleDim.Render(p))
	}
	dimmed = append(dimmed, tail)
	fmt.Fprintln(stdout, "  "+strings.Join(dimmed, StyleDim.Render(" · ")))
}

// headerRow is the row index lipgloss/table passes for the header.
const headerRow = -1

// renderTable renders rows under headers with rounded borders. Row
// highlight is emphasized; pass -1 for none.
func renderTable(headers []string, rows [][]string, highlight int) string {
	base := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return base.Foreground(colorGray).Bold(true)
			case row == highlight:
				return base.Foreground(colorGreen).Bold(true)
			case col == 0:
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
