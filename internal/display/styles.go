// Package display renders schedules in the terminal: a static timeline for
// plain output and a Bubble Tea viewer for walking through the steps.
package display

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
)

// ── Styles (soft palette) ────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Bold(true)

	// Secondary text: dimmed zinc for rulers, hints, metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	trackLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Bold(true)

	savedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Strikethrough(true)
)

// palette maps a track's color role to its bar colour.
var palette = map[string]lipgloss.Color{
	"primary":   lipgloss.Color("#bbf7d0"), // mint
	"warning":   lipgloss.Color("#fde68a"), // amber
	"secondary": lipgloss.Color("#bae6fd"), // sky
	"muted":     lipgloss.Color("#a1a1aa"),
}

// passiveBg is a paler amber so waiting time reads differently from active
// cooking on the shared track.
var passiveBg = lipgloss.Color("#fef3c7")

var barFg = lipgloss.Color("#18181b")

// TermWidth returns the current terminal column count, or 80 as fallback.
func TermWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#bae6fd")).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(lipgloss.Color("#a1a1aa"))
	evenStyle := cellStyle

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#52525b"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}
