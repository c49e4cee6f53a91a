// Package report renders the human-readable run summary.
package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/payledger/internal/ledger"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}

	headerStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	alertStyle = valueStyle.
			Foreground(warning)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)
)

// Render returns the summary block for a finished run.
func Render(stats ledger.Stats) string {
	rejected := valueStyle
	if stats.Rejected > 0 {
		rejected = alertStyle
	}
	locked := valueStyle
	if stats.Locked > 0 {
		locked = alertStyle
	}

	rows := []string{
		headerStyle.Render("LEDGER REPLAY"),
		row("clients", stats.Clients, valueStyle),
		row("applied", stats.Applied, valueStyle),
		row("rejected", stats.Rejected, rejected),
		row("locked", stats.Locked, locked),
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label string, value int, style lipgloss.Style) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), style.Render(fmt.Sprint(value)))
}
