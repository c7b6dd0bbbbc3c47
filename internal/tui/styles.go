package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7685")
	border      = lipgloss.Color("#2a3850")
)

// Styles holds the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Status   lipgloss.Style
	Online   lipgloss.Style
	Offline  lipgloss.Style
	Panel    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Muted    lipgloss.Style
	TableSet table.Styles
}

// DefaultStyles returns the crewchief palette.
func DefaultStyles() Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#101F38")).
		Background(accent).
		Bold(false)

	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		Status:  lipgloss.NewStyle().Foreground(muted),
		Online:  lipgloss.NewStyle().Foreground(accent),
		Offline: lipgloss.NewStyle().Foreground(destructive),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Error:    lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(muted),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		TableSet: ts,
	}
}
