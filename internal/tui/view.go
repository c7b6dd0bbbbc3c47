package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/report"
)

const (
	garageHelp = "↑/↓ select • enter details • s summary • g suggestions • r reload • q quit"
	detailHelp = "↑/↓ scroll • g suggestions • t track prep • r reload • esc back • q quit"
)

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.mode == DetailView {
		b.WriteString(m.detail.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(detailHelp))
		return b.String()
	}

	switch {
	case m.loadErr != nil:
		b.WriteString(m.styles.Error.Render("✗ Could not load garage: " + m.loadErr.Error()))
	case len(m.cars) == 0:
		b.WriteString(m.styles.Muted.Render(emptyGarageHint))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if panel := m.panelContent(); panel != "" {
		b.WriteString(m.styles.Panel.Width(max(m.width-2, 20)).Render(panel))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(garageHelp))
	return b.String()
}

func (m Model) header() string {
	title := m.styles.Title.Render("crewchief")
	count := m.styles.Status.Render(fmt.Sprintf("%d car(s)", len(m.cars)))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", count, "  ", m.llmBadge())
}

func (m Model) llmBadge() string {
	switch m.llm {
	case llmOnline:
		return m.styles.Online.Render("● LLM online")
	case llmOffline:
		return m.styles.Offline.Render("● LLM offline")
	case llmDisabled:
		return m.styles.Muted.Render("○ AI disabled")
	}
	return m.styles.Muted.Render("○ checking LLM…")
}

// panelContent is the AI panel: a spinner while a request runs, the inline
// error of the last one, or its rendered result.
func (m Model) panelContent() string {
	switch {
	case m.busy != "":
		return m.spinner.View() + " " + m.busy + "…"
	case m.panelErr != nil:
		return m.styles.Error.Render("✗ "+m.lastAI+" failed") + "\n" + m.panelErr.Error()
	}
	return m.panel
}

func (m Model) detailContent() string {
	var b strings.Builder
	p := report.New(&b).WithWidth(m.contentWidth())

	if m.loadErr != nil {
		p.Failure("Could not load "+m.current.DisplayName(), m.loadErr)
	}
	p.Car(m.current, m.events)
	p.Banner("Parts")
	p.Parts(m.parts, nil)
	p.Due(m.current, m.due)

	if panel := m.panelContent(); panel != "" {
		b.WriteString("\n")
		b.WriteString(panel)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) contentWidth() int {
	return max(m.width-4, 20)
}

func (m Model) renderSummary(text string) string {
	var b strings.Builder
	report.New(&b).WithWidth(m.contentWidth()).Summary(text)
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSuggestions(s []garage.Suggestion) string {
	var b strings.Builder
	report.New(&b).Suggestions(s)
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderChecklist(c garage.Checklist) string {
	var b strings.Builder
	report.New(&b).Checklist(c)
	return strings.TrimRight(b.String(), "\n")
}
