package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CodexForgeBR/crewchief/internal/ai"
	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/report"
)

const (
	aiSummary     = "Summarizing garage"
	aiSuggestions = "Suggesting maintenance"
	aiTrackPrep   = "Building track day checklist"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case carsLoadedMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.setCars(msg.cars)
		}
		return m, nil

	case detailLoadedMsg:
		// A reply for a car we already navigated away from.
		if m.mode != DetailView || msg.carID != m.current.ID {
			return m, nil
		}
		m.loadErr = msg.err
		m.events, m.parts, m.due = msg.events, msg.parts, msg.due
		m.refreshDetail()
		return m, nil

	case llmStatusMsg:
		m.setLLMStatus(msg.err)
		return m, nil

	case summaryMsg:
		if msg.err == nil {
			m.panel = m.renderSummary(msg.text)
		}
		m.finishAI(msg.err)
		return m, nil

	case suggestionsMsg:
		if msg.err == nil {
			m.panel = m.renderSuggestions(msg.suggestions)
		}
		m.finishAI(msg.err)
		return m, nil

	case checklistMsg:
		if msg.err == nil {
			m.panel = m.renderChecklist(msg.checklist)
		}
		m.finishAI(msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshDetail()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	if m.mode == DetailView {
		return m.handleDetailKey(msg)
	}
	return m.handleGarageKey(msg)
}

func (m Model) handleGarageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		car, ok := m.selectedCar()
		if !ok {
			return m, nil
		}
		m.mode = DetailView
		m.current = car
		m.events, m.parts, m.due = nil, nil, nil
		m.loadErr = nil
		m.detail.GotoTop()
		m.refreshDetail()
		return m, m.loadDetail(car)
	case "r":
		cmds := []tea.Cmd{m.loadCars()}
		if m.llm != llmDisabled {
			m.llm = llmChecking
			cmds = append(cmds, m.checkLLM())
		}
		return m, tea.Batch(cmds...)
	case "s":
		return m.startAI(aiSummary, m.summarize)
	case "g":
		return m.startAI(aiSuggestions, func() tea.Cmd { return m.suggest(0) })
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = GarageView
		m.loadErr = nil
		return m, nil
	case "r":
		return m, m.loadDetail(m.current)
	case "g":
		id := m.current.ID
		return m.startAI(aiSuggestions, func() tea.Cmd { return m.suggest(id) })
	case "t":
		car := m.current
		return m.startAI(aiTrackPrep, func() tea.Cmd { return m.trackPrep(car) })
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// startAI runs one AI request at a time; keys pressed while one is in
// flight are ignored.
func (m Model) startAI(label string, request func() tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	m.lastAI = label
	m.panel = ""
	if m.deps.Advisor == nil {
		m.panelErr = ErrAIDisabled
		m.refreshDetail()
		return m, nil
	}
	m.busy = label
	m.panelErr = nil
	m.refreshDetail()
	return m, tea.Batch(request(), m.spinner.Tick)
}

func (m *Model) finishAI(err error) {
	m.busy = ""
	m.panelErr = err
	if ai.IsUnavailable(err) {
		m.setLLMStatus(err)
	}
	m.refreshDetail()
}

func (m *Model) setLLMStatus(err error) {
	if m.llm == llmDisabled {
		return
	}
	m.llmErr = err
	if err != nil {
		m.llm = llmOffline
		return
	}
	m.llm = llmOnline
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width, m.height = width, height
	m.table.SetColumns(garageColumns(width))
	m.table.SetHeight(min(tableHeight, max(height/2, 3)))
	m.detail.Width = width
	m.detail.Height = max(height-chromeHeight, 1)
	m.refreshDetail()
}

// refreshDetail re-renders the detail viewport, which also carries the AI
// panel while a car is open.
func (m *Model) refreshDetail() {
	if m.mode != DetailView {
		return
	}
	m.detail.SetContent(m.detailContent())
}

// carRow is one line of the garage table.
func carRow(c garage.Car) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.DisplayName(),
		string(c.UsageType),
		report.Miles(c.CurrentOdometer),
		c.VIN,
	}
}
