// Package tui is the interactive terminal UI: a garage table, a per-car
// detail view and an AI panel, built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

// Garage is the part of the store the UI reads from.
type Garage interface {
	ListCars(ctx context.Context) ([]garage.Car, error)
	ListEventsForCar(ctx context.Context, carID int64, limit int) ([]garage.MaintenanceEvent, error)
	ListParts(ctx context.Context, carID int64) ([]garage.CarPart, error)
	DueServices(ctx context.Context, carID int64, today time.Time) ([]garage.DueService, error)
	Snapshot(ctx context.Context) (garage.Snapshot, error)
}

// Advisor produces the AI panel content.
type Advisor interface {
	Summarize(ctx context.Context, snap garage.Snapshot) (string, error)
	Suggest(ctx context.Context, snap garage.Snapshot) []garage.Suggestion
	TrackPrep(ctx context.Context, car garage.Car, history []garage.MaintenanceEvent) (garage.Checklist, error)
}

// Pinger reports whether the LLM endpoint is reachable.
type Pinger interface {
	CheckAvailability(ctx context.Context) error
}

// Deps wires the UI to the rest of the application. Advisor and LLM are nil
// when AI features are disabled.
type Deps struct {
	Garage  Garage
	Advisor Advisor
	LLM     Pinger
	Now     func() time.Time
}

// ErrAIDisabled is shown in the panel when an AI key is pressed without an
// advisor.
var ErrAIDisabled = errors.New("AI features are disabled (--no-llm or LLM_ENABLED=false)")

// ViewMode is the screen currently shown.
type ViewMode int

const (
	GarageView ViewMode = iota
	DetailView
)

type llmState int

const (
	llmChecking llmState = iota
	llmOnline
	llmOffline
	llmDisabled
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	tableHeight   = 10
	chromeHeight  = 4
)

// Model is the Bubble Tea model for the whole UI.
type Model struct {
	ctx    context.Context
	deps   Deps
	styles Styles

	width  int
	height int
	mode   ViewMode

	table   table.Model
	detail  viewport.Model
	spinner spinner.Model

	cars    []garage.Car
	loadErr error

	// Detail view data for the car in current.
	current garage.Car
	events  []garage.MaintenanceEvent
	parts   []garage.CarPart
	due     []garage.DueService

	llm    llmState
	llmErr error

	// busy names the AI request in flight; empty when idle.
	busy     string
	lastAI   string
	panel    string
	panelErr error
}

// New creates the UI model. ctx bounds every store and AI call it makes.
func New(ctx context.Context, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	styles := DefaultStyles()

	t := table.New(
		table.WithColumns(garageColumns(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
		table.WithStyles(styles.TableSet),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Online

	llm := llmChecking
	if deps.LLM == nil || deps.Advisor == nil {
		llm = llmDisabled
	}

	return Model{
		ctx:     ctx,
		deps:    deps,
		styles:  styles,
		width:   defaultWidth,
		height:  defaultHeight,
		mode:    GarageView,
		table:   t,
		detail:  viewport.New(defaultWidth, defaultHeight-chromeHeight),
		spinner: sp,
		llm:     llm,
	}
}

// Init loads the garage and probes the LLM endpoint.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCars()}
	if m.llm == llmChecking {
		cmds = append(cmds, m.checkLLM())
	}
	return tea.Batch(cmds...)
}

// Mode returns the screen currently shown.
func (m Model) Mode() ViewMode {
	return m.mode
}

func garageColumns(width int) []table.Column {
	name := width - 6 - 10 - 14 - 12 - 10
	if name < 20 {
		name = 20
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Car", Width: name},
		{Title: "Usage", Width: 10},
		{Title: "Odometer", Width: 14},
		{Title: "VIN", Width: 12},
	}
}

func (m *Model) setCars(cars []garage.Car) {
	m.cars = cars
	rows := make([]table.Row, 0, len(cars))
	for _, c := range cars {
		rows = append(rows, carRow(c))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selectedCar() (garage.Car, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.cars) {
		return garage.Car{}, false
	}
	return m.cars[i], true
}
