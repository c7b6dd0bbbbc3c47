package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

// emptyGarageHint replaces AI output when there is nothing to ask about.
const emptyGarageHint = "No cars in the garage yet. Add one with: crewchief add-car"

type carsLoadedMsg struct {
	cars []garage.Car
	err  error
}

type detailLoadedMsg struct {
	carID  int64
	events []garage.MaintenanceEvent
	parts  []garage.CarPart
	due    []garage.DueService
	err    error
}

type llmStatusMsg struct {
	err error
}

type summaryMsg struct {
	text string
	err  error
}

type suggestionsMsg struct {
	suggestions []garage.Suggestion
	err         error
}

type checklistMsg struct {
	checklist garage.Checklist
	err       error
}

func (m Model) loadCars() tea.Cmd {
	ctx, g := m.ctx, m.deps.Garage
	return func() tea.Msg {
		cars, err := g.ListCars(ctx)
		return carsLoadedMsg{cars: cars, err: err}
	}
}

func (m Model) loadDetail(car garage.Car) tea.Cmd {
	ctx, g, today := m.ctx, m.deps.Garage, m.deps.Now()
	return func() tea.Msg {
		msg := detailLoadedMsg{carID: car.ID}
		if msg.events, msg.err = g.ListEventsForCar(ctx, car.ID, 0); msg.err != nil {
			return msg
		}
		if msg.parts, msg.err = g.ListParts(ctx, car.ID); msg.err != nil {
			return msg
		}
		msg.due, msg.err = g.DueServices(ctx, car.ID, today)
		return msg
	}
}

func (m Model) checkLLM() tea.Cmd {
	ctx, p := m.ctx, m.deps.LLM
	return func() tea.Msg {
		return llmStatusMsg{err: p.CheckAvailability(ctx)}
	}
}

func (m Model) summarize() tea.Cmd {
	ctx, g, a := m.ctx, m.deps.Garage, m.deps.Advisor
	return func() tea.Msg {
		snap, err := g.Snapshot(ctx)
		if err != nil {
			return summaryMsg{err: err}
		}
		if len(snap.Cars) == 0 {
			return summaryMsg{text: emptyGarageHint}
		}
		text, err := a.Summarize(ctx, snap)
		return summaryMsg{text: text, err: err}
	}
}

// suggest asks for suggestions for every car, or only carID when non-zero.
func (m Model) suggest(carID int64) tea.Cmd {
	ctx, g, a := m.ctx, m.deps.Garage, m.deps.Advisor
	return func() tea.Msg {
		snap, err := g.Snapshot(ctx)
		if err != nil {
			return suggestionsMsg{err: err}
		}
		if carID != 0 {
			snap = snap.ForCar(carID)
		}
		return suggestionsMsg{suggestions: a.Suggest(ctx, snap)}
	}
}

func (m Model) trackPrep(car garage.Car) tea.Cmd {
	ctx, g, a := m.ctx, m.deps.Garage, m.deps.Advisor
	return func() tea.Msg {
		history, err := g.ListEventsForCar(ctx, car.ID, 0)
		if err != nil {
			return checklistMsg{err: err}
		}
		list, err := a.TrackPrep(ctx, car, history)
		return checklistMsg{checklist: list, err: err}
	}
}
