package advisor

import (
	"github.com/CodexForgeBR/crewchief/internal/garage"
)

// The shapes below are what the prompts embed as JSON. They carry only the
// fields the model needs, so a larger garage still fits in a small context.

type carData struct {
	ID              int64   `json:"id"`
	DisplayName     string  `json:"display_name"`
	Year            int     `json:"year,omitempty"`
	Make            string  `json:"make,omitempty"`
	Model           string  `json:"model,omitempty"`
	Trim            *string `json:"trim,omitempty"`
	UsageType       string  `json:"usage_type"`
	CurrentOdometer *int    `json:"current_odometer"`
	Notes           *string `json:"notes"`
}

type eventData struct {
	CarID       int64   `json:"car_id,omitempty"`
	ServiceDate string  `json:"service_date"`
	ServiceType string  `json:"service_type"`
	Description *string `json:"description"`
	Odometer    *int    `json:"odometer"`
	Parts       *string `json:"parts,omitempty"`
}

type partData struct {
	CarID      int64   `json:"car_id,omitempty"`
	Category   string  `json:"category"`
	Brand      *string `json:"brand"`
	PartNumber *string `json:"part_number"`
	SizeSpec   *string `json:"size_spec"`
}

type summaryData struct {
	TotalCars int         `json:"total_cars"`
	Cars      []carData   `json:"cars"`
	Events    []eventData `json:"maintenance_events"`
	Parts     []partData  `json:"parts_profile,omitempty"`
}

func garageData(snap garage.Snapshot) summaryData {
	d := summaryData{
		TotalCars: len(snap.Cars),
		Cars:      make([]carData, 0, len(snap.Cars)),
		Events:    make([]eventData, 0, len(snap.Events)),
	}
	for _, c := range snap.Cars {
		d.Cars = append(d.Cars, carSummary(c))
	}
	for _, ev := range snap.Events {
		e := event(ev, false)
		e.CarID = ev.CarID
		d.Events = append(d.Events, e)
	}
	for _, p := range snap.Parts {
		pd := part(p)
		pd.CarID = p.CarID
		d.Parts = append(d.Parts, pd)
	}
	return d
}

func carSummary(c garage.Car) carData {
	return carData{
		ID:              c.ID,
		DisplayName:     c.DisplayName(),
		UsageType:       string(c.UsageType),
		CurrentOdometer: c.CurrentOdometer,
		Notes:           optional(c.Notes),
	}
}

// vehicleData is the per-car context, with the full identity of the car.
func vehicleData(c garage.Car) carData {
	d := carSummary(c)
	d.Year = c.Year
	d.Make = c.Make
	d.Model = c.Model
	d.Trim = optional(c.Trim)
	return d
}

func historyData(events []garage.MaintenanceEvent, withParts bool) []eventData {
	out := make([]eventData, 0, len(events))
	for _, ev := range events {
		out = append(out, event(ev, withParts))
	}
	return out
}

func event(ev garage.MaintenanceEvent, withParts bool) eventData {
	e := eventData{
		ServiceDate: ev.ServiceDate.Format(garage.DateLayout),
		ServiceType: string(ev.ServiceType),
		Description: optional(ev.Description),
		Odometer:    ev.Odometer,
	}
	if withParts {
		e.Parts = optional(ev.Parts)
	}
	return e
}

func partsData(parts []garage.CarPart) []partData {
	out := make([]partData, 0, len(parts))
	for _, p := range parts {
		out = append(out, part(p))
	}
	return out
}

func part(p garage.CarPart) partData {
	return partData{
		Category:   string(p.Category),
		Brand:      optional(p.Brand),
		PartNumber: optional(p.PartNumber),
		SizeSpec:   optional(p.SizeSpec),
	}
}

// optional maps an empty string to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
