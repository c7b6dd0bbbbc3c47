package report

import (
	"fmt"
	"strconv"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/dustin/go-humanize"
)

// Cars prints the garage as a table.
func (p *Printer) Cars(cars []garage.Car) {
	if len(cars) == 0 {
		p.Empty("No cars in the garage yet. Add one with: crewchief add-car")
		return
	}
	rows := make([][]string, 0, len(cars))
	for _, c := range cars {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.DisplayName(),
			string(c.UsageType),
			Miles(c.CurrentOdometer),
		})
	}
	p.table([]string{"ID", "Car", "Usage", "Odometer"}, rows, 0, 3)
}

// Car prints one car's details followed by its most recent events.
func (p *Printer) Car(car garage.Car, recent []garage.MaintenanceEvent) {
	p.println(headerColor(car.DisplayName()) + " " + dimColor(fmt.Sprintf("(ID: %d)", car.ID)))
	p.field("Year", strconv.Itoa(car.Year))
	p.field("Make", car.Make)
	p.field("Model", car.Model)
	p.field("Trim", car.Trim)
	p.field("VIN", car.VIN)
	p.field("Usage", string(car.UsageType))
	if car.CurrentOdometer != nil {
		p.field("Odometer", Miles(car.CurrentOdometer))
	}
	p.field("Notes", car.Notes)

	p.println()
	if len(recent) == 0 {
		p.Empty("No maintenance history recorded")
		return
	}
	p.println(headerColor(fmt.Sprintf("Recent Maintenance (last %d events)", len(recent))))
	for _, ev := range recent {
		p.printf("  %s - %s\n", labelColor(ev.ServiceDate.Format(garage.DateLayout)), ev.ServiceType.Label())
		if ev.Description != "" {
			p.printf("    %s\n", ev.Description)
		}
	}
}

// Events prints maintenance history, newest first.
func (p *Printer) Events(events []garage.MaintenanceEvent) {
	if len(events) == 0 {
		p.Empty("No maintenance history recorded")
		return
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		cost := "-"
		if ev.Cost != nil {
			cost = Money(*ev.Cost)
		}
		rows = append(rows, []string{
			strconv.FormatInt(ev.ID, 10),
			ev.ServiceDate.Format(garage.DateLayout),
			ev.ServiceType.Label(),
			Miles(ev.Odometer),
			cost,
			ev.Description,
		})
	}
	p.table([]string{"ID", "Date", "Service", "Odometer", "Cost", "Description"}, rows, 0, 3, 4)
}

// Parts prints a parts profile. labels maps car ids to display names and
// may be nil when the parts belong to one car.
func (p *Printer) Parts(parts []garage.CarPart, labels map[int64]string) {
	if len(parts) == 0 {
		p.Empty("No parts recorded")
		return
	}
	headers := []string{"ID", "Category", "Brand", "Part Number", "Size/Spec", "Notes"}
	if labels != nil {
		headers = append([]string{"Car"}, headers...)
	}
	rows := make([][]string, 0, len(parts))
	for _, part := range parts {
		row := []string{
			strconv.FormatInt(part.ID, 10),
			string(part.Category),
			part.Brand,
			part.PartNumber,
			part.SizeSpec,
			part.Notes,
		}
		if labels != nil {
			row = append([]string{carLabel(labels, part.CarID)}, row...)
		}
		rows = append(rows, row)
	}
	p.table(headers, rows)
}

// CarCosts prints the cost breakdown of a single car.
func (p *Printer) CarCosts(car garage.Car, sum garage.CostSummary, cpm garage.CostPerMile) {
	p.Banner("Cost Summary: " + car.DisplayName())
	if sum.Count == 0 {
		p.Empty("No maintenance records with costs found")
		return
	}
	p.field("Total", Money(sum.Total))
	p.field("Services", strconv.Itoa(sum.Count))
	p.field("Miles", humanizeInt(cpm.TotalMiles))
	if cpm.CostPerMile > 0 {
		p.field("Per mile", fmt.Sprintf("$%.2f", cpm.CostPerMile))
	}
	if len(sum.ByType) == 0 {
		return
	}
	p.println()
	rows := make([][]string, 0, len(sum.ByType))
	for _, t := range sum.ByType {
		rows = append(rows, []string{
			t.ServiceType.Label(),
			strconv.Itoa(t.Count),
			Money(t.Total),
			Money(t.Average),
			Money(t.Min),
			Money(t.Max),
		})
	}
	p.table([]string{"Service Type", "Count", "Total", "Avg", "Min", "Max"}, rows, 1, 2, 3, 4, 5)
}

// GarageCosts prints one row per car plus a grand total.
func (p *Printer) GarageCosts(sums []garage.CostSummary, labels map[int64]string) {
	if len(sums) == 0 {
		p.Empty("No maintenance records with costs found")
		return
	}
	p.Banner("Maintenance Costs by Car")
	var total float64
	rows := make([][]string, 0, len(sums)+1)
	for _, s := range sums {
		avg := 0.0
		if s.Count > 0 {
			avg = s.Total / float64(s.Count)
		}
		total += s.Total
		rows = append(rows, []string{carLabel(labels, s.CarID), Money(s.Total), strconv.Itoa(s.Count), Money(avg)})
	}
	rows = append(rows, []string{"Total", Money(total), "", ""})
	p.table([]string{"Car", "Total Cost", "Services", "Avg per Service"}, rows, 1, 2, 3)
}

// CostComparison prints every car's spend side by side, most expensive
// first, followed by garage averages.
func (p *Printer) CostComparison(rows []garage.CarCost) {
	if len(rows) == 0 {
		p.Empty("No cars in the garage yet. Add one with: crewchief add-car")
		return
	}
	p.Banner("Cost Comparison")
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		perMile, miles := "-", "-"
		if r.CostPerMile > 0 {
			perMile = fmt.Sprintf("$%.2f", r.CostPerMile)
		}
		if r.Miles > 0 {
			miles = humanizeInt(r.Miles)
		}
		out = append(out, []string{
			r.Car.DisplayName(),
			Money(r.Total),
			strconv.Itoa(r.Count),
			Money(r.PerService),
			perMile,
			miles,
		})
	}
	p.table([]string{"Car", "Total Cost", "Services", "Avg/Service", "Cost/Mile", "Miles"}, out, 1, 2, 3, 4, 5)

	perCar, perService := garage.CostAverages(rows)
	p.println()
	p.println(headerColor("Averages"))
	p.field("Per car", Money(perCar))
	p.field("Per service", Money(perService))
}

// Intervals prints a car's configured service intervals.
func (p *Printer) Intervals(intervals []garage.MaintenanceInterval) {
	if len(intervals) == 0 {
		p.Empty("No service intervals set. Add one with: crewchief set-interval")
		return
	}
	rows := make([][]string, 0, len(intervals))
	for _, iv := range intervals {
		last := "-"
		if iv.LastServiceDate != nil {
			last = iv.LastServiceDate.Format(garage.DateLayout)
		}
		rows = append(rows, []string{iv.ServiceType.Label(), every(iv), last, Miles(iv.LastServiceOdometer)})
	}
	p.table([]string{"Service", "Every", "Last Date", "Last Odometer"}, rows, 3)
}

// Due prints the due-service report of one car. Services that are due are
// highlighted.
func (p *Printer) Due(car garage.Car, due []garage.DueService) {
	p.Banner("Service Check: " + car.DisplayName())
	if len(due) == 0 {
		p.Empty("No service intervals set. Add one with: crewchief set-interval")
		return
	}
	dueCount := 0
	for _, d := range due {
		label := d.Interval.ServiceType.Label()
		if d.IsDue {
			dueCount++
			p.printf("  %s %s: %s\n", errorColor("✗"), label, d.Reason)
			continue
		}
		p.printf("  %s %s: %s\n", successColor("✓"), label, okReason(d))
	}
	p.println()
	if dueCount == 0 {
		p.Success("No services due")
		return
	}
	p.Warn(fmt.Sprintf("%d service(s) due", dueCount))
}

func okReason(d garage.DueService) string {
	switch {
	case d.MilesUntilDue != nil && d.MonthsUntilDue != nil:
		return fmt.Sprintf("%s miles or %d months remaining", humanizeInt(*d.MilesUntilDue), *d.MonthsUntilDue)
	case d.MilesUntilDue != nil:
		return humanizeInt(*d.MilesUntilDue) + " miles remaining"
	case d.MonthsUntilDue != nil:
		return fmt.Sprintf("%d months remaining", *d.MonthsUntilDue)
	}
	return "no service recorded yet"
}

func every(iv garage.MaintenanceInterval) string {
	switch {
	case iv.IntervalMiles != nil && iv.IntervalMonths != nil:
		return fmt.Sprintf("%s mi / %d mo", humanizeInt(*iv.IntervalMiles), *iv.IntervalMonths)
	case iv.IntervalMiles != nil:
		return humanizeInt(*iv.IntervalMiles) + " mi"
	case iv.IntervalMonths != nil:
		return fmt.Sprintf("%d mo", *iv.IntervalMonths)
	}
	return "-"
}

func carLabel(labels map[int64]string, id int64) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return fmt.Sprintf("Car %d", id)
}

func humanizeInt(v int) string {
	return humanize.Comma(int64(v))
}
