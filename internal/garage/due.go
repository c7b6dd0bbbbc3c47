package garage

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	dueSoonMiles  = 500
	dueSoonMonths = 1
)

// DueService is the state of one maintenance interval on a given day.
type DueService struct {
	Interval       MaintenanceInterval `json:"interval"`
	IsDue          bool                `json:"is_due"`
	MilesUntilDue  *int                `json:"miles_until_due,omitempty"`
	MonthsUntilDue *int                `json:"months_until_due,omitempty"`
	Reason         string              `json:"reason,omitempty"`
}

// ComputeDue evaluates an interval against the car's odometer and today.
//
// A service is due when it is overdue or within 500 miles or one month of
// its interval. Mileage is only checked when the car's odometer and the
// last service odometer are both known; time only when the last service
// date is known.
func ComputeDue(iv MaintenanceInterval, currentOdometer *int, today time.Time) DueService {
	d := DueService{Interval: iv}

	if iv.IntervalMiles != nil && *iv.IntervalMiles > 0 &&
		currentOdometer != nil && *currentOdometer > 0 && iv.LastServiceOdometer != nil {
		since := *currentOdometer - *iv.LastServiceOdometer
		until := *iv.IntervalMiles - since
		d.MilesUntilDue = &until

		switch {
		case since >= *iv.IntervalMiles:
			d.IsDue = true
			d.Reason = fmt.Sprintf("Overdue by %s miles", humanize.Comma(int64(since-*iv.IntervalMiles)))
		case until <= dueSoonMiles:
			d.IsDue = true
			d.Reason = fmt.Sprintf("Due soon (%s miles remaining)", humanize.Comma(int64(until)))
		}
	}

	if iv.IntervalMonths != nil && *iv.IntervalMonths > 0 && iv.LastServiceDate != nil {
		since := monthsBetween(*iv.LastServiceDate, today)
		until := *iv.IntervalMonths - since
		d.MonthsUntilDue = &until

		switch {
		case since >= *iv.IntervalMonths:
			over := since - *iv.IntervalMonths
			if d.Reason != "" {
				d.Reason += fmt.Sprintf(" and %d months", over)
			} else {
				d.Reason = fmt.Sprintf("Overdue by %d months", over)
			}
			d.IsDue = true
		case until <= dueSoonMonths && !d.IsDue:
			d.IsDue = true
			d.Reason = fmt.Sprintf("Due soon (%d month(s) remaining)", until)
		}
	}

	return d
}

// monthsBetween counts calendar month boundaries from a to b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
