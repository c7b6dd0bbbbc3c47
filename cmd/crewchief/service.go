package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/logging"
	"github.com/CodexForgeBR/crewchief/internal/report"
	"github.com/CodexForgeBR/crewchief/internal/store"
)

func serviceCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newLogServiceCmd(a),
		newHistoryCmd(a),
		newUpdateServiceCmd(a),
		newDeleteServiceCmd(a),
		newSetIntervalCmd(a),
		newCheckDueCmd(a),
		newCostSummaryCmd(a),
		newCostCompareCmd(a),
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(garage.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

func (a *app) today() time.Time {
	t := a.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var serviceTypeHelp = "Service type (" + strings.Join(garage.Names(garage.ServiceTypes), "/") + ")"

// eventFlags holds the maintenance event fields settable from the command
// line.
type eventFlags struct {
	serviceType string
	date        string
	odometer    int
	description string
	parts       string
	cost        float64
	location    string
}

func (f *eventFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.serviceType, "type", "", serviceTypeHelp)
	flags.StringVar(&f.date, "date", "", "Service date (YYYY-MM-DD, default: today)")
	flags.IntVar(&f.odometer, "odometer", 0, "Odometer reading")
	flags.StringVar(&f.description, "description", "", "Description of work")
	flags.StringVar(&f.parts, "parts", "", "Parts used")
	flags.Float64Var(&f.cost, "cost", 0, "Cost of service")
	flags.StringVar(&f.location, "location", "", "Location (shop name or DIY)")
}

// apply copies every flag the user set onto ev and reports whether any were.
func (f *eventFlags) apply(cmd *cobra.Command, ev *garage.MaintenanceEvent) (bool, error) {
	changed := false
	set := func(name string, fn func() error) error {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		changed = true
		return fn()
	}
	err := errors.Join(
		set("type", func() (err error) {
			ev.ServiceType, err = garage.ParseServiceType(f.serviceType)
			return err
		}),
		set("date", func() (err error) {
			ev.ServiceDate, err = parseDate(f.date)
			return err
		}),
		set("odometer", func() error { v := f.odometer; ev.Odometer = &v; return nil }),
		set("description", func() error { ev.Description = f.description; return nil }),
		set("parts", func() error { ev.Parts = f.parts; return nil }),
		set("cost", func() error { v := f.cost; ev.Cost = &v; return nil }),
		set("location", func() error { ev.Location = f.location; return nil }),
	)
	return changed, err
}

func newLogServiceCmd(a *app) *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "log-service <car>",
		Short: "Log a service event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "car")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			car, err := s.GetCar(ctx, id)
			if err != nil {
				return err
			}

			ev := garage.MaintenanceEvent{CarID: id, ServiceDate: a.today()}
			if _, err := f.apply(cmd, &ev); err != nil {
				return err
			}
			if err := s.AddEvent(ctx, &ev); err != nil {
				return err
			}
			if err := s.TouchInterval(ctx, id, ev.ServiceType, ev.ServiceDate, ev.Odometer); err != nil {
				return err
			}
			if err := syncOdometer(ctx, s, &car, ev.Odometer); err != nil {
				return err
			}

			if err := a.printRelevantParts(ctx, s, id, ev.ServiceType); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Logged %s for %s (ID: %d)", ev.ServiceType.Label(), car.DisplayName(), ev.ID))
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// syncOdometer raises the car's odometer to a newer service reading and
// warns about readings below it.
func syncOdometer(ctx context.Context, s *store.Store, car *garage.Car, reading *int) error {
	if reading == nil {
		return nil
	}
	if car.CurrentOdometer != nil && *reading < *car.CurrentOdometer {
		logging.Warn(fmt.Sprintf("Service odometer (%s) is less than the car's current odometer (%s)",
			report.Miles(reading), report.Miles(car.CurrentOdometer)))
		return nil
	}
	if car.CurrentOdometer != nil && *reading == *car.CurrentOdometer {
		return nil
	}
	car.CurrentOdometer = reading
	if err := s.UpdateCar(ctx, car); err != nil {
		return err
	}
	logging.Info("Odometer updated to " + report.Miles(reading))
	return nil
}

// printRelevantParts shows the parts profile entries a service usually
// touches.
func (a *app) printRelevantParts(ctx context.Context, s *store.Store, carID int64, st garage.ServiceType) error {
	categories := garage.PartCategoriesFor(st)
	if len(categories) == 0 {
		return nil
	}
	parts, err := s.ListParts(ctx, carID)
	if err != nil {
		return err
	}
	parts = slices.DeleteFunc(parts, func(p garage.CarPart) bool {
		return !slices.Contains(categories, p.Category)
	})
	if len(parts) == 0 {
		return nil
	}
	p := a.printer()
	p.Banner("Parts from profile")
	p.Parts(parts, nil)
	return nil
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <car>",
		Short: "Show a car's maintenance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "car")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			car, err := s.GetCar(ctx, id)
			if err != nil {
				return err
			}
			events, err := s.ListEventsForCar(ctx, id, limit)
			if err != nil {
				return err
			}
			p := a.printer()
			p.Banner("Maintenance History: " + car.DisplayName())
			p.Events(events)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many events (0 for all)")
	return cmd
}

func newUpdateServiceCmd(a *app) *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "update-service <event>",
		Short: "Update a logged service event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			ev, err := s.GetEvent(ctx, id)
			if err != nil {
				return err
			}
			changed, err := f.apply(cmd, &ev)
			if err != nil {
				return err
			}
			if !changed {
				logging.Warn("No fields specified to update. Use --help to see available options")
				return nil
			}
			if err := s.UpdateEvent(ctx, &ev); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Updated service %d", ev.ID))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeleteServiceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-service <event>",
		Short: "Delete a logged service event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event")
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.DeleteEvent(cmd.Context(), id); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Deleted service %d", id))
			return nil
		},
	}
}

func newSetIntervalCmd(a *app) *cobra.Command {
	var (
		serviceType  string
		miles        int
		months       int
		lastDate     string
		lastOdometer int
		notes        string
	)
	cmd := &cobra.Command{
		Use:   "set-interval <car>",
		Short: "Set a service interval",
		Long:  "Set how often a service is due, in miles, months or both. Setting an interval again replaces it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "car")
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("miles") && !flags.Changed("months") {
				return errors.New("set at least one interval with --miles or --months")
			}

			iv := garage.MaintenanceInterval{CarID: id, Notes: notes}
			if iv.ServiceType, err = garage.ParseServiceType(serviceType); err != nil {
				return err
			}
			if flags.Changed("miles") {
				iv.IntervalMiles = &miles
			}
			if flags.Changed("months") {
				iv.IntervalMonths = &months
			}
			if flags.Changed("last-date") {
				d, err := parseDate(lastDate)
				if err != nil {
					return err
				}
				iv.LastServiceDate = &d
			}
			if flags.Changed("last-odometer") {
				iv.LastServiceOdometer = &lastOdometer
			}

			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if err := s.SetInterval(ctx, &iv); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("%s interval set for car %d", iv.ServiceType.Label(), id))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&serviceType, "type", "", serviceTypeHelp)
	flags.IntVar(&miles, "miles", 0, "Interval in miles")
	flags.IntVar(&months, "months", 0, "Interval in months")
	flags.StringVar(&lastDate, "last-date", "", "Date of the last service (YYYY-MM-DD)")
	flags.IntVar(&lastOdometer, "last-odometer", 0, "Odometer at the last service")
	flags.StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newCheckDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-due [car]",
		Short: "Show services that are due",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args, "car")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			var cars []garage.Car
			if id != 0 {
				car, err := s.GetCar(ctx, id)
				if err != nil {
					return err
				}
				cars = []garage.Car{car}
			} else if cars, err = s.ListCars(ctx); err != nil {
				return err
			}

			p := a.printer()
			if len(cars) == 0 {
				p.Empty("No cars in the garage yet. Add one with: crewchief add-car")
				return nil
			}
			today := a.today()
			for _, car := range cars {
				due, err := s.DueServices(ctx, car.ID, today)
				if err != nil {
					return err
				}
				p.Due(car, due)
			}
			return nil
		},
	}
}

func newCostSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cost-summary [car]",
		Short: "Show maintenance costs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args, "car")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if id != 0 {
				return a.carCosts(ctx, s, id)
			}

			sums, err := s.MaintenanceCosts(ctx, 0)
			if err != nil {
				return err
			}
			cars, err := s.ListCars(ctx)
			if err != nil {
				return err
			}
			a.printer().GarageCosts(sums, carLabels(cars))
			return nil
		},
	}
}

func newCostCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cost-compare",
		Short: "Compare maintenance costs across cars",
		Long:  "Compare total cost, services, average per service, cost per mile and miles driven for every car, most expensive first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			cars, err := s.ListCars(ctx)
			if err != nil {
				return err
			}
			sums, err := s.MaintenanceCosts(ctx, 0)
			if err != nil {
				return err
			}
			perMile := make(map[int64]garage.CostPerMile, len(cars))
			for _, car := range cars {
				if perMile[car.ID], err = s.CostPerMile(ctx, car.ID); err != nil {
					return err
				}
			}
			a.printer().CostComparison(garage.CompareCosts(cars, sums, perMile))
			return nil
		},
	}
}

func (a *app) carCosts(ctx context.Context, s *store.Store, id int64) error {
	car, err := s.GetCar(ctx, id)
	if err != nil {
		return err
	}
	sums, err := s.MaintenanceCosts(ctx, id)
	if err != nil {
		return err
	}
	cpm, err := s.CostPerMile(ctx, id)
	if err != nil {
		return err
	}
	var sum garage.CostSummary
	if len(sums) > 0 {
		sum = sums[0]
	}
	a.printer().CarCosts(car, sum, cpm)
	return nil
}

func carLabels(cars []garage.Car) map[int64]string {
	labels := make(map[int64]string, len(cars))
	for _, c := range cars {
		labels[c.ID] = c.DisplayName()
	}
	return labels
}
