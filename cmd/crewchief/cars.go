package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/logging"
)

const recentEvents = 5

func carCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(a),
		newAddCarCmd(a),
		newListCarsCmd(a),
		newShowCarCmd(a),
		newUpdateCarCmd(a),
		newRemoveCarCmd(a),
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			logging.Success("Garage database ready at " + s.Path())
			return nil
		},
	}
}

// carFlags holds the car fields settable from the command line.
type carFlags struct {
	nickname string
	year     int
	make     string
	model    string
	trim     string
	vin      string
	usage    string
	odometer int
	notes    string
}

func (f *carFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.nickname, "nickname", "", "Nickname for the car")
	flags.IntVar(&f.year, "year", 0, "Model year")
	flags.StringVar(&f.make, "make", "", "Make, e.g. Mazda")
	flags.StringVar(&f.model, "model", "", "Model, e.g. Miata")
	flags.StringVar(&f.trim, "trim", "", "Trim level")
	flags.StringVar(&f.vin, "vin", "", "VIN")
	flags.StringVar(&f.usage, "usage", string(garage.UsageDaily), "Usage type ("+strings.Join(garage.Names(garage.UsageTypes), "/")+")")
	flags.IntVar(&f.odometer, "odometer", 0, "Current odometer reading")
	flags.StringVar(&f.notes, "notes", "", "Additional notes")
}

// apply copies every flag the user set onto car and reports whether any
// were.
func (f *carFlags) apply(cmd *cobra.Command, car *garage.Car) (bool, error) {
	changed := false
	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
			changed = true
		}
	}
	set("nickname", func() { car.Nickname = f.nickname })
	set("year", func() { car.Year = f.year })
	set("make", func() { car.Make = f.make })
	set("model", func() { car.Model = f.model })
	set("trim", func() { car.Trim = f.trim })
	set("vin", func() { car.VIN = f.vin })
	set("odometer", func() { v := f.odometer; car.CurrentOdometer = &v })
	set("notes", func() { car.Notes = f.notes })

	if cmd.Flags().Changed("usage") {
		usage, err := garage.ParseUsageType(f.usage)
		if err != nil {
			return false, err
		}
		car.UsageType = usage
		changed = true
	}
	return changed, nil
}

func newAddCarCmd(a *app) *cobra.Command {
	var f carFlags
	cmd := &cobra.Command{
		Use:   "add-car",
		Short: "Add a car to the garage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			car := garage.Car{UsageType: garage.UsageDaily}
			if _, err := f.apply(cmd, &car); err != nil {
				return err
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.AddCar(cmd.Context(), &car); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Added %s (ID: %d)", car.DisplayName(), car.ID))
			return nil
		},
	}
	f.bind(cmd)
	for _, name := range []string{"year", "make", "model"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newListCarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-cars",
		Short: "List every car",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			cars, err := s.ListCars(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer()
			p.Banner("Garage")
			p.Cars(cars)
			return nil
		},
	}
}

func newShowCarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show-car <car>",
		Short: "Show a car and its recent maintenance",
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
			recent, err := s.ListEventsForCar(ctx, id, recentEvents)
			if err != nil {
				return err
			}
			intervals, err := s.ListIntervals(ctx, id)
			if err != nil {
				return err
			}

			p := a.printer()
			p.Car(car, recent)
			if len(intervals) > 0 {
				p.Banner("Service Intervals")
				p.Intervals(intervals)
			}
			return nil
		},
	}
}

func newUpdateCarCmd(a *app) *cobra.Command {
	var f carFlags
	cmd := &cobra.Command{
		Use:   "update-car <car>",
		Short: "Update a car's details",
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

			changed, err := f.apply(cmd, &car)
			if err != nil {
				return err
			}
			if !changed {
				logging.Warn("No fields specified to update. Use --help to see available options")
				return nil
			}
			if err := s.UpdateCar(ctx, &car); err != nil {
				return err
			}
			logging.Success("Updated " + car.DisplayName())
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newRemoveCarCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remove-car <car>",
		Short: "Remove a car",
		Long:  "Remove a car and its service intervals. Cars with logged services or parts are kept unless --force is given, which deletes that history too.",
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
			if err := s.DeleteCar(ctx, id, force); err != nil {
				return err
			}
			logging.Success("Removed " + car.DisplayName())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Also delete the car's services and parts")
	return cmd
}
