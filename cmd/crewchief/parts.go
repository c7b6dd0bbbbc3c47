package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/logging"
)

func partCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newAddPartCmd(a),
		newListPartsCmd(a),
		newUpdatePartCmd(a),
		newDeletePartCmd(a),
	}
}

// partFlags holds the part fields settable from the command line.
type partFlags struct {
	category   string
	brand      string
	partNumber string
	size       string
	notes      string
}

func (f *partFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.category, "category", "", "Part category ("+strings.Join(garage.Names(garage.PartCategories), "/")+")")
	flags.StringVar(&f.brand, "brand", "", "Brand")
	flags.StringVar(&f.partNumber, "part-number", "", "Part number")
	flags.StringVar(&f.size, "size", "", "Size or spec, e.g. 205/50R15 or 5W-30")
	flags.StringVar(&f.notes, "notes", "", "Notes")
}

func (f *partFlags) apply(cmd *cobra.Command, p *garage.CarPart) (bool, error) {
	flags := cmd.Flags()
	changed := false
	if flags.Changed("category") {
		c, err := garage.ParsePartCategory(f.category)
		if err != nil {
			return false, err
		}
		p.Category = c
		changed = true
	}
	for name, fn := range map[string]func(){
		"brand":       func() { p.Brand = f.brand },
		"part-number": func() { p.PartNumber = f.partNumber },
		"size":        func() { p.SizeSpec = f.size },
		"notes":       func() { p.Notes = f.notes },
	} {
		if flags.Changed(name) {
			fn()
			changed = true
		}
	}
	return changed, nil
}

func newAddPartCmd(a *app) *cobra.Command {
	var f partFlags
	cmd := &cobra.Command{
		Use:   "add-part <car>",
		Short: "Record a part fitted to a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "car")
			if err != nil {
				return err
			}
			part := garage.CarPart{CarID: id}
			if _, err := f.apply(cmd, &part); err != nil {
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
			if err := s.AddPart(ctx, &part); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Added %s part to %s (ID: %d)", part.Category, car.DisplayName(), part.ID))
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newListPartsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-parts [car]",
		Short: "List recorded parts",
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

			p := a.printer()
			if id != 0 {
				car, err := s.GetCar(ctx, id)
				if err != nil {
					return err
				}
				parts, err := s.ListParts(ctx, id)
				if err != nil {
					return err
				}
				p.Banner("Parts Profile: " + car.DisplayName())
				p.Parts(parts, nil)
				return nil
			}

			parts, err := s.ListParts(ctx, 0)
			if err != nil {
				return err
			}
			cars, err := s.ListCars(ctx)
			if err != nil {
				return err
			}
			p.Banner("Parts Profile")
			p.Parts(parts, carLabels(cars))
			return nil
		},
	}
}

func newUpdatePartCmd(a *app) *cobra.Command {
	var f partFlags
	cmd := &cobra.Command{
		Use:   "update-part <part>",
		Short: "Update a recorded part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			part, err := s.GetPart(ctx, id)
			if err != nil {
				return err
			}
			changed, err := f.apply(cmd, &part)
			if err != nil {
				return err
			}
			if !changed {
				logging.Warn("No fields specified to update. Use --help to see available options")
				return nil
			}
			if err := s.UpdatePart(ctx, &part); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Updated part %d", part.ID))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeletePartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-part <part>",
		Short: "Delete a recorded part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.DeletePart(cmd.Context(), id); err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("Deleted part %d", id))
			return nil
		},
	}
}
