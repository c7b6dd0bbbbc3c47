package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/logging"
	"github.com/CodexForgeBR/crewchief/internal/store"
)

func adviceCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newSummaryCmd(a),
		newSuggestCmd(a),
		newTrackPrepCmd(a),
	}
}

// snapshot loads the garage, narrowed to one car when id is non-zero.
func snapshot(ctx context.Context, s *store.Store, id int64) (garage.Snapshot, error) {
	if id != 0 {
		if _, err := s.GetCar(ctx, id); err != nil {
			return garage.Snapshot{}, err
		}
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return snap, err
	}
	if id != 0 {
		snap = snap.ForCar(id)
	}
	return snap, nil
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [car]",
		Short: "Summarize the garage, or one car",
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
			snap, err := snapshot(ctx, s, id)
			if err != nil {
				return err
			}
			if len(snap.Cars) == 0 {
				a.printer().Empty("No cars in the garage yet. Add one with: crewchief add-car")
				return nil
			}

			adv, err := a.newAdvisor()
			if err != nil {
				return err
			}
			logging.Info("Generating summary...")
			text, err := adv.Summarize(ctx, snap)
			if err != nil {
				return err
			}
			a.printer().Summary(text)
			return nil
		},
	}
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest-maint [car]",
		Short: "Suggest maintenance for each car",
		Long:  "Ask the model for maintenance suggestions, one car at a time. A car whose reply cannot be used gets a placeholder instead of failing the whole run.",
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
			snap, err := snapshot(ctx, s, id)
			if err != nil {
				return err
			}
			if len(snap.Cars) == 0 {
				a.printer().Suggestions(nil)
				return nil
			}

			adv, err := a.newAdvisor()
			if err != nil {
				return err
			}
			logging.Info("Analyzing maintenance needs...")
			suggestions := adv.Suggest(ctx, snap)
			if err := ctx.Err(); err != nil {
				return err
			}
			a.printer().Suggestions(suggestions)
			return nil
		},
	}
}

func newTrackPrepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track-prep <car>",
		Short: "Build a track day checklist",
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
			history, err := s.ListEventsForCar(ctx, id, 0)
			if err != nil {
				return err
			}

			adv, err := a.newAdvisor()
			if err != nil {
				return err
			}
			logging.Info("Generating track prep checklist for " + car.DisplayName() + "...")
			list, err := adv.TrackPrep(ctx, car, history)
			if err != nil {
				return err
			}
			a.printer().Checklist(list)
			return nil
		},
	}
}
