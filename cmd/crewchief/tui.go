package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			deps := tui.Deps{Garage: s, Now: a.now}
			if adv, err := a.newAdvisor(); err == nil {
				deps.Advisor = adv
				deps.LLM = a.client()
			}

			p := tea.NewProgram(tui.New(ctx, deps),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return ctx.Err()
		},
	}
}
