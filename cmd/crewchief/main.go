package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/cli"
	"github.com/CodexForgeBR/crewchief/internal/config"
	"github.com/CodexForgeBR/crewchief/internal/exitcode"
	"github.com/CodexForgeBR/crewchief/internal/logging"
	sighandler "github.com/CodexForgeBR/crewchief/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	prev := logging.SetOutput(stderr)
	defer logging.SetOutput(prev)

	a := newApp(config.NewDefaultConfig(), stdout)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, h := sighandler.WithInterrupt(context.Background(), func(os.Signal) {
		logging.Warn("Interrupted, shutting down...")
	})
	defer h.Stop()

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitcode.Success
	case h.Interrupted():
		return exitcode.Interrupted
	}
	a.reportError(err)
	code := exitCodeFor(err)
	logging.Debug(fmt.Sprintf("Exiting with %d (%s)", code, exitcode.Name(code)))
	return code
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "crewchief",
		Short:   "Vehicle maintenance tracker with a local AI crew chief",
		Long:    "crewchief tracks cars, services, parts and intervals in SQLite and asks a local OpenAI-compatible model for summaries, suggestions and track day checklists.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(cmd, a.cfg); err != nil {
				return err
			}
			return a.configure(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all CLI flags to the config
	cli.BindFlags(root, a.cfg)

	// Set custom help template
	cli.SetCustomHelp(root)

	root.AddCommand(carCommands(a)...)
	root.AddCommand(serviceCommands(a)...)
	root.AddCommand(partCommands(a)...)
	root.AddCommand(adviceCommands(a)...)
	root.AddCommand(newTUICmd(a))
	return root
}
