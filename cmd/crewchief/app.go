package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodexForgeBR/crewchief/internal/advisor"
	"github.com/CodexForgeBR/crewchief/internal/ai"
	"github.com/CodexForgeBR/crewchief/internal/cli"
	"github.com/CodexForgeBR/crewchief/internal/config"
	"github.com/CodexForgeBR/crewchief/internal/exitcode"
	"github.com/CodexForgeBR/crewchief/internal/logging"
	"github.com/CodexForgeBR/crewchief/internal/parser"
	"github.com/CodexForgeBR/crewchief/internal/report"
	"github.com/CodexForgeBR/crewchief/internal/store"
)

// dotenvPath is loaded from the working directory when present.
const dotenvPath = ".env"

// app carries the resolved configuration and the lazily opened resources
// shared by every command.
type app struct {
	cfg   *config.Config
	out   io.Writer
	log   *zap.Logger
	store *store.Store
	now   func() time.Time
}

func newApp(cfg *config.Config, out io.Writer) *app {
	return &app{cfg: cfg, out: out, log: zap.NewNop(), now: time.Now}
}

// configure resolves the final configuration after flags are parsed.
func (a *app) configure(cmd *cobra.Command) error {
	envValues, err := config.LoadEnv(dotenvPath)
	if err != nil {
		return fmt.Errorf("load environment: %w", err)
	}

	// Build CLI overrides map using Changed() for accurate detection
	cliOverrides := cli.BuildOverrides(cmd, a.cfg)

	finalCfg, err := config.LoadWithPrecedence(config.GlobalConfigPath(), a.cfg.ConfigFile, envValues, cliOverrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	finalCfg.ConfigFile = a.cfg.ConfigFile
	*a.cfg = *finalCfg

	logging.SetVerbose(a.cfg.Verbose)
	if a.log, err = logging.NewDiagnostics(a.cfg.Verbose); err != nil {
		return fmt.Errorf("create diagnostics logger: %w", err)
	}
	logging.Debug("Database: " + a.cfg.DBPath)
	if a.cfg.LLMEnabled {
		logging.Debug(fmt.Sprintf("LLM: %s (model %s, timeout %s, retries %d)",
			a.cfg.LLMBaseURL, a.cfg.LLMModel, a.cfg.Timeout(), a.cfg.LLMMaxRetries))
	}
	return nil
}

// openStore opens the database once per run.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := store.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	_ = a.log.Sync()
}

func (a *app) printer() *report.Printer {
	return report.New(a.out)
}

// client builds the transport from the resolved configuration.
func (a *app) client() *ai.Client {
	return ai.NewClient(ai.Settings{
		BaseURL: a.cfg.LLMBaseURL,
		Model:   a.cfg.LLMModel,
		Enabled: a.cfg.LLMEnabled,
		Timeout: a.cfg.Timeout(),
	}, a.log)
}

func (a *app) chatter() ai.Chatter {
	c := a.client()
	if a.cfg.LLMMaxRetries <= 0 {
		return c
	}
	retries := a.cfg.LLMMaxRetries
	return &ai.RetryClient{
		Inner: c,
		RetryCfg: ai.RetryConfig{
			MaxRetries: retries,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				logging.Warn(fmt.Sprintf("LLM unavailable (attempt %d/%d), retrying in %s: %v", attempt+1, retries+1, delay, err))
			},
		},
	}
}

// newAdvisor returns an Advisor, or an *ai.UnavailableError when AI features
// are disabled.
func (a *app) newAdvisor() (*advisor.Advisor, error) {
	if !a.cfg.LLMEnabled {
		return nil, &ai.UnavailableError{Reason: "disabled in settings", Err: ai.ErrDisabled}
	}
	extractor := parser.NewExtractor(
		parser.WithLogger(a.log),
		parser.WithLenientRepair(a.cfg.LLMLenientRepair),
	)
	return advisor.New(a.chatter(), extractor), nil
}

// reportError prints err for the user. In verbose mode extraction failures
// also dump the raw response and best candidate.
func (a *app) reportError(err error) {
	logging.Error(err.Error())

	switch {
	case errors.Is(err, ai.ErrDisabled):
		logging.Info("Enable AI features with LLM_ENABLED=true or drop --no-llm")
	case ai.IsUnavailable(err):
		logging.Info("Make sure your local LLM server is running at " + a.cfg.LLMBaseURL)
	case errors.Is(err, store.ErrInUse):
		logging.Info("Use --force to delete the car together with its history")
	}

	var noJSON *parser.NoJSONFoundError
	if errors.As(err, &noJSON) {
		logging.DebugBlock("Raw response", noJSON.Raw)
		if noJSON.Best != "" {
			logging.DebugBlock("Best candidate", noJSON.Best)
		}
	}
	var mismatch *parser.SchemaMismatchError
	if errors.As(err, &mismatch) {
		logging.DebugBlock("Raw response", mismatch.Raw)
		logging.DebugBlock("Best candidate", mismatch.Best)
	}
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	var rejected *ai.RejectedError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, context.Canceled):
		return exitcode.Interrupted
	case errors.Is(err, store.ErrNotFound):
		return exitcode.NotFound
	case ai.IsUnavailable(err):
		return exitcode.LLMUnavailable
	case errors.As(err, &rejected), parser.IsExtractionError(err):
		return exitcode.LLMResponse
	default:
		return exitcode.Error
	}
}

// parseID parses a positional record id.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q: must be a positive integer", what, arg)
	}
	return id, nil
}

// optionalID parses the first positional argument when present; zero means
// all records.
func optionalID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseID(args[0], what)
}
