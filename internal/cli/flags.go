// Package cli provides global flag binding and validation for the crewchief CLI.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/crewchief/internal/config"
)

// BindFlags registers the global flags as persistent flags on cmd, so every
// subcommand accepts them. The flags directly modify fields in cfg; use
// BuildOverrides after parsing to find out which ones the user set.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database")
	flags.StringVar(&cfg.LLMBaseURL, "llm-url", cfg.LLMBaseURL, "Base URL of the OpenAI-compatible endpoint")
	flags.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "Model name sent to the endpoint")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show debug output and extraction diagnostics")

	// Negation flag needs special handling via Changed detection
	var noLLM bool
	flags.BoolVar(&noLLM, "no-llm", false, "Disable AI features for this run")
}

// ValidateFlags checks flag values after parsing.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if cmd.Flags().Changed("llm-url") {
		u := cfg.LLMBaseURL
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("--llm-url must start with http:// or https://, got: %s", u)
		}
	}

	if cmd.Flags().Changed("db") && strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}

	return nil
}

// BuildOverrides creates a map of CLI flag overrides from cfg.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file and environment values are not accidentally
// overridden by flag defaults.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"db":        {"DB_PATH", cfg.DBPath},
		"llm-url":   {"LLM_BASE_URL", cfg.LLMBaseURL},
		"llm-model": {"LLM_MODEL", cfg.LLMModel},
	}
	for flag, mapping := range stringFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	if cmd.Flags().Changed("verbose") {
		if cfg.Verbose {
			overrides["VERBOSE"] = "true"
		} else {
			overrides["VERBOSE"] = "false"
		}
	}

	// Handle negation flags
	if cmd.Flags().Changed("no-llm") {
		overrides["LLM_ENABLED"] = "false"
	}

	return overrides
}
