package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpTemplate_ContainsKeyFlags(t *testing.T) {
	requiredFlags := []string{
		"--config",
		"--db",
		"--llm-url",
		"--llm-model",
		"--no-llm",
		"--verbose",
		"--help",
		"--version",
	}

	for _, flag := range requiredFlags {
		assert.Contains(t, rootHelp, flag, "Help template should contain flag: %s", flag)
	}
}

func TestHelpTemplate_ContainsCommands(t *testing.T) {
	commands := []string{
		"init", "add-car", "list-cars", "show-car", "update-car", "remove-car",
		"log-service", "history", "update-service", "delete-service",
		"add-part", "list-parts", "update-part", "delete-part",
		"cost-summary", "set-interval", "check-due",
		"summary", "suggest-maint", "track-prep", "tui",
	}

	for _, c := range commands {
		assert.Contains(t, rootHelp, "    "+c, "Help template should list command: %s", c)
	}
}

func TestHelpTemplate_ContainsExitCodes(t *testing.T) {
	exitCodes := []string{
		"Success",
		"Error",
		"NotFound",
		"LLMUnavailable",
		"LLMResponse",
		"Interrupted",
	}

	for _, code := range exitCodes {
		assert.Contains(t, rootHelp, code, "Help template should contain exit code: %s", code)
	}
}

func TestHelpTemplate_ContainsSections(t *testing.T) {
	sections := []string{
		"USAGE",
		"COMMANDS",
		"FLAGS",
		"CONFIGURATION",
		"EXIT CODES",
		"EXAMPLES",
	}

	for _, section := range sections {
		assert.Contains(t, rootHelp, section, "Help template should contain section: %s", section)
	}
}

func TestSetCustomHelp_RootAndSubcommand(t *testing.T) {
	root := &cobra.Command{Use: "crewchief", Run: func(*cobra.Command, []string) {}}
	sub := &cobra.Command{Use: "history <car>", Short: "Show a car's maintenance history", Run: func(*cobra.Command, []string) {}}
	sub.Flags().Int("limit", 0, "Show at most this many events")
	root.AddCommand(sub)
	SetCustomHelp(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "crewchief - Vehicle maintenance tracker")

	out.Reset()
	root.SetArgs([]string{"history", "--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Show a car's maintenance history")
	assert.Contains(t, out.String(), "--limit")
	assert.NotContains(t, out.String(), "EXIT CODES")
}
