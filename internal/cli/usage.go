package cli

import (
	"github.com/spf13/cobra"
)

// rootHelp is shown for the root command. Subcommands keep cobra's
// generated usage, which lists their own flags and arguments.
const rootHelp = `crewchief - Vehicle maintenance tracker with a local AI crew chief

USAGE
  crewchief <command> [args] [flags]

COMMANDS
  Garage:
    init                                   Create the database
    add-car                                Add a car to the garage
    list-cars                              List every car
    show-car <car>                         Show a car and its recent maintenance
    update-car <car>                       Update a car's details
    remove-car <car>                       Remove a car (--force to drop its history)

  Maintenance:
    log-service <car>                      Log a service event
    history <car>                          Show a car's maintenance history
    update-service <event>                 Update a logged service event
    delete-service <event>                 Delete a logged service event
    set-interval <car>                     Set a service interval
    check-due [car]                        Show services that are due
    cost-summary [car]                     Show maintenance costs

  Parts:
    add-part <car>                         Record a part fitted to a car
    list-parts [car]                       List recorded parts
    update-part <part>                     Update a recorded part
    delete-part <part>                     Delete a recorded part

  AI:
    summary                                Summarize the garage
    suggest-maint [car]                    Suggest maintenance for each car
    track-prep <car>                       Build a track day checklist

  Interactive:
    tui                                    Open the terminal UI

FLAGS
    --config <path>                        Path to additional config file
    --db <path>                            SQLite database (default: ~/.crewchief/crewchief.db)
    --llm-url <url>                        OpenAI-compatible endpoint (default: http://localhost:1234/v1)
    --llm-model <name>                     Model name (default: phi-3.5-mini)
    --no-llm                               Disable AI features for this run
    -v, --verbose                          Show debug output and extraction diagnostics
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

CONFIGURATION
  Sources, lowest to highest priority: defaults, ~/.crewchief/config,
  --config file, environment (CREWCHIEF_* and .env), flags.
  Keys: DB_PATH LLM_BASE_URL LLM_MODEL LLM_ENABLED LLM_TIMEOUT
        LLM_MAX_RETRIES LLM_LENIENT_REPAIR VERBOSE

EXIT CODES
  0   Success              Command completed
  1   Error                Invalid arguments, validation failure, database error
  2   NotFound             Car, event, part or interval does not exist
  3   LLMUnavailable       LLM disabled, unreachable or timed out
  4   LLMResponse          LLM returned an error status or unusable JSON
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Add a track car and log its first service
  crewchief add-car --year 1994 --make Mazda --model Miata --usage track --nickname Weekend
  crewchief log-service 1 --type brakes --date 2024-03-09 --cost 320 --odometer 120000

  # Remind me every 5,000 miles or 6 months
  crewchief set-interval 1 --type oil_change --miles 5000 --months 6

  # Ask the local model what needs attention
  crewchief suggest-maint --llm-url http://gpu-box:1234/v1
`

const helpTemplate = `{{if .HasParent}}{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{.UsageString}}{{else}}` + rootHelp + `{{end}}`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
