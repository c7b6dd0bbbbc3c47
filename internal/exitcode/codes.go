// Package exitcode defines named exit codes for the crewchief CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants.
const (
	Success        = 0   // Command completed
	Error          = 1   // Invalid args, validation failure, database error
	NotFound       = 2   // Referenced car, event, part or interval does not exist
	LLMUnavailable = 3   // LLM disabled, unreachable or timed out
	LLMResponse    = 4   // LLM replied, but with an error status or unusable JSON
	Interrupted    = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case NotFound:
		return "NotFound"
	case LLMUnavailable:
		return "LLMUnavailable"
	case LLMResponse:
		return "LLMResponse"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
