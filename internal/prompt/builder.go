package prompt

import "strings"

// BuildSystemPrompt returns the instructions shared by every request.
func BuildSystemPrompt() string {
	return strings.TrimSpace(SystemTemplate)
}

// BuildGarageSummaryPrompt constructs the free-text garage report prompt.
// garageData is the JSON rendering of the whole garage.
func BuildGarageSummaryPrompt(garageData string) string {
	return strings.ReplaceAll(GarageSummaryTemplate, "{{GARAGE_DATA}}", garageData)
}

// BuildSuggestionPrompt constructs the per-vehicle suggestion prompt.
// Each argument is a JSON rendering; an empty history or parts list is
// written as [] so the model sees an explicit empty record.
func BuildSuggestionPrompt(vehicle, history, parts string) string {
	prompt := SuggestionTemplate
	prompt = strings.ReplaceAll(prompt, "{{VEHICLE}}", vehicle)
	prompt = strings.ReplaceAll(prompt, "{{HISTORY}}", orEmptyList(history))
	prompt = strings.ReplaceAll(prompt, "{{PARTS}}", orEmptyList(parts))
	return prompt
}

// BuildTrackPrepPrompt constructs the track day checklist prompt.
func BuildTrackPrepPrompt(carLabel, vehicle, history string) string {
	prompt := TrackPrepTemplate
	prompt = strings.ReplaceAll(prompt, "{{CAR_LABEL}}", carLabel)
	prompt = strings.ReplaceAll(prompt, "{{VEHICLE}}", vehicle)
	prompt = strings.ReplaceAll(prompt, "{{HISTORY}}", orEmptyList(history))
	return prompt
}

func orEmptyList(s string) string {
	if strings.TrimSpace(s) == "" || s == "null" {
		return "[]"
	}
	return s
}
