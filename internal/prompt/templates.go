package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/system.txt
	SystemTemplate string

	//go:embed templates/garage_summary.txt
	GarageSummaryTemplate string

	//go:embed templates/suggestion.txt
	SuggestionTemplate string

	//go:embed templates/track_prep.txt
	TrackPrepTemplate string
)
