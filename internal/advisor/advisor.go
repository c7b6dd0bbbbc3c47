// Package advisor turns garage data into AI summaries, per-car maintenance
// suggestions and track day checklists.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CodexForgeBR/crewchief/internal/ai"
	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/parser"
	"github.com/CodexForgeBR/crewchief/internal/prompt"
)

// PlaceholderAction is the single action of a suggestion that could not be
// generated.
const PlaceholderAction = "Unable to generate suggestions - review maintenance history manually"

const placeholderReasonLimit = 100

var suggestionSchema = parser.Schema{
	Name: "maintenance suggestion",
	Fields: []parser.Field{
		{Name: "suggested_actions", Kind: parser.StringArray, Required: true},
		{Name: "priority", Kind: parser.String, Required: true, Enum: garage.Names(garage.Priorities)},
		{Name: "reasoning", Kind: parser.String, Required: true},
	},
}

var checklistSchema = parser.Schema{
	Name: "track prep checklist",
	Fields: []parser.Field{
		{Name: "car_label", Kind: parser.String, Required: true},
		{Name: "critical_items", Kind: parser.StringArray, Required: true},
		{Name: "recommended_items", Kind: parser.StringArray, Required: true},
		{Name: "notes", Kind: parser.String},
	},
}

// Advisor runs the AI operations against one endpoint.
type Advisor struct {
	chat      ai.Chatter
	extractor *parser.Extractor
}

// New creates an Advisor.
func New(chat ai.Chatter, extractor *parser.Extractor) *Advisor {
	if extractor == nil {
		extractor = parser.NewExtractor()
	}
	return &Advisor{chat: chat, extractor: extractor}
}

// Summarize asks for a free-text report on the whole garage.
func (a *Advisor) Summarize(ctx context.Context, snap garage.Snapshot) (string, error) {
	data, err := marshal(garageData(snap))
	if err != nil {
		return "", err
	}
	out, err := a.chat.PostChat(ctx, prompt.BuildSystemPrompt(), prompt.BuildGarageSummaryPrompt(data), false)
	if err != nil {
		return "", fmt.Errorf("garage summary: %w", err)
	}
	return out, nil
}

// Suggest asks for maintenance suggestions one car at a time. It never
// fails: a car whose request fails gets a placeholder suggestion.
func (a *Advisor) Suggest(ctx context.Context, snap garage.Snapshot) []garage.Suggestion {
	if len(snap.Cars) == 0 {
		return []garage.Suggestion{}
	}

	system := prompt.BuildSystemPrompt()
	build := func(car garage.Car) (ai.Request, error) {
		vehicle, err := marshal(vehicleData(car))
		if err != nil {
			return ai.Request{}, err
		}
		history, err := marshal(historyData(snap.EventsFor(car.ID), false))
		if err != nil {
			return ai.Request{}, err
		}
		parts, err := marshal(partsData(snap.PartsFor(car.ID)))
		if err != nil {
			return ai.Request{}, err
		}
		return ai.Request{
			System: system,
			User:   prompt.BuildSuggestionPrompt(vehicle, history, parts),
			Schema: suggestionSchema,
		}, nil
	}
	placeholder := func(_ garage.Car, err error) garage.Suggestion {
		return garage.Suggestion{
			Actions:   []string{PlaceholderAction},
			Priority:  garage.PriorityMedium,
			Reasoning: failureReason(err),
		}
	}

	out := ai.ExtractMany(ctx, a.chat, a.extractor, snap.Cars, build, placeholder)
	for i := range out {
		car := snap.Cars[i]
		out[i].CarID = car.ID
		out[i].CarLabel = car.DisplayName()
		// the schema matched priority case-insensitively
		if p, err := garage.ParsePriority(string(out[i].Priority)); err == nil {
			out[i].Priority = p
		}
	}
	return out
}

func failureReason(err error) string {
	return "LLM response parsing failed: " + parser.Head(err.Error(), placeholderReasonLimit)
}

// TrackPrep asks for a track day checklist for one car.
func (a *Advisor) TrackPrep(ctx context.Context, car garage.Car, history []garage.MaintenanceEvent) (garage.Checklist, error) {
	vehicle, err := marshal(vehicleData(car))
	if err != nil {
		return garage.Checklist{}, err
	}
	events, err := marshal(historyData(history, true))
	if err != nil {
		return garage.Checklist{}, err
	}

	req := ai.Request{
		System: prompt.BuildSystemPrompt(),
		User:   prompt.BuildTrackPrepPrompt(car.DisplayName(), vehicle, events),
		Schema: checklistSchema,
	}
	list, err := ai.Extract[garage.Checklist](ctx, a.chat, a.extractor, req)
	if err != nil {
		return garage.Checklist{}, fmt.Errorf("track prep for %s: %w", car.DisplayName(), err)
	}
	if list.CarLabel == "" {
		list.CarLabel = car.DisplayName()
	}
	return list, nil
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding prompt data: %w", err)
	}
	return string(b), nil
}
