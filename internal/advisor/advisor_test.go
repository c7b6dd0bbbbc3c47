package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/CodexForgeBR/crewchief/internal/ai"
	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/CodexForgeBR/crewchief/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	system, user string
	wantsJSON    bool
}

// fakeChat replays replies in order and records every request.
type fakeChat struct {
	replies []string
	errs    []error
	calls   []call
}

func (f *fakeChat) PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, call{system, user, wantsJSON})
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("no reply scripted")
}

func intp(v int) *int { return &v }

func testSnapshot() garage.Snapshot {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return garage.Snapshot{
		Cars: []garage.Car{
			{ID: 1, Nickname: "Weekend", Year: 1994, Make: "Mazda", Model: "Miata", UsageType: garage.UsageTrack, CurrentOdometer: intp(120500)},
			{ID: 2, Year: 2019, Make: "Honda", Model: "Civic", UsageType: garage.UsageDaily},
		},
		Events: []garage.MaintenanceEvent{
			{ID: 10, CarID: 1, ServiceDate: day, ServiceType: garage.ServiceBrakes, Description: "pads and fluid", Odometer: intp(120000)},
			{ID: 11, CarID: 2, ServiceDate: day, ServiceType: garage.ServiceOilChange},
		},
		Parts: []garage.CarPart{
			{ID: 5, CarID: 1, Category: garage.PartTires, Brand: "Falken", SizeSpec: "205/50R15"},
		},
	}
}

func TestSummarize(t *testing.T) {
	chat := &fakeChat{replies: []string{"## Garage\nAll good."}}
	a := New(chat, nil)

	out, err := a.Summarize(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "## Garage\nAll good.", out)

	require.Len(t, chat.calls, 1)
	c := chat.calls[0]
	assert.False(t, c.wantsJSON)
	assert.Contains(t, c.system, "Crew Chief")
	assert.Contains(t, c.user, `"total_cars": 2`)
	assert.Contains(t, c.user, `"display_name": "Weekend (1994 Mazda Miata)"`)
	assert.Contains(t, c.user, `"service_date": "2024-03-09"`)
	assert.Contains(t, c.user, `"parts_profile"`)
	assert.Contains(t, c.user, `"205/50R15"`)
}

func TestSummarize_TransportError(t *testing.T) {
	chat := &fakeChat{errs: []error{&ai.UnavailableError{Reason: "request timed out after 30s"}}}

	_, err := New(chat, nil).Summarize(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.True(t, ai.IsUnavailable(err))
}

func TestSuggest_OnePerCarInOrder(t *testing.T) {
	chat := &fakeChat{replies: []string{
		`{"suggested_actions": ["Bleed brakes before next event"], "priority": "HIGH", "reasoning": "Track car"}`,
		"Sure! ```json\n{\"suggested_actions\": [\"Rotate tires\"], \"priority\": \"low\", \"reasoning\": \"Recent oil change\"}\n```",
	}}

	got := New(chat, nil).Suggest(context.Background(), testSnapshot())
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].CarID)
	assert.Equal(t, "Weekend (1994 Mazda Miata)", got[0].CarLabel)
	assert.Equal(t, garage.PriorityHigh, got[0].Priority)
	assert.Equal(t, []string{"Bleed brakes before next event"}, got[0].Actions)

	assert.Equal(t, int64(2), got[1].CarID)
	assert.Equal(t, "2019 Honda Civic", got[1].CarLabel)
	assert.Equal(t, garage.PriorityLow, got[1].Priority)

	require.Len(t, chat.calls, 2)
	assert.True(t, chat.calls[0].wantsJSON)
	assert.Contains(t, chat.calls[0].user, "pads and fluid")
	assert.NotContains(t, chat.calls[0].user, "2019")
	assert.Contains(t, chat.calls[1].user, "oil_change")
	assert.NotContains(t, chat.calls[1].user, "Falken")
}

func TestSuggest_RepairsTruncatedReply(t *testing.T) {
	chat := &fakeChat{replies: []string{
		`{"priority": "high", "reasoning": "Pads were replaced at 120,000 mi", "suggested_actions": ["Check brake pads", "Flush flu`,
		`{"suggested_actions": ["Check tire pressure"], "priority": "medium", "reasoning": "ok"}`,
	}}

	got := New(chat, nil).Suggest(context.Background(), testSnapshot())
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Check brake pads"}, got[0].Actions)
	assert.Equal(t, garage.PriorityHigh, got[0].Priority)
	assert.Equal(t, []string{"Check tire pressure"}, got[1].Actions)
}

func TestSuggest_PlaceholderOnFailure(t *testing.T) {
	chat := &fakeChat{
		replies: []string{"", `{"suggested_actions": ["Wash it"], "priority": "urgent", "reasoning": "x"}`},
		errs:    []error{&ai.UnavailableError{Reason: "cannot connect to LLM service at http://localhost:1234/v1, is it running?"}},
	}

	got := New(chat, nil).Suggest(context.Background(), testSnapshot())
	require.Len(t, got, 2)
	for i, s := range got {
		assert.Equal(t, []string{PlaceholderAction}, s.Actions, "car %d", i)
		assert.Equal(t, garage.PriorityMedium, s.Priority)
		assert.True(t, strings.HasPrefix(s.Reasoning, "LLM response parsing failed: "))
		assert.LessOrEqual(t, len(s.Reasoning), len("LLM response parsing failed: ")+placeholderReasonLimit)
	}
	assert.Equal(t, int64(1), got[0].CarID)
	assert.Equal(t, "2019 Honda Civic", got[1].CarLabel)
}

func TestSuggest_NoCars(t *testing.T) {
	chat := &fakeChat{}
	got := New(chat, nil).Suggest(context.Background(), garage.Snapshot{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, chat.calls)
}

func TestSuggest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chat := &fakeChat{}

	got := New(chat, nil).Suggest(ctx, testSnapshot())
	require.Len(t, got, 2)
	assert.Equal(t, []string{PlaceholderAction}, got[0].Actions)
	assert.Empty(t, chat.calls)
}

func TestTrackPrep(t *testing.T) {
	snap := testSnapshot()
	car := snap.Cars[0]
	chat := &fakeChat{replies: []string{
		`{"car_label": "Weekend", "critical_items": ["Brake fluid flush", "Torque wheels"], "recommended_items": ["Tire pressures", "Tow hook"`,
	}}

	list, err := New(chat, nil).TrackPrep(context.Background(), car, snap.EventsFor(car.ID))
	require.NoError(t, err)
	assert.Equal(t, "Weekend", list.CarLabel)
	assert.Equal(t, []string{"Brake fluid flush", "Torque wheels"}, list.CriticalItems)
	assert.Equal(t, []string{"Tire pressures", "Tow hook"}, list.RecommendedItems)

	require.Len(t, chat.calls, 1)
	user := chat.calls[0].user
	assert.Contains(t, user, "Weekend (1994 Mazda Miata)")
	assert.Contains(t, user, `"make": "Mazda"`)
	assert.Contains(t, user, "pads and fluid")
}

func TestTrackPrep_SchemaMismatch(t *testing.T) {
	car := testSnapshot().Cars[1]
	chat := &fakeChat{replies: []string{`{"car_label": "Civic", "critical_items": "brakes"}`}}

	_, err := New(chat, nil).TrackPrep(context.Background(), car, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "2019 Honda Civic")
}

func TestTrackPrep_NoJSON(t *testing.T) {
	car := testSnapshot().Cars[1]
	chat := &fakeChat{replies: []string{"I cannot help with that."}}

	_, err := New(chat, nil).TrackPrep(context.Background(), car, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrNoJSONFound)
	assert.True(t, parser.IsExtractionError(err))
}

func TestFailureReason_KeepsRunesWhole(t *testing.T) {
	// 'ü' straddles the cut at byte 100
	msg := strings.Repeat("a", placeholderReasonLimit-1) + "über"
	got := failureReason(errors.New(msg))

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "LLM response parsing failed: "+strings.Repeat("a", placeholderReasonLimit-1), got)
}
