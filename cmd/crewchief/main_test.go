package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/crewchief/internal/advisor"
	"github.com/CodexForgeBR/crewchief/internal/ai"
	"github.com/CodexForgeBR/crewchief/internal/exitcode"
	"github.com/CodexForgeBR/crewchief/internal/parser"
	"github.com/CodexForgeBR/crewchief/internal/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	code   int
	stdout string
	stderr string
}

// garageArgs isolates HOME and returns the flags pointing at a fresh
// database.
func garageArgs(t *testing.T) []string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return []string{"--db", filepath.Join(home, "garage.db")}
}

func runCLI(t *testing.T, base []string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(append(append([]string{}, base...), args...), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// llmServer answers chat completions with replies in order, repeating the
// last one.
func llmServer(t *testing.T, replies ...string) *httptest.Server {
	t.Helper()
	var (
		mu    sync.Mutex
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		mu.Lock()
		reply := replies[min(calls, len(replies)-1)]
		calls++
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{
				"message": map[string]string{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func addMiata(t *testing.T, base []string) {
	t.Helper()
	res := runCLI(t, base, "add-car", "--year", "1994", "--make", "Mazda", "--model", "Miata",
		"--nickname", "Weekend", "--usage", "track", "--odometer", "120000")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"not found", fmt.Errorf("car 9: %w", store.ErrNotFound), exitcode.NotFound},
		{"unavailable", &ai.UnavailableError{Reason: "connection refused"}, exitcode.LLMUnavailable},
		{"disabled", &ai.UnavailableError{Reason: "disabled in settings", Err: ai.ErrDisabled}, exitcode.LLMUnavailable},
		{"rejected", fmt.Errorf("track prep: %w", &ai.RejectedError{StatusCode: 500, Body: "boom"}), exitcode.LLMResponse},
		{"no json", &parser.NoJSONFoundError{Raw: "hello", Reason: "no candidates"}, exitcode.LLMResponse},
		{"schema", &parser.SchemaMismatchError{Schema: "checklist", Cause: errors.New("missing critical_items")}, exitcode.LLMResponse},
		{"cancelled", fmt.Errorf("list cars: %w", context.Canceled), exitcode.Interrupted},
		{"other", errors.New("disk full"), exitcode.Error},
		{"in use", store.ErrInUse, exitcode.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "car")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad, "car")
		assert.Error(t, err, bad)
	}

	id, err = optionalID(nil, "car")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestRun_Version(t *testing.T) {
	res := runCLI(t, nil, "--version")
	assert.Equal(t, exitcode.Success, res.code)
	assert.Contains(t, res.stdout, "dev (commit: unknown")
}

func TestRun_UnknownCommand(t *testing.T) {
	res := runCLI(t, garageArgs(t), "fly")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestRun_InvalidLLMURL(t *testing.T) {
	res := runCLI(t, garageArgs(t), "list-cars", "--llm-url", "localhost:1234")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "--llm-url")
}

func TestRun_CarLifecycle(t *testing.T) {
	base := garageArgs(t)

	res := runCLI(t, base, "init")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stderr, "garage.db")

	addMiata(t, base)

	res = runCLI(t, base, "list-cars")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Weekend (1994 Mazda Miata)")
	assert.Contains(t, res.stdout, "120,000 mi")

	res = runCLI(t, base, "update-car", "1", "--trim", "R-Package")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "update-car", "1")
	assert.Equal(t, exitcode.Success, res.code)
	assert.Contains(t, res.stderr, "No fields specified")

	res = runCLI(t, base, "show-car", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "R-Package")
	assert.Contains(t, res.stdout, "No maintenance history recorded")
}

func TestRun_AddCarValidation(t *testing.T) {
	base := garageArgs(t)

	res := runCLI(t, base, "add-car", "--make", "Mazda", "--model", "Miata")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "year")

	res = runCLI(t, base, "add-car", "--year", "1994", "--make", "Mazda", "--model", "Miata", "--usage", "drift")
	assert.Equal(t, exitcode.Error, res.code)
}

func TestRun_NotFound(t *testing.T) {
	base := garageArgs(t)

	for _, args := range [][]string{
		{"show-car", "9"},
		{"history", "9"},
		{"delete-service", "9"},
		{"delete-part", "9"},
		{"track-prep", "9"},
	} {
		res := runCLI(t, base, args...)
		assert.Equal(t, exitcode.NotFound, res.code, "%v: %s", args, res.stderr)
	}
}

func TestRun_ServiceLogAndCosts(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)

	res := runCLI(t, base, "add-part", "1", "--category", "oil", "--brand", "Motul", "--size", "5W-30")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "set-interval", "1", "--type", "oil_change", "--miles", "5000", "--months", "6")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "log-service", "1", "--type", "oil_change", "--date", "2024-03-09",
		"--odometer", "121000", "--cost", "45.5", "--description", "Motul 300V")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Parts from profile")
	assert.Contains(t, res.stdout, "Motul")
	assert.Contains(t, res.stderr, "Odometer updated to 121,000 mi")

	res = runCLI(t, base, "history", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2024-03-09")
	assert.Contains(t, res.stdout, "Motul 300V")

	res = runCLI(t, base, "show-car", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "121,000 mi")
	assert.Contains(t, res.stdout, "Service Intervals")

	res = runCLI(t, base, "cost-summary", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "$45.50")

	res = runCLI(t, base, "cost-summary")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Weekend (1994 Mazda Miata)")

	res = runCLI(t, base, "check-due", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Service Check: Weekend (1994 Mazda Miata)")

	res = runCLI(t, base, "update-service", "1", "--cost", "50")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	res = runCLI(t, base, "update-service", "1", "--date", "03/09/2024")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "YYYY-MM-DD")
}

func TestRun_CostCompare(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	res := runCLI(t, base, "add-car", "--year", "2019", "--make", "Honda", "--model", "Civic", "--odometer", "15000")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	for _, args := range [][]string{
		{"log-service", "1", "--type", "brakes", "--cost", "120"},
		{"log-service", "2", "--type", "oil_change", "--odometer", "10000", "--cost", "400"},
		{"log-service", "2", "--type", "tires", "--odometer", "15000", "--cost", "600"},
	} {
		res = runCLI(t, base, args...)
		require.Equal(t, exitcode.Success, res.code, "%v: %s", args, res.stderr)
	}

	res = runCLI(t, base, "cost-compare")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	out := res.stdout
	assert.Contains(t, out, "Cost Comparison")
	assert.Less(t, strings.Index(out, "2019 Honda Civic"), strings.Index(out, "Weekend (1994 Mazda Miata)"))
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "$500.00")
	assert.Contains(t, out, "$0.20")
	assert.Contains(t, out, "5,000")
	assert.Contains(t, out, "$560.00")
	assert.Contains(t, out, "$373.33")
}

func TestRun_CostCompareEmptyGarage(t *testing.T) {
	res := runCLI(t, garageArgs(t), "cost-compare")
	assert.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No cars in the garage yet")
}

func TestRun_SetIntervalNeedsAnInterval(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)

	res := runCLI(t, base, "set-interval", "1", "--type", "brakes")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "--miles or --months")
}

func TestRun_RemoveCarWithHistory(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	res := runCLI(t, base, "log-service", "1", "--type", "brakes")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "remove-car", "1")
	assert.Equal(t, exitcode.Error, res.code)
	assert.Contains(t, res.stderr, "--force")

	res = runCLI(t, base, "remove-car", "1", "--force")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "list-cars")
	assert.Contains(t, res.stdout, "No cars in the garage yet")
}

func TestRun_Parts(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)

	res := runCLI(t, base, "add-part", "1", "--category", "tires", "--brand", "Falken", "--size", "205/50R15")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "update-part", "1", "--brand", "Yokohama")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "list-parts")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Yokohama")
	assert.Contains(t, res.stdout, "Weekend (1994 Mazda Miata)")

	res = runCLI(t, base, "delete-part", "1")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	res = runCLI(t, base, "list-parts", "1")
	assert.Contains(t, res.stdout, "No parts recorded")
}

func TestRun_SummaryDisabled(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)

	res := runCLI(t, base, "summary", "--no-llm")
	assert.Equal(t, exitcode.LLMUnavailable, res.code)
	assert.Contains(t, res.stderr, "disabled")
}

func TestRun_Summary(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := llmServer(t, "The Miata is due for fresh brake fluid before its next event.")

	res := runCLI(t, base, "summary", "1", "--llm-url", srv.URL)
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Garage Summary")
	assert.Contains(t, res.stdout, "fresh brake fluid")
}

func TestRun_SummaryUnreachable(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := runCLI(t, base, "summary", "--llm-url", url)
	assert.Equal(t, exitcode.LLMUnavailable, res.code)
	assert.Contains(t, res.stderr, "Make sure your local LLM server is running")
}

func TestRun_SuggestRepairsTruncatedReply(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := llmServer(t, `{"priority": "high", "reasoning": "Track car", "suggested_actions": ["Bleed brakes", "Check pa`)

	res := runCLI(t, base, "suggest-maint", "--llm-url", srv.URL)
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Weekend (1994 Mazda Miata)  [HIGH]")
	assert.Contains(t, res.stdout, "• Bleed brakes")
	assert.NotContains(t, res.stdout, "Check pa")
}

func TestRun_SuggestPlaceholderOnProse(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := llmServer(t, "I'm sorry, I can't help with that.")

	res := runCLI(t, base, "suggest-maint", "1", "--llm-url", srv.URL)
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, advisor.PlaceholderAction)
	assert.Contains(t, res.stdout, "[MEDIUM]")
}

func TestRun_SuggestEmptyGarage(t *testing.T) {
	res := runCLI(t, garageArgs(t), "suggest-maint", "--no-llm")
	assert.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No cars in the garage yet")
}

func TestRun_TrackPrep(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := llmServer(t, "```json\n"+`{"car_label": "Weekend", "critical_items": ["Bleed brakes", "Torque wheels"], "recommended_items": ["Check tire pressures"], "notes": "Bring spare pads"}`+"\n```")

	res := runCLI(t, base, "track-prep", "1", "--llm-url", srv.URL)
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Track Prep: Weekend")
	assert.Contains(t, res.stdout, "Critical (2)")
	assert.Contains(t, res.stdout, "[ ] Torque wheels")
	assert.Contains(t, res.stdout, "Bring spare pads")
}

func TestRun_TrackPrepUnusableReply(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := llmServer(t, "Sure! Here is what to check: brakes, tires, fluids.")

	res := runCLI(t, base, "track-prep", "1", "--llm-url", srv.URL, "--verbose")
	assert.Equal(t, exitcode.LLMResponse, res.code)
	assert.Contains(t, res.stderr, "no JSON found")
	assert.Contains(t, res.stderr, "Raw response")
	assert.Contains(t, res.stderr, "Exiting with 4 (LLMResponse)")
}

func TestRun_TrackPrepRejected(t *testing.T) {
	base := garageArgs(t)
	addMiata(t, base)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	res := runCLI(t, base, "track-prep", "1", "--llm-url", srv.URL)
	assert.Equal(t, exitcode.LLMResponse, res.code)
	assert.Contains(t, res.stderr, "503")
}
