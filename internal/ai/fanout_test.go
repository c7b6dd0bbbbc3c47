package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/CodexForgeBR/crewchief/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type verdict struct {
	Unit   string `json:"unit"`
	Status string `json:"status"`
}

var verdictSchema = parser.Schema{
	Name: "verdict",
	Fields: []parser.Field{
		{Name: "unit", Kind: parser.String, Required: true},
		{Name: "status", Kind: parser.String, Required: true},
	},
}

// unitChatter answers per user prompt.
type unitChatter struct {
	answers map[string]string
	fail    map[string]error
	asked   []string
}

func (c *unitChatter) PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error) {
	c.asked = append(c.asked, user)
	if err, ok := c.fail[user]; ok {
		return "", err
	}
	return c.answers[user], nil
}

func buildVerdict(u string) (Request, error) {
	if u == "" {
		return Request{}, errors.New("empty unit")
	}
	return Request{System: "sys", User: u, Schema: verdictSchema}, nil
}

func verdictPlaceholder(u string, err error) verdict {
	return verdict{Unit: u, Status: "failed: " + err.Error()}
}

func TestExtractMany_IsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	chat := &unitChatter{
		answers: map[string]string{
			"one":   `{"unit": "one", "status": "ok"}`,
			"three": `{"unit": "three", "status": "ok"`,
		},
		fail: map[string]error{"two": &UnavailableError{Reason: "request timed out after 30s"}},
	}

	got := ExtractMany(context.Background(), chat, parser.NewExtractor(),
		[]string{"one", "two", "three"}, buildVerdict, verdictPlaceholder)

	require.Len(t, got, 3)
	assert.Equal(t, verdict{Unit: "one", Status: "ok"}, got[0])
	assert.Equal(t, "two", got[1].Unit)
	assert.True(t, strings.HasPrefix(got[1].Status, "failed: LLM unavailable"))
	assert.Equal(t, verdict{Unit: "three", Status: "ok"}, got[2])
	assert.Equal(t, []string{"one", "two", "three"}, chat.asked)
}

func TestExtractMany_PlaceholderPerFailureKind(t *testing.T) {
	chat := &unitChatter{
		answers: map[string]string{
			"prose":    "I'd rather not.",
			"mismatch": `{"unit": "mismatch"}`,
		},
	}

	var errs []error
	placeholder := func(u string, err error) verdict {
		errs = append(errs, err)
		return verdictPlaceholder(u, err)
	}

	got := ExtractMany(context.Background(), chat, parser.NewExtractor(),
		[]string{"prose", "", "mismatch"}, buildVerdict, placeholder)

	require.Len(t, got, 3)
	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], parser.ErrNoJSONFound)
	assert.Contains(t, errs[1].Error(), "building request")
	assert.ErrorIs(t, errs[2], parser.ErrSchemaMismatch)
	// build failures never reach the transport
	assert.Equal(t, []string{"prose", "mismatch"}, chat.asked)
}

func TestExtractMany_Empty(t *testing.T) {
	chat := &unitChatter{}
	got := ExtractMany(context.Background(), chat, parser.NewExtractor(), nil, buildVerdict, verdictPlaceholder)

	assert.Empty(t, got)
	assert.Empty(t, chat.asked)
}

func TestExtractMany_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chat := &unitChatter{}
	got := ExtractMany(ctx, chat, parser.NewExtractor(), []string{"a", "b"}, buildVerdict, verdictPlaceholder)

	require.Len(t, got, 2)
	for _, v := range got {
		assert.Contains(t, v.Status, "cancelled")
	}
	assert.Empty(t, chat.asked)
}

func TestExtract_Single(t *testing.T) {
	chat := &unitChatter{answers: map[string]string{"q": "```json\n{\"unit\": \"q\", \"status\": \"ok\"}\n```"}}

	v, err := Extract[verdict](context.Background(), chat, parser.NewExtractor(), Request{User: "q", Schema: verdictSchema})
	require.NoError(t, err)
	assert.Equal(t, verdict{Unit: "q", Status: "ok"}, v)

	chat.fail = map[string]error{"q": fmt.Errorf("wrapped: %w", &UnavailableError{Reason: "down"})}
	_, err = Extract[verdict](context.Background(), chat, parser.NewExtractor(), Request{User: "q", Schema: verdictSchema})
	assert.True(t, IsUnavailable(err))
}
