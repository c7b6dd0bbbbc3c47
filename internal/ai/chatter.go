// Package ai talks to a local OpenAI-compatible chat endpoint and turns its
// completions into typed values.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Chatter sends one system+user exchange and returns the assistant text.
// wantsJSON asks the endpoint for a JSON object response.
type Chatter interface {
	PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error)
}

// ErrDisabled is wrapped by the UnavailableError returned when AI features
// are turned off in configuration.
var ErrDisabled = errors.New("LLM integration is disabled")

// UnavailableError is returned when the endpoint could not be reached or did
// not answer in time.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "LLM unavailable: " + e.Reason
	}
	return fmt.Sprintf("LLM unavailable: %s: %v", e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError is returned when the endpoint answered with a non-2xx status
// or a body that is not a chat completion.
type RejectedError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RejectedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("LLM service returned error: %d - %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("invalid response format from LLM: %v", e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is or wraps an *UnavailableError.
func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}
