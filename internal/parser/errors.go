package parser

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrNoJSONFound matches any *NoJSONFoundError.
	ErrNoJSONFound = errors.New("no JSON found in response")
	// ErrSchemaMismatch matches any *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("response does not match schema")
)

const (
	headPreview = 100
	tailPreview = 200
)

// NoJSONFoundError is returned when no candidate could be parsed at all.
type NoJSONFoundError struct {
	Raw    string
	Best   string
	Reason string
}

func (e *NoJSONFoundError) Error() string {
	if e.Best == "" {
		return fmt.Sprintf("%s: %s", ErrNoJSONFound, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrNoJSONFound, e.Reason, diagnose(e.Raw, e.Best))
}

func (e *NoJSONFoundError) Unwrap() error { return ErrNoJSONFound }

// SchemaMismatchError is returned when a candidate parsed but none satisfied
// the schema. Cause is the last validation or decode failure.
type SchemaMismatchError struct {
	Schema string
	Raw    string
	Best   string
	Cause  error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s %s: %v (%s)", ErrSchemaMismatch, e.Schema, e.Cause, diagnose(e.Raw, e.Best))
}

func (e *SchemaMismatchError) Unwrap() []error { return []error{ErrSchemaMismatch, e.Cause} }

func diagnose(raw, best string) string {
	return fmt.Sprintf("raw %d chars, best candidate %d chars, starts %q, ends %q",
		len(raw), len(best), Head(best, headPreview), Tail(best, tailPreview))
}

// Head returns at most the first n bytes of s, never splitting a rune.
func Head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := max(n, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Tail returns at most the last n bytes of s, never splitting a rune.
func Tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - max(n, 0)
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
