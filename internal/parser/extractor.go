package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Stage is how far a candidate got.
type Stage int

const (
	ParseFailed Stage = iota
	SchemaFailed
	Accepted
)

func (s Stage) String() string {
	switch s {
	case ParseFailed:
		return "parse-failed"
	case SchemaFailed:
		return "schema-failed"
	case Accepted:
		return "accepted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Attempt records the outcome of one candidate.
type Attempt struct {
	Candidate Candidate
	Stage     Stage
	Err       error
}

// Result is a schema-valid JSON document recovered from a completion.
type Result struct {
	JSON     string
	Strategy Strategy
	// Repaired is false when the scanned value was accepted as is.
	Repaired bool
	Attempts []Attempt
}

// Extractor recovers schema-valid JSON from raw completions. It holds no
// per-call state and is safe for concurrent use.
type Extractor struct {
	logger  *zap.Logger
	lenient bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger attempts are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLenientRepair enables the general-purpose repair pass.
func WithLenientRepair(on bool) Option {
	return func(e *Extractor) { e.lenient = on }
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Logger returns the logger attempts are reported to.
func (e *Extractor) Logger() *zap.Logger {
	return e.logger
}

// Extract returns the first JSON value in raw that parses and satisfies
// schema, repairing truncation when the value as found does not.
//
// Errors are *NoJSONFoundError when nothing could be parsed and
// *SchemaMismatchError when something parsed but never matched.
func (e *Extractor) Extract(raw string, schema Schema) (*Result, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &NoJSONFoundError{Raw: raw, Reason: "empty response"}
	}
	start := firstBracket(text)
	if start < 0 {
		return nil, &NoJSONFoundError{Raw: raw, Reason: "no '{' or '[' in response"}
	}

	res := &Result{}
	log := e.logger.With(zap.String("schema", schema.label()), zap.Int("raw_len", len(raw)))

	scanned, found := FindJSONValue(text)
	if found {
		c := Candidate{Text: scanned, Strategy: StrategyScanned}
		a := e.try(c, schema)
		res.Attempts = append(res.Attempts, a)
		log.Debug("extract attempt", attemptFields(a)...)
		if a.Stage == Accepted {
			res.JSON = c.Text
			res.Strategy = c.Strategy
			return res, nil
		}
	} else {
		scanned = text[start:]
		log.Debug("no balanced JSON value, repairing from first bracket", zap.Int("offset", start))
	}

	repairer := Repairer{Schema: schema, Lenient: e.lenient}
	for _, c := range repairer.Candidates(scanned) {
		a := e.try(c, schema)
		res.Attempts = append(res.Attempts, a)
		log.Debug("extract attempt", attemptFields(a)...)
		if a.Stage == Accepted {
			res.JSON = c.Text
			res.Strategy = c.Strategy
			res.Repaired = true
			return res, nil
		}
	}

	return nil, failure(raw, scanned, schema, res.Attempts)
}

func (e *Extractor) try(c Candidate, schema Schema) Attempt {
	if !json.Valid([]byte(c.Text)) {
		var v any
		err := json.Unmarshal([]byte(c.Text), &v)
		return Attempt{Candidate: c, Stage: ParseFailed, Err: err}
	}
	if err := schema.Validate(c.Text); err != nil {
		return Attempt{Candidate: c, Stage: SchemaFailed, Err: err}
	}
	return Attempt{Candidate: c, Stage: Accepted}
}

// failure builds the error for an extraction where no attempt was accepted.
// The best candidate is the last one that parsed, or else the first tried.
func failure(raw, scanned string, schema Schema, attempts []Attempt) error {
	var parsed *Attempt
	for i := range attempts {
		if attempts[i].Stage == SchemaFailed {
			parsed = &attempts[i]
		}
	}
	if parsed != nil {
		return &SchemaMismatchError{
			Schema: schema.label(),
			Raw:    raw,
			Best:   parsed.Candidate.Text,
			Cause:  parsed.Err,
		}
	}

	best := scanned
	reason := "no repair candidates"
	if len(attempts) > 0 {
		best = attempts[0].Candidate.Text
		reason = fmt.Sprintf("none of %d candidates parsed", len(attempts))
		if last := attempts[len(attempts)-1].Err; last != nil {
			reason += ": " + last.Error()
		}
	}
	return &NoJSONFoundError{Raw: raw, Best: best, Reason: reason}
}

func attemptFields(a Attempt) []zap.Field {
	fields := []zap.Field{
		zap.String("strategy", string(a.Candidate.Strategy)),
		zap.Stringer("stage", a.Stage),
		zap.Int("len", len(a.Candidate.Text)),
	}
	if a.Err != nil {
		fields = append(fields, zap.Error(a.Err))
	}
	return fields
}

// Decode extracts a value matching schema from raw and unmarshals it into T.
// A decode failure is reported as a *SchemaMismatchError.
func Decode[T any](e *Extractor, raw string, schema Schema) (T, error) {
	var out T
	res, err := e.Extract(raw, schema)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(res.JSON), &out); err != nil {
		return out, &SchemaMismatchError{
			Schema: schema.label(),
			Raw:    raw,
			Best:   res.JSON,
			Cause:  fmt.Errorf("decoding: %w", err),
		}
	}
	return out, nil
}

// IsExtractionError reports whether err came from Extract or Decode.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrNoJSONFound) || errors.Is(err, ErrSchemaMismatch)
}
