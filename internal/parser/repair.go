package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/sjson"
)

// Strategy names the way a Candidate was produced.
type Strategy string

const (
	StrategyScanned         Strategy = "scanned"
	StrategyBalanced        Strategy = "balanced"
	StrategyBracketsFirst   Strategy = "close-brackets-first"
	StrategyBracesFirst     Strategy = "close-braces-first"
	StrategyNestingOrder    Strategy = "close-nesting-order"
	StrategyDefaultedArrays Strategy = "default-missing-arrays"
	StrategyLenient         Strategy = "lenient"
)

// Candidate is one text the extractor will try to parse.
type Candidate struct {
	Text     string
	Strategy Strategy
}

// Repairer turns a truncated JSON text into candidate completions.
//
// Schema is consulted only to default required array fields the generator
// never reached. Lenient adds a final general-purpose repair pass.
type Repairer struct {
	Schema  Schema
	Lenient bool
}

// Candidates returns repaired versions of text in the order they should be
// tried: bracket closures, then closures with defaulted array fields, then
// the lenient repair. The result may be empty.
func (r Repairer) Candidates(text string) []Candidate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	text = cutUnterminatedString(text)
	text = dropDanglingTail(text)

	var out []Candidate
	seen := make(map[string]bool)
	add := func(c Candidate) {
		if c.Text == "" || seen[c.Text] {
			return
		}
		seen[c.Text] = true
		out = append(out, c)
	}

	closures := closeContainers(text)
	for _, c := range closures {
		add(c)
	}
	for _, c := range closures {
		if d, ok := r.defaultMissingArrays(c); ok {
			add(d)
		}
	}

	if r.Lenient {
		if fixed, err := jsonrepair.JSONRepair(text); err == nil {
			add(Candidate{Text: fixed, Strategy: StrategyLenient})
		}
	}

	return out
}

// cutUnterminatedString removes a string literal the generator never closed,
// together with the element or pair it belonged to.
func cutUnterminatedString(text string) string {
	l := scanLayout(text)
	if len(l.quotes)%2 == 0 {
		return text
	}

	last := l.quotes[len(l.quotes)-1]
	m, ok := l.lastMarkBefore(last, ",]}")
	if !ok {
		return text
	}
	if m.ch == ',' {
		return strings.TrimRight(text[:m.pos], " \t\r\n")
	}
	return text[:m.pos+1]
}

// dropDanglingTail inspects what follows the last comma. A trailing comma is
// removed, a key without a value is removed, and a key whose value was cut
// short gets an empty array. Only a pair in a still-open object can have been
// cut short.
func dropDanglingTail(text string) string {
	l := scanLayout(text)

	var comma mark
	found := false
	for i := len(l.marks) - 1; i >= 0; i-- {
		if l.marks[i].ch == ',' {
			comma, found = l.marks[i], true
			break
		}
	}
	if !found {
		return text
	}

	end := l.closerOf(comma)
	open := end < 0
	if open {
		end = len(text)
	}
	rhs := strings.TrimSpace(text[comma.pos+1 : end])

	if rhs == "" {
		return text[:comma.pos] + text[end:]
	}
	if comma.container != '{' || rhs[0] != '"' {
		return text
	}

	keyEnd := closingQuote(rhs)
	if keyEnd < 0 {
		return text
	}
	key := rhs[:keyEnd+1]
	afterKey := strings.TrimSpace(rhs[keyEnd+1:])

	if afterKey == "" {
		return text[:comma.pos] + text[end:]
	}
	if afterKey[0] != ':' {
		return text
	}
	if !open || !incompleteValue(strings.TrimSpace(afterKey[1:])) {
		return text
	}
	return text[:comma.pos] + ", " + key + ": []" + text[end:]
}

// closingQuote returns the index of the quote that ends the literal opened
// at s[0], or -1.
func closingQuote(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}

func incompleteValue(v string) bool {
	switch v {
	case "", "[]", "[", "]", "{}", "{", "}":
		return true
	}
	last := v[len(v)-1]
	return (last == ']' || last == '}') && v[0] != '[' && v[0] != '{'
}

// closeContainers appends the closers text is missing. Closing every array
// before every object and the reverse cover the common shapes; nesting
// order covers the rest.
func closeContainers(text string) []Candidate {
	text = strings.TrimRight(text, " \t\r\n")
	l := scanLayout(text)

	braces := max(l.braces, 0)
	brackets := max(l.brackets, 0)
	if braces == 0 && brackets == 0 {
		return []Candidate{{Text: text, Strategy: StrategyBalanced}}
	}

	curlies := strings.Repeat("}", braces)
	squares := strings.Repeat("]", brackets)

	var nested strings.Builder
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.stack[i] == '{' {
			nested.WriteByte('}')
		} else {
			nested.WriteByte(']')
		}
	}

	return []Candidate{
		{Text: text + squares + curlies, Strategy: StrategyBracketsFirst},
		{Text: text + curlies + squares, Strategy: StrategyBracesFirst},
		{Text: text + nested.String(), Strategy: StrategyNestingOrder},
	}
}

// defaultMissingArrays inserts empty arrays for required array fields that
// are absent from an otherwise valid closure.
func (r Repairer) defaultMissingArrays(c Candidate) (Candidate, bool) {
	if r.Schema.Root != Object || !json.Valid([]byte(c.Text)) {
		return Candidate{}, false
	}

	var verr *ValidationError
	if err := r.Schema.Validate(c.Text); !errors.As(err, &verr) {
		return Candidate{}, false
	}
	names, ok := verr.MissingArraysOnly()
	if !ok {
		return Candidate{}, false
	}

	doc := c.Text
	for _, name := range names {
		next, err := sjson.SetRaw(doc, escapePath(name), "[]")
		if err != nil {
			return Candidate{}, false
		}
		doc = next
	}
	return Candidate{Text: doc, Strategy: StrategyDefaultedArrays}, true
}
