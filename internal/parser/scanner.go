// Package parser recovers structured data from chat-model completions.
//
// Local inference endpoints often stop generating before a JSON value is
// complete. The package locates the JSON value embedded in a completion,
// repairs the truncation shapes a token-limited generator produces, and
// only returns JSON that passed the caller's Schema.
package parser

import "strings"

// FindJSONValue returns the first balanced JSON object or array in text.
//
// The scan starts at the first '{' or '[' and counts nesting depth until it
// returns to zero. Brackets inside string literals are ignored, and a
// backslash inside a string consumes the next byte so an escaped quote does
// not end the literal. Markdown fences and surrounding prose are skipped
// because the scan begins at the bracket.
//
// ok is false when text has no bracket or ends before the value closes.
func FindJSONValue(text string) (string, bool) {
	start := firstBracket(text)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// firstBracket returns the index of the first '{' or '[' in text, or -1.
func firstBracket(text string) int {
	return strings.IndexAny(text, "{[")
}

// mark is a structural byte seen outside string literals.
type mark struct {
	pos int
	ch  byte
	// container is the innermost open container at pos ('{', '[' or 0 at
	// top level). For a closer it is the container being closed.
	container byte
	// depth is the number of open containers at pos, counted before a
	// closer pops its container.
	depth int
}

// layout is the structural outline of a possibly truncated JSON text.
type layout struct {
	marks    []mark
	quotes   []int  // positions of quotes that open or close a literal
	stack    []byte // containers still open at the end, outermost first
	braces   int    // net '{' minus '}'
	brackets int    // net '[' minus ']'
	inString bool   // text ends inside a string literal
}

func scanLayout(text string) layout {
	var l layout
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if l.inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				l.inString = false
				l.quotes = append(l.quotes, i)
			}
			continue
		}

		switch ch {
		case '"':
			l.inString = true
			l.quotes = append(l.quotes, i)
		case '{', '[':
			l.marks = append(l.marks, mark{pos: i, ch: ch, container: l.top(), depth: len(l.stack)})
			l.stack = append(l.stack, ch)
			if ch == '{' {
				l.braces++
			} else {
				l.brackets++
			}
		case '}', ']':
			l.marks = append(l.marks, mark{pos: i, ch: ch, container: l.top(), depth: len(l.stack)})
			if len(l.stack) > 0 {
				l.stack = l.stack[:len(l.stack)-1]
			}
			if ch == '}' {
				l.braces--
			} else {
				l.brackets--
			}
		case ',', ':':
			l.marks = append(l.marks, mark{pos: i, ch: ch, container: l.top(), depth: len(l.stack)})
		}
	}

	return l
}

func (l *layout) top() byte {
	if len(l.stack) == 0 {
		return 0
	}
	return l.stack[len(l.stack)-1]
}

// lastMarkBefore returns the last mark before pos whose byte is in set.
func (l *layout) lastMarkBefore(pos int, set string) (mark, bool) {
	for i := len(l.marks) - 1; i >= 0; i-- {
		m := l.marks[i]
		if m.pos >= pos {
			continue
		}
		if strings.IndexByte(set, m.ch) >= 0 {
			return m, true
		}
	}
	return mark{}, false
}

// closerOf returns the position of the mark that closes the container a
// comma at m sits in, or -1 when that container is still open.
func (l *layout) closerOf(m mark) int {
	for _, c := range l.marks {
		if c.pos <= m.pos {
			continue
		}
		if (c.ch == '}' || c.ch == ']') && c.depth == m.depth {
			return c.pos
		}
	}
	return -1
}
