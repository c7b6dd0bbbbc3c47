package parser

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the JSON type a schema expects at a position.
type Kind int

const (
	// Object is the zero-value root kind.
	Object Kind = iota
	String
	Number
	Bool
	StringArray
	Array
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case StringArray:
		return "array of strings"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) isArray() bool {
	return k == StringArray || k == Array
}

// Field describes one member of an object schema.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Enum restricts a String field to these values, compared
	// case-insensitively.
	Enum []string
}

// Schema is the shape a parsed completion must have before it is returned.
//
// Root defaults to Object, in which case Fields lists the members that are
// checked; members not listed are allowed. For an array root only the array
// itself (and, for StringArray, its elements) is checked.
type Schema struct {
	Name   string
	Root   Kind
	Fields []Field
}

// label names the schema in errors and logs.
func (s Schema) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Root.String()
}

// ValidationError lists every way a document failed a Schema.
type ValidationError struct {
	Schema   string
	Missing  []Field
	Problems []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Missing)+len(e.Problems))
	for _, f := range e.Missing {
		parts = append(parts, fmt.Sprintf("missing required field %q", f.Name))
	}
	parts = append(parts, e.Problems...)
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, "; "))
}

// MissingArraysOnly reports whether the only failures are absent required
// array fields, and returns their names.
func (e *ValidationError) MissingArraysOnly() ([]string, bool) {
	if len(e.Problems) > 0 || len(e.Missing) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		if !f.Kind.isArray() {
			return nil, false
		}
		names = append(names, f.Name)
	}
	return names, true
}

// Validate checks doc, which must already be valid JSON, against s.
// It returns nil or a *ValidationError.
func (s Schema) Validate(doc string) error {
	root := gjson.Parse(doc)
	verr := &ValidationError{Schema: s.label()}

	switch s.Root {
	case Object:
		if !root.IsObject() {
			verr.Problems = append(verr.Problems, fmt.Sprintf("expected object at root, got %s", describe(root)))
			return verr
		}
		for _, f := range s.Fields {
			v := root.Get(escapePath(f.Name))
			if !v.Exists() {
				if f.Required {
					verr.Missing = append(verr.Missing, f)
				}
				continue
			}
			if v.Type == gjson.Null && !f.Required {
				continue
			}
			if problem := checkKind(f.Kind, v); problem != "" {
				verr.Problems = append(verr.Problems, fmt.Sprintf("field %q: %s", f.Name, problem))
				continue
			}
			if len(f.Enum) > 0 && !inEnum(v.String(), f.Enum) {
				verr.Problems = append(verr.Problems, fmt.Sprintf("field %q: %q is not one of %s", f.Name, v.String(), strings.Join(f.Enum, ", ")))
			}
		}
	default:
		if problem := checkKind(s.Root, root); problem != "" {
			verr.Problems = append(verr.Problems, "root: "+problem)
		}
	}

	if len(verr.Missing) == 0 && len(verr.Problems) == 0 {
		return nil
	}
	return verr
}

func checkKind(k Kind, v gjson.Result) string {
	ok := false
	switch k {
	case Object:
		ok = v.IsObject()
	case String:
		ok = v.Type == gjson.String
	case Number:
		ok = v.Type == gjson.Number
	case Bool:
		ok = v.IsBool()
	case Array:
		ok = v.IsArray()
	case StringArray:
		if !v.IsArray() {
			break
		}
		ok = true
		for i, el := range v.Array() {
			if el.Type != gjson.String {
				return fmt.Sprintf("element %d: expected string, got %s", i, describe(el))
			}
		}
	}
	if ok {
		return ""
	}
	return fmt.Sprintf("expected %s, got %s", k, describe(v))
}

func describe(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	case v.IsBool():
		return "boolean"
	}
	switch v.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.Null:
		return "null"
	}
	return "nothing"
}

func inEnum(s string, enum []string) bool {
	for _, e := range enum {
		if strings.EqualFold(s, e) {
			return true
		}
	}
	return false
}

// escapePath makes a field name safe to use as a gjson/sjson path.
func escapePath(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(name[i])
	}
	return b.String()
}
