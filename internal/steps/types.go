// Package steps defines step definitions and the catalogs they are loaded from.
package steps

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/stepwise/internal/errors"
)

// Type is the kind of a step.
type Type int

const (
	Given Type = iota + 1
	When
	Then
	And
	Ignorable
	Composite
)

var typeNames = map[Type]string{
	Given:     "given",
	When:      "when",
	Then:      "then",
	And:       "and",
	Ignorable: "ignorable",
	Composite: "composite",
}

// Types lists every step type in declaration order.
func Types() []Type {
	return []Type{Given, When, Then, And, Ignorable, Composite}
}

// ParseType parses a step keyword, ignoring case and surrounding space.
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown step type %q: %w", s, errors.ErrInvalid)
}

// String renders the type as a keyword, e.g. "Given".
func (t Type) String() string {
	name, ok := typeNames[t]
	if !ok {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return cases.Title(language.English).String(name)
}

// Valid reports whether t is a known step type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// MarshalYAML writes the type as its lower-case keyword.
func (t Type) MarshalYAML() (interface{}, error) {
	name, ok := typeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown step type %d: %w", int(t), errors.ErrInvalid)
	}
	return name, nil
}

// UnmarshalYAML reads the type from a keyword scalar.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: step type must be a string: %w", value.Line, errors.ErrInvalid)
	}
	parsed, err := ParseType(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}
