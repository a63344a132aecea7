// Package paramstring matches free text against parametrized step templates.
//
// A template such as "I have $count cucumbers" is split into literal and
// placeholder tokens. Align scores how well an input lines up with those
// tokens, Tokenize splits the input into literal and placeholder segments,
// and Complete returns the text that would turn a partial input into a full
// instance of the template.
//
// Matching never fails with an error. An input that does not fit the
// template produces a zero chain (weight 0, no nodes).
package paramstring

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/chazuruo/stepwise/internal/errors"
)

// DefaultPrefix marks a placeholder when no other prefix is configured.
const DefaultPrefix = "$"

// Template is a parsed parametrized string. It is immutable once built and
// safe for concurrent use.
type Template struct {
	content  string
	prefix   string
	tokens   []Token
	maxInput int
}

// Option configures a Template.
type Option func(*Template)

// WithPrefix sets the placeholder prefix (default "$").
func WithPrefix(prefix string) Option {
	return func(t *Template) {
		t.prefix = prefix
	}
}

// WithMaxInputLength caps the number of runes an input may have before
// alignment gives up and returns the zero chain. Zero disables the cap.
func WithMaxInputLength(n int) Option {
	return func(t *Template) {
		t.maxInput = n
	}
}

// New parses content into a Template.
// Returns an error if content or the prefix is empty.
func New(content string, opts ...Option) (*Template, error) {
	t := &Template{
		content: content,
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(t)
	}

	if content == "" {
		return nil, &errors.TemplateError{Op: "new", Err: fmt.Errorf("content cannot be empty: %w", errors.ErrInvalid)}
	}
	if t.prefix == "" {
		return nil, &errors.TemplateError{Op: "new", Err: fmt.Errorf("placeholder prefix cannot be empty: %w", errors.ErrInvalid), Content: content}
	}
	if t.maxInput < 0 {
		return nil, &errors.TemplateError{Op: "new", Err: fmt.Errorf("max input length must be >= 0: %w", errors.ErrInvalid), Content: content}
	}

	t.tokens = Parse(content, t.prefix)
	return t, nil
}

// NewFromPtr is New for content that may be absent, such as an optional
// field decoded from a catalog. A nil content is invalid.
func NewFromPtr(content *string, opts ...Option) (*Template, error) {
	if content == nil {
		return nil, &errors.TemplateError{Op: "new", Err: fmt.Errorf("content cannot be nil: %w", errors.ErrInvalid)}
	}
	return New(*content, opts...)
}

// MustNew is like New but panics on error. Intended for tests and
// package-level templates.
func MustNew(content string, opts ...Option) *Template {
	t, err := New(content, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// patterns caches compiled parameter patterns by prefix.
var patterns sync.Map

// parameterPattern matches a prefix followed by one or more word characters
// and the separator after them (or the end of the content).
func parameterPattern(prefix string) *regexp.Regexp {
	if re, ok := patterns.Load(prefix); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?s)(` + regexp.QuoteMeta(prefix) + `\w+)(\W|\z)`)
	actual, _ := patterns.LoadOrStore(prefix, re)
	return actual.(*regexp.Regexp)
}

// Parse splits content into literal and identifier tokens.
//
// Identifier tokens exclude the prefix and the separator that ends them; the
// separator becomes the start of the following literal. Offsets are counted
// in runes.
func Parse(content, prefix string) []Token {
	var tokens []Token

	add := func(start, end int, identifier bool) {
		tok := Token{
			Offset:       utf8.RuneCountInString(content[:start]),
			Length:       utf8.RuneCountInString(content[start:end]),
			IsIdentifier: identifier,
			value:        content[start:end],
		}
		if identifier {
			tok.prefix = prefix
		}
		tokens = append(tokens, tok)
	}

	prev := 0
	for _, m := range parameterPattern(prefix).FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		if start > prev {
			add(prev, start, false)
		}
		end -= m[5] - m[4]
		start += len(prefix)
		add(start, end, true)
		prev = end
	}
	if prev < len(content) {
		add(prev, len(content), false)
	}

	return tokens
}

// Content returns the raw template text.
func (t *Template) Content() string { return t.content }

// Prefix returns the placeholder prefix.
func (t *Template) Prefix() string { return t.prefix }

// TokenCount returns the number of tokens.
func (t *Template) TokenCount() int { return len(t.tokens) }

// Token returns the token at index i.
func (t *Template) Token(i int) Token { return t.tokens[i] }

// Tokens returns a copy of the token list.
func (t *Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Identifiers returns the placeholder names in template order.
func (t *Template) Identifiers() []string {
	var names []string
	for _, tok := range t.tokens {
		if tok.IsIdentifier {
			names = append(names, tok.Value())
		}
	}
	return names
}

// Equal reports whether both templates have the same raw content. The
// prefix does not take part in equality.
func (t *Template) Equal(other *Template) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.content == other.content
}

// Key returns the value templates are compared by, suitable as a map key.
func (t *Template) Key() string { return t.content }

func (t *Template) String() string {
	var b strings.Builder
	for _, tok := range t.tokens {
		b.WriteString(tok.String())
	}
	return b.String()
}
