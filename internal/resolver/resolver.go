// Package resolver picks the step definition a line of story text refers to.
//
// Every pattern of every candidate definition is aligned against the text.
// The candidate with the highest aggregated weight wins; ties go to the
// higher priority and then to the definition seen first.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/chainguard-dev/clog"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/paramstring"
	"github.com/chazuruo/stepwise/internal/steps"
)

// Resolver matches text against a fixed set of step definitions. It is
// immutable once built and safe for concurrent use.
type Resolver struct {
	entries   []entry
	strict    bool
	fullMatch bool
}

// entry is one pattern of one definition.
type entry struct {
	def      steps.Definition
	pattern  string
	template *paramstring.Template
	order    int
	defIndex int
}

type templateKey struct {
	prefix  string
	pattern string
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	maxInput  int
	strict    bool
	fullMatch bool
}

// WithMaxInputLength caps the input length the matcher will align.
func WithMaxInputLength(n int) Option {
	return func(o *options) { o.maxInput = n }
}

// WithStrict makes Resolve fail with ErrAmbiguous when two different
// definitions match with the same weight and priority.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithFullMatch makes Resolve ignore candidates the text is not a full
// instance of.
func WithFullMatch(full bool) Option {
	return func(o *options) { o.fullMatch = full }
}

// New compiles the patterns of defs. Definitions keep their order, which
// decides ties. Identical patterns share one template.
func New(defs []steps.Definition, opts ...Option) (*Resolver, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cache := make(map[templateKey]*paramstring.Template)
	r := &Resolver{strict: o.strict, fullMatch: o.fullMatch}

	for i, d := range defs {
		for _, p := range d.Patterns() {
			key := templateKey{prefix: d.PlaceholderPrefix(), pattern: p}
			tmpl, ok := cache[key]
			if !ok {
				var err error
				tmpl, err = paramstring.New(p,
					paramstring.WithPrefix(key.prefix),
					paramstring.WithMaxInputLength(o.maxInput))
				if err != nil {
					return nil, fmt.Errorf("definition %s: %w", d.ID, err)
				}
				cache[key] = tmpl
			}
			r.entries = append(r.entries, entry{def: d, pattern: p, template: tmpl, order: len(r.entries), defIndex: i})
		}
	}

	return r, nil
}

// Load collects the definitions of units and builds a Resolver from them.
func Load(units []steps.SourceUnit, opts ...Option) (*Resolver, error) {
	defs, err := steps.Collect(units, nil)
	if err != nil {
		return nil, err
	}
	return New(defs, opts...)
}

// Definitions returns the distinct definitions in order.
func (r *Resolver) Definitions() []steps.Definition {
	var out []steps.Definition
	seen := make(map[int]bool)
	for _, e := range r.entries {
		if seen[e.defIndex] {
			continue
		}
		seen[e.defIndex] = true
		out = append(out, e.def)
	}
	return out
}

// Candidate is one pattern of a definition aligned against some text.
type Candidate struct {
	Definition steps.Definition
	Pattern    string
	Template   *paramstring.Template
	Chain      *paramstring.Chain

	order    int
	defIndex int
}

// Weight returns the aggregated weight of the alignment.
func (c Candidate) Weight() int { return c.Chain.Weight() }

// Complete reports whether the text is a full instance of the pattern.
func (c Candidate) Complete() bool { return c.Chain.Consumed(c.Template) }

// Match is the definition a step resolved to.
type Match struct {
	Candidate
	Tokens []paramstring.StringToken
}

// Params pairs each placeholder name with the text bound to it.
func (m Match) Params() map[string]string {
	return m.Template.Params(m.Chain.Input())
}

// Rank aligns text against every definition of stepType (nil for all types)
// and returns the candidates with non-zero weight, best first. A limit of
// zero or less returns all of them.
func (r *Resolver) Rank(ctx context.Context, stepType *steps.Type, text string, limit int) ([]Candidate, error) {
	log := clog.FromContext(ctx)

	var out []Candidate
	for _, e := range r.entries {
		if err := ctx.Err(); err != nil {
			return nil, &errors.StepError{Op: "rank", Err: fmt.Errorf("%w: %v", errors.ErrCanceled, err), Text: text}
		}
		if stepType != nil && e.def.Type != *stepType {
			continue
		}

		chain := e.template.Align(text)
		if chain.IsZero() {
			continue
		}
		log.Debugf("candidate %q weight=%d for %q", e.pattern, chain.Weight(), text)

		out = append(out, Candidate{
			Definition: e.def,
			Pattern:    e.pattern,
			Template:   e.template,
			Chain:      chain,
			order:      e.order,
			defIndex:   e.defIndex,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return better(out[i], out[j]) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// better orders candidates by weight, then priority, then declaration order.
func better(a, b Candidate) bool {
	if a.Weight() != b.Weight() {
		return a.Weight() > b.Weight()
	}
	if a.Definition.Priority != b.Definition.Priority {
		return a.Definition.Priority > b.Definition.Priority
	}
	return a.order < b.order
}

// Resolve returns the best ranked definition for text. Any non-zero
// alignment resolves, partial ones included, unless the resolver was built
// with WithFullMatch. When nothing resolves the error wraps ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, stepType *steps.Type, text string) (*Match, error) {
	ranked, err := r.Rank(ctx, stepType, text, 0)
	if err != nil {
		return nil, err
	}

	var best *Candidate
	for i := range ranked {
		c := &ranked[i]
		if r.fullMatch && !c.Complete() {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if !r.strict {
			break
		}
		if c.defIndex == best.defIndex {
			continue
		}
		if c.Weight() == best.Weight() && c.Definition.Priority == best.Definition.Priority {
			return nil, &errors.StepError{
				Op:   "resolve",
				Err:  fmt.Errorf("%q and %q both match: %w", best.Pattern, c.Pattern, errors.ErrAmbiguous),
				Text: text,
			}
		}
		break
	}

	if best == nil {
		clog.FromContext(ctx).Debugf("no definition for %q", text)
		return nil, &errors.StepError{Op: "resolve", Err: errors.ErrNotFound, Text: text}
	}

	return &Match{
		Candidate: *best,
		Tokens:    best.Template.Tokenize(text),
	}, nil
}

// Suggestion is a completion offered for partial text.
type Suggestion struct {
	Definition steps.Definition
	Pattern    string
	// Completion is the text to append to the input.
	Completion string
	// Text is the input with the completion appended.
	Text   string
	Weight int
}

// Suggest returns completions for partial text from the best ranked
// patterns. Candidates that are already complete, or that would produce the
// same text as a better one, are skipped.
func (r *Resolver) Suggest(ctx context.Context, stepType *steps.Type, partial string, limit int) ([]Suggestion, error) {
	ranked, err := r.Rank(ctx, stepType, partial, 0)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	seen := make(map[string]bool)
	for _, c := range ranked {
		completion := c.Template.Complete(partial)
		if completion == "" {
			continue
		}
		text := partial + completion
		if seen[text] {
			continue
		}
		seen[text] = true

		out = append(out, Suggestion{
			Definition: c.Definition,
			Pattern:    c.Pattern,
			Completion: completion,
			Text:       text,
			Weight:     c.Weight(),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}
