// Package check annotates story steps that no step definition resolves.
package check

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/resolver"
	"github.com/chazuruo/stepwise/internal/steps"
	"github.com/chazuruo/stepwise/internal/story"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// MessageNotFound is reported for steps without a definition.
const MessageNotFound = "No definition found for the step"

// Diagnostic describes a problem at a range of a story file.
type Diagnostic struct {
	File     string   `json:"file"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Offset   int      `json:"offset"`
	Length   int      `json:"length"`
	Text     string   `json:"text"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// Resolved records the definition a step resolved to.
type Resolved struct {
	File         string            `json:"file"`
	Line         int               `json:"line"`
	Text         string            `json:"text"`
	DefinitionID string            `json:"definition_id"`
	Pattern      string            `json:"pattern"`
	Weight       int               `json:"weight"`
	Complete     bool              `json:"complete"`
	Params       map[string]string `json:"params,omitempty"`
}

// Report is the outcome of checking one or more stories.
type Report struct {
	Files       []string     `json:"files"`
	Resolved    []Resolved   `json:"resolved"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasErrors reports whether any diagnostic is an error.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Merge appends other to r.
func (r *Report) Merge(other *Report) {
	r.Files = append(r.Files, other.Files...)
	r.Resolved = append(r.Resolved, other.Resolved...)
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Checker resolves the steps of stories.
type Checker struct {
	Resolver *resolver.Resolver
}

// New returns a Checker backed by r.
func New(r *resolver.Resolver) *Checker {
	return &Checker{Resolver: r}
}

// Check resolves every step of s. Unresolved steps become error
// diagnostics; ambiguous steps, which only occur with a strict resolver,
// become warnings. Only cancellation is returned as an error.
func (c *Checker) Check(ctx context.Context, s *story.Story) (*Report, error) {
	log := clog.FromContext(ctx).With("story", s.Name)
	report := &Report{Files: []string{s.Name}}

	for _, st := range s.Steps() {
		var filter *steps.Type
		if st.Type != steps.And {
			t := st.Type
			filter = &t
		}

		m, err := c.Resolver.Resolve(ctx, filter, st.Text)
		switch {
		case err == nil:
			report.Resolved = append(report.Resolved, Resolved{
				File:         s.Name,
				Line:         st.Line,
				Text:         st.Text,
				DefinitionID: m.Definition.ID,
				Pattern:      m.Pattern,
				Weight:       m.Weight(),
				Complete:     m.Complete(),
				Params:       m.Params(),
			})
		case errors.IsNotFound(err):
			log.Debugf("line %d: unresolved %q", st.Line, st.Text)
			report.Diagnostics = append(report.Diagnostics, diagnostic(s.Name, st, SeverityError, MessageNotFound))
		case errors.IsAmbiguous(err):
			report.Diagnostics = append(report.Diagnostics, diagnostic(s.Name, st, SeverityWarning, err.Error()))
		default:
			return nil, err
		}
	}

	return report, nil
}

// CheckFiles parses and checks each story file and merges the reports.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) (*Report, error) {
	total := &Report{}
	for _, path := range paths {
		s, err := story.ParseFile(path)
		if err != nil {
			return nil, err
		}
		r, err := c.Check(ctx, s)
		if err != nil {
			return nil, err
		}
		total.Merge(r)
	}
	return total, nil
}

func diagnostic(file string, st story.Step, sev Severity, msg string) Diagnostic {
	return Diagnostic{
		File:     file,
		Severity: sev,
		Message:  msg,
		Line:     st.Line,
		Column:   st.Column,
		Offset:   st.Offset,
		Length:   st.Length,
		Text:     st.Text,
	}
}
