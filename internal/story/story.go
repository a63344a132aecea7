// Package story reads JBehave-style .story files far enough to locate their
// steps.
//
// A step starts on a line beginning with Given, When, Then or And followed
// by a space. Following non-blank lines continue the step text until a blank
// line, another step, or a section header. Lines starting with "|" are table
// rows attached to the step, and "!--" lines are comments.
package story

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/chazuruo/stepwise/internal/errors"
	"github.com/chazuruo/stepwise/internal/steps"
)

// Step is one step of a story.
type Step struct {
	// Keyword is the keyword as written, e.g. "And".
	Keyword string
	// Type is the effective type. An And step takes the type of the step
	// before it; a leading And keeps steps.And.
	Type steps.Type
	// Text is the step text after the keyword. Continuation lines are
	// joined with "\n".
	Text string
	// Rows are table rows attached to the step.
	Rows []string

	// Line is the 1-based line of the keyword.
	Line int
	// Column is the 1-based rune column of the keyword.
	Column int
	// Offset is the byte offset of the keyword in the file.
	Offset int
	// Length is the byte length from the keyword to the end of the text.
	Length int
}

// Scenario groups the steps under one "Scenario:" header.
type Scenario struct {
	Title string
	Line  int
	Steps []Step
}

// Story is a parsed story file.
type Story struct {
	Name      string
	Narrative string
	Scenarios []Scenario
}

// Steps returns every step of every scenario in file order.
func (s *Story) Steps() []Step {
	var out []Step
	for _, sc := range s.Scenarios {
		out = append(out, sc.Steps...)
	}
	return out
}

var stepKeywords = []string{"Given", "When", "Then", "And"}

// sectionHeaders end the current step.
var sectionHeaders = []string{"Narrative:", "Meta:", "GivenStories:", "Examples:", "Lifecycle:", "Before:", "After:"}

// ParseFile reads and parses the story at path.
func ParseFile(path string) (*Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %v", errors.ErrIO, err), "open story")
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads a story from r. name is used for messages only.
func Parse(name string, r io.Reader) (*Story, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %v", errors.ErrIO, err), "read story "+name)
	}

	p := &parser{story: &Story{Name: name}}
	offset := 0
	for i, raw := range strings.SplitAfter(string(data), "\n") {
		if raw == "" {
			continue
		}
		p.line(i+1, offset, strings.TrimRight(raw, "\r\n"))
		offset += len(raw)
	}
	p.flush()

	return p.story, nil
}

type parser struct {
	story     *Story
	scenario  *Scenario
	current   *Step
	lastType  steps.Type
	narrative bool
}

func (p *parser) line(num, offset int, text string) {
	trimmed := strings.TrimSpace(text)
	indent := len(text) - len(strings.TrimLeft(text, " \t"))

	switch {
	case trimmed == "":
		p.flush()

	case strings.HasPrefix(trimmed, "!--"):
		// comment

	case strings.HasPrefix(trimmed, "Scenario:"):
		p.flush()
		p.narrative = false
		p.story.Scenarios = append(p.story.Scenarios, Scenario{
			Title: strings.TrimSpace(strings.TrimPrefix(trimmed, "Scenario:")),
			Line:  num,
		})
		p.scenario = &p.story.Scenarios[len(p.story.Scenarios)-1]

	case hasAnyPrefix(trimmed, sectionHeaders):
		p.flush()
		p.narrative = strings.HasPrefix(trimmed, "Narrative:")

	case strings.HasPrefix(trimmed, "|"):
		if p.current != nil {
			p.current.Rows = append(p.current.Rows, trimmed)
		}

	default:
		if kw := stepKeyword(trimmed); kw != "" {
			p.flush()
			p.startStep(kw, num, offset+indent, utf8.RuneCountInString(text[:indent])+1, text[indent:])
			return
		}
		if p.current != nil {
			p.current.Text += "\n" + trimmed
			p.current.Length = offset + len(strings.TrimRight(text, " \t")) - p.current.Offset
			return
		}
		if p.narrative {
			if p.story.Narrative != "" {
				p.story.Narrative += "\n"
			}
			p.story.Narrative += trimmed
		}
	}
}

func (p *parser) startStep(kw string, num, offset, column int, text string) {
	t, _ := steps.ParseType(kw)
	if t == steps.And && p.lastType != 0 {
		t = p.lastType
	}
	if t != steps.And {
		p.lastType = t
	}

	body := strings.TrimRight(text, " \t")
	p.current = &Step{
		Keyword: kw,
		Type:    t,
		Text:    strings.TrimSpace(body[len(kw):]),
		Line:    num,
		Column:  column,
		Offset:  offset,
		Length:  len(body),
	}
}

// flush attaches the current step to the current scenario. Steps before any
// "Scenario:" header go to an untitled scenario.
func (p *parser) flush() {
	if p.current == nil {
		return
	}
	if p.scenario == nil {
		p.story.Scenarios = append(p.story.Scenarios, Scenario{Line: p.current.Line})
		p.scenario = &p.story.Scenarios[len(p.story.Scenarios)-1]
	}
	p.scenario.Steps = append(p.scenario.Steps, *p.current)
	p.current = nil
}

func stepKeyword(line string) string {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw+" ") || strings.HasPrefix(line, kw+"\t") {
			return kw
		}
	}
	return ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
