// Package tui provides Bubble Tea models for terminal UI interactions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/stepwise/internal/resolver"
	"github.com/chazuruo/stepwise/internal/steps"
)

// Matcher is what the suggest model needs from a resolver.
type Matcher interface {
	Suggest(ctx context.Context, stepType *steps.Type, partial string, limit int) ([]resolver.Suggestion, error)
	Resolve(ctx context.Context, stepType *steps.Type, text string) (*resolver.Match, error)
}

// typeCycle is the order ctrl+t steps through. nil means any type.
var typeCycle = []*steps.Type{nil, typePtr(steps.Given), typePtr(steps.When), typePtr(steps.Then)}

func typePtr(t steps.Type) *steps.Type { return &t }

// SuggestModel is a Bubble Tea model for typing a step with completions.
type SuggestModel struct {
	// Matcher supplies suggestions and resolution.
	Matcher Matcher

	// Limit is the maximum number of suggestions shown.
	Limit int

	// ShowHelp controls the help line.
	ShowHelp bool

	// Suggestions for the current input.
	Suggestions []resolver.Suggestion

	// Match is the definition the current input resolves to, if any. It may
	// be a partial match.
	Match *resolver.Match

	// Err is the last error from the matcher.
	Err error

	// Input is the step text being typed.
	Input textinput.Model

	// Viewport shows details of the selected suggestion.
	Viewport viewport.Model

	// Quit indicates whether the user quit without selecting.
	Quit bool

	// Confirmed indicates whether the user confirmed a step.
	Confirmed bool

	// Selected is the confirmed step text.
	Selected string

	ctx       context.Context
	cursor    int
	typeIndex int

	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	headerStyle   lipgloss.Style
	metadataStyle lipgloss.Style
	okStyle       lipgloss.Style
	errStyle      lipgloss.Style
}

// NewSuggestModel creates a suggest model starting from initial text.
func NewSuggestModel(ctx context.Context, m Matcher, initial string, limit int) SuggestModel {
	ti := textinput.New()
	ti.Placeholder = "Type a step..."
	ti.SetValue(initial)
	ti.Focus()

	model := SuggestModel{
		Matcher:       m,
		Limit:         limit,
		ShowHelp:      true,
		Input:         ti,
		Viewport:      viewport.New(60, 8),
		ctx:           ctx,
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		headerStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		metadataStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		okStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	model.Refresh()
	return model
}

// Init implements tea.Model.
func (m SuggestModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SuggestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Viewport.Width = max(20, msg.Width-4)
		m.Input.Width = max(20, msg.Width-12)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Quit = true
			return m, tea.Quit

		case "enter":
			m.Confirmed = true
			m.Selected = m.Input.Value()
			if (m.Match == nil || !m.Match.Complete()) && len(m.Suggestions) > 0 {
				m.Selected = m.Suggestions[m.cursor].Text
			}
			return m, tea.Quit

		case "tab":
			m.Accept()
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
				m.updatePreview()
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.Suggestions)-1 {
				m.cursor++
				m.updatePreview()
			}
			return m, nil

		case "ctrl+t":
			m.typeIndex = (m.typeIndex + 1) % len(typeCycle)
			m.Refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	old := m.Input.Value()
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() != old {
		m.Refresh()
	}
	return m, cmd
}

// Accept appends the selected completion to the input.
func (m *SuggestModel) Accept() {
	if len(m.Suggestions) == 0 {
		return
	}
	m.Input.SetValue(m.Suggestions[m.cursor].Text)
	m.Input.CursorEnd()
	m.Refresh()
}

// StepType returns the active type filter, nil for any.
func (m SuggestModel) StepType() *steps.Type {
	return typeCycle[m.typeIndex]
}

// Refresh recomputes suggestions and resolution for the current input.
func (m *SuggestModel) Refresh() {
	text := m.Input.Value()
	m.Err = nil
	m.Match = nil

	suggestions, err := m.Matcher.Suggest(m.ctx, m.StepType(), text, m.Limit)
	if err != nil {
		m.Err = err
		suggestions = nil
	}
	m.Suggestions = suggestions

	if text != "" && err == nil {
		if match, err := m.Matcher.Resolve(m.ctx, m.StepType(), text); err == nil {
			m.Match = match
		}
	}

	if m.cursor >= len(m.Suggestions) {
		m.cursor = max(0, len(m.Suggestions)-1)
	}
	m.updatePreview()
}

func (m *SuggestModel) updatePreview() {
	if len(m.Suggestions) == 0 {
		m.Viewport.SetContent("")
		return
	}

	s := m.Suggestions[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.Definition.Type, s.Pattern)
	if s.Definition.Description != "" {
		b.WriteString(s.Definition.Description + "\n")
	}
	fmt.Fprintf(&b, "ID: %s\n", s.Definition.ID)
	if s.Definition.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", s.Definition.Source)
	}
	fmt.Fprintf(&b, "Weight: %d", s.Weight)
	m.Viewport.SetContent(b.String())
}

// View implements tea.Model.
func (m SuggestModel) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(m.headerStyle.Render("Step Completion"))
	filter := "any"
	if t := m.StepType(); t != nil {
		filter = t.String()
	}
	b.WriteString(m.metadataStyle.Render(fmt.Sprintf("  [type: %s]", filter)))
	b.WriteString("\n\n  ")
	b.WriteString(m.Input.View())
	b.WriteString("\n  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if len(m.Suggestions) == 0 {
		b.WriteString("  (no suggestions)\n")
	}
	for i, s := range m.Suggestions {
		style := m.normalStyle
		marker := "  "
		if i == m.cursor {
			style = m.selectedStyle
			marker = "> "
		}
		b.WriteString("  ")
		b.WriteString(style.Render(marker + m.Input.Value() + s.Completion))
		b.WriteString("\n")
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.Viewport.View()))
		b.WriteString("\n")
	}

	if m.ShowHelp {
		b.WriteString("\n  ")
		b.WriteString(m.helpText())
		b.WriteString("\n")
	}

	return b.String()
}

func (m SuggestModel) statusLine() string {
	switch {
	case m.Err != nil:
		return m.errStyle.Render(m.Err.Error())
	case m.Match != nil && m.Match.Complete():
		return m.okStyle.Render("✓ " + m.Match.Pattern)
	case m.Match != nil:
		return m.metadataStyle.Render("… " + m.Match.Pattern)
	case m.Input.Value() == "":
		return ""
	default:
		return m.metadataStyle.Render("no definition matches yet")
	}
}

func (m SuggestModel) helpText() string {
	parts := []string{
		"[Tab] Accept",
		"[↑/↓] Move",
		"[Ctrl+T] Type filter",
		"[Enter] Confirm",
		"[Esc] Quit",
	}
	return m.metadataStyle.Render(strings.Join(parts, " • "))
}

// DidQuit returns true if the user quit without selecting.
func (m SuggestModel) DidQuit() bool {
	return m.Quit
}

// DidConfirm returns true if the user confirmed a step.
func (m SuggestModel) DidConfirm() bool {
	return m.Confirmed
}
