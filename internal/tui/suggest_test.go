package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/stepwise/internal/resolver"
	"github.com/chazuruo/stepwise/internal/steps"
)

func newTestResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	r, err := resolver.New([]steps.Definition{
		{ID: "have", Type: steps.Given, Pattern: "I have $count cucumbers"},
		{ID: "eat", Type: steps.When, Pattern: "I eat $count cucumbers"},
	})
	require.NoError(t, err)
	return r
}

func typeRunes(m SuggestModel, s string) SuggestModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(SuggestModel)
	}
	return m
}

func TestNewSuggestModel(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I have", 10)

	require.Len(t, model.Suggestions, 1)
	assert.Equal(t, " $count cucumbers", model.Suggestions[0].Completion)
	require.NotNil(t, model.Match)
	assert.False(t, model.Match.Complete())
	assert.Contains(t, model.View(), "… I have $count cucumbers")
	assert.Nil(t, model.StepType())
	assert.False(t, model.DidQuit())
	assert.False(t, model.DidConfirm())
}

func TestSuggestModel_TypingRefreshes(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I have 5 cucumber", 10)
	model = typeRunes(model, "s")

	assert.Equal(t, "I have 5 cucumbers", model.Input.Value())
	require.NotNil(t, model.Match)
	assert.Equal(t, "have", model.Match.Definition.ID)
	assert.True(t, model.Match.Complete())
	assert.Contains(t, model.View(), "I have $count cucumbers")
}

func TestSuggestModel_TabAccepts(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I have 5 ", 10)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = next.(SuggestModel)

	assert.Equal(t, "I have 5 cucumbers", model.Input.Value())
	assert.NotNil(t, model.Match)
}

func TestSuggestModel_TypeFilter(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I ", 10)
	assert.Len(t, model.Suggestions, 2)

	// any -> Given
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	model = next.(SuggestModel)
	require.NotNil(t, model.StepType())
	assert.Equal(t, steps.Given, *model.StepType())
	require.Len(t, model.Suggestions, 1)
	assert.Equal(t, "have", model.Suggestions[0].Definition.ID)

	// Given -> When
	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	model = next.(SuggestModel)
	require.Len(t, model.Suggestions, 1)
	assert.Equal(t, "eat", model.Suggestions[0].Definition.ID)
}

func TestSuggestModel_Navigation(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I ", 10)
	require.Len(t, model.Suggestions, 2)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = next.(SuggestModel)
	assert.Equal(t, 1, model.cursor)

	// Past the end stays put.
	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = next.(SuggestModel)
	assert.Equal(t, 1, model.cursor)

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = next.(SuggestModel)
	assert.Equal(t, 0, model.cursor)
}

func TestSuggestModel_EnterConfirms(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "I have", 10)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(SuggestModel)

	assert.NotNil(t, cmd)
	assert.True(t, model.DidConfirm())
	// The input only partially matches, so the selected suggestion is taken.
	assert.Equal(t, "I have $count cucumbers", model.Selected)
}

func TestSuggestModel_EscQuits(t *testing.T) {
	model := NewSuggestModel(context.Background(), newTestResolver(t), "", 10)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = next.(SuggestModel)

	assert.True(t, model.DidQuit())
	assert.False(t, model.DidConfirm())
}

func TestSuggestModel_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := NewSuggestModel(ctx, newTestResolver(t), "I have", 10)

	assert.Error(t, model.Err)
	assert.Empty(t, model.Suggestions)
	assert.Contains(t, model.View(), "canceled")
}
