package paramstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/stepwise/internal/errors"
)

type tokenView struct {
	offset     int
	length     int
	value      string
	identifier bool
}

func viewTokens(tokens []Token) []tokenView {
	out := make([]tokenView, len(tokens))
	for i, tok := range tokens {
		out[i] = tokenView{tok.Offset, tok.Length, tok.Value(), tok.IsIdentifier}
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prefix  string
		want    []tokenView
	}{
		{
			name:    "placeholder between literals",
			content: "I have $count cucumbers",
			prefix:  "$",
			want: []tokenView{
				{0, 7, "I have ", false},
				{8, 5, "count", true},
				{13, 10, " cucumbers", false},
			},
		},
		{
			name:    "placeholder at end",
			content: "my name is $name",
			prefix:  "$",
			want: []tokenView{
				{0, 11, "my name is ", false},
				{12, 4, "name", true},
			},
		},
		{
			name:    "placeholder at start",
			content: "$who logs in",
			prefix:  "$",
			want: []tokenView{
				{1, 3, "who", true},
				{4, 8, " logs in", false},
			},
		},
		{
			name:    "only literal",
			content: "the system is ready",
			prefix:  "$",
			want: []tokenView{
				{0, 19, "the system is ready", false},
			},
		},
		{
			name:    "custom prefix",
			content: "I have :count cucumbers",
			prefix:  ":",
			want: []tokenView{
				{0, 7, "I have ", false},
				{8, 5, "count", true},
				{13, 10, " cucumbers", false},
			},
		},
		{
			name:    "regex metacharacter prefix",
			content: "a ^b c",
			prefix:  "^",
			want: []tokenView{
				{0, 2, "a ", false},
				{3, 1, "b", true},
				{4, 2, " c", false},
			},
		},
		{
			name:    "bare prefix is literal",
			content: "costs $ 5",
			prefix:  "$",
			want: []tokenView{
				{0, 9, "costs $ 5", false},
			},
		},
		{
			name:    "separator is consumed before the next placeholder",
			content: "$a$b",
			prefix:  "$",
			want: []tokenView{
				{1, 1, "a", true},
				{2, 2, "$b", false},
			},
		},
		{
			name:    "multibyte literal",
			content: "café $item ready",
			prefix:  "$",
			want: []tokenView{
				{0, 5, "café ", false},
				{6, 4, "item", true},
				{10, 6, " ready", false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viewTokens(Parse(tt.content, tt.prefix))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_TokensReconstructContent(t *testing.T) {
	content := "When $user adds $count items to the $cart"
	tmpl := MustNew(content)

	var rebuilt string
	for _, tok := range tmpl.Tokens() {
		if tok.IsIdentifier {
			rebuilt += tmpl.Prefix()
		}
		rebuilt += tok.Value()
	}
	assert.Equal(t, content, rebuilt)
	assert.Equal(t, []string{"user", "count", "cart"}, tmpl.Identifiers())
}

func TestNew_Invalid(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		_, err := New("")
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
		_, ok := errors.AsTemplateError(err)
		assert.True(t, ok)
	})

	t.Run("nil content", func(t *testing.T) {
		_, err := NewFromPtr(nil)
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("empty prefix", func(t *testing.T) {
		_, err := New("I have $count", WithPrefix(""))
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("negative max input", func(t *testing.T) {
		_, err := New("I have $count", WithMaxInputLength(-1))
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("present content", func(t *testing.T) {
		content := "I have $count"
		tmpl, err := NewFromPtr(&content)
		require.NoError(t, err)
		assert.Equal(t, 2, tmpl.TokenCount())
	})
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew("") })
}

func TestTemplate_Equal(t *testing.T) {
	a := MustNew("I have $count cucumbers")
	b := MustNew("I have $count cucumbers", WithPrefix("#"))
	c := MustNew("I have $count tomatoes")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, a.Key(), b.Key())
}

func TestTemplate_String(t *testing.T) {
	tmpl := MustNew("I have $count cucumbers")
	assert.Equal(t, "<<I have >><<$count>><< cucumbers>>", tmpl.String())

	custom := MustNew("I have :count cucumbers", WithPrefix(":"))
	assert.Equal(t, "<<I have >><<:count>><< cucumbers>>", custom.String())
}

func TestParameterPattern_Cached(t *testing.T) {
	assert.Same(t, parameterPattern("$"), parameterPattern("$"))
	assert.Same(t, parameterPattern(":"), parameterPattern(":"))
	assert.NotSame(t, parameterPattern("$"), parameterPattern(":"))

	// a cached pattern still quotes its prefix
	tokens := Parse("a.b $c", ".")
	require.Len(t, tokens, 3)
	assert.Equal(t, "b", tokens[1].Value())
	assert.True(t, tokens[1].IsIdentifier)
	assert.Equal(t, " $c", tokens[2].Value())
	assert.False(t, tokens[2].IsIdentifier)
}
