package paramstring

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cucumbers = "I have $count cucumbers"

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		want     []StringToken
	}{
		{
			name:     "full match",
			template: cucumbers,
			input:    "I have 5 cucumbers",
			want: []StringToken{
				{"I have ", false},
				{"5", true},
				{" cucumbers", false},
			},
		},
		{
			name:     "multi word placeholder value",
			template: cucumbers,
			input:    "I have a lot of cucumbers",
			want: []StringToken{
				{"I have ", false},
				{"a lot of", true},
				{" cucumbers", false},
			},
		},
		{
			name:     "case insensitive literal",
			template: "HELLO $name",
			input:    "hello World",
			want: []StringToken{
				{"hello ", false},
				{"World", true},
			},
		},
		{
			name:     "whitespace insensitive literal",
			template: "I have$count cucumbers",
			input:    "i have5  cucumbers",
			want: []StringToken{
				{"i have", false},
				{"5 ", true},
				{" cucumbers", false},
			},
		},
		{
			name:     "partial input stops inside a literal",
			template: cucumbers,
			input:    "I have 5 cu",
			want: []StringToken{
				{"I have ", false},
				{"5", true},
				{" cu", false},
			},
		},
		{
			name:     "only literal",
			template: "the system is ready",
			input:    "The System Is Ready",
			want: []StringToken{
				{"The System Is Ready", false},
			},
		},
		{
			name:     "mismatch",
			template: cucumbers,
			input:    "You have 5 cucumbers",
			want:     nil,
		},
		{
			name:     "empty input",
			template: cucumbers,
			input:    "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustNew(tt.template).Tokenize(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_ConcatenationIsInput(t *testing.T) {
	tmpl := MustNew("When $user adds $count items to the $cart")
	inputs := []string{
		"When alice adds 3 items to the basket",
		"When bob adds",
		"When bob adds 12 ite",
		"when  carol adds 1 items to the cart",
	}

	for _, input := range inputs {
		var b strings.Builder
		for _, tok := range tmpl.Tokenize(input) {
			b.WriteString(tok.Value)
		}
		assert.Equal(t, input, b.String(), "input %q", input)
	}
}

func TestAlign_Weights(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		want     int
	}{
		{"full match", cucumbers, "I have 5 cucumbers", 5},
		{"literal prefix only", cucumbers, "I have", 1},
		{"first literal complete", cucumbers, "I have ", 2},
		{"placeholder started", cucumbers, "I have 5", 3},
		{"last literal started", cucumbers, "I have 5 ", 4},
		{"mismatch", cucumbers, "You have", 0},
		{"empty input", cucumbers, "", 0},
		{"single literal exact", "hello", "HELLO", 2},
		{"single literal partial", "hello", "hel", 1},
		{"single literal with leftover input", "hello", "hello world", 0},
		{"placeholder only", "$anything", "I have 5 cucumbers", 1},
		// a literal that ends the input stops the chain before the placeholder
		{"trailing placeholder not reached", "my name is $name", "my name is ", 2},
		{"leading placeholder empty input", "$who logs in", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := MustNew(tt.template).Align(tt.input)
			assert.Equal(t, tt.want, chain.Weight())
			assert.Equal(t, tt.want == 0, chain.IsZero())
		})
	}
}

func TestAlign_Chain(t *testing.T) {
	tmpl := MustNew(cucumbers)
	chain := tmpl.Align("I have 5 cucumbers")

	nodes := chain.Nodes()
	require.Len(t, nodes, 3)

	assert.Equal(t, 0, nodes[0].InputIndex)
	assert.Equal(t, 0, nodes[0].TokenIndex)
	assert.Equal(t, 2, nodes[0].Weight)

	assert.Equal(t, 7, nodes[1].InputIndex)
	assert.Equal(t, 1, nodes[1].TokenIndex)
	assert.Equal(t, 1, nodes[1].Weight)

	assert.Equal(t, 8, nodes[2].InputIndex)
	assert.Equal(t, 2, nodes[2].TokenIndex)
	assert.Equal(t, 2, nodes[2].Weight)

	assert.Same(t, nodes[2], chain.Last())
	assert.Same(t, nodes[0], chain.Head())
	assert.Equal(t, []string{"I have ", "5", " cucumbers"}, chain.Segments())
	assert.True(t, chain.Consumed(tmpl))
	assert.Equal(t, "I have 5 cucumbers", chain.Input())
}

func TestAlign_ZeroChain(t *testing.T) {
	tmpl := MustNew(cucumbers)
	chain := tmpl.Align("nothing like it")

	assert.True(t, chain.IsZero())
	assert.Nil(t, chain.Head())
	assert.Nil(t, chain.Last())
	assert.Empty(t, chain.Nodes())
	assert.Empty(t, chain.Segments())
	assert.False(t, chain.Consumed(tmpl))
	assert.Equal(t, "Chain[zero]", chain.String())
}

func TestAlign_Consumed(t *testing.T) {
	tmpl := MustNew(cucumbers)

	assert.True(t, tmpl.Align("I have 5 cucumbers").Consumed(tmpl))
	assert.False(t, tmpl.Align("I have 5 cucumb").Consumed(tmpl))
	assert.False(t, tmpl.Align("I have 5").Consumed(tmpl))

	trailing := MustNew("my name is $name")
	assert.True(t, trailing.Align("my name is Bob").Consumed(trailing))
	assert.False(t, trailing.Align("my name is ").Consumed(trailing))
}

func TestAlign_ExhaustedAtPlaceholder(t *testing.T) {
	tmpl := MustNew("$who logs in")

	chain := tmpl.Align("")
	require.Len(t, chain.Nodes(), 1)
	head := chain.Head()
	assert.Equal(t, 0, head.InputIndex)
	assert.Equal(t, 0, head.TokenIndex)
	assert.Equal(t, 1, head.Weight)
	assert.Equal(t, []string{""}, chain.Segments())
	assert.False(t, chain.Consumed(tmpl))

	assert.Equal(t, []StringToken{{"", true}}, tmpl.Tokenize(""))
	assert.Equal(t, " logs in", tmpl.Complete(""))

	trailing := MustNew("my name is $name")
	assert.Equal(t, []StringToken{{"my name is ", false}}, trailing.Tokenize("my name is "))
	assert.Equal(t, "$name", trailing.Complete("my name is "))
}

func TestAlign_FullMatchScoresMaximally(t *testing.T) {
	tmpl := MustNew("When $user adds $count items to the $cart")

	// three literals at 2 and three placeholders at 1
	chain := tmpl.Align("When alice adds 3 items to the basket")
	assert.Equal(t, 9, chain.Weight())

	for _, n := range chain.Nodes() {
		tok := tmpl.Token(n.TokenIndex)
		if !tok.IsIdentifier {
			assert.Equal(t, 2, n.Weight, "literal %q", tok.Value())
		}
	}
}

func TestAlign_LiteralMatchOutranksPlaceholder(t *testing.T) {
	input := "I have 5 cucumbers"

	exact := MustNew(cucumbers).Align(input)
	loose := MustNew("I have $what").Align(input)
	catchAll := MustNew("$anything").Align(input)

	assert.Greater(t, exact.Weight(), loose.Weight())
	assert.Greater(t, loose.Weight(), catchAll.Weight())
}

func TestAlign_MaxInputLength(t *testing.T) {
	tmpl := MustNew(cucumbers, WithMaxInputLength(10))

	assert.True(t, tmpl.Align("I have 5 cucumbers").IsZero())
	assert.Equal(t, 3, tmpl.Align("I have 5").Weight())
	assert.Empty(t, tmpl.Complete("I have 5 cucumbers"))
}

func TestAlign_MultibyteInput(t *testing.T) {
	tmpl := MustNew("le café $item est prêt")
	got := tmpl.Tokenize("le café crème est prêt")

	want := []StringToken{
		{"le café ", false},
		{"crème", true},
		{" est prêt", false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		want     string
	}{
		{"placeholder not started", cucumbers, "I have", " $count cucumbers"},
		{"placeholder typed", cucumbers, "I have 5", " cucumbers"},
		{"last literal started", cucumbers, "I have 5 ", "cucumbers"},
		{"last literal half typed", cucumbers, "I have 5 cucum", "bers"},
		{"complete input", cucumbers, "I have 5 cucumbers", ""},
		{"mismatch", cucumbers, "You have", ""},
		{"empty input", cucumbers, "", ""},
		{"trailing placeholder", "my name is $name", "my name", " is $name"},
		{"custom prefix", "I have :count cucumbers", "I have", " :count cucumbers"},
		{"single literal", "hello", "hel", "lo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if strings.Contains(tt.template, ":") {
				opts = append(opts, WithPrefix(":"))
			}
			assert.Equal(t, tt.want, MustNew(tt.template, opts...).Complete(tt.input))
		})
	}
}

func TestComplete_NeverRegresses(t *testing.T) {
	tmpl := MustNew(cucumbers)

	for _, input := range []string{"I", "I have", "I have ", "I have 5", "I have 5 ", "I have 5 cuc"} {
		before := tmpl.Align(input)
		completed := input + tmpl.Complete(input)
		after := tmpl.Align(completed)

		assert.GreaterOrEqual(t, after.Weight(), before.Weight(), "input %q", input)
		assert.GreaterOrEqual(t, len(after.Nodes()), len(before.Nodes()), "input %q", input)
		assert.True(t, after.Consumed(tmpl), "completed %q", completed)
	}
}

func TestParams(t *testing.T) {
	tmpl := MustNew("When $user adds $count items to the $cart")
	got := tmpl.Params("When alice adds 3 items to the basket")

	want := map[string]string{
		"user":  "alice",
		"count": "3",
		"cart":  "basket",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Params() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, tmpl.Params("Then nothing happens"))
}

func TestTemplate_ConcurrentAlign(t *testing.T) {
	tmpl := MustNew(cucumbers)
	done := make(chan int)

	for i := 0; i < 8; i++ {
		go func() {
			done <- tmpl.Align("I have 5 cucumbers").Weight()
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, 5, <-done)
	}
}
