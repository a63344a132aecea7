package paramstring

import "strings"

// StringToken is one segment of an input, tagged with whether it was bound
// to a placeholder.
type StringToken struct {
	Value        string `json:"value"`
	IsIdentifier bool   `json:"is_identifier"`
}

// Align computes the best weight chain for input, starting at the first
// token. It never fails: an input that does not fit yields the zero chain.
func (t *Template) Align(input string) *Chain {
	runes := []rune(input)
	chain := &Chain{input: runes}
	if t.maxInput > 0 && len(runes) > t.maxInput {
		return chain
	}

	a := &aligner{
		tokens: t.tokens,
		input:  runes,
		memo:   make(map[alignKey]alignResult),
	}
	chain.head = a.accept(0, 0)
	chain.weight = chain.head.total()

	return chain
}

type alignKey struct {
	inputIndex int
	tokenIndex int
}

type alignResult struct {
	node   *Node
	weight int
}

// aligner holds the state of a single Align call.
type aligner struct {
	tokens []Token
	input  []rune
	memo   map[alignKey]alignResult
}

// accept matches tokens from tokenIndex onward against input from
// inputIndex onward. Literal tokens are walked in a loop; a placeholder
// hands the remaining tokens to best.
func (a *aligner) accept(inputIndex, tokenIndex int) *Node {
	var head, tail *Node
	link := func(n *Node) {
		if head == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
	}

	last := len(a.tokens) - 1
	for ti := tokenIndex; ti <= last; ti++ {
		tok := a.tokens[ti]

		if tok.IsIdentifier {
			n := &Node{InputIndex: inputIndex, TokenIndex: ti, Weight: 1}
			link(n)
			n.Next = a.best(inputIndex, ti+1)
			return head
		}

		remaining := len(a.input) - inputIndex
		if remaining > tok.Length && ti == last {
			// a trailing literal cannot leave input unexplained
			return nil
		}

		overlap := min(tok.Length, remaining)
		if overlap == 0 {
			return head
		}
		if !tok.regionMatches(a.input, inputIndex, overlap) {
			return nil
		}

		n := &Node{InputIndex: inputIndex, TokenIndex: ti, Weight: 1}
		link(n)
		if overlap < tok.Length {
			// rest of the literal is still to be typed
			return head
		}
		n.Weight++

		inputIndex += overlap
		if inputIndex == len(a.input) {
			return head
		}
	}

	return head
}

// best tries every split point for the placeholder that starts at
// inputIndex and returns the continuation with the strictly highest
// aggregated weight. The placeholder always takes at least one rune and
// the continuation at least one more; ties keep the earliest split.
func (a *aligner) best(inputIndex, tokenIndex int) *Node {
	var best *Node
	bestWeight := 0

	for j := inputIndex + 1; j < len(a.input); j++ {
		key := alignKey{inputIndex: j, tokenIndex: tokenIndex}
		res, ok := a.memo[key]
		if !ok {
			n := a.accept(j, tokenIndex)
			res = alignResult{node: n, weight: n.total()}
			a.memo[key] = res
		}
		if res.weight > bestWeight {
			best, bestWeight = res.node, res.weight
		}
	}

	return best
}

// Tokenize splits input into literal and placeholder segments following
// the best alignment. The zero chain produces no segments.
func (t *Template) Tokenize(input string) []StringToken {
	chain := t.Align(input)
	segments := chain.Segments()

	var out []StringToken
	for i, n := range chain.Nodes() {
		out = append(out, StringToken{
			Value:        segments[i],
			IsIdentifier: t.tokens[n.TokenIndex].IsIdentifier,
		})
	}
	return out
}

// Params pairs each placeholder name with the input it was bound to. A
// placeholder that occurs twice keeps its first binding.
func (t *Template) Params(input string) map[string]string {
	chain := t.Align(input)
	segments := chain.Segments()

	params := make(map[string]string)
	for i, n := range chain.Nodes() {
		tok := t.tokens[n.TokenIndex]
		if !tok.IsIdentifier {
			continue
		}
		if _, ok := params[tok.Value()]; !ok {
			params[tok.Value()] = segments[i]
		}
	}
	return params
}

// Complete returns the text that, appended to input, makes it a complete
// instance of the template. Placeholders that have not been reached are
// rendered with their prefix. An input that does not match at all gets no
// completion.
func (t *Template) Complete(input string) string {
	chain := t.Align(input)
	last := chain.Last()
	if last == nil {
		return ""
	}

	var b strings.Builder

	tok := t.tokens[last.TokenIndex]
	if !tok.IsIdentifier {
		consumed := len(chain.input) - last.InputIndex
		b.WriteString(tok.remainder(consumed))
	}

	for _, tok := range t.tokens[last.TokenIndex+1:] {
		if tok.IsIdentifier {
			b.WriteString(t.prefix)
		}
		b.WriteString(tok.Value())
	}

	return b.String()
}
