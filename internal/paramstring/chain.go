package paramstring

import (
	"fmt"
	"strings"
)

// Node is one step of a weight chain: the template token at TokenIndex
// matched input starting at InputIndex, scoring Weight.
//
// A nil *Node is the "no match" variant. Nodes are only ever linked from
// real matches, so every node reachable from a chain head is progress.
type Node struct {
	InputIndex int
	TokenIndex int
	Weight     int
	Next       *Node
}

func (n *Node) String() string {
	return fmt.Sprintf("Node[inputIndex=%d, weight=%d, tokenIndex=%d]", n.InputIndex, n.Weight, n.TokenIndex)
}

// total sums the weights of n and every node after it.
func (n *Node) total() int {
	w := 0
	for ; n != nil; n = n.Next {
		w += n.Weight
	}
	return w
}

// Chain is the best alignment of one input against a template.
type Chain struct {
	head   *Node
	input  []rune
	weight int
}

// Weight returns the aggregated weight of all nodes. It is the key used to
// rank several templates against the same input; zero means no match.
func (c *Chain) Weight() int { return c.weight }

// IsZero reports whether the input did not match the template at all.
func (c *Chain) IsZero() bool { return c.head == nil }

// Head returns the first node, or nil for the zero chain.
func (c *Chain) Head() *Node { return c.head }

// Input returns the text the chain was computed for.
func (c *Chain) Input() string { return string(c.input) }

// Last returns the final node of the chain, or nil for the zero chain.
func (c *Chain) Last() *Node {
	last := c.head
	for n := c.head; n != nil; n = n.Next {
		last = n
	}
	return last
}

// Nodes returns the chain as a slice, head first.
func (c *Chain) Nodes() []*Node {
	var nodes []*Node
	for n := c.head; n != nil; n = n.Next {
		nodes = append(nodes, n)
	}
	return nodes
}

// Segments slices the input at node boundaries. The last segment runs to
// the end of the input. The zero chain has no segments.
func (c *Chain) Segments() []string {
	if c.head == nil {
		return nil
	}

	var parts []string
	begin := c.head.InputIndex
	for n := c.head.Next; n != nil; n = n.Next {
		parts = append(parts, string(c.input[begin:n.InputIndex]))
		begin = n.InputIndex
	}
	parts = append(parts, string(c.input[begin:]))

	return parts
}

// Consumed reports whether the chain accounts for every template token and
// the final token is complete. Such a chain is a full instance of the
// template rather than a prefix of one.
func (c *Chain) Consumed(t *Template) bool {
	last := c.Last()
	if last == nil || last.TokenIndex != len(t.tokens)-1 {
		return false
	}
	tok := t.tokens[last.TokenIndex]
	if tok.IsIdentifier {
		return last.InputIndex < len(c.input)
	}
	return len(c.input)-last.InputIndex == tok.Length
}

func (c *Chain) String() string {
	if c.head == nil {
		return "Chain[zero]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Chain[weight=%d]", c.weight)
	for n := c.head; n != nil; n = n.Next {
		b.WriteString(" -> ")
		b.WriteString(n.String())
	}
	return b.String()
}
