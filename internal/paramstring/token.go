package paramstring

import (
	"strings"
	"unicode"
)

// Token is one literal run or placeholder of a template.
type Token struct {
	// Offset is the rune offset of the token in the template content.
	Offset int
	// Length is the token length in runes.
	Length int
	// IsIdentifier is true for placeholders.
	IsIdentifier bool

	value  string
	prefix string
}

// Value returns the token text. For identifiers this is the placeholder
// name without its prefix.
func (t Token) Value() string { return t.value }

// String renders the token for debugging. Placeholders keep the prefix
// they were parsed with.
func (t Token) String() string {
	if t.IsIdentifier {
		return "<<" + t.prefix + t.value + ">>"
	}
	return "<<" + t.value + ">>"
}

// regionMatches compares n runes of the token, starting at its first rune,
// with n runes of input starting at at. Whitespace is dropped on both sides
// and case is ignored. A region that runs past either string is a mismatch.
func (t Token) regionMatches(input []rune, at, n int) bool {
	text := []rune(t.value)
	if n < 0 || at < 0 || n > len(text) || at+n > len(input) {
		return false
	}
	return strings.EqualFold(stripSpace(text[:n]), stripSpace(input[at:at+n]))
}

// remainder returns the token text after the first consumed runes.
func (t Token) remainder(consumed int) string {
	text := []rune(t.value)
	if consumed <= 0 {
		return t.value
	}
	if consumed >= len(text) {
		return ""
	}
	return string(text[consumed:])
}

func stripSpace(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
