package textnorm

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Words splits text into case-folded word tokens. A word is a maximal run of
// letters, digits and '_'; everything else is a delimiter.
func Words(text string) []string {
	folded := cases.Fold().String(text)
	var out []string
	start := -1
	for i := 0; i < len(folded); {
		r, w := utf8.DecodeRuneInString(folded[i:])
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			out = append(out, folded[start:i])
			start = -1
		}
		i += w
	}
	if start >= 0 {
		out = append(out, folded[start:])
	}
	return out
}

// WordSet is a set of case-folded words.
type WordSet map[string]struct{}

// NewWordSet collects the distinct words of text.
func NewWordSet(text string) WordSet {
	ws := make(WordSet)
	for _, w := range Words(text) {
		ws[w] = struct{}{}
	}
	return ws
}

// Overlap returns the size of the intersection of two sets.
func (s WordSet) Overlap(other WordSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for w := range small {
		if _, ok := large[w]; ok {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
