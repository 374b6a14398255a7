package extract

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokens returns a lazy sequence of lowercase word tokens in the text,
// in left-to-right reading order. A word is a maximal run of Unicode
// letters, digits, and underscores; anything else separates tokens.
// Empty tokens are discarded.
//
// The sequence is restartable: ranging over it twice yields the same
// tokens. Input is NFC-normalized first so canonically equivalent terms
// collapse to one index entry.
func Tokens(text string) iter.Seq[string] {
	text = norm.NFC.String(text)
	return func(yield func(string) bool) {
		start := -1
		for i, r := range text {
			if isWordRune(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(strings.ToLower(text[start:i])) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(strings.ToLower(text[start:]))
		}
	}
}

// isWordRune reports whether r is part of a word token.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
