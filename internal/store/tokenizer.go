package store

import (
	"strings"
	"unicode"
)

// Tokenize normalizes and splits text into index terms. Text is
// lower-cased, every rune that is neither alphanumeric nor whitespace is
// replaced by a space, and the result is split on whitespace runs. The
// output never contains empty strings.
//
// There is deliberately no stemming and no stop-word removal: scoring
// stays reproducible for the same input on any machine.
func Tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)

	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// TermFrequency counts occurrences of each term in a token list.
func TermFrequency(tokens []string) map[string]int {
	freqs := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}
	return freqs
}
