// Package normalize cleans free text before it is vectorized or matched against keywords.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Value normalizes v if it is a string. Any other type yields "".
func Value(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Text(s)
}

// Text lowercases s, replaces every rune that is not a word character or whitespace
// with a space, collapses whitespace runs to a single space and trims the result.
// Text(Text(s)) == Text(s) for every s.
func Text(s string) string {
	if s == "" {
		return ""
	}

	// Casers carry state and must not be shared between goroutines
	lower := cases.Lower(language.Und).String(s)

	mapped := strings.Map(func(r rune) rune {
		if isWord(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lower)

	return strings.Join(strings.Fields(mapped), " ")
}

// Tokens splits already normalized text on spaces
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
