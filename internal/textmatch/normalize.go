// Package textmatch compares free-text answers against accepted answers.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes s for comparison:
//   - lower-cased
//   - decomposed (NFD) with combining marks removed
//   - every rune that is not a letter, digit, underscore or space becomes a space
//   - whitespace runs collapsed to one space and trimmed
//
// Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}

	mapped := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, stripped)

	return strings.Join(strings.Fields(mapped), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keywords returns the words of a normalized string longer than two runes.
func keywords(normalized string) []string {
	var out []string
	for _, w := range strings.Fields(normalized) {
		if len([]rune(w)) > 2 {
			out = append(out, w)
		}
	}
	return out
}
