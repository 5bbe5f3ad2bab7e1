package textmatch

import (
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Similarity returns the edit-distance similarity of a and b as a
// percentage in [0, 100]. Inputs are compared as given; callers normalize
// first. Similarity("", "") is 100.
func Similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}
	d := levenshtein.Distance(a, b, nil)
	return 100 * float64(maxLen-d) / float64(maxLen)
}
