package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text returns the normalized representation of s.
// Safe for concurrent use: a new transformer chain is built per call.
func Text(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Fold decomposes s, strips combining marks and lowercases it without touching
// whitespace. Use it when character offsets relative to word boundaries matter.
func Fold(s string) string {
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform.String only fails on malformed transformer state; fall back
		// to plain lowercasing so matching still works.
		return strings.ToLower(s)
	}

	return strings.ToLower(out)
}

// Equal reports whether a and b are equal after normalization.
func Equal(a, b string) bool {
	return Text(a) == Text(b)
}
