// Package fold strips diacritics so that "ndërkombëtare" and
// "nderkombetare" compare equal.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Diacritics removes combining marks from s and recomposes what is left.
func Diacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Lower lower-cases s and strips its diacritics.
func Lower(s string) string {
	return Diacritics(strings.ToLower(s))
}
