// Package textnorm folds user input and puzzle phrases into a comparable form:
// lower case, trimmed, with diacritics stripped down to the base Latin letter.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFolder builds a fresh chain per call; transform.Transformer values carry state
// and must not be shared between goroutines.
func newFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize lower-cases s, trims surrounding whitespace and maps accented letters
// (á, ç, ñ, ÿ, ...) to their base letter. Input that cannot be transformed is
// returned lower-cased and trimmed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(newFolder(), s)
	if err != nil {
		return s
	}
	return out
}

// FoldRune folds a single rune. Unlike Normalize it always yields exactly one rune,
// so callers can keep a folded phrase position-aligned with the raw one.
func FoldRune(r rune) rune {
	out, _, err := transform.String(newFolder(), strings.ToLower(string(r)))
	if err != nil || utf8.RuneCountInString(out) != 1 {
		return unicode.ToLower(r)
	}
	folded, _ := utf8.DecodeRuneInString(out)
	return folded
}

// Letter normalizes s and reports the single letter it holds. ok is false when the
// normalized input is empty, longer than one rune or not alphabetic.
func Letter(s string) (letter rune, ok bool) {
	n := Normalize(s)
	if utf8.RuneCountInString(n) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(n)
	if !unicode.IsLetter(r) {
		return 0, false
	}
	return r, true
}
