// internal/common/text/fold.go
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dj has no combining-mark decomposition, so it is mapped by hand.
var strokeReplacer = strings.NewReplacer("đ", "dj", "Đ", "dj")

// Fold lower-cases and trims s and strips diacritics, so "Četverosoban"
// and "cetverosoban" compare equal.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strokeReplacer.Replace(s)

	// transform.Chain keeps state and must not be shared between goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// EqualFold reports whether a and b are equal after Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
