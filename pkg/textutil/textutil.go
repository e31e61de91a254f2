// Package textutil normalises free text coming from players and game masters.
package textutil

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strict = bluemonday.StrictPolicy()

// Sanitize strips any markup and surrounding whitespace. Entities escaped by
// the policy are decoded again since the result is only ever served as JSON.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Fold lower-cases s and removes diacritics so "Força" and "forca" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// EqualFold compares two strings after Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
