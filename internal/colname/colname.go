// Package colname canonicalizes column labels so headers can be compared
// despite superficial formatting differences.
package colname

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize trims the label, drops every whitespace rune and case-folds the rest.
func Normalize(label string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)
	if stripped == "" {
		return ""
	}
	return cases.Fold().String(stripped)
}

// Equal reports whether two labels name the same column.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
