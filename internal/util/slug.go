// Package util provides common text helpers.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	lower = cases.Lower(language.Und)
	fold  = cases.Fold()
)

// Slugify converts a display name to a tag slug.
//
// Normalization rules:
//  1. NFKC-normalize, trim and lowercase
//  2. Letters and digits (any script) are kept
//  3. Runs of anything else become a single dash
//  4. Leading and trailing dashes are trimmed
//
// Examples:
//
//	"Slow Burn"      → "slow-burn"
//	"Завтрак"        → "завтрак"
//	"🥞 Pancakes!"   → "pancakes"
//	"--sweet--"      → "sweet"
func Slugify(input string) string {
	s := lower.String(norm.NFKC.String(strings.TrimSpace(input)))

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	return b.String()
}

// Fold returns the Unicode case-folded form of s, used for
// case-insensitive comparisons such as ingredient name search.
func Fold(s string) string {
	return fold.String(norm.NFC.String(s))
}

// EscapeLike escapes the LIKE wildcards in s using backslash,
// to be paired with ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
