package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Minimum values for integer fields.
const (
	MinCookingTime = 1
	MinAmount      = 1
)

// ReservedUsername cannot be registered; it collides with the /users/me route.
const ReservedUsername = "me"

// FieldError reports why a single value was rejected.
// Disallowed lists the offending characters in order of first appearance.
type FieldError struct {
	Field      string
	Message    string
	Disallowed []rune
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// charset reports whether a rune is permitted.
type charset func(r rune) bool

func isLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я', r == 'ё', r == 'Ё':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func anyOf(extra string, sets ...charset) charset {
	return func(r rune) bool {
		if strings.ContainsRune(extra, r) {
			return true
		}
		for _, set := range sets {
			if set(r) {
				return true
			}
		}
		return false
	}
}

var (
	tagNameChars        charset = isLetter
	recipeNameChars             = anyOf("-()\"'«»", isLetter, unicode.IsSpace)
	ingredientNameChars         = anyOf("-()\"'«»%", isLetter, isDigit, unicode.IsSpace)
	personNameChars             = anyOf("-", isLetter, unicode.IsSpace)
	usernameChars               = anyOf("_.@+-", func(r rune) bool {
		return r < utf8.RuneSelf && (isLetter(r) || isDigit(r))
	})
)

// disallowed returns the runes of value outside the permitted set,
// deduplicated, in order of first occurrence.
func disallowed(value string, permitted charset) []rune {
	var out []rune
	seen := make(map[rune]bool)
	for _, r := range value {
		if permitted(r) || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func quoteRunes(runes []rune) string {
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = strconv.QuoteRune(r)
	}
	return strings.Join(parts, ", ")
}

func checkCharset(field, value string, permitted charset, allowedDesc string) (string, error) {
	if value == "" {
		return "", &FieldError{Field: field, Message: "must not be empty"}
	}
	if bad := disallowed(value, permitted); len(bad) > 0 {
		return "", &FieldError{
			Field:      field,
			Message:    fmt.Sprintf("contains disallowed characters %s; only %s are allowed", quoteRunes(bad), allowedDesc),
			Disallowed: bad,
		}
	}
	return value, nil
}

// Color accepts a '#' followed by exactly six hex digits.
func Color(value string) (string, error) {
	body, hasHash := strings.CutPrefix(value, "#")
	if bad := disallowed(body, isHexDigit); len(bad) > 0 {
		return "", &FieldError{
			Field:      "color",
			Message:    fmt.Sprintf("contains disallowed characters %s; use a HEX color like #49B64E", quoteRunes(bad)),
			Disallowed: bad,
		}
	}
	if !hasHash {
		return "", &FieldError{Field: "color", Message: "must start with '#'"}
	}
	if utf8.RuneCountInString(value) != 7 {
		return "", &FieldError{Field: "color", Message: "must be exactly 7 characters, '#' followed by 6 hex digits"}
	}
	return value, nil
}

// TagName accepts Cyrillic and Latin letters only.
func TagName(value string) (string, error) {
	return checkCharset("name", value, tagNameChars, "letters")
}

// RecipeName accepts letters, spaces, hyphens, parentheses and quotes.
func RecipeName(value string) (string, error) {
	return checkCharset("name", value, recipeNameChars, "letters, spaces, hyphens, parentheses and quotes")
}

// IngredientName accepts letters, digits, spaces, hyphens, parentheses, quotes and '%'.
func IngredientName(value string) (string, error) {
	return checkCharset("name", value, ingredientNameChars, "letters, digits, spaces, hyphens, parentheses, quotes and '%'")
}

// PersonName accepts letters, spaces and hyphens.
func PersonName(value string) (string, error) {
	return checkCharset("name", value, personNameChars, "letters, spaces and hyphens")
}

// Username rejects the reserved name and anything outside [A-Za-z0-9_.@+-].
func Username(value string) (string, error) {
	if value == ReservedUsername {
		return "", &FieldError{Field: "username", Message: fmt.Sprintf("%q is reserved", ReservedUsername)}
	}
	if _, err := checkCharset("username", value, usernameChars, "latin letters, digits and _ . @ + -"); err != nil {
		return "", err
	}
	return value, nil
}

// CookingTime requires at least one minute.
func CookingTime(value int) (int, error) {
	return atLeast("cooking_time", value, MinCookingTime)
}

// Amount requires a positive ingredient quantity.
func Amount(value int) (int, error) {
	return atLeast("amount", value, MinAmount)
}

func atLeast(field string, value, minimum int) (int, error) {
	if value < minimum {
		return 0, &FieldError{Field: field, Message: fmt.Sprintf("must be at least %d", minimum)}
	}
	return value, nil
}
