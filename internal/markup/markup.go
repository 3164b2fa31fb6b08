// Package markup normalizes recipe descriptions.
//
// Clients paste recipe text from rich editors and web pages, so a
// description may arrive as HTML. It is stored as Markdown.
package markup

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// blockTag matches the tags rich editors emit. Bare angle brackets such
// as "t < 5 min" do not match.
var blockTag = regexp.MustCompile(`(?i)<(p|br|div|span|b|i|u|strong|em|a|ul|ol|li|h[1-6]|blockquote|table|tr|td)[\s>/]`)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// ContainsHTML reports whether s looks like HTML markup.
func ContainsHTML(s string) bool {
	return blockTag.MatchString(s)
}

// Normalize converts HTML to Markdown, unifies line endings and trims
// surrounding whitespace. Plain text passes through unchanged apart from
// that. If conversion fails the input is kept.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if ContainsHTML(s) {
		if md, err := htmltomarkdown.ConvertString(s); err == nil {
			s = md
		}
	}

	return strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n"))
}
