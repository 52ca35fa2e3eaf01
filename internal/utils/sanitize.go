package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// textPolicy strips all markup; used for titles, names and emails.
	textPolicy = bluemonday.StrictPolicy()

	// inlinePolicy keeps a small set of inline formatting tags with no
	// attributes; used for post and comment bodies. Script and style
	// contents are dropped entirely, not just their tags.
	inlinePolicy = newInlinePolicy()
)

func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "u")
	return p
}

// SanitizeText removes every HTML tag from user input.
func SanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// SanitizeInline filters user input down to the inline allow-list.
func SanitizeInline(s string) string {
	return strings.TrimSpace(inlinePolicy.Sanitize(s))
}
