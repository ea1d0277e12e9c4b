// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied event text.
//
// Event titles, descriptions and locations are rendered by clients that
// may not escape them, so they are stored as plain text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled.
const maxPasses = 8

// PlainText removes all HTML tags, including tags hidden behind entity
// encoding, and trims surrounding whitespace. The result is a fixed
// point: PlainText(PlainText(s)) == PlainText(s).
func PlainText(s string) string {
	cur := s
	for i := 0; i < maxPasses; i++ {
		if cur == "" {
			return ""
		}
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(html.UnescapeString(cur))))
		if next == cur {
			return cur
		}
		cur = next
	}
	// Still changing after maxPasses: keep only what survives with
	// entities left encoded.
	return strings.TrimSpace(strict.Sanitize(cur))
}
