// internal/utils/sanitize.go
package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips all markup; user-authored text in SkillSwap is plain text.
var strict = bluemonday.StrictPolicy()

// SanitizeText removes any HTML from user-authored content (review
// comments, chat messages, bios, listing descriptions) and trims
// surrounding whitespace. Entities the policy escapes are decoded back so
// "A < B" survives a round trip.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
