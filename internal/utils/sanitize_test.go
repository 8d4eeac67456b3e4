// internal/utils/sanitize_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "bold text", SanitizeText("<b>bold</b> text"))
	assert.Equal(t, "hello", SanitizeText("<a href=\"http://evil.example\">hello</a>"))
	assert.Equal(t, "", SanitizeText("<img src=x onerror=alert(1)>"))
}

func TestSanitizeTextRemovesScripts(t *testing.T) {
	assert.Equal(t, "after", SanitizeText("<script>alert('xss')</script>after"))
}

func TestSanitizeTextKeepsPlainText(t *testing.T) {
	assert.Equal(t, "Learn Go in 10 days", SanitizeText("Learn Go in 10 days"))
	assert.Equal(t, "price < 50 & rising", SanitizeText("price < 50 & rising"))
}

func TestSanitizeTextTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  hello  \n"))
	assert.Equal(t, "", SanitizeText("   "))
}
