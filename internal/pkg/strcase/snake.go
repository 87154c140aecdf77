package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a mixed-case name to snake_case, keeping
// initialisms intact: "relayID" becomes "relay_id", "HTTPServer" becomes
// "http_server".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}

			// A boundary is either lower/digit followed by upper, or the
			// last letter of an acronym before a lowercase word.
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			} else if unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
