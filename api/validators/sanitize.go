package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSearchLength caps free-text search terms, counted in runes.
const MaxSearchLength = 100

// SanitizeString trims input, drops control characters and cuts it to maxLen
// runes. A maxLen <= 0 disables the cut.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		cleaned = string([]rune(cleaned)[:maxLen])
	}
	return strings.TrimSpace(cleaned)
}
