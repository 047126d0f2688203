package textutil

import (
	"strings"
	"unicode/utf8"
)

func unsafeTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}

// SanitizeToken lowercases value and joins its ASCII word runs with
// underscores, yielding a name safe for any filesystem. Returns "unknown"
// when nothing usable remains.
func SanitizeToken(value string) string {
	words := strings.FieldsFunc(strings.ToLower(value), unsafeTokenRune)
	out := strings.Trim(strings.Join(words, "_"), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// Preview returns at most limit runes of text, appending "..." when the
// text was cut. A non-positive limit returns text unchanged.
func Preview(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}

// FirstLine returns the first non-blank line of text, trimmed.
func FirstLine(text string) string {
	for line := range strings.Lines(text) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
