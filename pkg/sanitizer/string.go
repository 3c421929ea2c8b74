// Package sanitizer normalizes free-text input before it reaches
// validation: surrounding whitespace is trimmed and runs of internal
// whitespace collapse to a single space.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// control characters never survive
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeRequester cleans up a requester identity string.
func NormalizeRequester(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeRoomID lowercases and trims a room identifier.
func NormalizeRoomID(id string) string {
	return strings.ToLower(TrimAndNormalize(id))
}
