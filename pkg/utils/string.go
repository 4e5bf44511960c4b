package utils

import "strings"

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Used to fit titles and descriptions into fixed-width
// list rows.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-1]) + "…"
}

// CompressAllWhitespace collapses every run of whitespace into a single
// space and trims the ends.
func CompressAllWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
