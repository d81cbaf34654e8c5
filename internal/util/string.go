package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CharCount counts Unicode code points, which is how App Store Connect
// measures field length.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitCommaSeparated splits and trims a comma-separated list, dropping empties.
func SplitCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
