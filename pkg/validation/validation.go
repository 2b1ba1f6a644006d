package validation

import "strings"

// NormalizeName trims surrounding whitespace and strips null bytes
func NormalizeName(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// IsBlank reports whether the string is empty after trimming
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
