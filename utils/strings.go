// utils/strings.go
package utils

import (
	"strconv"
	"strings"
)

// Trim collapses surrounding whitespace; all string inputs pass through this.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ClampLimit parses a limit query parameter, falling back to def and capping
// at max. Garbage and non-positive values mean the default.
func ClampLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// Truncate shortens provider error bodies so they stay loggable.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
