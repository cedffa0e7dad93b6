package sample

import (
	"strings"
	"unicode"
)

// Normalize trims the line and collapses runs of whitespace to one space.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// Keep reports whether a normalized line is usable as a sample: non-empty,
// not a comment, and free of control characters.
func Keep(line string) bool {
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	for _, r := range line {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
