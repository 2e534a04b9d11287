package profile

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameChars bounds owner, name and label lengths in runes.
const MaxNameChars = 200

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize trims, lowercases and collapses internal whitespace.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// CountChars returns the rune count of s.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
