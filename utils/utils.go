package utils

import (
	"strings"
	"unicode"
)

// FirstToken splits s into its first whitespace-delimited token and the
// remainder with leading whitespace removed. The remainder is empty when
// nothing follows the token
func FirstToken(s string) (token, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	split := strings.IndexFunc(s, unicode.IsSpace)
	if split < 0 {
		return s, ""
	}
	return s[:split], strings.TrimLeftFunc(s[split:], unicode.IsSpace)
}

// HasPrefixFold reports whether s begins with prefix, case-insensitively
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Pluralize returns the singular or plural form based on the count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
