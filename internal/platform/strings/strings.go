// Package strings provides small string helpers shared across services
package strings

import std "strings"

// Contains reports whether sub is within s
func Contains(s, sub string) bool { return std.Contains(s, sub) }

// SQLNull returns nil if s is blank/whitespace, else the original string.
// Useful for query args where NULL is desired for blanks
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Deref returns "" if ps is nil, else *ps.
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}
