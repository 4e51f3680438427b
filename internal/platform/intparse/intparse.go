// Package intparse reads integers out of hand-typed spreadsheet cells and chat messages.
package intparse

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Leading parses the integer prefix of s: optional surrounding space, an optional sign, then decimal digits.
// Trailing junk is ignored ("12pcs" is 12). Full-width digits and signs are narrowed first, so "１２" is 12.
// ok is false when no digit follows the optional sign, or when the value overflows int.
func Leading(s string) (n int, ok bool) {
	s = strings.TrimSpace(width.Narrow.String(s))
	if s == "" {
		return 0, false
	}
	end := 0
	if s[0] == '+' || s[0] == '-' {
		end = 1
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Or returns the leading integer of s, or def when s has none.
func Or(s string, def int) int {
	if v, ok := Leading(s); ok {
		return v
	}
	return def
}
