package tableparse

import (
	"strconv"
	"strings"
)

// ParseAmount parses one numeric cell leniently: currency symbols and
// thousands separators are stripped, and parentheses mark a negative.
// A cell that still fails to parse yields ok=false, never an error.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		neg = true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '£', '€', '¥', ',', ' ', ' ':
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// LooksNumeric reports whether the cell parses as an amount.
func LooksNumeric(s string) bool {
	_, ok := ParseAmount(s)
	return ok
}
