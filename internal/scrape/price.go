package scrape

import (
	"strconv"
	"strings"
)

// NormalizePrice converts any price-bearing text fragment into an integer yen
// amount. Fullwidth digits are folded to ASCII and every other non-digit rune
// (currency markers, thousands separators, surrounding text) is stripped.
// Returns 0 when nothing parseable remains.
func NormalizePrice(text string) int {
	var digits strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= '０' && r <= '９':
			digits.WriteRune('0' + (r - '０'))
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	parsed, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return parsed
}

// foldDigits rewrites fullwidth digits to ASCII, leaving every other rune in
// place. Date fragments on the aggregator mix both digit forms.
func foldDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return '0' + (r - '０')
		}
		return r
	}, text)
}
