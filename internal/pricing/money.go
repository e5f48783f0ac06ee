package pricing

import "strings"

// MaxCoursePrice caps a single course price at $100,000.
const MaxCoursePrice = Money(100_000_00)

// ParsePrice converts a decimal price string into minor units. Prices carry
// at most two fraction digits; extra digits are dropped. Malformed, empty,
// or negative input coerces to zero rather than failing, so a half-typed
// form field never breaks a recalculation. Values above the per-course
// ceiling clamp to it.
func ParsePrice(raw string) Money {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0
	}
	whole, frac, _ := strings.Cut(s, ".")
	dollars, ok := parseDigits(whole)
	if !ok {
		return 0
	}
	cents, ok := parseFraction(frac)
	if !ok {
		return 0
	}
	price := dollars*100 + cents
	if price > MaxCoursePrice {
		return MaxCoursePrice
	}
	return price
}

// parseDigits converts an all-digit string to an int64. An empty string is
// zero ("." and ".50" are valid entries mid-typing).
func parseDigits(s string) (Money, bool) {
	var n Money
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		// Cap accumulation so absurdly long input cannot overflow.
		if n <= MaxCoursePrice {
			n = n*10 + Money(r-'0')
		}
	}
	return n, true
}

// parseFraction reads up to two fraction digits as cents.
func parseFraction(s string) (Money, bool) {
	if len(s) > 2 {
		s = s[:2]
	}
	var cents Money
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		cents = cents*10 + Money(r-'0')
	}
	if len(s) == 1 {
		cents *= 10
	}
	return cents, true
}
