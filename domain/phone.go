package domain

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+\d{7,15}$`)

// NormalizePhone converts raw user input into E.164-like form. Input is
// stripped to digits plus a leading "+". Bare 8-digit numbers are assumed
// Singapore (+65) and bare 10-digit numbers US/Canada (+1); anything else
// gets a plain "+" prefix. This is a heuristic, not a directory lookup.
// Normalization is idempotent.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+")

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	if hasPlus {
		return "+" + d
	}

	switch len(d) {
	case 8:
		return "+65" + d
	case 10:
		return "+1" + d
	default:
		return "+" + d
	}
}

// IsValidPhone reports whether the phone is in acceptable international
// form: "+" followed by 7 to 15 digits. It gates submission only and does
// not guarantee deliverability.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
