package util

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pinPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	digitPattern = regexp.MustCompile(`[^0-9]`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidPassword applies the signup form's minimum length rule.
func IsValidPassword(password string) bool {
	return len(password) >= 8
}

func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= 2 && len(trimmed) <= 100
}

// IsValidPIN accepts exactly six digits.
func IsValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// FilterPINInput strips everything but digits and caps the result at six
// characters, the same cleanup the entry field applies while typing.
func FilterPINInput(raw string) string {
	digits := digitPattern.ReplaceAllString(raw, "")
	if len(digits) > 6 {
		digits = digits[:6]
	}
	return digits
}
