package utils

import (
	"strings"
	"unicode"
)

// SanitizeEmail trims an email typed into a form. Case is left alone; the
// backend owns normalization.
func SanitizeEmail(email string) string {
	return removeControlChars(strings.TrimSpace(email))
}

// SanitizeCode trims a one-time passcode and drops anything that is not a
// printable character.
func SanitizeCode(code string) string {
	return removeControlChars(strings.TrimSpace(code))
}

// removeControlChars removes control characters from string
func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
