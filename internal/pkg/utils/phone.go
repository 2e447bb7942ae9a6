package utils

import "strings"

// NormalizePhone trims the input and removes inner spaces and dashes. A leading '+' is kept.
func NormalizePhone(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// PhoneVariants returns the forms a stored phone number may take, with and without the leading '+'.
func PhoneVariants(input string) []string {
	s := NormalizePhone(input)
	if s == "" {
		return nil
	}
	digits := strings.TrimPrefix(s, "+")
	return []string{digits, "+" + digits}
}
