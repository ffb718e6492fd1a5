package common

import "strings"

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// that lookups and the unique index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
