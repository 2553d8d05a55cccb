package utils

import "strings"

// NormalizeEmail lowercases and trims an address; every lookup and write uses this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LooksLikeEmail is the shape check applied before issuing a code: a
// non-empty address containing "@". Deliverability is never probed.
func LooksLikeEmail(email string) bool {
	normalized := NormalizeEmail(email)
	return normalized != "" && strings.Contains(normalized, "@")
}
