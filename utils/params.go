package utils

import (
	"strings"
)

// NormalizeEmail lowercases and trims an address before lookup or storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
