// file: internal/query/normalize.go
// version: 1.0.0
// guid: 26e2e4d4-372b-414b-afc0-ba5b8b63edf7

package query

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases and trims s. Text is NFC-composed first so a
// decomposed "§" or accented alias compares equal to its composed form.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(s)))
}
