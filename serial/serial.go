// Package serial normalizes and validates asset serial labels as scanned or
// typed by the operator.
package serial

import (
	"fmt"
	"regexp"
	"strings"
)

// Serial labels: 2 to 32 characters, uppercase alphanumerics with dashes,
// never leading or trailing a dash.
var labelRegex = regexp.MustCompile(`^[0-9A-Z](?:[0-9A-Z-]{1,30})?[0-9A-Z]$`)

// Normalize trims whitespace, uppercases and collapses internal spaces to
// dashes so "ab 1234" and "AB-1234" label the same unit.
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// Parse normalizes and validates a serial label.
func Parse(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return "", fmt.Errorf("serial number is empty")
	}
	if !labelRegex.MatchString(s) {
		return "", fmt.Errorf("serial number %q is not a valid label", s)
	}
	return s, nil
}
