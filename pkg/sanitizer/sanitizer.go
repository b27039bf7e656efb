// Package sanitizer normalizes client-supplied values before they reach
// validation or query construction.
package sanitizer

import "strings"

// String trims surrounding whitespace and collapses internal runs of spaces.
func String(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FilterKey reports whether a client-supplied key may be used as a filter
// criterion. Keys carrying Mongo operator or path syntax are rejected so query
// documents can never be injected through the query string.
func FilterKey(key string) bool {
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "$") {
		return false
	}
	return !strings.Contains(key, ".")
}
