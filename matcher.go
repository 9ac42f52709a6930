package muster

import "strings"

// matchGlob checks if a pattern matches a permission id with simple glob
// support. Supports a trailing '*' (e.g., "events_*" matches
// "events_create").
func matchGlob(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == value {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(value, prefix)
	}
	return false
}

// MatchPermission checks if a permission id matches a required pattern.
// Patterns are exact ids or category globs ("siege_*").
func MatchPermission(pattern, permissionID string) bool {
	return matchGlob(pattern, permissionID)
}
