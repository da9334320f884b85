// Package util provides small string helpers shared by plan and cli output.
package util

import "strings"

// JoinNames joins target or alias names with ", ", or returns "(none)" for
// an empty list so messages never end in a dangling colon.
func JoinNames(names []string) string {
	return JoinOrDefault(names, "(none)")
}

// JoinOrDefault joins strings with ", " or returns def for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
