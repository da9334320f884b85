// Package shell builds command lines as structured values and serializes
// them to shell text in one place.
package shell

import (
	"regexp"
	"strings"
)

// safeWord matches arguments that need no quoting in a POSIX shell.
var safeWord = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// Quote wraps a string in single quotes, escaping any existing single quotes.
// This is safe for use in shell commands where the string should be treated literally.
func Quote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// QuoteArg quotes s only when the shell would otherwise interpret it.
func QuoteArg(s string) string {
	if s != "" && safeWord.MatchString(s) {
		return s
	}
	return Quote(s)
}

// QuotePreserveTilde quotes a remote path while keeping a leading ~/ unquoted
// so the remote shell still expands it.
func QuotePreserveTilde(path string) string {
	if path == "~" {
		return "~"
	}
	if strings.HasPrefix(path, "~/") {
		return "~/" + QuoteArg(path[2:])
	}
	return QuoteArg(path)
}

// QuotePattern quotes a path pattern so the shell treats it literally except
// for the wildcards * ? [ ] and a leading ~/.
func QuotePattern(pattern string) string {
	if pattern == "~" {
		return "~"
	}

	var b strings.Builder
	if strings.HasPrefix(pattern, "~/") {
		b.WriteString("~/")
		pattern = pattern[2:]
	}

	start := 0
	for i, r := range pattern {
		if !strings.ContainsRune("*?[]", r) {
			continue
		}
		if start < i {
			b.WriteString(QuoteArg(pattern[start:i]))
		}
		b.WriteRune(r)
		start = i + 1
	}
	if start < len(pattern) {
		b.WriteString(QuoteArg(pattern[start:]))
	}

	if b.Len() == 0 {
		return Quote("")
	}
	return b.String()
}

// Join quotes each argument as needed and joins them with spaces.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = QuoteArg(a)
	}
	return strings.Join(quoted, " ")
}
