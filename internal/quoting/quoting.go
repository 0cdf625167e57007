// Package quoting provides identifier quoting and reference splitting
// shared by the dialect visitors and the CLI.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// EscapeString escapes a string literal for SQL by doubling single quotes
// and escaping backslashes (for MySQL compatibility).
//
// SECURITY: only for non-parameterized output. Parameterized queries are
// the default and avoid multi-byte charset tricks entirely.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// SplitRef splits a dotted reference such as "e.department" into its
// qualifier and name. A reference without a dot has an empty qualifier.
// Only the first dot separates, so "e.address.city" yields ("e", "address.city").
func SplitRef(ref string) (qualifier, name string) {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}
