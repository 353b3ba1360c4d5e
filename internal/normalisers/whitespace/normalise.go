// Package whitespace normalises extracted PDF text.
package whitespace

import "strings"

// Normalise replaces newlines with spaces, collapses every run of
// whitespace to a single space and trims both ends.
// It is pure and idempotent: Normalise(Normalise(s)) == Normalise(s).
func Normalise(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}
