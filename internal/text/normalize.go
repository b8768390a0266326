// Package text canonicalizes free-form product descriptions so that listing
// titles and catalog rows written in any mix of Latin and Cyrillic compare
// equal during relevance matching.
package text

import (
	"regexp"
	"strings"
)

var (
	// Capacity quantities in either script collapse to one fixed token,
	// so "128 ГБ", "128гб" and "128 gb" all become "128gb".
	gbPattern = regexp.MustCompile(`(\d+)\s*(гб|gb)`)
	tbPattern = regexp.MustCompile(`(\d+)\s*(тб|tb)`)

	junkPattern  = regexp.MustCompile(`[^a-z0-9а-яё\s-]+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases s, unifies known spelling variants, rewrites capacity
// quantities to canonical form and strips everything outside letters, digits,
// whitespace and hyphen. It is pure and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	// "чёрный" and "черный" are the same color
	s = strings.ReplaceAll(s, "чёр", "чер")
	s = gbPattern.ReplaceAllString(s, "${1}gb")
	s = tbPattern.ReplaceAllString(s, "${1}tb")
	s = junkPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
