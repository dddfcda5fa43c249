// Package region normalizes postal codes into hierarchical region keys.
// Canadian postal codes reduce to their FSA (first three characters) and
// US ZIP codes to their ZIP3 prefix; anything else passes through cleaned.
package region

import (
	"regexp"
	"strings"
)

var (
	fsaPattern  = regexp.MustCompile(`^[A-Z]\d[A-Z]`)
	zip5Pattern = regexp.MustCompile(`^\d{5}$`)
)

// Canonicalize normalizes a free-text postal code into a region key.
// It is pure and idempotent; it never fails.
func Canonicalize(postal string) string {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(postal), ""))

	if fsaPattern.MatchString(cleaned) {
		return cleaned[:3]
	}
	if zip5Pattern.MatchString(cleaned) {
		return cleaned[:3]
	}
	return cleaned
}

// IsCanadian reports whether a canonical region key is a Canadian FSA
func IsCanadian(key string) bool {
	return fsaPattern.MatchString(key)
}
