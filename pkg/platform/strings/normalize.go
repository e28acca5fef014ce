// Package strings provides string normalization helpers for enum-like input.
package strings

import (
	"strings"
)

// NormalizeEnum trims and upper-cases an enum token such as a license type or role.
//
//	NormalizeEnum("  user ") // "USER"
func NormalizeEnum(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NormalizeEnums applies NormalizeEnum to every element, dropping empties and
// duplicates. Order of first occurrence is preserved.
//
//	NormalizeEnums([]string{" super_admin", "", "SUPER_ADMIN", "student"})
//	// Returns: []string{"SUPER_ADMIN", "STUDENT"}
func NormalizeEnums(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := NormalizeEnum(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
