// Package strings holds helpers for list-valued configuration.
package strings

import (
	"strings"
)

// SplitList splits a separated list, trimming each element and dropping
// empties and duplicates. Order of first occurrence is preserved.
//
//	SplitList(" a, b,,a ", ",") // []string{"a", "b"}
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(raw, sep))
}

// DedupeAndTrim removes duplicates and empty strings, trimming whitespace
// from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
