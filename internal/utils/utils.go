// Package utils contains helpers shared by the dirtree packages.
package utils

import "strings"

// NormalizeNames trims every name, drops empty ones and removes duplicates while preserving order.
// The first occurrence of each unique name is kept.
func NormalizeNames(names []string) []string {
	encounteredNames := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == EmptyString {
			continue
		}
		if _, exists := encounteredNames[trimmedName]; exists {
			continue
		}
		encounteredNames[trimmedName] = struct{}{}
		result = append(result, trimmedName)
	}
	return result
}
