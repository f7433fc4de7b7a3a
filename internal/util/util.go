package util

import (
	"strings"
)

// FilterEmpty removes blank strings from a slice, trimming the ones it keeps.
//
// Parameters:
//   - parts: Strings that may be empty or whitespace only.
//
// Returns:
//   - []string: A new slice with the trimmed, non-empty entries in their original order.
func FilterEmpty(parts []string) []string {
	filtered := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}

	return filtered
}

// NormalizeContainerName trims surrounding whitespace and the leading "/" from container names.
//
// Parameters:
//   - name: Container name, potentially with leading "/".
//
// Returns:
//   - string: Normalized name without leading "/".
func NormalizeContainerName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "/")
}
