package derive

import "strings"

// CountByStatus tallies records into a status → count map with the status
// text normalized to lower case. Records with a blank status land under
// "unknown" so the tally always covers the whole input.
func CountByStatus[T any](items []T, status func(T) string) map[string]int {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(status(item)))
		if key == "" {
			key = "unknown"
		}
		counts[key]++
	}
	return counts
}
