package flow

import (
	"strconv"
	"strings"
)

// SubItemName renders the canonical acrylic name for catalog index n.
// The rendering is part of the archive filename contract and must not change.
func SubItemName(n int) string {
	return "ACRILICO_" + strconv.Itoa(n)
}

// ParseSubItemSelection parses a comma-separated acrylic index list
// ("1,2,4") against a closed catalog of max items. Indices outside
// [1, max] are silently dropped; duplicates keep their first occurrence.
// A non-integer token, or a selection with no in-range index, is a
// ValidationError.
func ParseSubItemSelection(text string, max int) ([]string, error) {
	var names []string
	seen := make(map[int]bool)

	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, &ValidationError{Hint: "empty index in selection"}
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, &ValidationError{Hint: "selection must be comma-separated numbers"}
		}
		if n < 1 || n > max {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, SubItemName(n))
	}

	if len(names) == 0 {
		return nil, &ValidationError{Hint: "no valid acrylic selected"}
	}
	return names, nil
}

// NormalizeName upper-cases a user-entered name and replaces spaces with
// underscores, matching the archive naming convention.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}
