package store

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds the collator used for locale-aware name ordering.
// Collators are not safe for concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

// compareTimestamps orders two ISO-8601 timestamps by parsed instant.
// Unparseable values sort as the zero time.
func compareTimestamps(a, b string) int {
	ta, _ := time.Parse(time.RFC3339, a)
	tb, _ := time.Parse(time.RFC3339, b)
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}

// orderedLess applies the asc/desc direction to a raw comparison result.
func orderedLess(cmp int, desc bool) bool {
	if desc {
		return cmp > 0
	}
	return cmp < 0
}

func containsLabel(labels []string, want string) bool {
	for _, s := range labels {
		if s == want {
			return true
		}
	}
	return false
}
