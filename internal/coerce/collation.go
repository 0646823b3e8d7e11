package coerce

import (
	"strings"
	"unicode"
)

// NoSpaceCollationName is the name this collation is registered under on
// the storage connection (SQL: COLLATE NOSPACE).
const NoSpaceCollationName = "NOSPACE"

// NoSpaceCollate compares two strings after stripping all whitespace,
// so "Max Capacity" and "MaxCapacity" sort and compare as equal. Property
// names are stored and queried both with and without spaces depending on
// which export path produced them; this collation is what lets lookups
// ignore the difference.
func NoSpaceCollate(a, b string) int {
	return strings.Compare(stripSpace(a), stripSpace(b))
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
