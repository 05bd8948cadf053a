// Package algo holds the small ranking and summary routines shared by the engines.
package algo

import (
	"slices"

	"github.com/huangsam/issuelens/schema"
)

// TopN returns the n entries with the highest counts in descending order.
// Ties keep first-seen order. If n is greater than the number of entries,
// all entries are returned in ranked order. A non-positive n returns nil.
func TopN[K comparable](t *schema.Tally[K], n int) []schema.Count[K] {
	if n <= 0 {
		return nil
	}
	entries := t.Entries()
	slices.SortStableFunc(entries, func(a, b schema.Count[K]) int {
		return b.Count - a.Count
	})
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

// SharedKeys returns the keys present in both lists, in the order of a.
func SharedKeys[K comparable](a, b []schema.Count[K]) []K {
	inB := make(map[K]struct{}, len(b))
	for _, e := range b {
		inB[e.Key] = struct{}{}
	}
	var shared []K
	for _, e := range a {
		if _, ok := inB[e.Key]; ok {
			shared = append(shared, e.Key)
		}
	}
	return shared
}
