package schema

import (
	"encoding/json"
	"slices"
)

// Count is one key of a Tally with its occurrence count.
type Count[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// Tally counts keys and remembers the order in which each key was first seen.
// The zero value is an empty tally ready to use.
type Tally[K comparable] struct {
	index   map[K]int
	entries []Count[K]
}

// Add increments the count for key by one.
func (t *Tally[K]) Add(key K) {
	t.AddN(key, 1)
}

// AddN increments the count for key by n.
func (t *Tally[K]) AddN(key K, n int) {
	if t.index == nil {
		t.index = make(map[K]int)
	}
	if i, ok := t.index[key]; ok {
		t.entries[i].Count += n
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Count[K]{Key: key, Count: n})
}

// Get returns the count for key, or 0 when the key was never added.
func (t *Tally[K]) Get(key K) int {
	if t == nil || t.index == nil {
		return 0
	}
	if i, ok := t.index[key]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct keys.
func (t *Tally[K]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Empty reports whether nothing was tallied.
func (t *Tally[K]) Empty() bool {
	return t.Len() == 0
}

// Total returns the sum of all counts.
func (t *Tally[K]) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, e := range t.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in first-seen order.
func (t *Tally[K]) Entries() []Count[K] {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Map returns the counts as a plain map.
func (t *Tally[K]) Map() map[K]int {
	out := make(map[K]int, t.Len())
	if t == nil {
		return out
	}
	for _, e := range t.entries {
		out[e.Key] = e.Count
	}
	return out
}

// SortKeys reorders entries by key using cmp. It is used for naturally ordered
// keys such as years and months.
func (t *Tally[K]) SortKeys(cmp func(a, b K) int) {
	if t == nil {
		return
	}
	slices.SortStableFunc(t.entries, func(a, b Count[K]) int { return cmp(a.Key, b.Key) })
	for i, e := range t.entries {
		t.index[e.Key] = i
	}
}

// MarshalJSON encodes the tally as an ordered array of {key, count} objects.
func (t Tally[K]) MarshalJSON() ([]byte, error) {
	if t.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.entries)
}
