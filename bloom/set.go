// Package bloom provides URL deduplication backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact string set with a Bloom filter in front of it.
//
// Most lookups during a crawl are for URLs never seen before, which the
// filter answers without touching the map. A positive answer from the
// filter is confirmed against the map, so the set never reports false
// positives.
type Set struct {
	filter *bloom.BloomFilter
	items  map[string]struct{}
}

// NewSet creates a Set sized for n expected items with the given
// false positive rate for the filter.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		items:  make(map[string]struct{}),
	}
}

// Add inserts s and reports whether it was not already present.
func (set *Set) Add(s string) bool {
	if set.Has(s) {
		return false
	}
	set.filter.AddString(s)
	set.items[s] = struct{}{}
	return true
}

// Has reports whether s is in the set.
func (set *Set) Has(s string) bool {
	if !set.filter.TestString(s) {
		return false
	}
	_, ok := set.items[s]
	return ok
}

// Len returns the number of items in the set.
func (set *Set) Len() int {
	return len(set.items)
}
