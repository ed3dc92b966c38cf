package datasetter

import (
	"slices"

	"github.com/hupe1980/datasetter/table"
)

// Bucket is one entry of a histogram: a facet value and how many rows hold it.
type Bucket struct {
	Value table.Value `json:"value"`
	Count int         `json:"count"`
}

// Histogram is a sequence of buckets ordered by descending count.
type Histogram []Bucket

// Total returns the sum of all bucket counts.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Count
	}
	return total
}

// SortByCount orders h by descending count. The sort is stable: buckets
// with equal counts keep their relative order.
func (h Histogram) SortByCount() {
	slices.SortStableFunc(h, func(a, b Bucket) int {
		return b.Count - a.Count
	})
}
