package table

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mask is a set of row ids backed by a 32-bit Roaring Bitmap.
//
// A Mask is not safe for concurrent mutation; engines build a fresh mask per
// query and only read shared ones.
type Mask struct {
	rb *roaring.Bitmap
}

// NewMask creates a new empty mask.
func NewMask() *Mask {
	return &Mask{rb: roaring.New()}
}

// FullMask creates a mask holding every row id in [0, n).
func FullMask(n int) *Mask {
	rb := roaring.New()
	if n > 0 {
		rb.AddRange(0, uint64(n))
	}
	return &Mask{rb: rb}
}

// Add adds a row id to the mask.
func (m *Mask) Add(row int) {
	m.rb.Add(uint32(row))
}

// Contains reports whether row is in the mask.
func (m *Mask) Contains(row int) bool {
	return m.rb.Contains(uint32(row))
}

// IsEmpty returns true if the mask is empty.
func (m *Mask) IsEmpty() bool {
	return m.rb.IsEmpty()
}

// Cardinality returns the number of rows in the mask.
func (m *Mask) Cardinality() int {
	return int(m.rb.GetCardinality())
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	return &Mask{rb: m.rb.Clone()}
}

// And narrows the mask to the intersection with other.
func (m *Mask) And(other *Mask) {
	m.rb.And(other.rb)
}

// AndCardinality returns |m ∧ other| without materializing the intersection.
func (m *Mask) AndCardinality(other *Mask) int {
	return int(m.rb.AndCardinality(other.rb))
}

// Clear removes all rows from the mask.
func (m *Mask) Clear() {
	m.rb.Clear()
}

// Rows returns an iterator over the row ids in ascending order.
func (m *Mask) Rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := m.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Range returns the row ids ranked [lo, hi) in ascending order.
// Out of range bounds are truncated.
func (m *Mask) Range(lo, hi int) []int {
	n := m.Cardinality()
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return nil
	}

	first, err := m.rb.Select(uint32(lo))
	if err != nil {
		return nil
	}

	out := make([]int, 0, hi-lo)
	it := m.rb.Iterator()
	it.AdvanceIfNeeded(first)
	for it.HasNext() && len(out) < hi-lo {
		out = append(out, int(it.Next()))
	}
	return out
}

// GetSizeInBytes returns the size of the mask in bytes.
func (m *Mask) GetSizeInBytes() uint64 {
	return m.rb.GetSizeInBytes()
}
