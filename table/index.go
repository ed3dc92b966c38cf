package table

// Index is an inverted index over one column: value key -> rows holding it.
//
// Distinct values are kept in the order they are first encountered in the
// column, which gives histograms a deterministic tie order. An Index is
// immutable once built and safe for concurrent readers.
type Index struct {
	values   []Value
	postings []*Mask
	byKey    map[string]int
}

// BuildIndex indexes a column. Null cells are indexed under a single null
// entry so they can be counted, but Lookup never returns them.
func BuildIndex(col []Value) *Index {
	ix := &Index{byKey: make(map[string]int)}
	for row, v := range col {
		k := v.Key()
		i, ok := ix.byKey[k]
		if !ok {
			i = len(ix.values)
			ix.byKey[k] = i
			ix.values = append(ix.values, v)
			ix.postings = append(ix.postings, NewMask())
		}
		ix.postings[i].Add(row)
	}
	return ix
}

// Lookup returns the rows whose value equals v, or nil if there are none.
// The returned mask is shared and must not be modified.
func (ix *Index) Lookup(v Value) *Mask {
	if v.Kind == KindNull {
		return nil
	}
	i, ok := ix.byKey[v.Key()]
	if !ok {
		return nil
	}
	return ix.postings[i]
}

// Len returns the number of distinct values, null included.
func (ix *Index) Len() int {
	return len(ix.values)
}

// Entry returns the i-th distinct value and its rows, in encounter order.
// The returned mask is shared and must not be modified.
func (ix *Index) Entry(i int) (Value, *Mask) {
	return ix.values[i], ix.postings[i]
}

// SizeInBytes returns the serialized size of all postings.
func (ix *Index) SizeInBytes() uint64 {
	var n uint64
	for _, p := range ix.postings {
		n += p.GetSizeInBytes()
	}
	return n
}
