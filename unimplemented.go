package datasetter

import "github.com/hupe1980/datasetter/table"

// Unimplemented is a Dataset with no backing table.
//
// It serves its metadata and fails every query with ErrUnimplemented. Embed
// it in a backend under construction, or use it to exercise adapters without
// data.
type Unimplemented struct {
	meta Metadata
}

// NewUnimplemented returns an Unimplemented dataset describing itself with meta.
func NewUnimplemented(meta Metadata) *Unimplemented {
	return &Unimplemented{meta: meta}
}

// Metadata implements Dataset.
func (u *Unimplemented) Metadata() Metadata { return u.meta }

// Count implements Dataset.
func (*Unimplemented) Count(Filters) (int, error) { return 0, ErrUnimplemented }

// CountBy implements Dataset.
func (*Unimplemented) CountBy(string, Page, Filters) (Histogram, error) {
	return nil, ErrUnimplemented
}

// Sample implements Dataset.
func (*Unimplemented) Sample(Page, Filters) ([]table.Record, error) {
	return nil, ErrUnimplemented
}

var _ Dataset = (*Unimplemented)(nil)
