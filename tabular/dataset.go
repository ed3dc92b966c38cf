// Package tabular implements datasetter.Dataset over an in-memory table.
//
// Every declared facet gets an inverted index (value -> Roaring Bitmap of
// rows) at construction. A query turns its filters into one bitmap
// intersection per filter, so Count is a cardinality, CountBy is one
// intersection cardinality per distinct value, and Sample is a rank-select
// into the filtered bitmap.
package tabular

import (
	"context"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/table"
)

// Dataset is a datasetter.Dataset backed by a *table.Table.
//
// A Dataset is immutable after New and safe for concurrent use.
type Dataset struct {
	table   *table.Table
	facets  []string
	indexes map[string]*table.Index
	meta    datasetter.Metadata
	all     *table.Mask
}

// New creates a Dataset serving t, filterable on facets.
//
// Every facet must name a column of t; otherwise New returns
// *datasetter.ErrUnknownColumn. meta is returned verbatim by Metadata.
func New(t *table.Table, facets []string, meta datasetter.Metadata, optFns ...datasetter.Option) (*Dataset, error) {
	d := &Dataset{
		table:   t,
		facets:  slices.Clone(facets),
		indexes: make(map[string]*table.Index, len(facets)),
		meta:    meta,
		all:     table.FullMask(t.Len()),
	}

	for _, f := range facets {
		if _, dup := d.indexes[f]; dup {
			continue
		}
		col, ok := t.Column(f)
		if !ok {
			return nil, &datasetter.ErrUnknownColumn{Column: f}
		}
		d.indexes[f] = table.BuildIndex(col)
	}

	datasetter.LoggerFrom(optFns...).DebugContext(context.Background(), "dataset indexed",
		"name", meta.Name,
		"rows", t.Len(),
		"facets", len(d.indexes),
		"index_size", humanize.Bytes(d.IndexSizeInBytes()),
	)

	return d, nil
}

// Metadata implements datasetter.Dataset.
func (d *Dataset) Metadata() datasetter.Metadata {
	return d.meta
}

// Facets returns the declared facet names.
func (d *Dataset) Facets() []string {
	return slices.Clone(d.facets)
}

// Table returns the served table.
func (d *Dataset) Table() *table.Table {
	return d.table
}

// Schema implements datasetter.Schemaer.
func (d *Dataset) Schema() table.Schema {
	return d.table.Schema()
}

// IndexSizeInBytes returns the size of all facet indexes.
func (d *Dataset) IndexSizeInBytes() uint64 {
	var n uint64
	for _, ix := range d.indexes {
		n += ix.SizeInBytes()
	}
	return n
}

// mask returns the rows satisfying filters. Keys are checked in sorted order
// and the first undeclared one aborts the query; the partial mask is
// discarded.
//
// The returned mask may be shared with the dataset and must not be modified.
func (d *Dataset) mask(filters datasetter.Filters) (*table.Mask, error) {
	if len(filters) == 0 {
		return d.all, nil
	}

	m := d.all.Clone()
	for _, key := range filters.Keys() {
		ix, ok := d.indexes[key]
		if !ok {
			return nil, &datasetter.ErrUnknownFacet{Facet: key}
		}
		rows := ix.Lookup(filters[key])
		if rows == nil {
			// Absent value: nothing can match, but later keys must still be
			// validated.
			m.Clear()
			continue
		}
		m.And(rows)
	}
	return m, nil
}

// Count implements datasetter.Dataset.
func (d *Dataset) Count(filters datasetter.Filters) (int, error) {
	m, err := d.mask(filters)
	if err != nil {
		return 0, err
	}
	return m.Cardinality(), nil
}

// CountBy implements datasetter.Dataset.
//
// Buckets are sorted by descending count; equal counts keep the order in
// which their values first appear in the table. Values with no matching row
// are omitted. Null cells form their own bucket.
func (d *Dataset) CountBy(facet string, page datasetter.Page, filters datasetter.Filters) (datasetter.Histogram, error) {
	ix, ok := d.indexes[facet]
	if !ok {
		return nil, &datasetter.ErrUnknownFacet{Facet: facet}
	}

	m, err := d.mask(filters)
	if err != nil {
		return nil, err
	}

	hist := make(datasetter.Histogram, 0, ix.Len())
	for i := range ix.Len() {
		v, rows := ix.Entry(i)
		if n := rows.AndCardinality(m); n > 0 {
			hist = append(hist, datasetter.Bucket{Value: v, Count: n})
		}
	}
	hist.SortByCount()

	return datasetter.Paginate(hist, page), nil
}

// Sample implements datasetter.Dataset.
func (d *Dataset) Sample(page datasetter.Page, filters datasetter.Filters) ([]table.Record, error) {
	m, err := d.mask(filters)
	if err != nil {
		return nil, err
	}

	lo, hi := datasetter.Window(m.Cardinality(), page)
	ids := m.Range(lo, hi)

	out := make([]table.Record, len(ids))
	for i, row := range ids {
		out[i] = d.table.Row(row)
	}
	return out, nil
}

var (
	_ datasetter.Dataset  = (*Dataset)(nil)
	_ datasetter.Schemaer = (*Dataset)(nil)
)
