package datasetter

import "github.com/hupe1980/datasetter/table"

// ColumnInfo describes one column in a dataset's metadata document.
type ColumnInfo struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type" mapstructure:"type"`
	Description string `json:"description" mapstructure:"description"`
}

// Metadata is the descriptive document of a dataset. It is returned verbatim
// and is not checked against the table's actual columns.
type Metadata struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Columns     []ColumnInfo `json:"columns"`
	Facets      []string     `json:"facets"`
}

// Dataset is the query contract every tabular backend implements.
//
// Implementations must be safe for concurrent use.
type Dataset interface {
	// Metadata returns the descriptive document unchanged.
	Metadata() Metadata

	// Count returns the number of rows satisfying filters.
	Count(filters Filters) (int, error)

	// CountBy returns a page of the histogram of facet's values among rows
	// satisfying filters, sorted by descending count.
	CountBy(facet string, page Page, filters Filters) (Histogram, error)

	// Sample returns a page of the rows satisfying filters, in table order.
	Sample(page Page, filters Filters) ([]table.Record, error)
}

// Schemaer is implemented by datasets that know their column kinds. Adapters
// use it to turn textual filter values into typed ones.
type Schemaer interface {
	Schema() table.Schema
}

// SchemaOf returns the schema of ds, or nil if ds does not expose one.
func SchemaOf(ds Dataset) table.Schema {
	if s, ok := ds.(Schemaer); ok {
		return s.Schema()
	}
	return nil
}
