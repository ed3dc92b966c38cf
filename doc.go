// Package datasetter serves a tabular dataset through a small query interface.
//
// A Dataset answers four questions about a table:
//
//   - Metadata: the descriptive document (name, description, columns, facets)
//   - Count: how many rows match a set of filters
//   - CountBy: a histogram of one facet column among matching rows
//   - Sample: a page of matching rows, in table order
//
// Filters are exact-match conditions on facets, the subset of columns a
// dataset declares as filterable. Filtering on any other key fails with
// *ErrUnknownFacet.
//
// # Quick Start
//
//	b := table.NewBuilder("letter", "greek", "number")
//	_ = b.Append(table.String("A"), table.String("alpha"), table.Int(1))
//	// ...
//	tbl, _ := b.Build()
//
//	ds, _ := tabular.New(tbl, []string{"letter", "greek"}, datasetter.Metadata{Name: "letters"})
//
//	n, _ := ds.Count(datasetter.Filters{"letter": table.String("A")})
//	hist, _ := ds.CountBy("letter", datasetter.DefaultPage(), nil)
//	rows, _ := ds.Sample(datasetter.Page{Rows: 2}, datasetter.Filters{"letter": table.String("A")})
//
// # Pagination
//
// CountBy pages through distinct facet values sorted by descending count;
// Sample pages through raw rows. Both use the same window: skip Page.Skip
// entries, then take up to Page.Rows. Negative bounds are clamped to zero and
// out of range bounds truncate the result; pagination is never an error.
//
// # Serving
//
// Package server mounts a Dataset on a gin router; cmd/datasetter boots a
// server from a configuration file. Instrument wraps any Dataset with
// structured logging and metrics.
package datasetter
