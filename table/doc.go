// Package table provides the immutable, column-oriented tables served by
// datasetter.
//
// # Values
//
// Cells are typed scalars:
//
//   - String: table.String("alpha")
//   - Int: table.Int(13)
//   - Float: table.Float(0.5)
//   - Bool: table.Bool(true)
//   - Time: table.Time(ts)
//   - Null: table.Null()
//
// Equality is strict on kind with one exception: integers and integral floats
// compare equal. Null never equals anything.
//
// # Building
//
//	b := table.NewBuilder("letter", "greek", "number")
//	_ = b.Append(table.String("A"), table.String("alpha"), table.Int(1))
//	t, err := b.Build()
//
// # Masks and Indexes
//
// Row selections are Roaring Bitmaps (Mask). An Index maps each distinct value
// of a column to the Mask of rows holding it, so an equality filter is a
// single bitmap intersection.
package table
