package table

import (
	"fmt"
	"slices"
)

// Record is one row of a table, keyed by column name.
type Record map[string]Value

// Table is an immutable, column-oriented collection of rows.
//
// A Table is safe for concurrent use: nothing mutates it after Build.
type Table struct {
	names []string
	pos   map[string]int
	cols  [][]Value
	n     int
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.n
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.pos[name]
	return ok
}

// Column returns the values of a column. The returned slice must not be modified.
func (t *Table) Column(name string) ([]Value, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.pos[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Value returns the cell at row i in column name.
func (t *Table) Value(i int, name string) (Value, bool) {
	col, ok := t.Column(name)
	if !ok || i < 0 || i >= t.n {
		return Value{}, false
	}
	return col[i], true
}

// Row materializes row i as a Record.
func (t *Table) Row(i int) Record {
	r := make(Record, len(t.names))
	for c, name := range t.names {
		r[name] = t.cols[c][i]
	}
	return r
}

// Records materializes every row, in table order.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Schema returns the inferred column kinds.
func (t *Table) Schema() Schema {
	if t == nil {
		return nil
	}
	s := make(Schema, len(t.names))
	for c, name := range t.names {
		s[c] = Column{Name: name, Kind: columnKind(t.cols[c])}
	}
	return s
}

func columnKind(col []Value) Kind {
	kind := KindNull
	for _, v := range col {
		switch {
		case v.Kind == KindNull:
		case kind == KindNull:
			kind = v.Kind
		case kind == KindInt && v.Kind == KindFloat:
			return KindFloat
		}
	}
	return kind
}

// Builder accumulates rows for a Table.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	names []string
	pos   map[string]int
	cols  [][]Value
	n     int
	built bool
}

// NewBuilder creates a builder for the given columns.
// Duplicate column names are rejected by Build.
func NewBuilder(columns ...string) *Builder {
	b := &Builder{
		names: slices.Clone(columns),
		pos:   make(map[string]int, len(columns)),
		cols:  make([][]Value, len(columns)),
	}
	for i, name := range columns {
		if _, dup := b.pos[name]; !dup {
			b.pos[name] = i
		}
	}
	return b
}

// AddColumn appends a column; existing rows get Null in it.
func (b *Builder) AddColumn(name string) {
	if _, ok := b.pos[name]; ok {
		return
	}
	b.pos[name] = len(b.names)
	b.names = append(b.names, name)
	col := make([]Value, b.n)
	b.cols = append(b.cols, col)
}

// Append adds a row given one value per column, in column order.
func (b *Builder) Append(values ...Value) error {
	if len(values) != len(b.names) {
		return fmt.Errorf("row %d has %d values, expected %d", b.n, len(values), len(b.names))
	}
	for i, v := range values {
		b.cols[i] = append(b.cols[i], v)
	}
	b.n++
	return nil
}

// AppendRecord adds a row from a map. Missing columns are Null; unknown keys
// are an error.
func (b *Builder) AppendRecord(m map[string]any) error {
	row := make([]Value, len(b.names))
	for k, raw := range m {
		i, ok := b.pos[k]
		if !ok {
			return fmt.Errorf("row %d: unknown column %q", b.n, k)
		}
		v, err := FromAny(raw)
		if err != nil {
			return fmt.Errorf("row %d, column %q: %w", b.n, k, err)
		}
		row[i] = v
	}
	return b.Append(row...)
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return b.n }

// Build freezes the accumulated rows into a Table. The builder must not be
// used afterwards.
func (b *Builder) Build() (*Table, error) {
	if b.built {
		return nil, fmt.Errorf("builder already used")
	}
	if len(b.pos) != len(b.names) {
		return nil, fmt.Errorf("duplicate column names in %v", b.names)
	}
	b.built = true
	return &Table{
		names: b.names,
		pos:   b.pos,
		cols:  b.cols,
		n:     b.n,
	}, nil
}

// MustBuild is like Build but panics on error. Intended for tests and fixtures.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
