package datasetter

import (
	"errors"
	"testing"

	"github.com/hupe1980/datasetter/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnimplemented(t *testing.T) {
	ds := NewUnimplemented(Metadata{})
	assert.Equal(t, Metadata{}, ds.Metadata())

	_, err := ds.Count(nil)
	assert.ErrorIs(t, err, ErrUnimplemented)

	_, err = ds.CountBy("facet", DefaultPage(), nil)
	assert.ErrorIs(t, err, ErrUnimplemented)

	_, err = ds.Sample(DefaultPage(), nil)
	assert.ErrorIs(t, err, ErrUnimplemented)
	assert.NotErrorIs(t, err, ErrFacetUnavailable)

	assert.Nil(t, SchemaOf(ds))
}

func TestUnimplementedMetadata(t *testing.T) {
	meta := Metadata{
		Name:        "letters",
		Description: "A simple dataset to make tests.",
		Columns:     []ColumnInfo{{Name: "letter", Type: "string"}},
		Facets:      []string{"letter"},
	}
	assert.Equal(t, meta, NewUnimplemented(meta).Metadata())
}

func TestErrUnknownFacet(t *testing.T) {
	var err error = &ErrUnknownFacet{Facet: "foo"}

	assert.ErrorIs(t, err, ErrFacetUnavailable)
	assert.NotErrorIs(t, err, ErrUnimplemented)
	assert.Equal(t, "no facet foo", err.Error())

	name, ok := UnknownFacet(errors.Join(errors.New("wrapped"), err))
	require.True(t, ok)
	assert.Equal(t, "foo", name)

	_, ok = UnknownFacet(ErrUnimplemented)
	assert.False(t, ok)
}

func TestFilters(t *testing.T) {
	f := Filters{"letter": table.String("A")}
	g := f.With("greek", table.String("alpha"))

	assert.Len(t, f, 1)
	assert.Equal(t, []string{"greek", "letter"}, g.Keys())
	assert.Equal(t, map[string]any{"letter": "A", "greek": "alpha"}, g.Any())

	declared := func(k string) bool { return k == "letter" || k == "greek" }
	assert.NoError(t, g.Validate(declared))
	assert.NoError(t, Filters(nil).Validate(declared))

	err := g.With("number", table.Int(3)).With("foo", table.Int(3)).Validate(declared)
	name, ok := UnknownFacet(err)
	require.True(t, ok)
	assert.Equal(t, "foo", name)

	ff, err := FiltersFromAny(map[string]any{"letter": "A", "n": 1})
	require.NoError(t, err)
	assert.Equal(t, Filters{"letter": table.String("A"), "n": table.Int(1)}, ff)

	_, err = FiltersFromAny(map[string]any{"x": struct{}{}})
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		page   Page
		lo, hi int
	}{
		{"default", 25, DefaultPage(), 0, 10},
		{"skip", 25, Page{Rows: 10, Skip: 20}, 20, 25},
		{"skip past end", 5, Page{Rows: 3, Skip: 9}, 5, 5},
		{"rows past end", 5, Page{Rows: 100}, 0, 5},
		{"zero rows", 5, Page{Rows: 0, Skip: 1}, 1, 1},
		{"negative skip", 5, Page{Rows: 2, Skip: -3}, 0, 2},
		{"negative rows", 5, Page{Rows: -2, Skip: 1}, 1, 1},
		{"empty", 0, DefaultPage(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Window(tt.n, tt.page)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestPaginate(t *testing.T) {
	s := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"b", "c"}, Paginate(s, Page{Rows: 2, Skip: 1}))
	assert.Empty(t, Paginate(s, Page{Rows: 2, Skip: 4}))
	assert.Equal(t, s, Paginate(s, Page{Rows: 10}))
}

func TestHistogramSortByCount(t *testing.T) {
	h := Histogram{
		{Value: table.String("B"), Count: 2},
		{Value: table.String("A"), Count: 3},
		{Value: table.String("C"), Count: 2},
		{Value: table.String("D"), Count: 2},
	}
	h.SortByCount()

	assert.Equal(t, Histogram{
		{Value: table.String("A"), Count: 3},
		{Value: table.String("B"), Count: 2},
		{Value: table.String("C"), Count: 2},
		{Value: table.String("D"), Count: 2},
	}, h)
	assert.Equal(t, 9, h.Total())
}
