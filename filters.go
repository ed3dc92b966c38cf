package datasetter

import (
	"maps"
	"slices"

	"github.com/hupe1980/datasetter/table"
)

// Filters maps facet names to the single value rows must hold. All entries
// must match (AND). A nil or empty Filters matches every row.
type Filters map[string]table.Value

// FiltersFromAny converts untyped filter values (as decoded from JSON, say).
func FiltersFromAny(m map[string]any) (Filters, error) {
	rec, err := table.RecordFromAny(m)
	if err != nil {
		return nil, err
	}
	return Filters(rec), nil
}

// With returns a copy of f with key set to v.
func (f Filters) With(key string, v table.Value) Filters {
	out := make(Filters, len(f)+1)
	maps.Copy(out, f)
	out[key] = v
	return out
}

// Keys returns the filter keys in sorted order.
func (f Filters) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}

// Validate returns *ErrUnknownFacet for the first key, in sorted order, that
// isDeclared rejects.
func (f Filters) Validate(isDeclared func(string) bool) error {
	for _, k := range f.Keys() {
		if !isDeclared(k) {
			return &ErrUnknownFacet{Facet: k}
		}
	}
	return nil
}

// Any returns the filters as plain Go values, for logging and responses.
func (f Filters) Any() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Any()
	}
	return out
}
