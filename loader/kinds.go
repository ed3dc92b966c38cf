package loader

import (
	"fmt"

	"github.com/hupe1980/datasetter/table"
)

// ApplyKinds converts the named columns of tbl to the given kinds. Decoders
// that carry their own types (JSON Lines, SQL, DynamoDB) use it to honour
// configured column types. Nulls stay null, ints widen to floats, and any
// other value is reparsed from its text. Kinds for columns tbl does not have
// are ignored, and so are null kinds.
func ApplyKinds(tbl *table.Table, kinds map[string]table.Kind) (*table.Table, error) {
	if len(kinds) == 0 {
		return tbl, nil
	}

	names := tbl.Columns()
	cols := make([][]table.Value, len(names))
	for c, name := range names {
		col, _ := tbl.Column(name)
		k, ok := kinds[name]
		if !ok || k == table.KindNull {
			cols[c] = col
			continue
		}
		out := make([]table.Value, len(col))
		for i, v := range col {
			cv, err := convertKind(v, k)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
			}
			out[i] = cv
		}
		cols[c] = out
	}

	b := table.NewBuilder(names...)
	row := make([]table.Value, len(names))
	for i := 0; i < tbl.Len(); i++ {
		for c := range cols {
			row[c] = cols[c][i]
		}
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func convertKind(v table.Value, k table.Kind) (table.Value, error) {
	switch {
	case v.IsNull() || v.Kind == k:
		return v, nil
	case v.Kind == table.KindInt && k == table.KindFloat:
		return table.Float(float64(v.I64)), nil
	case k == table.KindString:
		return table.String(v.Text()), nil
	default:
		return table.ParseValue(k, v.Text())
	}
}
