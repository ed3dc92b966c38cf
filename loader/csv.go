package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/datasetter/table"
)

// ReadCSV decodes a CSV document whose first record names the columns.
func ReadCSV(r io.Reader, optFns ...Option) (*table.Table, error) {
	opts := applyOptions(optFns)

	cr := csv.NewReader(r)
	cr.Comma = opts.comma

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: %w", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}

	// Columns are typed as a whole, so cells are parsed column by column.
	kinds := make([]table.Kind, len(header))
	cells := make([]string, len(records))
	for j, name := range header {
		if k, ok := opts.kinds[name]; ok {
			kinds[j] = k
			continue
		}
		for i, rec := range records {
			cells[i] = rec[j]
		}
		kinds[j] = table.InferKind(cells)
	}

	b := table.NewBuilder(header...)
	row := make([]table.Value, len(header))
	for i, rec := range records {
		for j, text := range rec {
			v, err := table.ParseValue(kinds[j], text)
			if err != nil {
				// Line numbers are 1-based and count the header.
				return nil, fmt.Errorf("csv: line %d, column %q: %w", i+2, header[j], err)
			}
			row[j] = v
		}
		if err := b.Append(row...); err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
	}

	return b.Build()
}
