package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hupe1980/datasetter/table"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ReadSQL runs query and materialises its result set. Column names come from
// the result set; driver values are converted with table.FromAny.
func ReadSQL(ctx context.Context, db Querier, query string, args ...any) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sql: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql: %w", err)
	}

	b := table.NewBuilder(cols...)
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	row := make([]table.Value, len(cols))

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sql: row %d: %w", b.Len(), err)
		}
		for i, r := range raw {
			v, err := table.FromAny(r)
			if err != nil {
				return nil, fmt.Errorf("sql: row %d, column %q: %w", b.Len(), cols[i], err)
			}
			row[i] = v
		}
		if err := b.Append(row...); err != nil {
			return nil, fmt.Errorf("sql: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql: %w", err)
	}

	return b.Build()
}
