package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/peekknuf/eda/internal/frame"
)

// OpenDB connects to a database. The driver must be registered by the
// caller.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return db, nil
}

// LoadSQL runs a query and turns its result set into a table. NULL becomes
// the missing marker and cells keep the Go types the driver returns.
func LoadSQL(ctx context.Context, db *sqlx.DB, query string, args ...any) (*frame.Table, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	decimalCols := make([]bool, len(headers))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			switch strings.ToUpper(ct.DatabaseTypeName()) {
			case "NUMERIC", "DECIMAL":
				decimalCols[i] = true
			}
		}
	}

	var data [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(data)+1, err)
		}
		for i, v := range values {
			b, ok := v.([]byte)
			if !ok {
				continue
			}
			values[i] = string(b)
			if decimalCols[i] {
				if f, err := strconv.ParseFloat(string(b), 64); err == nil {
					values[i] = f
				}
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return build(headers, data)
}
