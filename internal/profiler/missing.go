package profiler

import (
	"fmt"
	"math"

	"github.com/peekknuf/eda/internal/frame"
)

// ColumnMissingShare is the missing-value percentage of one column.
type ColumnMissingShare struct {
	Column  string  `json:"column"`
	Percent float64 `json:"percent"`
}

// MissingValueSummary holds the columns whose missing share reached Limit,
// in table order.
type MissingValueSummary struct {
	Limit   float64              `json:"limit"`
	Columns []ColumnMissingShare `json:"columns"`
}

// Empty reports that no column reached the limit.
func (s MissingValueSummary) Empty() bool {
	return len(s.Columns) == 0
}

// Percent returns the share recorded for the named column.
func (s MissingValueSummary) Percent(name string) (float64, bool) {
	for _, c := range s.Columns {
		if c.Column == name {
			return c.Percent, true
		}
	}
	return 0, false
}

// TableMissing returns the columns whose missing-value percentage is at
// least limit. Limits above 100 are accepted and match nothing; negative or
// non-finite limits are rejected.
func TableMissing(t *frame.Table, limit float64) (MissingValueSummary, error) {
	summary := MissingValueSummary{Limit: limit, Columns: []ColumnMissingShare{}}

	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return summary, &InvalidArgumentError{Name: "limit", Value: limit, Reason: "must be a finite percentage"}
	}
	if limit < 0 {
		return summary, &InvalidArgumentError{Name: "limit", Value: limit, Reason: "must not be negative"}
	}

	if t.Rows() == 0 {
		return summary, fmt.Errorf("table of shape %s: %w", shapeOf(t), ErrNoRows)
	}

	for _, col := range t.Columns() {
		pct, _ := missingPercent(col.NullCount(), t.Rows())
		if pct >= limit {
			summary.Columns = append(summary.Columns, ColumnMissingShare{Column: col.Name(), Percent: pct})
		}
	}
	return summary, nil
}

// ColumnMissing returns the missing-value percentage of one column.
func ColumnMissing(col *frame.Column) (float64, error) {
	pct, err := missingPercent(col.NullCount(), col.Len())
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col.Name(), err)
	}
	return pct, nil
}

func missingPercent(nulls, rows int) (float64, error) {
	if rows == 0 {
		return 0, ErrNoRows
	}
	return float64(nulls) * 100 / float64(rows), nil
}
