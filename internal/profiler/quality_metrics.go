package profiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/peekknuf/eda/internal/frame"
)

// QualitySummary is a whole-table health check.
type QualitySummary struct {
	Shape            Shape    `json:"shape"`
	NullPercent      float64  `json:"null_percent"`
	DistinctRatio    float64  `json:"distinct_ratio"`
	ColumnsWithNulls int      `json:"columns_with_nulls"`
	NumericColumns   int      `json:"numeric_columns"`
	GenericColumns   int      `json:"generic_columns"`
	MixedColumns     []string `json:"mixed_columns"`
}

// Grade buckets the null share into Good, Fair or Poor.
func (q QualitySummary) Grade() string {
	switch {
	case q.NullPercent > 25:
		return "Poor"
	case q.NullPercent > 10:
		return "Fair"
	default:
		return "Good"
	}
}

// Quality computes the null share over all cells, the ratio of distinct
// rows and per-kind column counts.
func Quality(t *frame.Table) (QualitySummary, error) {
	q := QualitySummary{Shape: shapeOf(t)}
	if t.Rows() == 0 {
		return q, fmt.Errorf("table of shape %s: %w", q.Shape, ErrNoRows)
	}

	totalNulls := 0
	for _, col := range t.Columns() {
		nulls := col.NullCount()
		totalNulls += nulls
		if nulls > 0 {
			q.ColumnsWithNulls++
		}
		switch {
		case col.Kind() == frame.Numeric:
			q.NumericColumns++
		case col.Kind().Generic():
			q.GenericColumns++
		}
	}

	if cells := q.Shape.Rows * q.Shape.Columns; cells > 0 {
		q.NullPercent = float64(totalNulls) * 100 / float64(cells)
	}
	q.DistinctRatio = distinctRatio(t)
	q.MixedColumns = CheckMixedTypes(t).Columns

	return q, nil
}

func distinctRatio(t *frame.Table) float64 {
	seen := make(map[string]struct{}, t.Rows())
	var key strings.Builder
	for i := 0; i < t.Rows(); i++ {
		key.Reset()
		writeRowKey(&key, t.Row(i))
		seen[key.String()] = struct{}{}
	}
	return float64(len(seen)) / float64(t.Rows())
}

// writeRowKey writes the typed identity of every cell. Texts are length
// prefixed so no choice of cell contents can make two rows collide.
func writeRowKey(b *strings.Builder, row []any) {
	for _, v := range row {
		k := frame.KeyOf(v)
		b.WriteString(k.Type)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(k.Text)))
		b.WriteByte(':')
		b.WriteString(k.Text)
	}
}
