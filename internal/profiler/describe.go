package profiler

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/peekknuf/eda/internal/frame"
)

// NumericDescription is the numeric half of a describe row. Std is nil when
// it is undefined (fewer than two values) or overflows.
type NumericDescription struct {
	Mean float64  `json:"mean"`
	Std  *float64 `json:"std"`
	Min  float64  `json:"min"`
	Q25  float64  `json:"q25"`
	Q50  float64  `json:"q50"`
	Q75  float64  `json:"q75"`
	Max  float64  `json:"max"`
}

// CategoricalDescription is the describe row of a non-numeric column. Top is
// the text form of the most frequent present value.
type CategoricalDescription struct {
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// ColumnDescription is one row of a describe table. Count is the number of
// values the statistics were taken over: present values, and for numeric
// columns only the finite ones.
type ColumnDescription struct {
	Column      string                  `json:"column"`
	Kind        frame.Kind              `json:"kind"`
	Count       int                     `json:"count"`
	NullCount   int                     `json:"null_count"`
	Numeric     *NumericDescription     `json:"numeric,omitempty"`
	Categorical *CategoricalDescription `json:"categorical,omitempty"`
}

// Describe summarises every column of t in table order: mean, standard
// deviation and quartiles for numeric columns, unique count and most
// frequent value for the others.
func Describe(t *frame.Table) []ColumnDescription {
	out := make([]ColumnDescription, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		d := ColumnDescription{
			Column:    col.Name(),
			Kind:      col.Kind(),
			NullCount: col.NullCount(),
		}
		if col.Kind() == frame.Numeric {
			data := finiteValues(col)
			d.Count = len(data)
			d.Numeric = describeNumbers(data)
		} else {
			d.Count = col.Len() - d.NullCount
			d.Categorical = describeValues(col)
		}
		out = append(out, d)
	}
	return out
}

func describeNumbers(data []float64) *NumericDescription {
	if len(data) == 0 {
		return nil
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	d := &NumericDescription{
		Min: sorted[0],
		Q25: calculateQuantile(sorted, 0.25),
		Q50: calculateQuantile(sorted, 0.50),
		Q75: calculateQuantile(sorted, 0.75),
		Max: sorted[len(sorted)-1],
	}
	d.Mean, _ = mean(data, d.Min, d.Max)
	if len(data) > 1 {
		if std := stat.StdDev(data, nil); !math.IsInf(std, 0) && !math.IsNaN(std) {
			d.Std = &std
		}
	}
	return d
}

func describeValues(col *frame.Column) *CategoricalDescription {
	d := &CategoricalDescription{}
	for _, e := range Frequencies(col) {
		if frame.IsMissing(e.Value) {
			continue
		}
		if d.Unique == 0 {
			d.Top = frame.TextForm(e.Value)
			d.Freq = e.Count
		}
		d.Unique++
	}
	return d
}
