package profiler

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/peekknuf/eda/internal/frame"
)

// Shape is the (rows, columns) size of a table.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

func shapeOf(t *frame.Table) Shape {
	rows, cols := t.Shape()
	return Shape{Rows: rows, Columns: cols}
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Columns)
}

// FrequencyEntry is one distinct value and how often it occurs.
type FrequencyEntry struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// MarshalJSON writes infinite values as their text form, which JSON numbers
// cannot carry.
func (e FrequencyEntry) MarshalJSON() ([]byte, error) {
	type entry FrequencyEntry
	out := entry(e)
	if f, ok := e.Value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		out.Value = frame.TextForm(f)
	}
	return json.Marshal(out)
}

// FrequencyTable lists distinct values by descending count. The missing
// marker is a bucket like any other.
type FrequencyTable []FrequencyEntry

// Total returns the sum of all counts.
func (ft FrequencyTable) Total() int {
	total := 0
	for _, e := range ft {
		total += e.Count
	}
	return total
}

// Frequencies counts the distinct values of a column. Values are told apart
// by type and text, so 1 and "1" get separate buckets. Equal counts keep
// the order of first appearance.
func Frequencies(col *frame.Column) FrequencyTable {
	index := make(map[frame.Key]int)
	var ft FrequencyTable
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		k := frame.KeyOf(v)
		if j, ok := index[k]; ok {
			ft[j].Count++
			continue
		}
		index[k] = len(ft)
		ft = append(ft, FrequencyEntry{Value: v, Count: 1})
	}
	sort.SliceStable(ft, func(i, j int) bool {
		return ft[i].Count > ft[j].Count
	})
	return ft
}

// UniqueTextCount counts distinct values after coercing every value to its
// text form. The missing marker contributes its own text.
func UniqueTextCount(col *frame.Column) int {
	seen := make(map[string]struct{})
	for i := 0; i < col.Len(); i++ {
		seen[frame.TextForm(col.Value(i))] = struct{}{}
	}
	return len(seen)
}

// ColumnOverview is a first look at one column of a table.
type ColumnOverview struct {
	Column      string         `json:"column"`
	Kind        frame.Kind     `json:"kind"`
	NullPercent float64        `json:"null_percent"`
	NullCount   int            `json:"null_count"`
	UniqueCount int            `json:"unique_count"`
	Shape       Shape          `json:"shape"`
	Frequencies FrequencyTable `json:"frequencies"`
}

// Overview reports null share, unique count, table shape and value counts
// for the named column.
func Overview(t *frame.Table, name string) (*ColumnOverview, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	nulls := col.NullCount()
	pct, err := missingPercent(nulls, t.Rows())
	if err != nil {
		return nil, fmt.Errorf("column %q in table of shape %s: %w", name, shapeOf(t), err)
	}

	return &ColumnOverview{
		Column:      name,
		Kind:        col.Kind(),
		NullPercent: round2(pct),
		NullCount:   nulls,
		UniqueCount: UniqueTextCount(col),
		Shape:       shapeOf(t),
		Frequencies: Frequencies(col),
	}, nil
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
