package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FromDataFrame converts a gota DataFrame into a Table. gota NA elements
// become the missing marker.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}

	columns := make([]*Column, 0, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		values := make([]any, s.Len())
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				values[i] = NA
				continue
			}
			switch s.Type() {
			case series.Int, series.Float:
				values[i] = e.Float()
			case series.Bool:
				b, err := e.Bool()
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
				values[i] = b
			default:
				values[i] = e.String()
			}
		}

		kind := Text
		switch s.Type() {
		case series.Int, series.Float:
			kind = Numeric
		case series.Bool:
			kind = Bool
		}
		col, err := NewColumn(name, kind, values)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return New(columns...)
}

// DataFrame converts the table into a gota DataFrame. Object columns become
// string series, so their per-value types are lost.
func (t *Table) DataFrame() dataframe.DataFrame {
	ss := make([]series.Series, len(t.columns))
	for i, col := range t.columns {
		texts := make([]string, col.Len())
		for j, v := range col.values {
			texts[j] = TextForm(v)
		}

		typ := series.String
		switch col.Kind() {
		case Numeric:
			typ = series.Float
		case Bool:
			typ = series.Bool
		}
		ss[i] = series.New(texts, typ, col.Name())
	}
	return dataframe.New(ss...)
}
