package frame

import (
	"errors"
	"fmt"
)

// ColumnNotFoundError is returned when a table has no column of the
// requested name.
type ColumnNotFoundError struct {
	Name string
	Rows int
	Cols int
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in table of shape (%d, %d)", e.Name, e.Rows, e.Cols)
}

var ErrDuplicateColumn = errors.New("duplicate column name")

// Table is an ordered collection of equally long, uniquely named columns.
// Tables are immutable once built.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a table from columns. All columns must have the same length
// and distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[col.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name())
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name(), col.Len(), t.rows)
		}
		t.index[col.Name()] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return t.rows, len(t.columns)
}

func (t *Table) Rows() int { return t.rows }

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &ColumnNotFoundError{Name: name, Rows: t.rows, Cols: len(t.columns)}
	}
	return t.columns[i], nil
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name()
	}
	return names
}

// Row returns the values of row i across all columns.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.values[i]
	}
	return row
}
