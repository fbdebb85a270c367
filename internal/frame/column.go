package frame

import (
	"fmt"
)

// Kind is the declared type of a column.
type Kind int

const (
	Object Kind = iota
	Numeric
	Bool
	Text
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Bool:
		return "bool"
	case Text:
		return "text"
	default:
		return "object"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Generic reports whether the kind stores arbitrary values. Text columns are
// generic too: nothing stops a text column from holding a missing marker.
func (k Kind) Generic() bool {
	return k == Text || k == Object
}

// Column is a named, ordered sequence of values of one declared kind.
type Column struct {
	name   string
	kind   Kind
	values []any
}

// NewColumn builds a column of the given kind. Numbers in a Numeric column
// are stored as float64; values that do not fit the kind are rejected.
func NewColumn(name string, kind Kind, values []any) (*Column, error) {
	col := &Column{name: name, kind: kind, values: make([]any, len(values))}
	for i, v := range values {
		v = normalize(v)
		if v != NA {
			if err := checkKind(kind, v); err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
			}
			if kind == Numeric {
				v, _ = AsFloat(v)
			}
		}
		col.values[i] = v
	}
	return col, nil
}

func checkKind(kind Kind, v any) error {
	ok := true
	switch kind {
	case Numeric:
		_, ok = AsFloat(v)
	case Bool:
		_, ok = v.(bool)
	case Text:
		_, ok = v.(string)
	}
	if !ok {
		return fmt.Errorf("%s value %v does not fit a %s column", TypeOf(v), v, kind)
	}
	return nil
}

// Infer builds a column whose kind is derived from its values: Numeric when
// every present value is a number, Bool when every one is a bool, Text when
// every one is a string and Object otherwise (including all-missing columns).
func Infer(name string, values []any) *Column {
	var numbers, bools, texts, present int
	for _, v := range values {
		v = normalize(v)
		if v == NA {
			continue
		}
		present++
		switch v.(type) {
		case float64, int64:
			numbers++
		case bool:
			bools++
		case string:
			texts++
		}
	}

	kind := Object
	switch {
	case present == 0:
	case numbers == present:
		kind = Numeric
	case bools == present:
		kind = Bool
	case texts == present:
		kind = Text
	}

	col, err := NewColumn(name, kind, values)
	if err != nil {
		// unreachable: the kind was chosen to fit every value
		col, _ = NewColumn(name, Object, values)
	}
	return col
}

// Numbers builds a Numeric column; NaN entries become missing.
func Numbers(name string, xs ...float64) *Column {
	values := make([]any, len(xs))
	for i, x := range xs {
		values[i] = x
	}
	col, _ := NewColumn(name, Numeric, values)
	return col
}

// Objects builds an Object column from arbitrary values.
func Objects(name string, values ...any) *Column {
	col, _ := NewColumn(name, Object, values)
	return col
}

func (c *Column) Name() string { return c.name }

func (c *Column) Kind() Kind { return c.kind }

func (c *Column) Len() int { return len(c.values) }

// Value returns the i-th value; missing entries are NA.
func (c *Column) Value(i int) any { return c.values[i] }

// Values returns a copy of the column's values.
func (c *Column) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// NullCount returns the number of missing entries.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v == NA {
			n++
		}
	}
	return n
}

// Floats returns the present values of a Numeric column in order. It returns
// nil for other kinds.
func (c *Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}
