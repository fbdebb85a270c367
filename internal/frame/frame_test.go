package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingMarker(t *testing.T) {
	assert.True(t, IsMissing(NA))
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(""))
	assert.False(t, IsMissing(0.0))
	assert.False(t, IsMissing(math.Inf(1)))

	col := Numbers("price", 10, math.NaN(), 20)
	assert.Equal(t, NA, col.Value(1))
	assert.Equal(t, 1, col.NullCount())
	assert.Equal(t, []float64{10, 20}, col.Floats())
}

func TestTypeOfAndTextFormDiffer(t *testing.T) {
	// TypeOf keeps 1 and "1" apart, TextForm merges them.
	assert.NotEqual(t, TypeOf(int64(1)), TypeOf("1"))
	assert.Equal(t, TextForm(int64(1)), TextForm("1"))
	assert.NotEqual(t, KeyOf(int64(1)), KeyOf("1"))

	assert.Equal(t, "missing", TypeOf(NA))
	assert.Equal(t, "NaN", TextForm(NA))
	assert.Equal(t, "10", TextForm(10.0))
	assert.Equal(t, "2.5", TextForm(2.5))
	assert.Equal(t, "int", TypeOf(7))
	assert.Equal(t, "str", TypeOf([]byte("x")))
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   Kind
	}{
		{"numbers", []any{1, 2.5, nil}, Numeric},
		{"bools", []any{true, NA, false}, Bool},
		{"strings", []any{"a", "b", NA}, Text},
		{"mixed", []any{"a", int64(1), "b"}, Object},
		{"all missing", []any{NA, nil}, Object},
		{"empty", nil, Object},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col := Infer("c", tc.values)
			assert.Equal(t, tc.want, col.Kind())
			assert.Equal(t, len(tc.values), col.Len())
		})
	}

	col := Infer("n", []any{1, 2})
	assert.Equal(t, 1.0, col.Value(0), "ints are widened in numeric columns")

	obj := Infer("o", []any{"a", 1})
	assert.Equal(t, int64(1), obj.Value(1), "object columns keep their runtime types")
}

func TestNewColumnRejectsWrongKind(t *testing.T) {
	_, err := NewColumn("price", Numeric, []any{1.0, "cheap"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestTable(t *testing.T) {
	tbl, err := New(Numbers("a", 1, 2), Objects("b", "x", NA))
	require.NoError(t, err)

	rows, cols := tbl.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, []any{2.0, NA}, tbl.Row(1))

	_, err = tbl.Column("missing")
	var notFound *ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Name)
	assert.Equal(t, 2, notFound.Rows)
	assert.Equal(t, 2, notFound.Cols)
	assert.Contains(t, err.Error(), "(2, 2)")
}

func TestTableValidation(t *testing.T) {
	_, err := New(Numbers("a", 1), Numbers("a", 2))
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(Numbers("a", 1), Numbers("b", 1, 2))
	assert.Error(t, err)

	empty, err := New()
	require.NoError(t, err)
	rows, cols := empty.Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestDataFrameRoundTrip(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"make", "price", "used"},
		{"Audi", "10", "true"},
		{"BMW", "NA", "false"},
		{"Opel", "20", "true"},
	})
	require.NoError(t, df.Err)

	tbl, err := FromDataFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"make", "price", "used"}, tbl.Names())

	price, err := tbl.Column("price")
	require.NoError(t, err)
	assert.Equal(t, Numeric, price.Kind())
	assert.Equal(t, 1, price.NullCount())

	used, err := tbl.Column("used")
	require.NoError(t, err)
	assert.Equal(t, Bool, used.Kind())

	back := tbl.DataFrame()
	require.NoError(t, back.Err)
	r, c := back.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1, countNA(back, "price"))
}

func countNA(df dataframe.DataFrame, name string) int {
	n := 0
	for _, na := range df.Col(name).IsNaN() {
		if na {
			n++
		}
	}
	return n
}
