package profiler

import (
	"errors"
	"fmt"
)

// ErrNoRows is returned by every percentage computation over a table or
// column without rows, instead of a NaN or infinite result.
var ErrNoRows = errors.New("no rows: percentage is undefined")

// ErrNotNumeric is returned when a distribution is requested over a
// column that is not numeric.
var ErrNotNumeric = errors.New("column is not numeric")

// EmptyInputError is returned when a column has no usable values left
// after missing and non-finite values are excluded.
type EmptyInputError struct {
	Column string
	Len    int
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("column %q has no usable values (%d rows, all missing or non-finite)", e.Column, e.Len)
}

// InvalidArgumentError reports an argument outside its accepted range.
type InvalidArgumentError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}
