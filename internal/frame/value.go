package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

type naType struct{}

func (naType) String() string { return "NaN" }

func (naType) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// NA is the missing marker. It is distinct from every data value, including
// the empty string and zero.
var NA any = naType{}

// IsMissing reports whether v is the missing marker. nil and float NaN are
// treated as missing too.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil, naType:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// normalize maps every missing representation onto NA and widens the
// narrower Go number types so that a column holds one type per family.
func normalize(v any) any {
	if IsMissing(v) {
		return NA
	}
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	}
	return v
}

// TypeOf returns the concrete runtime type of v as used for mixed-type
// detection. The missing marker has a type of its own.
func TypeOf(v any) string {
	switch normalize(v).(type) {
	case naType:
		return "missing"
	case float64:
		return "float"
	case int64:
		return "int"
	case string:
		return "str"
	case bool:
		return "bool"
	case time.Time:
		return "datetime"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// TextForm returns the text coercion of v. It is the identity used when
// counting unique values: values of different types with the same text
// collapse into one.
func TextForm(v any) string {
	switch x := normalize(v).(type) {
	case naType:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Key identifies a value by type and text. Two values share a Key only when
// they have the same concrete type and the same text form.
type Key struct {
	Type string
	Text string
}

// KeyOf returns the typed identity of v.
func KeyOf(v any) Key {
	return Key{Type: TypeOf(v), Text: TextForm(v)}
}

// AsFloat converts a numeric value to float64.
func AsFloat(v any) (float64, bool) {
	switch x := normalize(v).(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}
