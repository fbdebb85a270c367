package profiler

import "github.com/peekknuf/eda/internal/frame"

// MixedTypeFinding lists generic columns whose values have more than one
// concrete type, in table order.
type MixedTypeFinding struct {
	Columns []string            `json:"columns"`
	Types   map[string][]string `json:"types,omitempty"`
}

// OK reports that no column is mixed.
func (f MixedTypeFinding) OK() bool {
	return len(f.Columns) == 0
}

// CheckMixedTypes scans the generic columns of t, plus bool columns that
// hold missing cells since those cannot stay boolean. The missing marker
// counts as a type of its own: a column of only missing values is uniform,
// while text with a single missing entry is flagged.
func CheckMixedTypes(t *frame.Table) MixedTypeFinding {
	finding := MixedTypeFinding{Columns: []string{}}
	for _, col := range t.Columns() {
		if !scanned(col) {
			continue
		}
		types := valueTypes(col)
		if len(types) > 1 {
			finding.Columns = append(finding.Columns, col.Name())
			if finding.Types == nil {
				finding.Types = make(map[string][]string)
			}
			finding.Types[col.Name()] = types
		}
	}
	return finding
}

func scanned(col *frame.Column) bool {
	switch {
	case col.Kind().Generic():
		return true
	case col.Kind() == frame.Bool:
		return col.NullCount() > 0
	}
	return false
}

// valueTypes returns the distinct concrete types of a column in order of
// first appearance.
func valueTypes(col *frame.Column) []string {
	seen := make(map[string]struct{})
	var types []string
	for i := 0; i < col.Len(); i++ {
		typ := frame.TypeOf(col.Value(i))
		if _, ok := seen[typ]; ok {
			continue
		}
		seen[typ] = struct{}{}
		types = append(types, typ)
	}
	return types
}
