package loader

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/peekknuf/eda/internal/frame"
)

const maxLineSize = 16 * 1024 * 1024

// loadJSONL reads one JSON object per line. Columns appear in the order
// their keys are first seen and cells keep their JSON types, so a field
// holding both strings and numbers yields an Object column.
func loadJSONL(ctx context.Context, path string, comp Compression) (*frame.Table, error) {
	rc, err := openText(path, comp)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var headers []string
	index := make(map[string]int)
	var rows [][]any
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("invalid JSON at line %d", lineNum)
		}
		obj := gjson.Parse(line)
		if !obj.IsObject() {
			return nil, fmt.Errorf("line %d is not a JSON object", lineNum)
		}

		row := make([]any, len(headers))
		for i := range row {
			row[i] = frame.NA
		}
		obj.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			j, ok := index[name]
			if !ok {
				j = len(headers)
				index[name] = j
				headers = append(headers, name)
				row = append(row, frame.NA)
			}
			row[j] = jsonValue(value)
			return true
		})
		rows = append(rows, row)

		if lineNum%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", lineNum+1, err)
	}

	return build(headers, rows)
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return frame.NA
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") && math.Abs(v.Num) < 1<<53 {
			return v.Int()
		}
		return v.Num
	case gjson.String:
		return v.String()
	default:
		// nested objects and arrays stay as raw JSON text
		return v.Raw
	}
}
