package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/peekknuf/eda/internal/frame"
)

const parquetBatch = 1024

// loadParquet reads a parquet file with a flat schema. Null values become
// the missing marker.
func loadParquet(ctx context.Context, path string) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	paths := pf.Schema().Columns()
	headers := make([]string, len(paths))
	for i, p := range paths {
		if len(p) > 1 {
			return nil, fmt.Errorf("nested column %s is not supported", strings.Join(p, "."))
		}
		headers[i] = p[0]
	}

	var data [][]any
	buf := make([]parquet.Row, parquetBatch)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				values := make([]any, len(headers))
				for i := range values {
					values[i] = frame.NA
				}
				for _, v := range row {
					if c := v.Column(); c >= 0 && c < len(values) {
						values[c] = parquetValue(v)
					}
				}
				data = append(data, values)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read rows: %w", err)
			}
			if err := ctx.Err(); err != nil {
				rows.Close()
				return nil, err
			}
		}
		rows.Close()
	}

	return build(headers, data)
}

func parquetValue(v parquet.Value) any {
	if v.IsNull() {
		return frame.NA
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
