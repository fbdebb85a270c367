package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/peekknuf/eda/internal/frame"
)

// loadXLSX reads a worksheet with its first row as headers. Cells are typed
// one by one, so a column mixing numbers and text comes back as Object.
func loadXLSX(ctx context.Context, path string, opts Options) (*frame.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	missing := opts.missing()
	data := make([][]any, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make([]any, len(row))
		for j, text := range row {
			values[j] = cellValue(text, missing)
		}
		data = append(data, values)

		if (i+1)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return build(headers, data)
}

func cellValue(text string, missing map[string]struct{}) any {
	s := strings.TrimSpace(text)
	if _, ok := missing[s]; ok {
		return frame.NA
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, ok := parseBool(s); ok {
		return b
	}
	return text
}
