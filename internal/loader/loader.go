package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peekknuf/eda/internal/frame"
)

// DefaultMissingTokens are the cell texts read as missing values.
var DefaultMissingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "-"}

// Options controls how files are turned into tables.
type Options struct {
	Delimiter     rune     // Field delimiter; zero means detect
	MissingTokens []string // Cell texts read as missing; nil means DefaultMissingTokens
	Sheet         string   // XLSX sheet; empty means the first one
}

func (o Options) missing() map[string]struct{} {
	tokens := o.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// Format is a dataset file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

var extensions = map[string]Format{
	".csv":     FormatCSV,
	".tsv":     FormatCSV,
	".txt":     FormatCSV,
	".jsonl":   FormatJSONL,
	".ndjson":  FormatJSONL,
	".xlsx":    FormatXLSX,
	".parquet": FormatParquet,
}

// Extensions lists every file extension Load understands, without the
// compression suffixes.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	return out
}

// Detect returns the format and compression of a path from its extension.
func Detect(path string) (Format, Compression, error) {
	lower := strings.ToLower(path)
	comp := compressionOf(lower)
	if comp != None {
		lower = strings.TrimSuffix(lower, filepath.Ext(lower))
	}
	format, ok := extensions[filepath.Ext(lower)]
	if !ok {
		return "", None, fmt.Errorf("unsupported file type: %s", path)
	}
	if comp != None && format != FormatCSV && format != FormatJSONL {
		return "", None, fmt.Errorf("compressed %s is not supported: %s", format, path)
	}
	return format, comp, nil
}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	_, _, err := Detect(path)
	return err == nil
}

// Load reads a dataset file into a table.
func Load(ctx context.Context, path string, opts Options) (*frame.Table, error) {
	format, comp, err := Detect(path)
	if err != nil {
		return nil, err
	}

	var t *frame.Table
	switch format {
	case FormatCSV:
		t, err = loadCSV(ctx, path, comp, opts)
	case FormatJSONL:
		t, err = loadJSONL(ctx, path, comp)
	case FormatXLSX:
		t, err = loadXLSX(ctx, path, opts)
	case FormatParquet:
		t, err = loadParquet(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}

// build turns row-major cells into inferred columns. Short rows are padded
// with the missing marker.
func build(headers []string, rows [][]any) (*frame.Table, error) {
	columns := make([]*frame.Column, len(headers))
	for j, name := range headers {
		values := make([]any, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = row[j]
			} else {
				values[i] = frame.NA
			}
		}
		columns[j] = frame.Infer(name, values)
	}
	return frame.New(columns...)
}
