package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peekknuf/eda/internal/frame"
)

const (
	sniffSize        = 64 * 1024
	cancelCheckEvery = 10000
)

// candidateDelimiters are tried in order; earlier ones win ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter returns the candidate delimiter that occurs most often,
// outside quotes, in the first few lines of data.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}

	sample := data[:sampleSize]

	// Count potential delimiters in first few lines
	delimCounts := make(map[rune]int, len(candidateDelimiters))
	lines := 0
	inQuotes := false
	for i := 0; i < len(sample) && lines < 5; i++ {
		c := sample[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == '\n':
			lines++
		default:
			for _, delim := range candidateDelimiters {
				if c == byte(delim) {
					delimCounts[delim]++
				}
			}
		}
	}

	// Find most frequent delimiter
	bestDelim := ','
	maxCount := 0
	for _, delim := range candidateDelimiters {
		if delimCounts[delim] > maxCount {
			maxCount = delimCounts[delim]
			bestDelim = delim
		}
	}
	return bestDelim
}

type cell struct {
	text    string
	present bool
}

func loadCSV(ctx context.Context, path string, comp Compression, opts Options) (*frame.Table, error) {
	rc, err := openText(path, comp)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffSize)
	delim := opts.Delimiter
	if delim == 0 {
		if isTSV(path, comp) {
			delim = '\t'
		} else {
			sample, _ := br.Peek(sniffSize)
			delim = DetectDelimiter(sample, len(sample))
		}
	}
	return readCSV(ctx, br, delim, opts)
}

// isTSV reports whether path names a .tsv file under any compression suffix.
func isTSV(path string, comp Compression) bool {
	name := strings.ToLower(path)
	if comp != None {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return filepath.Ext(name) == ".tsv"
}

// readCSV reads a header row and records. Column kinds are decided per
// column: all numbers gives Numeric, all true/false gives Bool, anything
// else keeps the raw text.
func readCSV(ctx context.Context, r io.Reader, delim rune, opts Options) (*frame.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	cells := make([][]cell, len(headers))
	rowCount := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		for j := range headers {
			if j < len(record) {
				cells[j] = append(cells[j], cell{text: record[j], present: true})
			} else {
				cells[j] = append(cells[j], cell{})
			}
		}

		rowCount++
		if rowCount%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	missing := opts.missing()
	columns := make([]*frame.Column, len(headers))
	for j, name := range headers {
		col, err := textColumn(name, cells[j], missing)
		if err != nil {
			return nil, err
		}
		columns[j] = col
	}
	return frame.New(columns...)
}

func textColumn(name string, cells []cell, missing map[string]struct{}) (*frame.Column, error) {
	isMissing := func(c cell) bool {
		if !c.present {
			return true
		}
		_, ok := missing[strings.TrimSpace(c.text)]
		return ok
	}

	numeric, boolean, present := true, true, 0
	for _, c := range cells {
		if isMissing(c) {
			continue
		}
		present++
		s := strings.TrimSpace(c.text)
		if numeric {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
		}
		if boolean {
			if _, ok := parseBool(s); !ok {
				boolean = false
			}
		}
	}

	kind := frame.Text
	switch {
	case present == 0, numeric:
		kind = frame.Numeric
	case boolean:
		kind = frame.Bool
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		if isMissing(c) {
			values[i] = frame.NA
			continue
		}
		s := strings.TrimSpace(c.text)
		switch kind {
		case frame.Numeric:
			values[i], _ = strconv.ParseFloat(s, 64)
		case frame.Bool:
			values[i], _ = parseBool(s)
		default:
			values[i] = c.text
		}
	}
	return frame.NewColumn(name, kind, values)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
