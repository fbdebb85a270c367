// Package render formats profiler results for people (console text) and
// programs (JSON). The profiler itself never prints.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/peekknuf/eda/internal/profiler"
)

// NoColumnsMessage is printed when no column reaches the missing-value limit.
const NoColumnsMessage = "No columns have missing values that exceed the given limit."

// Renderer writes one report to w.
type Renderer interface {
	Distribution(w io.Writer, rep *profiler.DistributionReport) error
	Overview(w io.Writer, ov *profiler.ColumnOverview) error
	MixedTypes(w io.Writer, f profiler.MixedTypeFinding) error
	Missing(w io.Writer, s profiler.MissingValueSummary) error
	ColumnMissing(w io.Writer, column string, pct float64) error
	Quality(w io.Writer, source string, q profiler.QualitySummary) error
	Describe(w io.Writer, source string, rows []profiler.ColumnDescription) error
}

// New returns the renderer for format ("text" or "json").
func New(format string, color bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewConsole(color), nil
	case "json":
		return NewJSON(true), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
}

// ColorEnabled resolves a colour mode ("auto", "always", "never") for f.
func ColorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}
