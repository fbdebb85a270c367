package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/colorstring"

	"github.com/peekknuf/eda/internal/frame"
	"github.com/peekknuf/eda/internal/profiler"
)

// Console renders reports as plain text, optionally with ANSI colour.
type Console struct {
	colors colorstring.Colorize
}

func NewConsole(color bool) *Console {
	return &Console{colors: colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !color,
	}}
}

// paint wraps text in colour codes. text itself is never parsed for codes.
func (c *Console) paint(style, text string) string {
	return c.colors.Color(style) + text + c.colors.Color("[reset]")
}

func (c *Console) Distribution(w io.Writer, rep *profiler.DistributionReport) error {
	heading := "Statistical Calculations :"
	var b strings.Builder
	b.WriteString(c.paint("[bold][red]", heading))
	b.WriteString("\n")
	b.WriteString(c.paint("[bold][red]", strings.Repeat("-", len(heading))))
	b.WriteString("\n")

	s := rep.Stats
	body := fmt.Sprintf("Minimum: %10.2f\nMean:    %10.2f\nMedian:  %10.2f\nMode:    %10.2f\nMaximum: %10.2f",
		s.Min, s.Mean, s.Median, s.Mode, s.Max)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(c.paint("[bold][blue]", line))
		b.WriteString("\n")
	}
	if rep.Excluded > 0 {
		fmt.Fprintf(&b, "(%d missing or non-finite values excluded)\n", rep.Excluded)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (c *Console) Overview(w io.Writer, ov *profiler.ColumnOverview) error {
	rule := strings.Repeat("-", 32)
	var b strings.Builder
	fmt.Fprintf(&b, "Column Name     : %s\n", ov.Column)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Percent Nulls   : %% %s\n", strconv.FormatFloat(ov.NullPercent, 'f', -1, 64))
	fmt.Fprintf(&b, "Number Nulls    : %d\n", ov.NullCount)
	fmt.Fprintf(&b, "Unique Values   : %d\n", ov.UniqueCount)
	fmt.Fprintf(&b, "DataFrame Shape : %s\n", ov.Shape)
	fmt.Fprintln(&b, rule)

	// values of different types can share a text form, e.g. 1 and 1.0
	shared := make(map[string]int, len(ov.Frequencies))
	for _, e := range ov.Frequencies {
		shared[frame.TextForm(e.Value)]++
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 4, ' ', 0)
	fmt.Fprintln(tw, ov.Column)
	for _, e := range ov.Frequencies {
		label := frame.TextForm(e.Value)
		if shared[label] > 1 {
			label += " (" + frame.TypeOf(e.Value) + ")"
		}
		fmt.Fprintf(tw, "%s\t%d\n", label, e.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (c *Console) MixedTypes(w io.Writer, f profiler.MixedTypeFinding) error {
	if f.OK() {
		_, err := fmt.Fprintln(w, c.paint("[bold][green]", "NO PROBLEM")+" with the data types of Columns in the DataFrame.")
		return err
	}
	for _, col := range f.Columns {
		line := "Column " + c.paint("[bold][red]", col) + " has mixed object types."
		if types := f.Types[col]; len(types) > 0 {
			line += " (" + strings.Join(types, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) Missing(w io.Writer, s profiler.MissingValueSummary) error {
	if s.Empty() {
		_, err := fmt.Fprintln(w, NoColumnsMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	for _, col := range s.Columns {
		fmt.Fprintf(tw, "%s\t%.2f\n", col.Column, col.Percent)
	}
	return tw.Flush()
}

func (c *Console) ColumnMissing(w io.Writer, column string, pct float64) error {
	_, err := fmt.Fprintf(w, "%s: %.2f%% missing\n", column, pct)
	return err
}

func (c *Console) Quality(w io.Writer, source string, q profiler.QualitySummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nFile: %s\n", source)
	fmt.Fprintf(&b, "- Rows: %s\n", humanize.Comma(int64(q.Shape.Rows)))
	fmt.Fprintf(&b, "- Columns: %d (%d numeric, %d generic)\n", q.Shape.Columns, q.NumericColumns, q.GenericColumns)
	fmt.Fprintf(&b, "- Null Value Percentage: %.2f%%\n", q.NullPercent)
	fmt.Fprintf(&b, "- Columns With Nulls: %d\n", q.ColumnsWithNulls)
	fmt.Fprintf(&b, "- Distinct Row Ratio: %.2f\n", q.DistinctRatio)
	fmt.Fprintf(&b, "- Data Quality: %s\n", q.Grade())
	if len(q.MixedColumns) > 0 {
		fmt.Fprintf(&b, "- Mixed Columns: %s\n", strings.Join(q.MixedColumns, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (c *Console) Describe(w io.Writer, source string, rows []profiler.ColumnDescription) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.paint("[bold]", "File: "+source))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "column\tkind\tcount\tnulls\tmean\tstd\tmin\t25%\t50%\t75%\tmax\tunique\ttop\tfreq\t")
	for _, r := range rows {
		cells := []string{r.Column, r.Kind.String(), strconv.Itoa(r.Count), strconv.Itoa(r.NullCount)}
		if n := r.Numeric; n != nil {
			std := "NaN"
			if n.Std != nil {
				std = number(*n.Std)
			}
			cells = append(cells, number(n.Mean), std, number(n.Min), number(n.Q25), number(n.Q50), number(n.Q75), number(n.Max))
		} else {
			cells = append(cells, "-", "-", "-", "-", "-", "-", "-")
		}
		if cat := r.Categorical; cat != nil {
			cells = append(cells, strconv.Itoa(cat.Unique), cat.Top, strconv.Itoa(cat.Freq))
		} else {
			cells = append(cells, "-", "-", "-")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
