package profiler

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/peekknuf/eda/internal/frame"
)

const (
	// DefaultBins is the number of histogram bins used when none is set.
	DefaultBins = 30
	// MaxBins bounds the histogram so a request cannot exhaust memory.
	MaxBins = 10000
	// WhiskerCoef is the IQR multiple beyond which values are outliers.
	WhiskerCoef = 1.5
)

// DistributionStatistics summarises the centre and range of a numeric column.
type DistributionStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
}

// BoxSummary holds what a horizontal boxplot draws.
type BoxSummary struct {
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	IQR         float64   `json:"iqr"`
	Mean        float64   `json:"mean"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
}

// Histogram is an equal-width binning of the values. Edges has one more
// element than Counts.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// MaxCount returns the height of the tallest bin.
func (h Histogram) MaxCount() int {
	max := 0
	for _, c := range h.Counts {
		if c > max {
			max = c
		}
	}
	return max
}

// DistributionReport is everything needed to print and draw the
// distribution of one numeric column.
type DistributionReport struct {
	Column    string                 `json:"column"`
	Count     int                    `json:"count"`
	Excluded  int                    `json:"excluded"`
	Stats     DistributionStatistics `json:"stats"`
	Box       BoxSummary             `json:"box"`
	Histogram Histogram              `json:"histogram"`
	// Values holds the usable values in column order.
	Values []float64 `json:"-"`
}

type DistributionOptions struct {
	Bins int
}

// Distribution computes the statistics, boxplot summary and histogram of a
// numeric column. Missing and non-finite values are excluded; a column with
// nothing left fails with *EmptyInputError.
func Distribution(col *frame.Column, opts DistributionOptions) (*DistributionReport, error) {
	if col.Kind() != frame.Numeric {
		return nil, fmt.Errorf("column %q is %s: %w", col.Name(), col.Kind(), ErrNotNumeric)
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	if opts.Bins > MaxBins {
		return nil, &InvalidArgumentError{Name: "bins", Value: float64(opts.Bins), Reason: fmt.Sprintf("must be at most %d", MaxBins)}
	}

	data := finiteValues(col)
	if len(data) == 0 {
		return nil, &EmptyInputError{Column: col.Name(), Len: col.Len()}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	summary, err := summarize(data, sorted)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", col.Name(), err)
	}

	return &DistributionReport{
		Column:    col.Name(),
		Count:     len(data),
		Excluded:  col.Len() - len(data),
		Stats:     summary,
		Box:       boxSummary(sorted, summary.Mean),
		Histogram: histogram(sorted, opts.Bins),
		Values:    data,
	}, nil
}

func finiteValues(col *frame.Column) []float64 {
	values := col.Floats()
	out := values[:0]
	for _, v := range values {
		if !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func summarize(data, sorted []float64) (DistributionStatistics, error) {
	var s DistributionStatistics
	var err error

	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Mean, err = mean(data, s.Min, s.Max); err != nil {
		return s, err
	}
	// interpolating instead of averaging the middle pair keeps the median
	// finite near the float64 limits
	s.Median = calculateQuantile(sorted, 0.5)
	s.Mode = mode(data)

	return s, nil
}

// mean stays within [min, max]. When the plain sum overflows, the values
// are scaled down by the count before summing.
func mean(data []float64, min, max float64) (float64, error) {
	if min == max {
		return min, nil
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0, err
	}
	if math.IsInf(m, 0) || math.IsNaN(m) {
		n := float64(len(data))
		m = 0
		for _, v := range data {
			m += v / n
		}
	}
	return math.Max(min, math.Min(max, m)), nil
}

// mode returns the most frequent value; ties go to the value seen first.
func mode(data []float64) float64 {
	counts := make(map[float64]int, len(data))
	top := 0
	for _, v := range data {
		counts[v]++
		if counts[v] > top {
			top = counts[v]
		}
	}
	for _, v := range data {
		if counts[v] == top {
			return v
		}
	}
	return math.NaN()
}

func boxSummary(sorted []float64, mean float64) BoxSummary {
	b := BoxSummary{
		Q1:     calculateQuantile(sorted, 0.25),
		Median: calculateQuantile(sorted, 0.50),
		Q3:     calculateQuantile(sorted, 0.75),
		Mean:   mean,
	}
	b.IQR = b.Q3 - b.Q1
	if math.IsInf(b.IQR, 0) {
		// the quartiles span more than float64 can hold
		b.IQR = math.MaxFloat64
	}

	low := b.Q1 - WhiskerCoef*b.IQR
	high := b.Q3 + WhiskerCoef*b.IQR

	b.WhiskerLow, b.WhiskerHigh = b.Q1, b.Q3
	first := true
	for _, v := range sorted {
		if v < low || v > high {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if first {
			b.WhiskerLow = v
			first = false
		}
		b.WhiskerHigh = v
	}
	return b
}

// calculateQuantile interpolates linearly between the closest ranks.
func calculateQuantile(sortedVals []float64, quantile float64) float64 {
	if len(sortedVals) == 0 {
		return 0
	}

	if len(sortedVals) == 1 {
		return sortedVals[0]
	}

	index := quantile * float64(len(sortedVals)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sortedVals[lower]
	}

	weight := index - float64(lower)
	return sortedVals[lower]*(1-weight) + sortedVals[upper]*weight
}

func histogram(sorted []float64, bins int) Histogram {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		spanWide(edges, lo, hi)
	} else {
		floats.Span(edges, lo, hi)
	}

	// stat.Histogram wants the last divider strictly above the maximum.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	weights := stat.Histogram(nil, dividers, sorted, nil)
	counts := make([]int, bins)
	for i, w := range weights {
		counts[i] = int(w)
	}
	return Histogram{Edges: edges, Counts: counts}
}

// spanWide fills edges with equally spaced values from lo to hi when hi-lo
// overflows. Each edge is a weighted average of the bounds, so no
// intermediate value leaves the float64 range.
func spanWide(edges []float64, lo, hi float64) {
	n := float64(len(edges) - 1)
	for i := range edges {
		t := float64(i) / n
		edges[i] = lo*(1-t) + hi*t
		if i > 0 && edges[i] < edges[i-1] {
			edges[i] = edges[i-1]
		}
	}
	edges[0], edges[len(edges)-1] = lo, hi
}
