// Package chart draws the two-panel distribution figure: a histogram with
// reference lines for the summary statistics above a horizontal boxplot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/peekknuf/eda/internal/profiler"
)

const Title = "Data Distribution"

var (
	orange     = color.RGBA{R: 255, G: 165, A: 255}
	lightGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	cyan       = color.RGBA{G: 255, B: 255, A: 255}
	purple     = color.RGBA{R: 128, B: 128, A: 255}
	red        = color.RGBA{R: 255, A: 255}
	magenta    = color.RGBA{R: 255, B: 255, A: 255}
	steelBlue  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	green      = color.RGBA{G: 128, A: 255}
)

// Options sizes the figure. Width and Height are in inches.
type Options struct {
	Width  float64
	Height float64
	// Format is one of the gonum/plot canvas formats (png, svg, pdf...).
	Format string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 10
	}
	if o.Height <= 0 {
		o.Height = 8
	}
	if o.Format == "" {
		o.Format = "png"
	}
	o.Format = strings.ToLower(o.Format)
	return o
}

// Write renders the figure for rep to w.
func Write(w io.Writer, rep *profiler.DistributionReport, opts Options) error {
	opts = opts.withDefaults()

	hist, err := histogramPanel(rep)
	if err != nil {
		return err
	}
	box, err := boxPanel(rep)
	if err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, opts.Format)
	if err != nil {
		return fmt.Errorf("chart canvas: %w", err)
	}

	plots := [][]*plot.Plot{{hist}, {box}}
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter * 4}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Save writes the figure to path, picking the format from its extension.
func Save(path string, rep *profiler.DistributionReport, opts Options) (err error) {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		opts.Format = ext
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, rep, opts)
}

func histogramPanel(rep *profiler.DistributionReport) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = rep.Column
	p.Y.Label.Text = "Count"

	h := rep.Histogram
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, n := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: float64(n)}
	}
	hp := &plotter.Histogram{
		Bins:      bins,
		FillColor: steelBlue,
		LineStyle: plotter.DefaultLineStyle,
	}
	if len(bins) > 0 {
		hp.Width = bins[0].Max - bins[0].Min
	}
	p.Add(hp)

	top := float64(h.MaxCount())
	s := rep.Stats
	refs := []struct {
		label string
		x     float64
		c     color.Color
	}{
		{fmt.Sprintf("Minimum: %.2f", s.Min), s.Min, orange},
		{fmt.Sprintf("Mean: %.2f", s.Mean), s.Mean, lightGreen},
		{fmt.Sprintf("Median: %.2f", s.Median), s.Median, cyan},
		{fmt.Sprintf("Mode: %.2f", s.Mode), s.Mode, purple},
		{fmt.Sprintf("Maximum: %.2f", s.Max), s.Max, red},
	}
	for _, ref := range refs {
		l, err := plotter.NewLine(plotter.XYs{{X: ref.x, Y: 0}, {X: ref.x, Y: top}})
		if err != nil {
			return nil, fmt.Errorf("reference line %q: %w", ref.label, err)
		}
		l.LineStyle.Color = ref.c
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(l)
		p.Legend.Add(ref.label, l)
	}
	p.Legend.Top = true

	return p, nil
}

// boxPlot draws the report's own box summary. gonum computes quartiles with
// a different quantile rule, so its values are replaced to match the JSON.
func boxPlot(rep *profiler.DistributionReport) (*plotter.BoxPlot, error) {
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(rep.Values))
	if err != nil {
		return nil, fmt.Errorf("boxplot: %w", err)
	}

	box := rep.Box
	b.Median = box.Median
	b.Quartile1 = box.Q1
	b.Quartile3 = box.Q3
	b.AdjLow = box.WhiskerLow
	b.AdjHigh = box.WhiskerHigh
	b.Outside = b.Outside[:0]
	for i, v := range rep.Values {
		if v < box.WhiskerLow || v > box.WhiskerHigh {
			b.Outside = append(b.Outside, i)
		}
	}
	return b, nil
}

func boxPanel(rep *profiler.DistributionReport) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = rep.Column
	p.HideY()

	b, err := boxPlot(rep)
	if err != nil {
		return nil, err
	}
	b.Horizontal = true
	b.FillColor = lightGreen
	b.GlyphStyle.Color = magenta
	b.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(b)

	mean, err := plotter.NewScatter(plotter.XYs{{X: rep.Stats.Mean, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("mean marker: %w", err)
	}
	mean.GlyphStyle.Shape = draw.PyramidGlyph{}
	mean.GlyphStyle.Color = green
	mean.GlyphStyle.Radius = vg.Points(4)
	p.Add(mean)
	p.Legend.Add(fmt.Sprintf("Mean: %.2f", rep.Stats.Mean), mean)
	p.Legend.Top = true

	return p, nil
}
