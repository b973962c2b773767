package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrRenderFailed indicates a chart artifact could not be produced or
// written. It is a local failure: the owning analysis fails, the run
// continues.
var ErrRenderFailed = errors.New("chart render failed")

// Renderer produces chart artifacts. Implementations must be safe for
// concurrent use: analyses run in parallel and each call owns its output
// file exclusively.
type Renderer interface {
	// Histogram renders the value distribution of one numeric series.
	Histogram(name, title string, values []float64) error
	// Bar renders one value per label, in the given order.
	Bar(name, title string, labels []string, values []float64) error
	// Line renders a series over ordered buckets (e.g. calendar months).
	Line(name, title string, labels []string, values []float64) error
	// Heatmap renders a square matrix with one label per row/column.
	Heatmap(name, title string, labels []string, matrix [][]float64) error
}

// GonumRenderer renders PNG charts with gonum/plot. Every method builds a
// fresh plot so no canvas state is shared between concurrent calls.
type GonumRenderer struct {
	dir    string
	logger *slog.Logger
}

// NewGonumRenderer creates a renderer writing under dir.
func NewGonumRenderer(dir string, loggerHandler slog.Handler) *GonumRenderer {
	logger := slog.New(loggerHandler).With(slog.String("component", "chartRenderer"))
	return &GonumRenderer{dir: dir, logger: logger}
}

// Histogram implements Renderer.
func (r *GonumRenderer) Histogram(name, title string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values for histogram %q", ErrRenderFailed, name)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"

	bins := 20
	if distinct := distinctCount(values); distinct < bins {
		bins = distinct
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	p.Add(h)
	return r.save(p, name)
}

// Bar implements Renderer.
func (r *GonumRenderer) Bar(name, title string, labels []string, values []float64) error {
	if len(labels) != len(values) || len(values) == 0 {
		return fmt.Errorf("%w: bar chart %q has %d labels for %d values",
			ErrRenderFailed, name, len(labels), len(values))
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "value"

	b, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	p.Add(b)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.5
	p.X.Tick.Label.XAlign = -0.9
	return r.save(p, name)
}

// Line implements Renderer.
func (r *GonumRenderer) Line(name, title string, labels []string, values []float64) error {
	if len(labels) != len(values) || len(values) == 0 {
		return fmt.Errorf("%w: line chart %q has %d labels for %d values",
			ErrRenderFailed, name, len(labels), len(values))
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "value"

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.5
	p.X.Tick.Label.XAlign = -0.9
	return r.save(p, name)
}

// Heatmap implements Renderer.
func (r *GonumRenderer) Heatmap(name, title string, labels []string, matrix [][]float64) error {
	n := len(labels)
	if n == 0 || len(matrix) != n {
		return fmt.Errorf("%w: heatmap %q has %d labels for a %dx matrix",
			ErrRenderFailed, name, n, len(matrix))
	}
	p := plot.New()
	p.Title.Text = title

	hm := plotter.NewHeatMap(matrixGrid{m: matrix}, moreland.SmoothBlueRed().Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)
	p.NominalX(labels...)
	p.NominalY(labels...)
	return r.save(p, name)
}

func (r *GonumRenderer) save(p *plot.Plot, name string) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	path := filepath.Join(r.dir, name)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	r.logger.Debug("Chart written", slog.String("path", path))
	return nil
}

// matrixGrid adapts a square [][]float64 to plotter.GridXYZ. Row 0 sits at
// the bottom, matching the order NominalY assigns its labels.
type matrixGrid struct {
	m [][]float64
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }
func (g matrixGrid) Z(c, r int) float64 { return g.m[r][c] }

func distinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// NoopRenderer satisfies Renderer without writing anything. Used for
// statistics-only runs and in tests.
type NoopRenderer struct{}

// Histogram implements Renderer, performs no action.
func (NoopRenderer) Histogram(name, title string, values []float64) error { return nil }

// Bar implements Renderer, performs no action.
func (NoopRenderer) Bar(name, title string, labels []string, values []float64) error { return nil }

// Line implements Renderer, performs no action.
func (NoopRenderer) Line(name, title string, labels []string, values []float64) error { return nil }

// Heatmap implements Renderer, performs no action.
func (NoopRenderer) Heatmap(name, title string, labels []string, matrix [][]float64) error {
	return nil
}
