package chart_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
)

func newTestRenderer(t *testing.T) (*chart.GonumRenderer, string) {
	t.Helper()
	dir := t.TempDir()
	handler := slog.NewTextHandler(io.Discard, nil)
	return chart.NewGonumRenderer(dir, handler), dir
}

func assertPNGWritten(t *testing.T, dir, name string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err, "chart file should exist")
	assert.Greater(t, info.Size(), int64(0), "chart file should not be empty")
}

func TestGonumRenderer_Histogram(t *testing.T) {
	r, dir := newTestRenderer(t)
	err := r.Histogram("hist.png", "Distribution of price", []float64{1, 2, 2, 3, 3, 3, 4})
	require.NoError(t, err)
	assertPNGWritten(t, dir, "hist.png")
}

func TestGonumRenderer_Histogram_Empty(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.Histogram("hist.png", "empty", nil)
	assert.ErrorIs(t, err, chart.ErrRenderFailed)
}

func TestGonumRenderer_Bar(t *testing.T) {
	r, dir := newTestRenderer(t)
	err := r.Bar("bar.png", "Top cities", []string{"Lisbon", "Porto"}, []float64{12, 7})
	require.NoError(t, err)
	assertPNGWritten(t, dir, "bar.png")
}

func TestGonumRenderer_Bar_LabelMismatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.Bar("bar.png", "bad", []string{"a"}, []float64{1, 2})
	assert.ErrorIs(t, err, chart.ErrRenderFailed)
}

func TestGonumRenderer_Line(t *testing.T) {
	r, dir := newTestRenderer(t)
	err := r.Line("line.png", "Monthly sum", []string{"2024-01", "2024-02", "2024-03"}, []float64{5, 0, 9})
	require.NoError(t, err)
	assertPNGWritten(t, dir, "line.png")
}

func TestGonumRenderer_Heatmap(t *testing.T) {
	r, dir := newTestRenderer(t)
	matrix := [][]float64{
		{1.0, -0.5},
		{-0.5, 1.0},
	}
	err := r.Heatmap("heat.png", "Correlation", []string{"price", "rating"}, matrix)
	require.NoError(t, err)
	assertPNGWritten(t, dir, "heat.png")
}

func TestGonumRenderer_Heatmap_DimensionMismatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.Heatmap("heat.png", "bad", []string{"a", "b", "c"}, [][]float64{{1}})
	assert.ErrorIs(t, err, chart.ErrRenderFailed)
}

func TestGonumRenderer_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "charts")
	r := chart.NewGonumRenderer(dir, slog.NewTextHandler(io.Discard, nil))
	err := r.Bar("bar.png", "t", []string{"x"}, []float64{1})
	require.NoError(t, err)
	assertPNGWritten(t, dir, "bar.png")
}

func TestNoopRenderer(t *testing.T) {
	var r chart.Renderer = chart.NoopRenderer{}
	assert.NoError(t, r.Histogram("h", "t", nil))
	assert.NoError(t, r.Bar("b", "t", nil, nil))
	assert.NoError(t, r.Line("l", "t", nil, nil))
	assert.NoError(t, r.Heatmap("m", "t", nil, nil))
	assert.False(t, errors.Is(r.Histogram("h", "t", nil), chart.ErrRenderFailed))
}
