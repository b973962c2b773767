package stats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

func TestRounding_Defaults(t *testing.T) {
	r := stats.DefaultRounding()
	assert.Equal(t, 1, r.PercentDigits)
	assert.Equal(t, 2, r.StatDigits)
	assert.Equal(t, 66.7, r.Percent(66.666666))
	assert.Equal(t, 1.23, r.Stat(1.23456))
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		digits int
		want   float64
	}{
		{"half away from zero", 2.5, 0, 3},
		{"negative half away from zero", -2.5, 0, -3},
		{"two digits", 1.005, 2, 1.0}, // float repr of 1.005 is just below
		{"one digit", 33.35, 1, 33.4},
		{"zero digits", 7.49, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, stats.Round(tt.v, tt.digits), 1e-9)
		})
	}
	assert.True(t, math.IsNaN(stats.Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(stats.Round(math.Inf(1), 2), 1))
}

func TestMeanMedian(t *testing.T) {
	assert.Equal(t, 2.0, stats.Mean([]float64{1, 2, 3}))
	assert.Equal(t, 2.0, stats.Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, stats.Median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, stats.Mean(nil))
	assert.Equal(t, 0.0, stats.Median(nil))
}

func TestStdDev(t *testing.T) {
	// Sample standard deviation, n-1 denominator.
	assert.InDelta(t, 1.0, stats.StdDev([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, stats.StdDev([]float64{5}))
	assert.Equal(t, 0.0, stats.StdDev([]float64{4, 4, 4, 4}))
	assert.Equal(t, 0.0, stats.StdDev(nil))
}

func TestSkewness(t *testing.T) {
	assert.Equal(t, 0.0, stats.Skewness([]float64{1, 2}))
	assert.Equal(t, 0.0, stats.Skewness([]float64{7, 7, 7}))
	assert.InDelta(t, 0.0, stats.Skewness([]float64{1, 2, 3}), 1e-12)
	// Right-skewed series has positive skewness.
	assert.Greater(t, stats.Skewness([]float64{1, 1, 1, 1, 10}), 0.0)
}

func TestMinMax(t *testing.T) {
	xs := []float64{3, -1, 4, 1, 5}
	assert.Equal(t, -1.0, stats.Min(xs))
	assert.Equal(t, 5.0, stats.Max(xs))
	assert.Equal(t, 0.0, stats.Min(nil))
	assert.Equal(t, 0.0, stats.Max(nil))
}

func TestIQROutliers(t *testing.T) {
	assert.Equal(t, 0, stats.IQROutliers([]float64{1, 2, 3}), "below minimum sample size")
	assert.Equal(t, 0, stats.IQROutliers([]float64{1, 2, 3, 4, 5}))
	// 100 is far outside the 1.5*IQR fence of the remaining values.
	assert.Equal(t, 1, stats.IQROutliers([]float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 100}))
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, stats.Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, stats.Pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, stats.Pearson([]float64{1}, []float64{2}), "single pair is degenerate")
	assert.Equal(t, 0.0, stats.Pearson([]float64{1, 2}, []float64{5, 5}), "zero variance is degenerate")
	assert.Equal(t, 0.0, stats.Pearson([]float64{1, 2}, []float64{1, 2, 3}), "length mismatch")
}

func TestCountLike(t *testing.T) {
	assert.True(t, stats.CountLike([]float64{0, 1, 5, 120}))
	assert.False(t, stats.CountLike([]float64{1, 2.5}))
	assert.False(t, stats.CountLike([]float64{-1, 2}))
	assert.False(t, stats.CountLike(nil))
}
