// Package stats provides the descriptive statistics shared by the analysis
// handlers, built on gonum, plus the engine-wide rounding policy.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Rounding is the precision policy applied to reported figures. Percentages
// and plain statistics round independently because report consumers read
// them differently.
type Rounding struct {
	PercentDigits int
	StatDigits    int
}

// DefaultRounding matches the observed report convention: percentages to
// one decimal digit, statistics to two.
func DefaultRounding() Rounding {
	return Rounding{PercentDigits: 1, StatDigits: 2}
}

// Percent rounds a percentage figure.
func (r Rounding) Percent(v float64) float64 { return Round(v, r.PercentDigits) }

// Stat rounds a plain statistic.
func (r Rounding) Stat(v float64) float64 { return Round(v, r.StatDigits) }

// Round rounds v to the given number of decimal digits, half away from zero.
func Round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle value (mean of the two middle values for even
// lengths), 0 for an empty slice.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the sample standard deviation (n-1 denominator). Fewer
// than two observations, or an all-identical series, yield exactly 0.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// Skewness returns the third standardized moment with sample-size
// correction. A constant series has no asymmetry: the result is exactly 0,
// never NaN.
func Skewness(xs []float64) float64 {
	if len(xs) < 3 || StdDev(xs) == 0 {
		return 0
	}
	sk := stat.Skew(xs, nil)
	if math.IsNaN(sk) {
		return 0
	}
	return sk
}

// Min returns the smallest value, 0 for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, 0 for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Quartiles returns the 25th and 75th empirical percentiles.
func Quartiles(xs []float64) (q1, q3 float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sorted := sortedCopy(xs)
	q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return q1, q3
}

// IQROutliers counts observations outside [Q1-1.5*IQR, Q3+1.5*IQR].
func IQROutliers(xs []float64) int {
	if len(xs) < 4 {
		return 0
	}
	q1, q3 := Quartiles(xs)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	n := 0
	for _, v := range xs {
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

// Pearson returns the Pearson correlation coefficient of two equally sized
// samples. Degenerate inputs (fewer than two pairs, zero variance) yield 0
// rather than NaN so the value stays serializable.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// CountLike reports whether every value is a non-negative integer, the
// heuristic separating count metrics (aggregated by sum) from rate metrics
// (aggregated by mean).
func CountLike(xs []float64) bool {
	if len(xs) == 0 {
		return false
	}
	for _, v := range xs {
		if v < 0 || v != math.Trunc(v) {
			return false
		}
	}
	return true
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}
