package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// MonthBucket is one calendar-month aggregate of a temporal trend.
type MonthBucket struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// temporalTrend aggregates one numeric column per calendar month over the
// dataset's implicit time axis (the first datetime column). Count-like
// series aggregate by sum, rate-like series by mean; months without rows
// are included with aggregate 0 rather than omitted.
type temporalTrend struct {
	deps   Deps
	logger *slog.Logger
}

func newTemporalTrend(deps Deps) *temporalTrend {
	return &temporalTrend{deps: deps, logger: deps.componentLogger("temporalTrendHandler")}
}

func (h *temporalTrend) Type() plan.AnalysisType { return plan.TypeTemporalTrend }

func (h *temporalTrend) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.Type(), columns)

	col, ok := ds.Column(columns[0])
	if !ok {
		return nil, artifact, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[0])
	}
	timeCol, ok := ds.FirstDatetimeColumn()
	if !ok {
		return nil, artifact, fmt.Errorf("%w: dataset has no datetime column", dataset.ErrTypeMismatch)
	}

	type sample struct {
		month time.Time
		value float64
	}
	samples := make([]sample, 0, ds.Rows())
	values := make([]float64, 0, ds.Rows())
	for i := 0; i < ds.Rows(); i++ {
		v, vok := col.FloatAt(i)
		t, tok := timeCol.TimeAt(i)
		if !vok || !tok {
			continue
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		samples = append(samples, sample{month: month, value: v})
		values = append(values, v)
	}
	if len(samples) == 0 {
		return nil, artifact, fmt.Errorf("%w: no rows with both %q and %q present",
			ErrInsufficientData, col.Name, timeCol.Name)
	}

	aggregation := "mean"
	if stats.CountLike(values) {
		aggregation = "sum"
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	first, last := samples[0].month, samples[0].month
	for _, s := range samples {
		sums[s.month] += s.value
		counts[s.month]++
		if s.month.Before(first) {
			first = s.month
		}
		if s.month.After(last) {
			last = s.month
		}
	}

	// Walk every month in range: gaps become explicit zero buckets.
	buckets := make([]MonthBucket, 0, len(counts))
	var peak MonthBucket
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		b := MonthBucket{Month: m.Format("2006-01"), Count: counts[m]}
		if b.Count > 0 {
			if aggregation == "sum" {
				b.Value = h.deps.Rounding.Stat(sums[m])
			} else {
				b.Value = h.deps.Rounding.Stat(sums[m] / float64(b.Count))
			}
		}
		if len(buckets) == 0 || b.Value > peak.Value {
			peak = b
		}
		buckets = append(buckets, b)
	}

	result := Statistics{
		"aggregation":  aggregation,
		"buckets":      buckets,
		"month_count":  len(buckets),
		"peak_month":   peak.Month,
		"peak_value":   peak.Value,
		"sample_count": len(samples),
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	labels := make([]string, len(buckets))
	series := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Month
		series[i] = b.Value
	}
	title := fmt.Sprintf("Monthly %s of %s", aggregation, col.Name)
	if err := h.deps.Renderer.Line(artifact.Path, title, labels, series); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Temporal trend computed",
		slog.String("column", col.Name),
		slog.String("aggregation", aggregation),
		slog.Int("months", len(buckets)))
	return result, artifact, nil
}
