package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// GroupStats is the per-group summary of a comparative analysis. StdDev is
// undefined (and omitted from JSON) for groups with fewer than two
// observations.
type GroupStats struct {
	Value         string   `json:"value"`
	Count         int      `json:"count"`
	Mean          float64  `json:"mean"`
	Median        float64  `json:"median"`
	StdDev        *float64 `json:"stdDev,omitempty"`
	StdDevDefined bool     `json:"stdDevDefined"`
}

// comparativeDuration compares a numeric measure across the groups of a
// categorical column: per-group count, mean and median, charted as a
// grouped bar of means ordered descending.
type comparativeDuration struct {
	deps   Deps
	logger *slog.Logger
}

func newComparativeDuration(deps Deps) *comparativeDuration {
	return &comparativeDuration{deps: deps, logger: deps.componentLogger("comparativeHandler")}
}

func (h *comparativeDuration) Type() plan.AnalysisType { return plan.TypeComparativeDuration }

func (h *comparativeDuration) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.Type(), columns)

	numCol, catCol, err := h.resolveColumns(ds, columns)
	if err != nil {
		return nil, artifact, err
	}

	byGroup := make(map[string][]float64)
	order := make([]string, 0)
	for i := 0; i < ds.Rows(); i++ {
		v, vok := numCol.FloatAt(i)
		g, gok := catCol.StringAt(i)
		if !vok || !gok {
			continue
		}
		if _, seen := byGroup[g]; !seen {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], v)
	}
	if len(byGroup) == 0 {
		return nil, artifact, fmt.Errorf("%w: no rows with both %q and %q present",
			ErrInsufficientData, numCol.Name, catCol.Name)
	}

	r := h.deps.Rounding
	groups := make([]GroupStats, 0, len(byGroup))
	for _, g := range order {
		values := byGroup[g]
		gs := GroupStats{
			Value:  g,
			Count:  len(values),
			Mean:   r.Stat(stats.Mean(values)),
			Median: r.Stat(stats.Median(values)),
		}
		if len(values) >= 2 {
			sd := r.Stat(stats.StdDev(values))
			gs.StdDev = &sd
			gs.StdDevDefined = true
		}
		groups = append(groups, gs)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Mean > groups[j].Mean })

	result := Statistics{
		"groups":        groups,
		"group_count":   len(groups),
		"top_group":     groups[0].Value,
		"bottom_group":  groups[len(groups)-1].Value,
		"median_spread": r.Stat(groups[0].Median - groups[len(groups)-1].Median),
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	charted := groups
	if len(charted) > h.deps.TopN {
		charted = charted[:h.deps.TopN]
	}
	labels := make([]string, len(charted))
	means := make([]float64, len(charted))
	for i, g := range charted {
		labels[i] = g.Value
		means[i] = g.Mean
	}
	title := fmt.Sprintf("Average %s by %s", numCol.Name, catCol.Name)
	if err := h.deps.Renderer.Bar(artifact.Path, title, labels, means); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Comparative analysis computed",
		slog.String("measure", numCol.Name),
		slog.String("grouping", catCol.Name),
		slog.Int("groups", len(groups)))
	return result, artifact, nil
}

// resolveColumns accepts the [numeric, categorical] pair in either order.
func (h *comparativeDuration) resolveColumns(ds *dataset.Dataset, columns []string) (num, cat *dataset.Column, err error) {
	if len(columns) != 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 columns, got %d", dataset.ErrTypeMismatch, len(columns))
	}
	a, aok := ds.Column(columns[0])
	if !aok {
		return nil, nil, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[0])
	}
	b, bok := ds.Column(columns[1])
	if !bok {
		return nil, nil, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[1])
	}
	switch {
	case a.Type == dataset.TypeNumeric && b.Type != dataset.TypeNumeric:
		return a, b, nil
	case b.Type == dataset.TypeNumeric && a.Type != dataset.TypeNumeric:
		return b, a, nil
	default:
		return nil, nil, fmt.Errorf("%w: need one numeric and one categorical column, got %s and %s",
			dataset.ErrTypeMismatch, a.Type, b.Type)
	}
}
