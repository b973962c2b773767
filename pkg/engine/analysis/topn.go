package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// CategoryCount is one reported frequency bucket.
type CategoryCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// topN reports the k most frequent values of one categorical column and
// their share of total observations. The same algorithm serves three
// analysis types: generic categorical, geographic (location strings treated
// as opaque categories, no geocoding) and demographic (identical algorithm,
// distinct identifier for narrative routing).
type topN struct {
	deps   Deps
	typ    plan.AnalysisType
	logger *slog.Logger
}

func newTopN(deps Deps, typ plan.AnalysisType) *topN {
	return &topN{deps: deps, typ: typ, logger: deps.componentLogger("topNHandler")}
}

func (h *topN) Type() plan.AnalysisType { return h.typ }

func (h *topN) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.typ, columns)

	col, ok := ds.Column(columns[0])
	if !ok {
		return nil, artifact, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[0])
	}
	observations := h.observations(col)
	if len(observations) == 0 {
		return nil, artifact, fmt.Errorf("%w: column %q has no non-missing values", ErrInsufficientData, col.Name)
	}

	ranked := rankByFrequency(observations)
	top := ranked
	if len(top) > h.deps.TopN {
		top = top[:h.deps.TopN]
	}

	categories := make([]CategoryCount, len(top))
	total := len(observations)
	for i, rc := range top {
		categories[i] = CategoryCount{
			Value:   rc.value,
			Count:   rc.count,
			Percent: h.deps.Rounding.Percent(100 * float64(rc.count) / float64(total)),
		}
	}

	result := Statistics{
		"categories":      categories,
		"distinct_values": len(ranked),
		"top_value":       categories[0].Value,
		"top_percent":     categories[0].Percent,
		"total_observed":  total,
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	labels := make([]string, len(categories))
	values := make([]float64, len(categories))
	for i, c := range categories {
		labels[i] = c.Value
		values[i] = float64(c.Count)
	}
	title := fmt.Sprintf("Top %d Most Frequent %s", len(categories), col.Name)
	if err := h.deps.Renderer.Bar(artifact.Path, title, labels, values); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Frequency analysis computed",
		slog.String("type", string(h.typ)),
		slog.String("column", col.Name),
		slog.Int("distinct", len(ranked)))
	return result, artifact, nil
}

// observations returns the countable values of a column, exploding
// multi-valued cells (e.g. comma-separated cuisine lists) when the column
// is configured as such.
func (h *topN) observations(col *dataset.Column) []string {
	raw := col.NonMissingStrings()
	if _, multi := h.deps.MultiValueColumns[col.Name]; !multi {
		return raw
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, token := range strings.Split(v, h.deps.MultiValueSeparator) {
			token = strings.TrimSpace(token)
			if token != "" {
				out = append(out, token)
			}
		}
	}
	return out
}

type rankedCategory struct {
	value string
	count int
	first int
}

// rankByFrequency counts values and orders them by descending frequency,
// breaking ties by first-encountered order.
func rankByFrequency(observations []string) []rankedCategory {
	index := make(map[string]int, len(observations))
	ranked := make([]rankedCategory, 0, len(observations))
	for i, v := range observations {
		at, seen := index[v]
		if !seen {
			index[v] = len(ranked)
			ranked = append(ranked, rankedCategory{value: v, first: i})
			at = index[v]
		}
		ranked[at].count++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})
	return ranked
}
