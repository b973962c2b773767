// Package cli wires the resolved configuration into an engine run: it
// loads the dataset and plan artifacts, attaches progress reporting,
// executes the plan and writes the final report.
package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jjalcantara1/data-analysis-agent/internal/cli/config"
	"github.com/jjalcantara1/data-analysis-agent/internal/cli/hooks"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// ReportFileName is the report artifact written under the output directory.
const ReportFileName = "report.json"

// Run executes a full analysis: load artifacts, run the engine, persist
// the report. It returns an error for fatal conditions only; individual
// entry failures are recorded in the report instead.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ds, err := LoadDataset(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("loading dataset %q: %w", cfg.DatasetPath, err)
	}
	logger.Info("Dataset loaded",
		slog.String("path", cfg.DatasetPath),
		slog.Int("rows", ds.Rows()),
		slog.Int("columns", ds.ColumnCount()))

	p, err := LoadPlan(cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("loading plan %q: %w", cfg.PlanPath, err)
	}
	logger.Info("Plan loaded",
		slog.String("path", cfg.PlanPath),
		slog.Int("entries", p.Len()))

	opts := cfg.Engine
	opts.Logger = logger.Handler()

	var bar hooks.ProgressBar
	if isInteractive() && !cfg.Verbose {
		bar = hooks.NewBar(p.Len())
	}
	opts.EventHooks = hooks.NewCLIHooks(logger, cfg.Verbose, bar)

	eng, err := engine.NewEngine(opts)
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}

	start := time.Now()
	report, err := eng.Run(ctx, ds, p)
	if err != nil {
		return err
	}

	reportPath := filepath.Join(cfg.OutputPath, ReportFileName)
	if err := writeReport(reportPath, report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("Analysis complete",
		slog.Int("succeeded", report.Summary.SucceededCount),
		slog.Int("failed", report.Summary.FailedCount),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)),
		slog.String("report", reportPath))
	return nil
}

// LoadDataset reads a cleaned dataset artifact. JSON files use the column
// interchange format; CSV files get their column types inferred.
func LoadDataset(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return datasetFromCSV(data)
	}
	return dataset.FromJSON(data)
}

// LoadPlan reads an analysis plan artifact in JSON or YAML form.
func LoadPlan(path string) (plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plan.Plan{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return plan.ParseYAML(data)
	default:
		return plan.ParseJSON(data)
	}
}

// datasetFromCSV parses a header-led CSV into columns, inferring each
// column's semantic type from its non-empty values: numeric when every
// value parses as a float, datetime when every value parses with a known
// calendar layout, categorical otherwise. Empty cells are missing.
func datasetFromCSV(data []byte) (*dataset.Dataset, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrMalformedDataset, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", dataset.ErrMalformedDataset)
	}
	header := records[0]
	rows := records[1:]

	cols := make([]dataset.Column, len(header))
	for c, name := range header {
		values := make([]dataset.Value, len(rows))
		for i, row := range rows {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				values[i] = dataset.NA()
			} else {
				values[i] = dataset.V(strings.TrimSpace(row[c]))
			}
		}
		cols[c] = dataset.Column{
			Name:   strings.TrimSpace(name),
			Type:   inferType(values),
			Values: values,
		}
	}
	return dataset.New(cols...)
}

var csvDatetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

func inferType(values []dataset.Value) dataset.SemanticType {
	numeric, datetime, seen := true, true, false
	for _, v := range values {
		if v.Missing {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(v.Raw, 64); err != nil {
			numeric = false
		}
		if !parsesAsTime(v.Raw) {
			datetime = false
		}
		if !numeric && !datetime {
			break
		}
	}
	switch {
	case seen && numeric:
		return dataset.TypeNumeric
	case seen && datetime:
		return dataset.TypeDatetime
	default:
		return dataset.TypeCategorical
	}
}

func parsesAsTime(raw string) bool {
	for _, layout := range csvDatetimeLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}

func writeReport(path string, report engine.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
