// Package engine is the adaptive analysis execution engine: it dispatches a
// structured analysis plan over a cleaned tabular dataset, producing one
// statistical summary plus chart artifact per plan entry while isolating
// per-entry failures. One bad column or malformed plan entry never aborts
// the run; the ResultSet always has exactly one slot per plan entry, in
// plan order.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/analysis"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// Engine orchestrates plan execution. Safe for a single Run at a time.
type Engine struct {
	opts        *Options
	logger      *slog.Logger
	registry    *analysis.Registry
	concurrency int
	state       atomic.Value // RunState
}

// NewEngine validates options, resolves defaults and wires dependencies.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.MultiValueSeparator == "" {
		opts.MultiValueSeparator = ","
	}
	if opts.PercentDigits == 0 && opts.StatDigits == 0 {
		def := stats.DefaultRounding()
		opts.PercentDigits = def.PercentDigits
		opts.StatDigits = def.StatDigits
	}

	if opts.Renderer == nil {
		if opts.RenderCharts {
			if opts.ChartDir == "" {
				return nil, fmt.Errorf("%w: ChartDir is required when RenderCharts is enabled", ErrConfigValidation)
			}
			if err := os.MkdirAll(opts.ChartDir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: cannot create chart directory '%s': %v", ErrConfigValidation, opts.ChartDir, err)
			}
			opts.Renderer = chart.NewGonumRenderer(opts.ChartDir, opts.Logger)
			logger.Debug("Renderer not provided, using default GonumRenderer.", slog.String("dir", opts.ChartDir))
		} else {
			opts.Renderer = chart.NoopRenderer{}
			logger.Debug("Chart rendering disabled, using NoopRenderer.")
		}
	}

	if opts.Registry == nil {
		multi := make(map[string]struct{}, len(opts.MultiValueColumns))
		for _, c := range opts.MultiValueColumns {
			multi[c] = struct{}{}
		}
		opts.Registry = analysis.NewRegistry(analysis.Deps{
			Renderer:            opts.Renderer,
			Rounding:            stats.Rounding{PercentDigits: opts.PercentDigits, StatDigits: opts.StatDigits},
			TopN:                opts.TopN,
			MultiValueColumns:   multi,
			MultiValueSeparator: opts.MultiValueSeparator,
			Logger:              opts.Logger,
		})
		logger.Debug("Registry not provided, using builtin handlers.")
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		opts.Concurrency = concurrency
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	e := &Engine{
		opts:        &opts,
		logger:      logger,
		registry:    opts.Registry,
		concurrency: concurrency,
	}
	e.state.Store(RunIdle)
	return e, nil
}

// State returns the current run lifecycle state.
func (e *Engine) State() RunState {
	return e.state.Load().(RunState)
}

// Run executes every plan entry against the dataset and returns the
// complete Report. Per-entry failures are recorded, never escalated; the
// only fatal input condition is a structurally malformed dataset.
// Cancellation is cooperative: in-flight entries complete, entries never
// started are recorded as failed with the cancelled category.
func (e *Engine) Run(ctx context.Context, ds *dataset.Dataset, p plan.Plan) (Report, error) {
	startTime := time.Now()
	e.state.Store(RunProcessing)
	defer e.state.Store(RunDone)

	e.logger.Info("Starting analysis run",
		slog.Int("planLength", p.Len()),
		slog.Int("concurrency", e.concurrency),
		slog.Bool("renderCharts", e.opts.RenderCharts))

	if err := ds.Validate(); err != nil {
		e.logger.Error("Dataset precondition violated", slog.String("error", err.Error()))
		return Report{}, err
	}
	schema := dataset.Classify(ds)

	// One slot per plan index: workers write disjoint slots, so the final
	// order always matches plan order regardless of completion order.
	results := make([]AnalysisResult, p.Len())

	indexChan := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			wLogger := e.logger.With(slog.Int("workerID", workerID))
			for i := range indexChan {
				results[i] = e.processEntry(ctx, wLogger, ds, schema, i, p.Entries[i])
			}
		}(w)
	}
	for i := range p.Entries {
		indexChan <- i
	}
	close(indexChan)
	wg.Wait()

	report := e.buildReport(ds, p, results, startTime)
	e.logger.Info("Analysis run finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("succeeded", report.Summary.SucceededCount),
		slog.Int("failed", report.Summary.FailedCount))

	if hookErr := e.opts.EventHooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		e.logger.Info("Run cancelled", slog.String("reason", ctxErr.Error()))
		return report, ctxErr
	}
	return report, nil
}

// processEntry drives one plan entry through its state machine:
// Pending -> Validating -> Running -> {Succeeded, Failed}. Validation
// failure short-circuits to Failed without invoking the handler; handler
// failures and panics are caught and recorded, never propagated.
func (e *Engine) processEntry(ctx context.Context, logger *slog.Logger, ds *dataset.Dataset, schema dataset.Schema, index int, entry plan.Entry) AnalysisResult {
	start := time.Now()
	result := AnalysisResult{Type: entry.Type, Columns: entry.Columns, Status: StatusPending}

	fail := func(err error) AnalysisResult {
		result.Status = StatusFailed
		result.ErrorCategory = Categorize(err)
		result.ErrorMessage = err.Error()
		result.DurationMs = time.Since(start).Milliseconds()
		logger.Warn("Plan entry failed",
			slog.Int("index", index),
			slog.String("type", string(entry.Type)),
			slog.String("category", string(result.ErrorCategory)),
			slog.String("error", err.Error()))
		e.notify(index, entry, StatusFailed, err.Error(), time.Since(start))
		return result
	}

	// Cooperative cancellation: entries not yet started are not run.
	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("run cancelled before entry started: %w", err))
	}

	result.Status = StatusValidating
	e.notify(index, entry, StatusValidating, "", 0)
	if err := schema.Validate(entry); err != nil {
		return fail(err)
	}
	handler, err := e.registry.Resolve(entry.Type)
	if err != nil {
		return fail(err)
	}

	result.Status = StatusRunning
	e.notify(index, entry, StatusRunning, "", 0)

	entryCtx := ctx
	if e.opts.EntryTimeout > 0 {
		var cancel context.CancelFunc
		entryCtx, cancel = context.WithTimeout(ctx, e.opts.EntryTimeout)
		defer cancel()
	}

	statistics, artifact, err := e.runHandler(entryCtx, handler, ds, entry.Columns)
	if err != nil {
		if ctxErr := entryCtx.Err(); ctxErr != nil && ctx.Err() == nil {
			err = fmt.Errorf("entry exceeded timeout of %s: %w", e.opts.EntryTimeout, ctxErr)
		}
		return fail(err)
	}

	result.Status = StatusSucceeded
	result.Statistics = statistics
	result.ChartPath = artifact.Path
	result.DurationMs = time.Since(start).Milliseconds()
	logger.Debug("Plan entry succeeded",
		slog.Int("index", index),
		slog.String("type", string(entry.Type)),
		slog.String("chart", artifact.Path),
		slog.Duration("duration", time.Since(start)))
	e.notify(index, entry, StatusSucceeded, "", time.Since(start))
	return result
}

// runHandler invokes a handler with panic containment, so a defective
// handler degrades to a Failed result for its own entry only.
func (e *Engine) runHandler(ctx context.Context, h analysis.Handler, ds *dataset.Dataset, columns []string) (statistics analysis.Statistics, artifact chart.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered in handler",
				slog.String("type", string(h.Type())),
				slog.Any("panicValue", r))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Run(ctx, ds, columns)
}

func (e *Engine) notify(index int, entry plan.Entry, status Status, message string, duration time.Duration) {
	if hookErr := e.opts.EventHooks.OnEntryStatusUpdate(index, entry, status, message, duration); hookErr != nil {
		e.logger.Warn("OnEntryStatusUpdate hook returned an error", slog.String("error", hookErr.Error()))
	}
}

func (e *Engine) buildReport(ds *dataset.Dataset, p plan.Plan, results []AnalysisResult, startTime time.Time) Report {
	succeeded := 0
	for _, r := range results {
		if r.Status == StatusSucceeded {
			succeeded++
		}
	}
	return Report{
		Summary: ReportSummary{
			Rows:            ds.Rows(),
			Columns:         ds.ColumnCount(),
			PlanLength:      p.Len(),
			SucceededCount:  succeeded,
			FailedCount:     p.Len() - succeeded,
			PlanConfidence:  p.Confidence,
			ChartDir:        e.opts.ChartDir,
			Concurrency:     e.concurrency,
			DurationSeconds: time.Since(startTime).Seconds(),
			Timestamp:       time.Now().UTC(),
			SchemaVersion:   ReportSchemaVersion,
			Profile:         dataset.Summarize(ds),
		},
		Results: results,
	}
}
