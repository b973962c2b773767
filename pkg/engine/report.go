package engine

import (
	"time"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/analysis"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// ReportSchemaVersion identifies the serialized report layout for the
// downstream report-synthesis stage.
const ReportSchemaVersion = "1.0"

// AnalysisResult is the outcome of one plan entry. Created once by the
// dispatcher, immutable after creation.
type AnalysisResult struct {
	Type          plan.AnalysisType   `json:"analysis_type"`
	Columns       []string            `json:"target_columns"`
	Status        Status              `json:"status"`
	Statistics    analysis.Statistics `json:"statistics,omitempty"`
	ChartPath     string              `json:"chart_path,omitempty"`
	ErrorCategory ErrorCategory       `json:"error_category,omitempty"`
	ErrorMessage  string              `json:"error_message,omitempty"`
	DurationMs    int64               `json:"durationMs"`
}

// Report is the engine's complete output contract: the ordered ResultSet
// (one slot per plan entry, mirroring plan order) plus run-level summary
// data for the report header.
type Report struct {
	Summary ReportSummary    `json:"summary"`
	Results []AnalysisResult `json:"results"`
}

// ReportSummary contains aggregated statistics for one run.
type ReportSummary struct {
	Rows            int             `json:"rows"`
	Columns         int             `json:"columns"`
	PlanLength      int             `json:"planLength"`
	SucceededCount  int             `json:"succeededCount"`
	FailedCount     int             `json:"failedCount"`
	PlanConfidence  float64         `json:"planConfidence,omitempty"`
	ChartDir        string          `json:"chartDir,omitempty"`
	Concurrency     int             `json:"concurrency"`
	DurationSeconds float64         `json:"durationSeconds"`
	Timestamp       time.Time       `json:"timestamp"`
	SchemaVersion   string          `json:"schemaVersion"`
	Profile         dataset.Profile `json:"datasetProfile"`
}
