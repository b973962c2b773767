package engine

// Status defines the processing states of a single plan entry.
type Status string

// Constants representing the defined per-entry statuses.
const (
	StatusPending    Status = "pending"
	StatusValidating Status = "validating"
	StatusRunning    Status = "running"
	StatusSucceeded  Status = "success"
	StatusFailed     Status = "failed"
)

// RunState defines the lifecycle of a whole engine run.
type RunState string

const (
	RunIdle       RunState = "idle"
	RunProcessing RunState = "processing"
	RunDone       RunState = "done"
)

// ErrorCategory classifies why a plan entry failed. All categories are
// local failures recorded in the ResultSet; none aborts the run.
type ErrorCategory string

const (
	CategoryUnsupportedAnalysisType ErrorCategory = "unsupported_analysis_type"
	CategoryColumnNotFound          ErrorCategory = "column_not_found"
	CategorySemanticTypeMismatch    ErrorCategory = "semantic_type_mismatch"
	CategoryInsufficientData        ErrorCategory = "insufficient_data"
	CategoryChartRenderFailure      ErrorCategory = "chart_render_failure"

	// CategoryTimeout marks entries that exceeded the per-entry deadline.
	CategoryTimeout ErrorCategory = "timeout"
	// CategoryCancelled marks entries never started because the whole run
	// was cancelled; bookkeeping only, so the ResultSet keeps one slot per
	// plan entry.
	CategoryCancelled ErrorCategory = "cancelled"
)
