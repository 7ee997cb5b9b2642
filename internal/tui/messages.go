package tui

import (
	"time"

	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/orchestration"
)

// TickMsg drives the panel clock. It paces free-running machine steps
// and the periodic resource sampling.
type TickMsg time.Time

// MemStatsMsg carries a process memory sample for the metrics panel.
type MemStatsMsg struct {
	Snapshot     metrics.MemorySnapshot
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample plus the
// process high-water RSS.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	PeakRSS    uint64
}

// ProgressMsg is one aggregated progress update from a background
// engine comparison.
type ProgressMsg struct {
	EngineIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the comparison progress channel closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the per-engine outcomes of a comparison.
type ComparisonResultsMsg struct {
	Results []orchestration.OperationResult
}

// FinalResultMsg carries the agreed result of a successful comparison.
type FinalResultMsg struct {
	Result orchestration.OperationResult
	Opts   orchestration.PresentationOptions
}

// ErrorMsg reports a failed comparison run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// CompareDoneMsg signals the end of a comparison with its exit code.
type CompareDoneMsg struct {
	ExitCode int
}

// ContextCancelledMsg signals that the parent context was canceled and
// the panel should shut down.
type ContextCancelledMsg struct {
	Err error
}
