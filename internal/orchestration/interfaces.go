package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/alusim/internal/engine"
)

// OperationResult is one engine's outcome in a comparison run: the
// buses it produced, how long it took, or the error that stopped it.
type OperationResult struct {
	// Name is the engine that produced the result.
	Name string
	// Result holds the completed buses, nil when the run failed.
	Result *engine.Result
	// Duration is the engine's wall time.
	Duration time.Duration
	// Err is the failure, nil when the run completed.
	Err error
}

// ProgressUpdate is one completion sample from a running engine.
type ProgressUpdate struct {
	// EngineIndex identifies the engine within the current run.
	EngineIndex int
	// Value is the completion fraction in [0, 1].
	Value float64
}

// PresentationOptions selects how much of a result gets printed.
type PresentationOptions struct {
	Verbose bool
	Details bool
}

// ProgressReporter renders progress while engines run. The orchestrator
// only feeds the channel; the visual form (spinner, bar, front panel)
// belongs to the implementation.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan closes.
	// Callers start it on its own goroutine and wait on wg.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEngines int, out io.Writer)
}

// ProgressReporterFunc adapts a plain function into a ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEngines int, out io.Writer)

// DisplayProgress calls f(wg, progressChan, numEngines, out).
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEngines int, out io.Writer) {
	f(wg, progressChan, numEngines, out)
}

// NullProgressReporter consumes updates and shows nothing. Quiet mode
// and tests use it so senders still unblock.
type NullProgressReporter struct{}

func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter renders finished runs. Surfaces implement it so the
// same orchestration output can become a terminal table, a quiet line,
// or a front-panel message.
type ResultPresenter interface {
	// PresentComparisonTable summarizes all engines side by side.
	PresentComparisonTable(results []OperationResult, out io.Writer)

	// PresentResult prints one engine's buses and timing.
	PresentResult(result OperationResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter renders durations for human output.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler maps a run failure to a process exit code, printing
// whatever explanation the surface wants along the way.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
