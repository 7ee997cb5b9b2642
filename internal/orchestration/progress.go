package orchestration

import (
	"time"

	"github.com/agbru/alusim/internal/format"
)

// ProgressAggregator folds per-engine progress updates into one overall
// completion figure with a smoothed ETA. The CLI progress bar and the
// front panel both consume it, so the aggregation math lives here once.
type ProgressAggregator struct {
	tracker    *format.ProgressWithETA
	numEngines int
}

// NewProgressAggregator returns an aggregator sized for numEngines, or
// nil when there is nothing to track.
func NewProgressAggregator(numEngines int) *ProgressAggregator {
	if numEngines <= 0 {
		return nil
	}
	return &ProgressAggregator{
		tracker:    format.NewProgressWithETA(numEngines),
		numEngines: numEngines,
	}
}

// AggregatedProgress is the outcome of folding in one update.
type AggregatedProgress struct {
	// EngineIndex identifies the engine the update came from.
	EngineIndex int
	// Value is that engine's own completion fraction in [0, 1].
	Value float64
	// AverageProgress is the mean completion across every engine.
	AverageProgress float64
	// ETA estimates the time until the slowest engine finishes.
	ETA time.Duration
}

// Update folds one engine sample into the aggregate.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.tracker.UpdateWithETA(update.EngineIndex, update.Value)
	return AggregatedProgress{
		EngineIndex:     update.EngineIndex,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage reads the mean completion without folding in a new
// sample, for display refreshes between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.tracker.CalculateAverage()
}

// GetETA reads the smoothed estimate without folding in a new sample.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.tracker.GetETA()
}

// NumEngines reports how many engines feed the aggregate.
func (a *ProgressAggregator) NumEngines() int {
	return a.numEngines
}

// IsMultiEngine reports whether more than one engine feeds the
// aggregate.
func (a *ProgressAggregator) IsMultiEngine() bool {
	return a.numEngines > 1
}

// DrainChannel discards updates until the channel closes. Callers use
// it in place of a nil aggregator so senders never block.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
