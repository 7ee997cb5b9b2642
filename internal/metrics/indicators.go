package metrics

import "time"

// Indicators summarizes a finished operation for the details display.
type Indicators struct {
	// Ticks is the number of clock ticks the run actually consumed.
	Ticks uint64
	// ExpectedTicks is the nominal tick count for the opcode and width.
	ExpectedTicks uint64
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// TicksPerSecond is the simulation throughput, zero when Duration is
	// too short to measure.
	TicksPerSecond float64
}

// ComputeIndicators derives the throughput indicators for one run.
func ComputeIndicators(ticks, expectedTicks uint64, d time.Duration) Indicators {
	ind := Indicators{
		Ticks:         ticks,
		ExpectedTicks: expectedTicks,
		Duration:      d,
	}
	if d > 0 {
		ind.TicksPerSecond = float64(ticks) / d.Seconds()
	}
	return ind
}

// Efficiency reports actual ticks against the nominal count as a ratio.
// A value of 1.0 means the run took exactly the expected number of ticks.
func (i Indicators) Efficiency() float64 {
	if i.ExpectedTicks == 0 {
		return 0
	}
	return float64(i.Ticks) / float64(i.ExpectedTicks)
}
