package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// etaSmoothing is the exponential moving average weight given to the
// newest rate sample. Lower values favor the history and keep the ETA
// from jumping around.
const etaSmoothing = 0.3

// maxETA caps the displayed estimate; anything beyond a day is noise.
const maxETA = 24 * time.Hour

// ProgressState tracks per-engine completion fractions and their average.
// It is safe for concurrent use.
type ProgressState struct {
	mu         sync.Mutex
	numEngines int
	progresses []float64
}

// NewProgressState creates a tracker for numEngines engines.
func NewProgressState(numEngines int) *ProgressState {
	if numEngines < 0 {
		numEngines = 0
	}
	return &ProgressState{
		numEngines: numEngines,
		progresses: make([]float64, numEngines),
	}
}

// Update records a progress value for one engine. Out-of-range indexes are
// ignored; values are clamped to [0, 1].
func (ps *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= ps.numEngines {
		return
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	ps.mu.Lock()
	ps.progresses[index] = value
	ps.mu.Unlock()
}

// CalculateAverage returns the mean progress across all engines, zero when
// nothing is tracked.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numEngines == 0 {
		return 0
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var sum float64
	for _, p := range ps.progresses {
		sum += p
	}
	return sum / float64(ps.numEngines)
}

// ProgressWithETA couples a ProgressState with a smoothed completion-rate
// estimate so callers can display a time-remaining figure.
type ProgressWithETA struct {
	*ProgressState
	numEngines   int
	progressRate float64
	startTime    time.Time
}

// NewProgressWithETA creates an ETA-tracking progress state for numEngines
// engines.
func NewProgressWithETA(numEngines int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(numEngines),
		numEngines:    numEngines,
		startTime:     time.Now(),
	}
}

// UpdateWithETA records one engine's progress and returns the new average
// together with the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	elapsed := time.Since(p.startTime).Seconds()
	if avg > 0 && elapsed > 0 {
		instant := avg / elapsed
		if p.progressRate == 0 {
			p.progressRate = instant
		} else {
			p.progressRate = etaSmoothing*instant + (1-etaSmoothing)*p.progressRate
		}
	}
	return avg, p.GetETA()
}

// GetETA returns the current estimate without recording progress. Zero
// means there is not enough data yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA {
		eta = maxETA
	}
	return eta
}

// FormatETA renders a time-remaining estimate in the compact form used on
// progress lines: "2m30s", "1h15m", "< 1s". Non-positive estimates render
// as "estimating...".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "estimating..."
	}
	if eta < time.Second {
		return "< 1s"
	}

	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	s := int(eta.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders a fixed-width bar of filled and shaded cells.
// Progress is clamped to [0, 1].
func ProgressBar(progress float64, length int) string {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders the full progress line: bar, percentage
// and time remaining.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %.1f%% ETA: %s", ProgressBar(progress, width), progress*100, FormatETA(eta))
}

// FormatNumberString inserts thousand separators into a decimal string.
// The input is assumed to be a valid integer literal, optionally signed.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
