//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/alusim/internal/format"
)

const (
	// TruncationLimit is the character threshold from which a rendered bus
	// value is truncated in standard output to avoid cluttering the
	// terminal. Wide machines produce kilocharacter binary strings.
	TruncationLimit = 100
	// DisplayEdges specifies the number of characters to display at the
	// beginning and end of a truncated value.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	// 200ms keeps terminal writes cheap while staying responsive.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// FormatExecutionDuration delegates to format.FormatExecutionDuration.
func FormatExecutionDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// Spinner is the slice of spinner behavior DisplayProgress needs. Tests
// substitute a mock; production code wraps briandowns/spinner.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text trailing the spinner glyph.
	UpdateSuffix(suffix string)
}

type termSpinner struct {
	s *spinner.Spinner
}

func (ts *termSpinner) Start()                     { ts.s.Start() }
func (ts *termSpinner) Stop()                      { ts.s.Stop() }
func (ts *termSpinner) UpdateSuffix(suffix string) { ts.s.Suffix = suffix }

// newSpinner is swappable so progress tests can observe spinner calls.
// The spinner interval matches ProgressRefreshRate, keeping glyph
// animation and bar redraws in step.
var newSpinner = func(options ...spinner.Option) Spinner {
	return &termSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}
