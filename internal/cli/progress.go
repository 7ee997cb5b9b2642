package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/orchestration"
)

// DisplayProgress renders a spinner with an aggregated progress bar and
// ETA while engines run. It consumes progressChan until it is closed and
// signals wg when the display has fully unwound, so callers can be sure
// nothing writes to out afterwards.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numEngines int, out io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numEngines)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	sp := newSpinner(spinner.WithWriter(out))
	sp.Start()
	defer sp.Stop()

	var lastRefresh time.Time
	for update := range progressChan {
		ap := agg.Update(update)
		if time.Since(lastRefresh) < ProgressRefreshRate {
			continue
		}
		lastRefresh = time.Now()
		sp.UpdateSuffix(" " + format.FormatProgressBarWithETA(ap.AverageProgress, ap.ETA, ProgressBarWidth))
	}

	// Park the bar at 100% so a fast run does not end mid-bar.
	sp.UpdateSuffix(fmt.Sprintf(" [%s] 100.0%%", format.ProgressBar(1.0, ProgressBarWidth)))
}
