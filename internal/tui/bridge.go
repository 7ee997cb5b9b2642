package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/orchestration"
)

// panelHandle is a thread-safe handle on the running bubbletea program.
// The background comparison goroutines hold one so they can send
// messages into the event loop; before the program starts, send is a
// no-op.
type panelHandle struct {
	mu      sync.RWMutex
	program *tea.Program
}

// attach installs the program once it has been created.
func (h *panelHandle) attach(p *tea.Program) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.program = p
}

// send forwards a message to the program if one is attached.
func (h *panelHandle) send(msg tea.Msg) {
	h.mu.RLock()
	p := h.program
	h.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// panelProgressFeed implements orchestration.ProgressReporter by
// aggregating engine progress and forwarding it into the event loop.
type panelProgressFeed struct {
	panel *panelHandle
}

// DisplayProgress consumes the progress channel until it closes.
func (f *panelProgressFeed) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numEngines int, _ io.Writer) {
	defer wg.Done()

	aggregator := orchestration.NewProgressAggregator(numEngines)
	if aggregator == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		agg := aggregator.Update(update)
		f.panel.send(ProgressMsg{
			EngineIndex:     agg.EngineIndex,
			Value:           agg.Value,
			AverageProgress: agg.AverageProgress,
			ETA:             agg.ETA,
		})
	}
	f.panel.send(ProgressDoneMsg{})
}

// panelResultFeed implements the presentation interfaces by sending
// results into the event loop instead of writing to the terminal. The
// out writers are ignored; the panel owns the screen.
type panelResultFeed struct {
	panel *panelHandle
}

// PresentComparisonTable forwards the per-engine outcomes.
func (f *panelResultFeed) PresentComparisonTable(results []orchestration.OperationResult, _ io.Writer) {
	f.panel.send(ComparisonResultsMsg{Results: results})
}

// PresentResult forwards the agreed final result.
func (f *panelResultFeed) PresentResult(result orchestration.OperationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	f.panel.send(FinalResultMsg{Result: result, Opts: opts})
}

// FormatDuration renders a duration the way the CLI does.
func (f *panelResultFeed) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError forwards the failure to the panel and maps it to an exit
// code. The classification writes to io.Discard; the trace panel shows
// the error text.
func (f *panelResultFeed) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	f.panel.send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleComputationError(err, duration, io.Discard, nil)
}

var (
	_ orchestration.ProgressReporter  = (*panelProgressFeed)(nil)
	_ orchestration.ResultPresenter   = (*panelResultFeed)(nil)
	_ orchestration.DurationFormatter = (*panelResultFeed)(nil)
	_ orchestration.ErrorHandler      = (*panelResultFeed)(nil)
)
