package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/format"
	"github.com/agbru/alusim/internal/orchestration"
	"github.com/agbru/alusim/internal/ui"
)

// CLIProgressReporter adapts DisplayProgress to the orchestration
// ProgressReporter interface, giving engine runs a spinner and
// per-engine progress bars on the terminal.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numEngines int, out io.Writer) {
	DisplayProgress(wg, progressChan, numEngines, out)
}

// CLIResultPresenter renders operation results, the comparison table and
// failures for the command line.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// comparisonRow is one rendered line of the summary table. Cells are
// built before printing so column widths can be measured first.
type comparisonRow struct {
	name     string
	duration string
	ticks    string
	status   string
}

// PresentComparisonTable prints the per-engine summary with name,
// duration, tick count and status columns.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.OperationResult, out io.Writer) {
	fmt.Fprintf(out, "\n─── Comparison Summary ───\n")

	nameW, durW := utf8.RuneCountInString("Engine"), utf8.RuneCountInString("Duration")
	rows := make([]comparisonRow, 0, len(results))
	for _, res := range results {
		row := comparisonRow{name: res.Name, ticks: "-"}
		row.duration = format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			row.duration = "< 1µs"
		}
		if res.Result != nil {
			row.ticks = fmt.Sprintf("%d", res.Result.Ticks)
		}
		if res.Err != nil {
			row.status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			row.status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		rows = append(rows, row)
		nameW = max(nameW, utf8.RuneCountInString(row.name))
		durW = max(durW, utf8.RuneCountInString(row.duration))
	}

	// Pad by hand. The cells carry ANSI sequences, which would throw
	// off fmt's %-*s width counting.
	pad := func(s string, w int) string {
		if n := w - utf8.RuneCountInString(s); n > 0 {
			return strings.Repeat(" ", n)
		}
		return ""
	}

	fmt.Fprintf(out, "%sEngine%s%s   %sDuration%s%s   %sTicks%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), pad("Engine", nameW),
		ui.ColorUnderline(), ui.ColorReset(), pad("Duration", durW),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, row := range rows {
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s\n",
			ui.ColorBlue(), row.name, ui.ColorReset(), pad(row.name, nameW),
			ui.ColorYellow(), row.duration, ui.ColorReset(), pad(row.duration, durW),
			row.ticks, pad(row.ticks, 5),
			row.status)
	}
}

// PresentResult displays one engine's final result.
func (CLIResultPresenter) PresentResult(result orchestration.OperationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result.Result, result.Duration, opts.Verbose, opts.Details, out)
}

// FormatDuration renders a duration the way the rest of the CLI does.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError maps an engine failure to its exit code, rendered in the
// active theme's colors.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleComputationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider supplies theme colors to the error handler.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
