package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/alusim/internal/cli"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/orchestration"
	"github.com/agbru/alusim/internal/ui"
)

// runCompute orchestrates the one-shot command line run.
func (a *Application) runCompute(ctx context.Context, out io.Writer) int {
	// Bound the run by the configured timeout and let Ctrl-C cancel it.
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	memBefore := metrics.ReadSnapshot()

	var code int
	switch {
	case a.Config.Sets > 1:
		code = a.runBank(ctx, out)
	case a.Config.Trace && !a.Config.Quiet:
		code = a.runTrace(ctx, out)
	default:
		code = a.runComparison(ctx, out)
	}

	if a.Config.Details && !a.Config.Quiet && code == apperrors.ExitSuccess {
		cli.DisplayMemoryStats(metrics.ReadSnapshot().Delta(memBefore), out)
	}
	return code
}

// runComparison races the selected engines against each other and
// cross-validates their output buses.
func (a *Application) runComparison(ctx context.Context, out io.Writer) int {
	enginesToRun := orchestration.GetEnginesToRun(a.Config.Engine, a.Registry)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(enginesToRun, out)
	}

	// Quiet runs drain progress silently.
	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter, progressOut = orchestration.NullProgressReporter{}, io.Discard
	}

	req, err := a.Config.ToRequest()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	results := orchestration.ExecuteOperations(ctx, enginesToRun, req, progressReporter, progressOut)

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	return a.presentAndPersist(results, outputCfg, out)
}

// runTrace prints per-tick controller state instead of racing engines.
func (a *Application) runTrace(ctx context.Context, out io.Writer) int {
	req, err := a.Config.ToRequest()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	fmt.Fprintf(out, "Tracing %s%s%s on %s%d%s-bit operands tick by tick...\n",
		ui.ColorMagenta(), req.Opcode, ui.ColorReset(),
		ui.ColorMagenta(), req.Width, ui.ColorReset())

	result, elapsed, err := cli.TraceTicks(ctx, req, out)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: "trace " + req.Opcode.String(), Limit: a.Config.Timeout}
		}
		return apperrors.HandleComputationError(err, elapsed, out, cli.CLIColorProvider{})
	}

	cli.DisplayResult(&result, elapsed, a.Config.Verbose, a.Config.Details, out)
	metrics.ObserveOperation(result.Opcode.String(), result.Ticks)
	return apperrors.ExitSuccess
}

func (a *Application) presentAndPersist(results []orchestration.OperationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	bestResult := fastestSuccess(results)
	if bestResult != nil {
		metrics.ObserveOperation(bestResult.Result.Opcode.String(), bestResult.Result.Ticks)
	}

	// Quiet mode prints the bare buses and skips the comparison table.
	if outputCfg.Quiet && bestResult != nil {
		cli.DisplayQuietResult(out, bestResult.Result)
		if err := a.persistResult(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	presOpts := orchestration.PresentationOptions{
		Verbose: a.Config.Verbose,
		Details: a.Config.Details,
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if bestResult != nil && exitCode == apperrors.ExitSuccess {
		if err := a.persistResult(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			cli.AnnounceSaved(out, outputCfg.OutputFile)
		}
	}

	return exitCode
}

// fastestSuccess returns the quickest successful run, or nil when every
// engine failed.
func fastestSuccess(results []orchestration.OperationResult) *orchestration.OperationResult {
	var best *orchestration.OperationResult
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		if best == nil || r.Duration < best.Duration {
			best = r
		}
	}
	return best
}

// persistResult writes the result file when one was requested.
func (a *Application) persistResult(res *orchestration.OperationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
