package orchestration

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
)

// tracerName identifies this package's spans.
const tracerName = "alusim/orchestration"

// progressBufferPerEngine sizes the shared progress channel. Extra room
// keeps a briefly stalled UI from eating updates.
const progressBufferPerEngine = 5

// ExecuteOperations runs the request on every given engine concurrently
// and collects their results in engine order.
//
// Each engine runs under its own tracing span and streams completion
// fractions into a shared progress channel; sends are non-blocking, so a
// stalled consumer costs updates, never liveness. The function returns
// when every engine has finished and the reporter has drained the
// channel.
func ExecuteOperations(ctx context.Context, engines []engine.Engine, req engine.Request, reporter ProgressReporter, out io.Writer) []OperationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]OperationResult, len(engines))
	progressChan := make(chan ProgressUpdate, len(engines)*progressBufferPerEngine)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(engines), out)

	tracer := otel.Tracer(tracerName)
	for i, eng := range engines {
		i, eng := i, eng // fresh variables per iteration for the goroutine below (pre-1.22 loop semantics)
		g.Go(func() error {
			spanCtx, span := tracer.Start(ctx, "engine.execute", trace.WithAttributes(
				attribute.String("engine", eng.Name()),
				attribute.String("opcode", req.Opcode.String()),
				attribute.Int("width", req.Width),
			))
			defer span.End()

			onProgress := func(v float64) {
				select {
				case progressChan <- ProgressUpdate{EngineIndex: i, Value: v}:
				default:
				}
			}

			start := time.Now()
			res, err := eng.Execute(spanCtx, req, onProgress)
			outcome := OperationResult{Name: eng.Name(), Duration: time.Since(start), Err: err}
			if err != nil {
				span.RecordError(err)
			} else {
				span.SetAttributes(attribute.Int64("ticks", int64(res.Ticks)))
				outcome.Result = &res
			}
			results[i] = outcome
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults processes the results from multiple engines
// and generates a summary report.
//
// It sorts the results by execution time, cross-validates the output
// buses of all successful runs, and displays a comparative table. A
// disagreement between engines is the one failure mode the simulator
// exists to catch, so it gets its own exit code.
func AnalyzeComparisonResults(results []OperationResult, opts PresentationOptions, presenter ResultPresenter, errorHandler ErrorHandler, out io.Writer) int {
	// Successful runs first, fastest at the top.
	slices.SortFunc(results, func(a, b OperationResult) int {
		if (a.Err == nil) != (b.Err == nil) {
			if a.Err == nil {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Duration, b.Duration)
	})

	var reference *OperationResult
	var firstErr error
	for i := range results {
		if err := results[i].Err; err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if reference == nil {
			reference = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if reference == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No engine could complete the operation.\n")
		return errorHandler.HandleError(firstErr, 0, out)
	}

	disagree := slices.ContainsFunc(results, func(r OperationResult) bool {
		return r.Err == nil && !r.Result.Matches(*reference.Result)
	})
	if disagree {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The engines disagree on the result buses.")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All engine results are consistent.\n")
	presenter.PresentResult(*reference, opts, out)
	return apperrors.ExitSuccess
}
