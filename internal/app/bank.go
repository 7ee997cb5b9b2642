package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/cli"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/lanes"
	"github.com/agbru/alusim/internal/logging"
	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/ui"
)

// runBank replicates the request across a bank of independent lanes and
// drives the concatenated bus until every done latch rises. Every lane
// receives the same operands, so the run doubles as a bus integrity
// check: any lane disagreeing with lane 0 is a wiring fault.
func (a *Application) runBank(ctx context.Context, out io.Writer) int {
	cfg := a.Config

	req, err := cfg.ToRequest()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	logger := logging.NewLogger(a.ErrWriter, "bank")
	bank, err := lanes.NewBank(cfg.Width, cfg.Sets,
		lanes.WithWorkers(cfg.Workers), lanes.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	busA, err := replicateLanes(cfg.Width, cfg.Sets, req.A)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	busB, err := replicateLanes(cfg.Width, cfg.Sets, req.B)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, out)
		fmt.Fprintf(out, "Execution mode: %sReplicated bank of %d lanes%s (%d-bit bus).\n",
			ui.ColorGreen(), bank.Sets(), ui.ColorReset(), bank.BusWidth())
		fmt.Fprintf(out, "\n─── Starting Execution ───\n")
	}

	start := time.Now()
	busOut, ticks, err := driveBank(ctx, bank, req.Opcode, busA, busB)
	elapsed := time.Since(start)
	if err != nil {
		return apperrors.HandleComputationError(err, elapsed, out, cli.CLIColorProvider{})
	}

	lane0 := bankLaneResult(busOut, 0, cfg.Width, req.Opcode, ticks)
	for i := 1; i < bank.Sets(); i++ {
		if !bankLaneResult(busOut, i, cfg.Width, req.Opcode, ticks).Matches(lane0) {
			fmt.Fprintf(out, "%sMismatch: lane %d disagrees with lane 0.%s\n",
				ui.ColorRed(), i, ui.ColorReset())
			return apperrors.ExitErrorMismatch
		}
	}
	for n := bank.Sets(); n > 0; n-- {
		metrics.ObserveOperation(req.Opcode.String(), ticks)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "%s✓ All %d lanes agree after %d ticks.%s\n",
			ui.ColorGreen(), bank.Sets(), ticks, ui.ColorReset())
	}

	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		Details:    cfg.Details,
	}
	name := fmt.Sprintf("%d-lane bank", bank.Sets())
	if err := cli.DisplayResultWithConfig(out, &lane0, elapsed, name, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// replicateLanes packs sets copies of one operand into a concatenated bus.
func replicateLanes(width, sets int, v bitvec.Vector) (bitvec.Vector, error) {
	operands := make([]bitvec.Vector, sets)
	for i := range operands {
		operands[i] = v
	}
	return lanes.PackLanes(width, operands...)
}

// driveBank pulses the shared start line and ticks the bus until every
// lane raises its done latch.
func driveBank(ctx context.Context, bank *lanes.Bank, op comb.Opcode, busA, busB bitvec.Vector) (lanes.BusOutputs, uint64, error) {
	limit := uint64(engine.ExpectedTicks(op, bank.Width()))
	in := lanes.BusInputs{Start: true, Opcode: op, A: busA, B: busB}
	var ticks uint64
	for {
		if err := ctx.Err(); err != nil {
			return lanes.BusOutputs{}, ticks, apperrors.WrapError(err, "bank halted at tick %d", ticks)
		}
		out, err := bank.Tick(in)
		if err != nil {
			return lanes.BusOutputs{}, ticks, apperrors.WrapError(err, "bank tick %d", ticks+1)
		}
		ticks++
		in.Start = false
		if out.AllDone {
			return out, ticks, nil
		}
		if ticks > limit {
			return lanes.BusOutputs{}, ticks, fmt.Errorf("bank not done after %d ticks", ticks)
		}
	}
}

// bankLaneResult extracts one lane's slice of the output bus.
func bankLaneResult(out lanes.BusOutputs, lane, width int, op comb.Opcode, ticks uint64) engine.Result {
	return engine.Result{
		Opcode: op,
		Width:  width,
		High:   out.High.Lane(lane, width),
		Low:    out.Low.Lane(lane, width),
		Flag:   out.Flags.Bit(lane),
		Ticks:  ticks,
	}
}
