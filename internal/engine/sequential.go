package engine

import (
	"context"
	"fmt"

	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/seq"
)

// Sequential drives a clocked machine one tick at a time. Its tick count
// is the real latency of the modeled hardware.
type Sequential struct{}

// Name implements Engine.
func (Sequential) Name() string { return "sequential" }

// Describe implements Engine.
func (Sequential) Describe() string { return "clocked bit-serial datapath, one bit per tick" }

// Execute runs the request on a fresh machine, ticking until the done line
// rises. The context is checked between ticks, so cancellation lands
// within one tick of the deadline.
func (Sequential) Execute(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	m, err := seq.New(req.Width)
	if err != nil {
		return Result{}, err
	}

	total := ExpectedTicks(req.Opcode, req.Width)
	in := seq.Inputs{Start: true, Opcode: req.Opcode, A: req.A, B: req.B}
	var out seq.Outputs
	for tick := 1; ; tick++ {
		if err := ctx.Err(); err != nil {
			return Result{}, apperrors.ComputationError{Cause: err}
		}
		out = m.Tick(in)
		in.Start = false
		report(progress, float64(tick)/float64(total))
		if out.Done {
			break
		}
		if tick > total {
			return Result{}, apperrors.ComputationError{
				Cause: fmt.Errorf("%s controller not done after %d ticks", req.Opcode, tick),
			}
		}
	}
	report(progress, 1)

	return Result{
		Opcode: req.Opcode,
		Width:  req.Width,
		High:   out.High,
		Low:    out.Low,
		Flag:   out.Flag,
		Ticks:  m.Ticks(),
	}, nil
}

// ExpectedTicks returns the fixed latency of an opcode at the given width:
// single-cycle opcodes settle in one tick; add, sub and div walk the full
// width plus a load and a done tick; multiply saves one step because the
// first partial product is absorbed during load.
func ExpectedTicks(op comb.Opcode, width int) int {
	switch op {
	case comb.OpAdd, comb.OpSub, comb.OpDiv:
		return width + 2
	case comb.OpMul:
		return width + 1
	default:
		return 1
	}
}
