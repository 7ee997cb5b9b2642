package engine

import (
	"context"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
)

// Combinational evaluates the ripple cores directly, as if the design were
// flattened into one combinational cloud with the done line tied high.
type Combinational struct{}

// Name implements Engine.
func (Combinational) Name() string { return "combinational" }

// Describe implements Engine.
func (Combinational) Describe() string { return "ripple cores evaluated in a single settle step" }

// Execute implements Engine. The result bus follows the same convention
// the clocked dispatcher uses, so sequential and combinational runs of the
// same request are directly comparable.
func (Combinational) Execute(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, apperrors.ComputationError{Cause: err}
	}

	var hi, lo bitvec.Vector
	var flag bool
	switch req.Opcode {
	case comb.OpAdd:
		sum, carry := comb.Add(req.A, req.B)
		hi, lo, flag = flagVector(req.Width, carry), sum, carry
	case comb.OpSub:
		diff, borrow := comb.Sub(req.A, req.B)
		hi, lo, flag = flagVector(req.Width, borrow), diff, borrow
	case comb.OpMul:
		hi, lo = comb.Multiply(req.A, req.B)
		flag = !hi.IsZero()
	case comb.OpDiv:
		q, r, flags := comb.Divide(req.A, req.B)
		hi, lo, flag = r, q, flags.ZeroDivisor
	default:
		hi, lo, flag = comb.EvalSingleCycle(req.Opcode, req.A, req.B)
	}
	report(progress, 1)

	return Result{
		Opcode: req.Opcode,
		Width:  req.Width,
		High:   hi,
		Low:    lo,
		Flag:   flag,
		Ticks:  1,
	}, nil
}
