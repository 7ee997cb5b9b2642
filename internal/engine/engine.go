package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/seq"
)

// ProgressFunc receives completion fractions in [0, 1]. Engines invoke it
// from the executing goroutine; nil disables reporting.
type ProgressFunc func(completed float64)

// Request describes one ALU operation. For shift opcodes B carries the
// packed control word, exactly as on the machine's input bus.
type Request struct {
	Opcode comb.Opcode
	Width  int
	A      bitvec.Vector
	B      bitvec.Vector
}

// Validate checks the width range and the operand widths. Engines call it
// before touching the datapath so that malformed requests surface as
// validation errors instead of panics.
func (r Request) Validate() error {
	if r.Width < seq.MinWidth || r.Width > seq.MaxWidth {
		return apperrors.ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("must be between %d and %d", seq.MinWidth, seq.MaxWidth),
		}
	}
	if r.A.Width() != r.Width || r.B.Width() != r.Width {
		return apperrors.ValidationError{
			Field:   "operands",
			Message: fmt.Sprintf("operands are %d and %d bits, want %d", r.A.Width(), r.B.Width(), r.Width),
		}
	}
	return nil
}

// Result carries the output bus of a completed operation together with the
// tick count the engine consumed. High and Low follow the bus convention:
// Low is the primary word (sum, difference, product low half, quotient,
// shift result, bitwise result) and High the secondary one (widened
// carry/borrow, product high half, remainder, displaced shift bits).
type Result struct {
	Opcode comb.Opcode
	Width  int
	High   bitvec.Vector
	Low    bitvec.Vector
	Flag   bool
	Ticks  uint64
}

// Matches reports whether two results agree on the output bus. Tick counts
// are engine properties, not results, and are ignored.
func (r Result) Matches(other Result) bool {
	return r.Flag == other.Flag && r.High.Equal(other.High) && r.Low.Equal(other.Low)
}

// Product assembles the high and low words into the full double-width
// product. Meaningful for multiply results.
func (r Result) Product() *big.Int {
	p := new(big.Int).Lsh(r.High.Big(), uint(r.Width))
	return p.Or(p, r.Low.Big())
}

// Quotient returns the quotient word of a division result.
func (r Result) Quotient() bitvec.Vector { return r.Low.Clone() }

// Remainder returns the remainder word of a division result.
func (r Result) Remainder() bitvec.Vector { return r.High.Clone() }

// ShiftOverflow returns the displaced bits of a shift result, right
// aligned.
func (r Result) ShiftOverflow() bitvec.Vector { return r.High.Clone() }

// Engine runs ALU operations to completion.
type Engine interface {
	// Name is the registry key, stable across releases.
	Name() string
	// Describe returns a one-line human description for listings.
	Describe() string
	// Execute runs the request to completion, reporting progress along
	// the way. Implementations honor ctx between internal steps.
	Execute(ctx context.Context, req Request, progress ProgressFunc) (Result, error)
}

func report(progress ProgressFunc, v float64) {
	if progress != nil {
		progress(v)
	}
}

// flagVector widens a single flag bit into a W-bit bus word, the form the
// dispatcher presents carry and borrow in.
func flagVector(width int, flag bool) bitvec.Vector {
	v := bitvec.New(width)
	if flag {
		v.SetBit(0, true)
	}
	return v
}
