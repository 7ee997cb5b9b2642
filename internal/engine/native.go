package engine

import (
	"context"
	"math/big"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
)

// Native recomputes the contract with math/big word arithmetic. It shares
// no code with the gate-level cores, which makes it the oracle half of a
// comparison run.
type Native struct{}

// Name implements Engine.
func (Native) Name() string { return "native" }

// Describe implements Engine.
func (Native) Describe() string { return "word arithmetic oracle (math/big)" }

// Execute implements Engine.
func (Native) Execute(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, apperrors.ComputationError{Cause: err}
	}

	w := req.Width
	a, b := req.A.Big(), req.B.Big()
	zero := func() bitvec.Vector { return bitvec.New(w) }

	var hi, lo bitvec.Vector
	var flag bool
	switch req.Opcode {
	case comb.OpAdd:
		s := new(big.Int).Add(a, b)
		flag = s.BitLen() > w
		hi, lo = flagVector(w, flag), bitvec.FromBig(w, s)
	case comb.OpSub:
		flag = a.Cmp(b) < 0
		hi, lo = flagVector(w, flag), bitvec.FromBig(w, new(big.Int).Sub(a, b))
	case comb.OpMul:
		p := new(big.Int).Mul(a, b)
		hi = bitvec.FromBig(w, new(big.Int).Rsh(p, uint(w)))
		lo = bitvec.FromBig(w, p)
		flag = !hi.IsZero()
	case comb.OpDiv:
		if b.Sign() == 0 {
			hi, lo, flag = zero(), zero(), true
			break
		}
		q, r := new(big.Int).QuoRem(a, b, new(big.Int))
		hi, lo = bitvec.FromBig(w, r), bitvec.FromBig(w, q)
	case comb.OpShiftLogical:
		hi, lo, flag = nativeShift(w, a, comb.DecodeShiftSpec(req.B, comb.ModeLogical))
	case comb.OpShiftArithmetic:
		hi, lo, flag = nativeShift(w, a, comb.DecodeShiftSpec(req.B, comb.ModeArithmetic))
	case comb.OpLessThan:
		hi, lo, flag = zero(), zero(), a.Cmp(b) < 0
	case comb.OpGreaterThan:
		hi, lo, flag = zero(), zero(), a.Cmp(b) > 0
	case comb.OpEqual:
		hi, lo, flag = zero(), zero(), a.Cmp(b) == 0
	case comb.OpAnd:
		hi, lo = zero(), bitvec.FromBig(w, new(big.Int).And(a, b))
		flag = lo.IsZero()
	case comb.OpOr:
		hi, lo = zero(), bitvec.FromBig(w, new(big.Int).Or(a, b))
		flag = lo.IsZero()
	case comb.OpXor:
		hi, lo = zero(), bitvec.FromBig(w, new(big.Int).Xor(a, b))
		flag = lo.IsZero()
	case comb.OpNot:
		mask := onesMask(w)
		hi, lo = zero(), bitvec.FromBig(w, mask.Xor(mask, a))
		flag = lo.IsZero()
	default:
		hi, lo, flag = zero(), zero(), false
	}
	report(progress, 1)

	return Result{
		Opcode: req.Opcode,
		Width:  w,
		High:   hi,
		Low:    lo,
		Flag:   flag,
		Ticks:  1,
	}, nil
}

// nativeShift mirrors the barrel shifter contract on big integers: the low
// word is the shifted value, the high word the displaced bits right
// aligned, and the flag reports any displaced one.
func nativeShift(width int, in *big.Int, spec comb.ShiftSpec) (hi, lo bitvec.Vector, flag bool) {
	k := spec.Amount
	if k > width {
		k = width
	}
	fill := spec.Fill
	if spec.Mode == comb.ModeArithmetic {
		fill = spec.Dir == comb.DirRight && in.Bit(width-1) == 1
	}

	kMask := onesMask(k)
	result := new(big.Int)
	displaced := new(big.Int)
	if spec.Dir == comb.DirLeft {
		result.Lsh(in, uint(k))
		displaced.Rsh(result, uint(width))
		if fill {
			result.Or(result, kMask)
		}
	} else {
		displaced.And(in, kMask)
		result.Rsh(in, uint(k))
		if fill {
			result.Or(result, new(big.Int).Lsh(kMask, uint(width-k)))
		}
	}

	hi = bitvec.FromBig(width, displaced)
	lo = bitvec.FromBig(width, result)
	return hi, lo, !hi.IsZero()
}

// onesMask returns 2^n - 1.
func onesMask(n int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return m.Sub(m, big.NewInt(1))
}
