package seq

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
)

// The sequential controllers and the combinational cores must agree on
// every operand pair: the controllers are the same arithmetic spread over
// clock ticks.
func TestMachineMatchesCombinationalCores(t *testing.T) {
	const w = 8
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	run := func(op comb.Opcode, a, b uint8) Outputs {
		m, err := New(w)
		if err != nil {
			t.Fatalf("New(%d): %v", w, err)
		}
		in := Inputs{
			Start:  true,
			Opcode: op,
			A:      bitvec.FromUint64(w, uint64(a)),
			B:      bitvec.FromUint64(w, uint64(b)),
		}
		out := m.Tick(in)
		in.Start = false
		for i := 0; !out.Done; i++ {
			if i > w+3 {
				t.Fatalf("%s(%d,%d) never completed", op, a, b)
			}
			out = m.Tick(in)
		}
		return out
	}

	properties.Property("clocked add equals ripple add", prop.ForAll(
		func(a, b uint8) bool {
			out := run(comb.OpAdd, a, b)
			sum, carry := comb.Add(bitvec.FromUint64(w, uint64(a)), bitvec.FromUint64(w, uint64(b)))
			return out.Low.Equal(sum) && out.Flag == carry
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.Property("clocked sub equals ripple sub", prop.ForAll(
		func(a, b uint8) bool {
			out := run(comb.OpSub, a, b)
			diff, borrow := comb.Sub(bitvec.FromUint64(w, uint64(a)), bitvec.FromUint64(w, uint64(b)))
			return out.Low.Equal(diff) && out.Flag == borrow
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.Property("clocked mul equals shift-and-add product", prop.ForAll(
		func(a, b uint8) bool {
			out := run(comb.OpMul, a, b)
			hi, lo := comb.Multiply(bitvec.FromUint64(w, uint64(a)), bitvec.FromUint64(w, uint64(b)))
			return out.High.Equal(hi) && out.Low.Equal(lo) && out.Flag == !hi.IsZero()
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.Property("clocked div equals restoring division", prop.ForAll(
		func(a, b uint8) bool {
			out := run(comb.OpDiv, a, b)
			q, r, flags := comb.Divide(bitvec.FromUint64(w, uint64(a)), bitvec.FromUint64(w, uint64(b)))
			return out.Low.Equal(q) && out.High.Equal(r) && out.Flag == flags.ZeroDivisor
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.Property("every opcode completes within width plus three ticks", prop.ForAll(
		func(a, b uint8, opIdx uint8) bool {
			op := comb.OpcodeFromNibble(opIdx)
			m, err := New(w)
			if err != nil {
				return false
			}
			in := Inputs{
				Start:  true,
				Opcode: op,
				A:      bitvec.FromUint64(w, uint64(a)),
				B:      bitvec.FromUint64(w, uint64(b)),
			}
			out := m.Tick(in)
			in.Start = false
			for i := 0; i < w+3; i++ {
				if out.Done {
					return true
				}
				out = m.Tick(in)
			}
			return out.Done
		},
		gen.UInt8(), gen.UInt8(), gen.UInt8Range(0, 15),
	))

	properties.TestingRun(t)
}
