package lanes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/logging"
)

func mustBank(t *testing.T, width, sets int, opts ...Option) *Bank {
	t.Helper()
	b, err := NewBank(width, sets, opts...)
	if err != nil {
		t.Fatalf("NewBank(%d, %d): %v", width, sets, err)
	}
	return b
}

// runBank pulses start and ticks until every lane reports done.
func runBank(t *testing.T, b *Bank, op comb.Opcode, a, busB bitvec.Vector) BusOutputs {
	t.Helper()
	in := BusInputs{Start: true, Opcode: op, A: a, B: busB}
	out, err := b.Tick(in)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	in.Start = false
	for ticks := 1; !out.AllDone; ticks++ {
		if ticks > b.Width()+3 {
			t.Fatalf("bank not done after %d ticks", ticks)
		}
		if out, err = b.Tick(in); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	return out
}

func TestNewBankValidatesSets(t *testing.T) {
	tests := []struct {
		name        string
		width, sets int
		wantField   string
	}{
		{"zero sets", 4, 0, "sets"},
		{"negative sets", 4, -1, "sets"},
		{"too many sets", 4, 1001, "sets"},
		{"bad width", 1, 4, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank(tt.width, tt.sets)
			verr, ok := err.(apperrors.ValidationError)
			if !ok {
				t.Fatalf("NewBank(%d, %d) = %v, want validation error", tt.width, tt.sets, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestNewBankWarnsAboveSoftLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "test")
	mustBank(t, 2, 501, WithLogger(logger))
	if !strings.Contains(buf.String(), "sets") {
		t.Errorf("no warning logged for 501 lanes: %s", buf.String())
	}
}

func TestSingleLaneBankMatchesMachine(t *testing.T) {
	b := mustBank(t, 4, 1)
	out := runBank(t, b, comb.OpAdd, bitvec.FromUint64(4, 0b0111), bitvec.FromUint64(4, 0b0001))
	if out.Low.Uint64() != 0b1000 || !out.High.IsZero() {
		t.Errorf("(high,low) = (%04b,%04b), want (0000,1000)", out.High.Uint64(), out.Low.Uint64())
	}
	if !out.Flags.IsZero() {
		t.Error("carry flag set for non-overflowing add")
	}
}

func TestLanesComputeIndependently(t *testing.T) {
	const w, sets = 4, 3
	b := mustBank(t, w, sets)

	as := []uint64{0b0111, 0b1111, 0b0000}
	bs := []uint64{0b0001, 0b0001, 0b1001}
	busA := packUints(t, w, as)
	busB := packUints(t, w, bs)

	out := runBank(t, b, comb.OpAdd, busA, busB)

	wantLow := []uint64{0b1000, 0b0000, 0b1001}
	wantCarry := []bool{false, true, false}
	for i := 0; i < sets; i++ {
		if got := out.Low.Lane(i, w).Uint64(); got != wantLow[i] {
			t.Errorf("lane %d low = %04b, want %04b", i, got, wantLow[i])
		}
		if got := out.Flags.Bit(i); got != wantCarry[i] {
			t.Errorf("lane %d carry = %v, want %v", i, got, wantCarry[i])
		}
		if !out.Done.Bit(i) {
			t.Errorf("lane %d not done", i)
		}
	}
}

func TestWideBankTicksAllLanes(t *testing.T) {
	// 128 lanes crosses the parallel cutoff; every lane must still see its
	// own operands and nothing else's.
	const w, sets = 8, 128
	b := mustBank(t, w, sets)

	as := make([]uint64, sets)
	bs := make([]uint64, sets)
	for i := range as {
		as[i] = uint64(i)
		bs[i] = uint64(2*i + 1)
	}
	out := runBank(t, b, comb.OpMul, packUints(t, w, as), packUints(t, w, bs))

	for i := 0; i < sets; i++ {
		prod := as[i] * bs[i]
		if got := out.Low.Lane(i, w).Uint64(); got != prod&0xFF {
			t.Errorf("lane %d product low = %d, want %d", i, got, prod&0xFF)
		}
		if got := out.High.Lane(i, w).Uint64(); got != prod>>8 {
			t.Errorf("lane %d product high = %d, want %d", i, got, prod>>8)
		}
	}
}

func TestWorkerCountDoesNotChangeResults(t *testing.T) {
	const w, sets = 4, 96
	serial := mustBank(t, w, sets, WithWorkers(1))
	parallel := mustBank(t, w, sets, WithWorkers(8))

	as := make([]uint64, sets)
	bs := make([]uint64, sets)
	for i := range as {
		as[i] = uint64(i * 5)
		bs[i] = uint64(i + 3)
	}
	busA := packUints(t, w, as)
	busB := packUints(t, w, bs)

	outSerial := runBank(t, serial, comb.OpSub, busA, busB)
	outParallel := runBank(t, parallel, comb.OpSub, busA, busB)

	if !outSerial.Low.Equal(outParallel.Low) || !outSerial.High.Equal(outParallel.High) {
		t.Error("results differ between serial and parallel bank ticks")
	}
	if !outSerial.Flags.Equal(outParallel.Flags) {
		t.Error("flags differ between serial and parallel bank ticks")
	}
}

func TestSingleCycleOpcodeAcrossLanes(t *testing.T) {
	const w, sets = 4, 2
	b := mustBank(t, w, sets)
	busA := packUints(t, w, []uint64{0b1100, 0b1010})
	busB := packUints(t, w, []uint64{0b1010, 0b1010})

	out, err := b.Tick(BusInputs{Opcode: comb.OpXor, A: busA, B: busB})
	if err != nil {
		t.Fatal(err)
	}
	if !out.AllDone {
		t.Fatal("xor did not complete in one tick")
	}
	if got := out.Low.Lane(0, w).Uint64(); got != 0b0110 {
		t.Errorf("lane 0 xor = %04b, want 0110", got)
	}
	if !out.Flags.Bit(1) {
		t.Error("lane 1 zero flag clear for x^x")
	}
}

func TestTickRejectsMismatchedBus(t *testing.T) {
	b := mustBank(t, 4, 3)
	in := b.IdleInputs()
	in.A = bitvec.New(4)
	if _, err := b.Tick(in); err == nil {
		t.Error("narrow bus accepted")
	}
}

func TestPackLanes(t *testing.T) {
	v, err := PackLanes(4, bitvec.FromUint64(4, 0x3), bitvec.FromUint64(4, 0xA))
	if err != nil {
		t.Fatal(err)
	}
	if v.Width() != 8 || v.Uint64() != 0xA3 {
		t.Errorf("packed bus = %02x (width %d), want a3 (width 8)", v.Uint64(), v.Width())
	}

	if _, err := PackLanes(4, bitvec.FromUint64(8, 1)); err == nil {
		t.Error("mismatched lane width accepted")
	}
}

func packUints(t *testing.T, width int, values []uint64) bitvec.Vector {
	t.Helper()
	ops := make([]bitvec.Vector, len(values))
	for i, v := range values {
		ops[i] = bitvec.FromUint64(width, v)
	}
	bus, err := PackLanes(width, ops...)
	if err != nil {
		t.Fatal(err)
	}
	return bus
}
