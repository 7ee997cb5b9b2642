package seq

import (
	"testing"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
)

func quiet(w int) Inputs {
	return Inputs{Opcode: comb.OpNoOp, A: bitvec.New(w), B: bitvec.New(w)}
}

func startPulse(w int, op comb.Opcode, a, b uint64) Inputs {
	return Inputs{
		Start:  true,
		Opcode: op,
		A:      bitvec.FromUint64(w, a),
		B:      bitvec.FromUint64(w, b),
	}
}

// runToDone ticks c until Done rises, returning how many ticks that took
// including the starting one. Gives up after limit ticks.
func runToDone(t *testing.T, c *Control, start Inputs, limit int) int {
	t.Helper()
	w := start.A.Width()
	c.Tick(start)
	ticks := 1
	for !c.Done() {
		if ticks > limit {
			t.Fatalf("controller %s not done after %d ticks", c.Name(), limit)
		}
		c.Tick(quiet(w))
		ticks++
	}
	return ticks
}

func TestControlWalksThePhases(t *testing.T) {
	const w = 4
	c := newControl("add", w, newAddPath(w))

	if c.Phase() != PhaseIdle {
		t.Fatalf("fresh controller in %s, want idle", c.Phase())
	}

	c.Tick(startPulse(w, comb.OpAdd, 0b0111, 0b0001))
	if c.Phase() != PhaseLoad {
		t.Fatalf("after start: %s, want load", c.Phase())
	}

	c.Tick(quiet(w))
	if c.Phase() != PhaseStep {
		t.Fatalf("after load tick: %s, want step", c.Phase())
	}

	for i := 0; i < w; i++ {
		c.Tick(quiet(w))
	}
	if c.Phase() != PhaseDone || !c.Done() {
		t.Fatalf("after %d step ticks: %s", w, c.Phase())
	}

	_, lo, flag := c.Outputs()
	if lo.Uint64() != 0b1000 || flag {
		t.Errorf("outputs = (%04b, flag=%v), want (1000, false)", lo.Uint64(), flag)
	}

	c.Tick(quiet(w))
	if c.Phase() != PhaseIdle || c.Done() {
		t.Error("done did not drop after exactly one tick")
	}
}

func TestControlDoneTiming(t *testing.T) {
	const w = 8
	tests := []struct {
		name  string
		ctrl  *Control
		start Inputs
		ticks int
	}{
		{"add takes W+2", newControl("add", w, newAddPath(w)), startPulse(w, comb.OpAdd, 200, 55), w + 2},
		{"sub takes W+2", newControl("sub", w, newSubPath(w)), startPulse(w, comb.OpSub, 200, 55), w + 2},
		{"mul takes W+1", newControl("mul", w-1, newMulPath(w)), startPulse(w, comb.OpMul, 12, 13), w + 1},
		{"div takes W+2", newControl("div", w, newDivPath(w)), startPulse(w, comb.OpDiv, 200, 7), w + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runToDone(t, tt.ctrl, tt.start, w+3)
			if got != tt.ticks {
				t.Errorf("done after %d ticks, want %d", got, tt.ticks)
			}
		})
	}
}

func TestControlIgnoresStartWhileBusy(t *testing.T) {
	const w = 4
	c := newControl("add", w, newAddPath(w))

	c.Tick(startPulse(w, comb.OpAdd, 3, 4))
	// a second pulse mid-run must not restart or corrupt the computation
	c.Tick(startPulse(w, comb.OpAdd, 15, 15))
	ticks := 2
	for !c.Done() {
		if ticks > w+3 {
			t.Fatal("never reached done")
		}
		c.Tick(quiet(w))
		ticks++
	}

	_, lo, _ := c.Outputs()
	if lo.Uint64() != 7 {
		t.Errorf("result %d, want 7 from the first start's operands", lo.Uint64())
	}
}

func TestControlSynchronousReset(t *testing.T) {
	const w = 4
	c := newControl("add", w, newAddPath(w))

	c.Tick(startPulse(w, comb.OpAdd, 9, 5))
	c.Tick(quiet(w))
	c.Tick(quiet(w)) // mid Step

	reset := quiet(w)
	reset.Reset = true
	c.Tick(reset)
	if c.Phase() != PhaseIdle || c.Done() {
		t.Fatalf("after reset: %s done=%v", c.Phase(), c.Done())
	}
	if _, lo, _ := c.Outputs(); !lo.IsZero() {
		t.Error("work registers survived a reset")
	}

	// a fresh run must produce the same answer as an uninterrupted one
	ticks := runToDone(t, c, startPulse(w, comb.OpAdd, 9, 5), w+3)
	if ticks != w+2 {
		t.Errorf("restart took %d ticks, want %d", ticks, w+2)
	}
	if _, lo, _ := c.Outputs(); lo.Uint64() != 14 {
		t.Errorf("restart result %d, want 14", lo.Uint64())
	}
}

func TestControlResetWinsOverStart(t *testing.T) {
	const w = 4
	c := newControl("add", w, newAddPath(w))

	in := startPulse(w, comb.OpAdd, 1, 1)
	in.Reset = true
	c.Tick(in)
	if c.Phase() != PhaseIdle {
		t.Errorf("reset+start left controller in %s", c.Phase())
	}
}

func TestAddPathRipplesOneBitPerTick(t *testing.T) {
	const w = 4
	p := newAddPath(w)
	p.load(bitvec.FromUint64(w, 0b0111), bitvec.FromUint64(w, 0b0001))

	// after one step only bit 0 has settled
	p.step(0)
	if _, lo, _ := p.outputs(); lo.Uint64() != 0b0000 {
		t.Errorf("after step 0: %04b", lo.Uint64())
	}
	if !p.carry {
		t.Error("carry register not set after bit 0")
	}
	p.step(1)
	p.step(2)
	p.step(3)
	if _, lo, _ := p.outputs(); lo.Uint64() != 0b1000 {
		t.Errorf("after all steps: %04b", lo.Uint64())
	}
}

func TestDivPathZeroDivisor(t *testing.T) {
	const w = 4
	p := newDivPath(w)
	p.load(bitvec.FromUint64(w, 9), bitvec.New(w))
	for i := 0; i < w; i++ {
		p.step(i)
	}
	hi, lo, flag := p.outputs()
	if !hi.IsZero() || !lo.IsZero() || !flag {
		t.Errorf("divide by zero = (rem=%s, quot=%s, flag=%v), want zeros with flag", hi, lo, flag)
	}
}
