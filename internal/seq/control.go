package seq

import "github.com/agbru/alusim/internal/bitvec"

// Control sequences one datapath through the Idle/Load/Step/Done cycle.
// The four controller instances differ only in their datapath registers
// and step count; the FSM shape is shared.
type Control struct {
	name  string
	steps int
	phase Phase
	count int
	dp    datapath
}

func newControl(name string, steps int, dp datapath) *Control {
	return &Control{name: name, steps: steps, dp: dp}
}

// Tick advances the FSM by one clock. Reset is synchronous and wins over
// everything else; a start pulse is honored only from Idle and ignored
// while the controller is busy. Each call computes the next state from the
// state the previous tick left behind, so ticking the four controllers in
// any order within one clock is equivalent.
func (c *Control) Tick(in Inputs) {
	if in.Reset {
		c.phase = PhaseIdle
		c.count = 0
		c.dp.zero()
		return
	}
	switch c.phase {
	case PhaseIdle:
		if in.Start {
			c.dp.load(in.A, in.B)
			c.phase = PhaseLoad
			c.count = 0
		}
	case PhaseLoad:
		c.phase = PhaseStep
	case PhaseStep:
		c.dp.step(c.count)
		c.count++
		if c.count == c.steps {
			c.phase = PhaseDone
		}
	case PhaseDone:
		c.phase = PhaseIdle
		c.count = 0
	}
}

// Done reports whether the latched result is valid this tick. It holds for
// exactly one tick per run.
func (c *Control) Done() bool { return c.phase == PhaseDone }

// Phase returns the FSM state left by the last tick.
func (c *Control) Phase() Phase { return c.phase }

// Count returns the number of Step ticks taken in the current run.
func (c *Control) Count() int { return c.count }

// Steps returns the total Step ticks a run takes at this width.
func (c *Control) Steps() int { return c.steps }

// Name returns the controller's mnemonic.
func (c *Control) Name() string { return c.name }

// Outputs reads the result registers. They carry partials while the run is
// in flight; Done marks the tick on which they are the final result.
func (c *Control) Outputs() (hi, lo bitvec.Vector, flag bool) {
	return c.dp.outputs()
}
