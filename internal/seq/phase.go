package seq

// Phase enumerates the controller FSM states. Every multi-cycle controller
// walks the same cycle: Idle until a start pulse, one Load tick while the
// operand registers settle, a run of Step ticks, then exactly one Done tick
// before returning to Idle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLoad
	PhaseStep
	PhaseDone
)

var phaseNames = [...]string{
	PhaseIdle: "idle",
	PhaseLoad: "load",
	PhaseStep: "step",
	PhaseDone: "done",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
