package game

// Phase is the stage of the current hand
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePreFlop  Phase = "pre-flop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
)

func (p Phase) String() string {
	return string(p)
}

// Betting reports whether players can act in this phase.
func (p Phase) Betting() bool {
	switch p {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

// next returns the following phase and how many community cards it deals.
func (p Phase) next() (Phase, int) {
	switch p {
	case PhasePreFlop:
		return PhaseFlop, 3
	case PhaseFlop:
		return PhaseTurn, 1
	case PhaseTurn:
		return PhaseRiver, 1
	default:
		return PhaseShowdown, 0
	}
}
