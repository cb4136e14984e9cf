package ai

import (
	"math/rand/v2"

	"github.com/lox/holdem-rooms/internal/evaluator"
	"github.com/lox/holdem-rooms/internal/game"
)

// hard is aggressive: it raises pairs and high cards before the flop,
// sizes bets by the pot and bluffs.
type hard struct {
	rng *rand.Rand
}

func (h hard) Decide(s Situation) game.Action {
	return legalize(s, h.intent(s))
}

func (h hard) intent(s Situation) intent {
	eval, strength := evaluate(s)
	if in, ok := shortStacked(s, eval); ok {
		return in
	}
	chips := float64(s.Chips)
	toCall := float64(s.ToCall)
	pot := float64(s.Pot)

	if preflop(s) {
		return h.preflop(eval, chips, toCall, pot)
	}

	switch {
	case strength >= 6:
		if h.rng.Float64() < 0.7 {
			return raise(min(toCall*3+pot, chips*0.6))
		}
		return checkCall
	case strength >= 4:
		if h.rng.Float64() < 0.5 {
			return raise(min(toCall*2+pot*0.5, chips*0.4))
		}
		return checkCall
	case strength >= 2:
		switch {
		case toCall <= pot*0.4:
			if h.rng.Float64() < 0.3 {
				return raise(min(toCall*2, chips*0.3))
			}
			return checkCall
		case toCall <= pot*0.7:
			return h.maybeCall(0.7)
		default:
			return h.maybeCall(0.3)
		}
	}

	if s.ToCall == 0 {
		if h.rng.Float64() < 0.2 {
			return raise(min(pot*0.5, chips*0.2))
		}
		return checkCall
	}
	if toCall > pot*0.3 {
		return h.maybeCall(0.15)
	}
	return h.maybeCall(0.4)
}

func (h hard) preflop(eval evaluator.Result, chips, toCall, pot float64) intent {
	if hi, lo, ok := topTwo(eval); ok {
		if hi == lo {
			if hi >= 10 {
				return raise(min(pot*0.75, chips*0.4))
			}
			if toCall <= pot*0.3 {
				return raise(pot * 0.5)
			}
			return checkCall
		}
		if hi >= 12 || lo >= 12 {
			if h.rng.Float64() < 0.6 {
				return raise(min(toCall+pot*0.3, chips*0.3))
			}
			return checkCall
		}
	}

	if h.rng.Float64() < 0.25 && toCall < chips*0.2 {
		return raise(min(toCall*2, chips*0.2))
	}
	return checkCall
}

func (h hard) maybeCall(p float64) intent {
	if h.rng.Float64() < p {
		return checkCall
	}
	return fold
}
