package ai

import (
	"math/rand/v2"

	"github.com/lox/holdem-rooms/internal/game"
)

// easy is conservative: it mostly calls and folds, raising only with trips
// or better after the flop.
type easy struct {
	rng *rand.Rand
}

func (e easy) Decide(s Situation) game.Action {
	return legalize(s, e.intent(s))
}

func (e easy) intent(s Situation) intent {
	eval, strength := evaluate(s)
	chips := float64(s.Chips)
	toCall := float64(s.ToCall)
	pot := float64(s.Pot)

	if in, ok := shortStacked(s, eval); ok {
		return in
	}

	if preflop(s) {
		r := e.rng.Float64()
		if r < 0.3 {
			return fold
		}
		return checkCall
	}

	switch {
	case strength >= 4:
		if e.rng.Float64() < 0.3 && toCall < chips*0.5 {
			return raise(min(toCall*2, chips*0.3, float64(s.CurrentBet)*2))
		}
		return checkCall
	case strength >= 2:
		return checkCall
	}

	if s.ToCall == 0 {
		return checkCall
	}
	if toCall > pot*0.3 {
		return fold
	}
	return checkCall
}
