package ai

import (
	"math"
	"math/rand/v2"

	"github.com/lox/holdem-rooms/internal/game"
)

// medium weighs a rough win probability against pot odds.
type medium struct {
	rng *rand.Rand
}

func (m medium) Decide(s Situation) game.Action {
	return legalize(s, m.intent(s))
}

func (m medium) intent(s Situation) intent {
	eval, strength := evaluate(s)
	if in, ok := shortStacked(s, eval); ok {
		return in
	}
	chips := float64(s.Chips)
	toCall := float64(s.ToCall)
	pot := float64(s.Pot)

	potOdds := 0.0
	if pot+toCall > 0 {
		potOdds = toCall / (pot + toCall)
	}
	winProbability := float64(strength)/10*0.6 + m.rng.Float64()*0.4

	if preflop(s) {
		if hi, lo, ok := topTwo(eval); ok {
			if hi == lo && hi >= 10 {
				if s.ToCall == 0 {
					return raise(min(pot*0.5, chips))
				}
				return checkCall
			}
			if hi >= 12 && lo >= 12 {
				if toCall <= pot*0.2 {
					return checkCall
				}
				return fold
			}
		}
		if m.rng.Float64() < 0.2 {
			return fold
		}
		return checkCall
	}

	if winProbability > potOdds {
		if strength >= 4 && m.rng.Float64() < 0.4 {
			return raise(math.Floor(min(toCall*2+pot*0.5, chips*0.5)))
		}
		return checkCall
	}

	if s.ToCall == 0 {
		return checkCall
	}
	if toCall > pot*0.5 {
		return fold
	}
	if m.rng.Float64() < 0.15 {
		return checkCall
	}
	return fold
}
