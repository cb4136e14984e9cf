// Package ai decides actions for computer-controlled seats. Strategies are
// pure functions of the visible situation and an injected random source.
package ai

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/evaluator"
	"github.com/lox/holdem-rooms/internal/game"
)

// Difficulty selects a strategy
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the supported levels.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(s)); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Situation is everything a strategy may look at.
type Situation struct {
	Chips      int
	HoleCards  []deck.Card
	Community  []deck.Card
	Pot        int
	CurrentBet int
	ToCall     int
}

// SituationFor builds the situation of playerID from a view that includes
// the player's hole cards.
func SituationFor(v game.TableView, playerID string) (Situation, bool) {
	p, ok := v.Player(playerID)
	if !ok {
		return Situation{}, false
	}
	return Situation{
		Chips:      p.Chips,
		HoleCards:  p.HoleCards,
		Community:  v.CommunityCards,
		Pot:        v.Pot,
		CurrentBet: v.CurrentBet,
		ToCall:     v.ToCall(p),
	}, true
}

// Strategy picks an action for a situation.
type Strategy interface {
	Decide(s Situation) game.Action
}

// New returns the strategy for difficulty, defaulting to Easy.
func New(d Difficulty, rng *rand.Rand) Strategy {
	if rng == nil {
		panic("rng is required for ai strategies")
	}
	switch d {
	case Medium:
		return medium{rng: rng}
	case Hard:
		return hard{rng: rng}
	default:
		return easy{rng: rng}
	}
}

// intent is a strategy's raw choice before it is made legal. raise is the
// number of chips the strategy wants to put in.
type intent struct {
	kind  game.ActionKind
	raise float64
}

var (
	fold      = intent{kind: game.KindFold}
	checkCall = intent{kind: game.KindCall}
)

func raise(amount float64) intent {
	return intent{kind: game.KindRaise, raise: amount}
}

// legalize turns an intent into an action the engine accepts: calls and
// checks follow what is owed, raises that do not beat the current bet
// become calls, and anything that needs the whole stack becomes all-in.
func legalize(s Situation, in intent) game.Action {
	if s.Chips <= 0 {
		return game.Fold{}
	}
	switch in.kind {
	case game.KindFold:
		if s.ToCall == 0 {
			return game.Check{}
		}
		return game.Fold{}
	case game.KindRaise:
		amount := int(math.Floor(in.raise))
		switch {
		case amount >= s.Chips:
			return game.AllIn{}
		case amount > s.ToCall:
			return game.Raise{Amount: amount}
		}
	}
	switch {
	case s.ToCall == 0:
		return game.Check{}
	case s.ToCall >= s.Chips:
		return game.AllIn{}
	default:
		return game.Call{}
	}
}

// shortStacked applies when calling would take the whole stack: trips or
// better, or a pocket pair of tens or better before the flop, call it off.
// Everything else folds.
func shortStacked(s Situation, eval evaluator.Result) (intent, bool) {
	if s.ToCall < s.Chips {
		return intent{}, false
	}
	if eval.Category >= evaluator.ThreeOfAKind {
		return checkCall, true
	}
	if hi, lo, ok := topTwo(eval); ok && preflop(s) && hi == lo && hi >= 10 {
		return checkCall, true
	}
	return fold, true
}

// preflop reports whether the board has not been dealt yet, which is when
// the evaluation has fewer than five cards.
func preflop(s Situation) bool {
	return len(s.HoleCards)+len(s.Community) < 5
}

func evaluate(s Situation) (evaluator.Result, int) {
	r := evaluator.Evaluate(s.HoleCards, s.Community)
	return r, int(r.Category)
}

// topTwo returns the values of the two highest cards of an evaluation.
func topTwo(r evaluator.Result) (int, int, bool) {
	if len(r.Cards) < 2 {
		return 0, 0, false
	}
	return r.Cards[0].Value(), r.Cards[1].Value(), true
}
