package game

import (
	"fmt"
	"strings"
)

// ActionKind names an action on the wire and in logs.
type ActionKind string

const (
	KindFold  ActionKind = "fold"
	KindCheck ActionKind = "check"
	KindCall  ActionKind = "call"
	KindRaise ActionKind = "raise"
	KindAllIn ActionKind = "all-in"
)

func (k ActionKind) String() string {
	return string(k)
}

// Action is one of Fold, Check, Call, Raise or AllIn.
type Action interface {
	Kind() ActionKind
	String() string
	action()
}

// Fold gives up the hand.
type Fold struct{}

// Check passes when there is nothing to call.
type Check struct{}

// Call matches the current bet, or puts in the whole stack if it is short.
type Call struct{}

// Raise adds Amount chips from the stack. The player's round contribution
// after the raise must exceed the current bet.
type Raise struct {
	Amount int
}

// AllIn commits the entire remaining stack.
type AllIn struct{}

func (Fold) Kind() ActionKind  { return KindFold }
func (Check) Kind() ActionKind { return KindCheck }
func (Call) Kind() ActionKind  { return KindCall }
func (Raise) Kind() ActionKind { return KindRaise }
func (AllIn) Kind() ActionKind { return KindAllIn }

func (Fold) String() string    { return "fold" }
func (Check) String() string   { return "check" }
func (Call) String() string    { return "call" }
func (r Raise) String() string { return fmt.Sprintf("raise %d", r.Amount) }
func (AllIn) String() string   { return "all-in" }

func (Fold) action()  {}
func (Check) action() {}
func (Call) action()  {}
func (Raise) action() {}
func (AllIn) action() {}

// ParseAction builds an action from its wire name and amount. The amount is
// only read for raises, where it must be positive.
func ParseAction(kind string, amount int) (Action, error) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindFold:
		return Fold{}, nil
	case KindCheck:
		return Check{}, nil
	case KindCall:
		return Call{}, nil
	case KindRaise:
		if amount <= 0 {
			return nil, invalidf("raise amount must be positive, got %d", amount)
		}
		return Raise{Amount: amount}, nil
	case KindAllIn, "allin", "all_in":
		return AllIn{}, nil
	}
	return nil, invalidf("unknown action %q", kind)
}
