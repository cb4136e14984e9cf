package game

import "github.com/lox/holdem-rooms/internal/deck"

// Player is a seat's authoritative state. It is owned by a Table and never
// handed out; callers receive PlayerView copies.
type Player struct {
	ID         string
	Name       string
	Difficulty string // empty for humans
	Chips      int
	HoleCards  []deck.Card
	Folded     bool
	SittingOut bool // no chips at hand start; not dealt in
	Bet        int  // contribution in the current betting round
	TotalBet   int  // contribution over the whole hand
	HasActed   bool
	LastAction ActionKind

	startChips int
}

// IsAI reports whether the seat is driven by a strategy.
func (p *Player) IsAI() bool {
	return p.Difficulty != ""
}

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return !p.Folded
}

// CanAct reports whether the player can still put chips in.
func (p *Player) CanAct() bool {
	return !p.Folded && p.Chips > 0
}

// commit moves up to amount chips from the stack into the pot and
// returns what was actually moved.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	return amount
}

func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Folded = false
	p.SittingOut = false
	p.Bet = 0
	p.TotalBet = 0
	p.HasActed = false
	p.LastAction = ""
	p.startChips = p.Chips
}

func (p *Player) resetForStreet() {
	p.Bet = 0
	p.HasActed = false
	p.LastAction = ""
}
