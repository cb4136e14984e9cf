package game

import (
	"sort"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/evaluator"
)

// Winner is a player's share of the pot.
type Winner struct {
	PlayerID string            `json:"id"`
	Name     string            `json:"name"`
	Seat     int               `json:"seat"`
	Amount   int               `json:"amount"`
	Hand     *evaluator.Result `json:"hand,omitempty"`
}

// PlayerResult records how a seat fared in a finished hand.
type PlayerResult struct {
	PlayerID   string            `json:"id"`
	Name       string            `json:"name"`
	Seat       int               `json:"seat"`
	StartChips int               `json:"startChips"`
	FinalChips int               `json:"finalChips"`
	Folded     bool              `json:"folded"`
	SatOut     bool              `json:"satOut,omitempty"`
	Hand       *evaluator.Result `json:"hand,omitempty"`
}

// ChipChange is the net result of the hand for the player.
func (r PlayerResult) ChipChange() int {
	return r.FinalChips - r.StartChips
}

// HandSummary describes a finished hand.
type HandSummary struct {
	HandNumber     int            `json:"handNumber"`
	Pot            int            `json:"pot"`
	Showdown       bool           `json:"showdown"`
	CommunityCards []deck.Card    `json:"communityCards"`
	Winners        []Winner       `json:"winners"`
	Players        []PlayerResult `json:"players"`
}

// IsWinner reports whether playerID took a share of the pot.
func (s HandSummary) IsWinner(playerID string) bool {
	for _, w := range s.Winners {
		if w.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Player returns the result recorded for playerID.
func (s HandSummary) Player(playerID string) (PlayerResult, bool) {
	for _, r := range s.Players {
		if r.PlayerID == playerID {
			return r, true
		}
	}
	return PlayerResult{}, false
}

func (t *Table) awardUncontested(seat int) {
	p := t.players[seat]
	pot := t.pot
	p.Chips += pot
	t.finish(false, []Winner{{PlayerID: p.ID, Name: p.Name, Seat: seat, Amount: pot}}, nil)
}

// showdown evaluates every contender, reveals their cards and splits the pot
// between the best hands. Odd chips go one at a time to the tied winners
// closest to the left of the button.
func (t *Table) showdown() {
	t.phase = PhaseShowdown
	t.current = -1

	seats := t.contenders()
	results := make([]evaluator.Result, len(seats))
	hands := make(map[int]*evaluator.Result, len(seats))
	for i, seat := range seats {
		p := t.players[seat]
		results[i] = evaluator.Evaluate(p.HoleCards, t.community)
		hands[seat] = &results[i]
	}

	best := evaluator.Best(results)
	winSeats := make([]int, len(best))
	for i, idx := range best {
		winSeats[i] = seats[idx]
	}
	n := len(t.players)
	sort.Slice(winSeats, func(i, j int) bool {
		return (winSeats[i]-t.button-1+n)%n < (winSeats[j]-t.button-1+n)%n
	})

	share, remainder := t.pot/len(winSeats), t.pot%len(winSeats)
	winners := make([]Winner, len(winSeats))
	for i, seat := range winSeats {
		amount := share
		if i < remainder {
			amount++
		}
		p := t.players[seat]
		p.Chips += amount
		winners[i] = Winner{PlayerID: p.ID, Name: p.Name, Seat: seat, Amount: amount, Hand: hands[seat]}
	}

	for _, seat := range seats {
		p := t.players[seat]
		t.bus.Publish(CardsShownEvent{
			PlayerID:  p.ID,
			Seat:      seat,
			Cards:     append([]deck.Card(nil), p.HoleCards...),
			Hand:      *hands[seat],
			timestamp: t.clock.Now(),
		})
	}

	t.finish(true, winners, hands)
}

func (t *Table) finish(showdown bool, winners []Winner, hands map[int]*evaluator.Result) {
	summary := &HandSummary{
		HandNumber:     t.handNumber,
		Pot:            t.pot,
		Showdown:       showdown,
		CommunityCards: append([]deck.Card(nil), t.community...),
		Winners:        winners,
		Players:        make([]PlayerResult, len(t.players)),
	}
	for i, p := range t.players {
		summary.Players[i] = PlayerResult{
			PlayerID:   p.ID,
			Name:       p.Name,
			Seat:       i,
			StartChips: p.startChips,
			FinalChips: p.Chips,
			Folded:     p.Folded,
			SatOut:     p.SittingOut,
			Hand:       hands[i],
		}
	}

	t.phase = PhaseShowdown
	t.current = -1
	t.pot = 0
	t.currentBet = 0
	t.last = summary

	t.bus.Publish(HandEndedEvent{
		Summary:   *summary,
		Table:     t.PublicView(),
		timestamp: t.clock.Now(),
	})
}
