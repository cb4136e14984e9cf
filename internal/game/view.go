package game

import (
	"github.com/lox/holdem-rooms/internal/deck"
)

// PlayerView is a read-only copy of a seat. HoleCards is only populated
// when the viewer is allowed to see them.
type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Seat       int         `json:"seat"`
	Chips      int         `json:"chips"`
	Bet        int         `json:"currentRoundBet"`
	TotalBet   int         `json:"totalBet"`
	Folded     bool        `json:"folded"`
	SittingOut bool        `json:"sittingOut,omitempty"`
	HasActed   bool        `json:"hasActed"`
	LastAction ActionKind  `json:"lastAction,omitempty"`
	IsAI       bool        `json:"isAI"`
	Difficulty string      `json:"difficulty,omitempty"`
	AllIn      bool        `json:"allIn"`
	CardCount  int         `json:"cardCount"`
	HoleCards  []deck.Card `json:"cards,omitempty"`
}

// TableView is a read-only copy of the table state.
type TableView struct {
	HandNumber     int          `json:"handNumber"`
	Phase          Phase        `json:"gamePhase"`
	CommunityCards []deck.Card  `json:"communityCards"`
	Pot            int          `json:"pot"`
	CurrentBet     int          `json:"currentBet"`
	CurrentSeat    int          `json:"currentPlayerIndex"`
	Button         int          `json:"dealerIndex"`
	SmallBlind     int          `json:"smallBlind"`
	BigBlind       int          `json:"bigBlind"`
	Players        []PlayerView `json:"players"`
	Winners        []string     `json:"winners,omitempty"`
}

// Player returns the view of the player with id.
func (v TableView) Player(id string) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Current returns the acting player's view, if any.
func (v TableView) Current() (PlayerView, bool) {
	if v.CurrentSeat < 0 || v.CurrentSeat >= len(v.Players) {
		return PlayerView{}, false
	}
	return v.Players[v.CurrentSeat], true
}

// ToCall returns how much the player must add to match the current bet.
func (v TableView) ToCall(p PlayerView) int {
	if owed := v.CurrentBet - p.Bet; owed > 0 {
		return owed
	}
	return 0
}

func (t *Table) playerView(seat int, withCards bool) PlayerView {
	p := t.players[seat]
	v := PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Seat:       seat,
		Chips:      p.Chips,
		Bet:        p.Bet,
		TotalBet:   p.TotalBet,
		Folded:     p.Folded,
		SittingOut: p.SittingOut,
		HasActed:   p.HasActed,
		LastAction: p.LastAction,
		IsAI:       p.IsAI(),
		Difficulty: p.Difficulty,
		AllIn:      !p.Folded && p.Chips == 0 && p.TotalBet > 0,
		CardCount:  len(p.HoleCards),
	}
	if withCards && len(p.HoleCards) > 0 {
		v.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	}
	return v
}

func (t *Table) view(reveal func(seat int, p *Player) bool) TableView {
	v := TableView{
		HandNumber:     t.handNumber,
		Phase:          t.phase,
		CommunityCards: append([]deck.Card{}, t.community...),
		Pot:            t.pot,
		CurrentBet:     t.currentBet,
		CurrentSeat:    t.current,
		Button:         t.button,
		SmallBlind:     t.cfg.SmallBlind,
		BigBlind:       t.cfg.BigBlind,
		Players:        make([]PlayerView, len(t.players)),
	}
	for i, p := range t.players {
		v.Players[i] = t.playerView(i, reveal(i, p))
	}
	if t.last != nil && t.phase == PhaseShowdown {
		for _, w := range t.last.Winners {
			v.Winners = append(v.Winners, w.PlayerID)
		}
	}
	return v
}

// Snapshot returns the full state including every player's hole cards.
func (t *Table) Snapshot() TableView {
	return t.view(func(int, *Player) bool { return true })
}

// PublicView hides all hole cards except those revealed at showdown.
func (t *Table) PublicView() TableView {
	return t.ViewFor("")
}

// ViewFor returns the state as seen by playerID: their own hole cards, plus
// the cards of every non-folded player once a contested hand reaches
// showdown.
func (t *Table) ViewFor(playerID string) TableView {
	shown := t.phase == PhaseShowdown && t.last != nil && t.last.Showdown
	return t.view(func(_ int, p *Player) bool {
		if playerID != "" && p.ID == playerID {
			return true
		}
		return shown && !p.Folded
	})
}
