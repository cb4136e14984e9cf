package tui

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/game"
)

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, redCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, blackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// describeEvent renders the log lines for one game event. name resolves
// player ids to display names.
func describeEvent(event game.GameEvent, name func(id string) string) []string {
	switch e := event.(type) {
	case game.HandStartedEvent:
		lines := []string{"", handHeaderStyle.Render(fmt.Sprintf(" Hand #%d ", e.HandNumber))}
		if seat, ok := seatAt(e.Table, e.Button); ok {
			lines = append(lines, mutedStyle.Render(seat.Name+" has the button"))
		}
		if seat, ok := seatAt(e.Table, e.SmallBlindSeat); ok {
			lines = append(lines, fmt.Sprintf("%s: posts small blind $%d", seat.Name, seat.Bet))
		}
		if seat, ok := seatAt(e.Table, e.BigBlindSeat); ok {
			lines = append(lines, fmt.Sprintf("%s: posts big blind $%d", seat.Name, seat.Bet))
		}
		return append(lines, "", "*** PRE-FLOP ***")

	case game.PlayerActedEvent:
		who := name(e.PlayerID)
		switch e.Action {
		case game.KindFold:
			if e.Forced {
				return []string{fmt.Sprintf("%s: is folded", who)}
			}
			return []string{fmt.Sprintf("%s: folds", who)}
		case game.KindCheck:
			return []string{fmt.Sprintf("%s: checks", who)}
		case game.KindCall:
			return []string{fmt.Sprintf("%s: calls $%d (pot now: $%d)", who, e.Amount, e.Pot)}
		case game.KindRaise:
			return []string{fmt.Sprintf("%s: raises to $%d (pot now: $%d)", who, e.CurrentBet, e.Pot)}
		case game.KindAllIn:
			return []string{warningStyle.Render(fmt.Sprintf("%s: goes all-in for $%d (pot now: $%d)", who, e.Amount, e.Pot))}
		}
		return []string{fmt.Sprintf("%s: %s", who, e.Action)}

	case game.PhaseChangedEvent:
		return []string{"", fmt.Sprintf("*** %s *** %s", strings.ToUpper(e.Phase.String()), formatCards(e.CommunityCards))}

	case game.CardsShownEvent:
		return []string{fmt.Sprintf("%s: shows %s (%s)", name(e.PlayerID), formatCards(e.Cards), e.Hand.Name())}

	case game.HandEndedEvent:
		lines := make([]string, 0, len(e.Summary.Winners)+1)
		for _, w := range e.Summary.Winners {
			line := fmt.Sprintf("%s wins $%d", w.Name, w.Amount)
			if w.Hand != nil {
				line += " with " + w.Hand.Name()
			}
			lines = append(lines, successStyle.Render(line))
		}
		return append(lines, "")
	}
	return nil
}

func seatAt(v game.TableView, seat int) (game.PlayerView, bool) {
	if seat < 0 || seat >= len(v.Players) {
		return game.PlayerView{}, false
	}
	return v.Players[seat], true
}
