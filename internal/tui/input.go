package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-rooms/internal/game"
)

var errQuitCommand = errors.New("quit requested")

// ParseInput turns a typed command into an action for playerID.
//
//	f, fold              fold
//	k, check             check
//	c, call              call, or check when nothing is owed
//	r N, raise N         put N more chips in
//	raise to N           raise so the round bet totals N
//	a, allin, all-in     commit the whole stack
//	q, quit              leave the game
func ParseInput(line string, view game.TableView, playerID string) (game.Action, error) {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return nil, errors.New("enter an action: fold, check, call, raise N or allin")
	}

	p, _ := view.Player(playerID)
	switch parts[0] {
	case "f", "fold":
		return game.Fold{}, nil
	case "k", "check":
		return game.Check{}, nil
	case "c", "call":
		if view.ToCall(p) == 0 {
			return game.Check{}, nil
		}
		return game.Call{}, nil
	case "a", "allin", "all-in", "shove":
		return game.AllIn{}, nil
	case "q", "quit", "exit":
		return nil, errQuitCommand
	case "r", "raise", "bet":
		return parseRaise(parts[1:], p)
	}
	return nil, fmt.Errorf("unknown command %q", parts[0])
}

func parseRaise(args []string, p game.PlayerView) (game.Action, error) {
	to := false
	if len(args) > 0 && args[0] == "to" {
		to = true
		args = args[1:]
	}
	if len(args) != 1 {
		return nil, errors.New("usage: raise N or raise to N")
	}
	amount, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("invalid raise amount %q", args[0])
	}
	if to {
		amount -= p.Bet
		if amount <= 0 {
			return nil, fmt.Errorf("you already have $%d in this round", p.Bet)
		}
	}
	return game.Raise{Amount: amount}, nil
}

func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
