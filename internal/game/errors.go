package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is wrapped by every action rejection.
	ErrInvalidAction = errors.New("invalid action")

	// ErrNotYourTurn is returned when someone other than the acting player acts.
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrInvalidAction)

	ErrNoHandInProgress = errors.New("no hand in progress")
	ErrHandInProgress   = errors.New("hand in progress")
	ErrNotEnoughPlayers = errors.New("at least two players with chips are required")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrDuplicatePlayer  = errors.New("player already seated")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}
