package room

import (
	"fmt"
	"time"
)

const (
	MinPlayers = 2
	MaxPlayers = 4

	// DefaultTurnTimeout is how long a connected player has to act before
	// being folded.
	DefaultTurnTimeout = 30 * time.Second
)

// Config describes a room as requested by its creator. Zero fields are
// filled from the manager defaults.
type Config struct {
	PlayerCount   int `json:"playerCount"`
	StartingChips int `json:"startingChips"`
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
}

// DefaultConfig is a heads-up room with 1000 chips and 10/20 blinds.
func DefaultConfig() Config {
	return Config{
		PlayerCount:   2,
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
	}
}

func (c Config) withDefaults(d Config) Config {
	if c.PlayerCount == 0 {
		c.PlayerCount = d.PlayerCount
	}
	if c.StartingChips == 0 {
		c.StartingChips = d.StartingChips
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind == 0 {
		c.BigBlind = d.BigBlind
	}
	return c
}

// Validate checks the room limits.
func (c Config) Validate() error {
	if c.PlayerCount < MinPlayers || c.PlayerCount > MaxPlayers {
		return fmt.Errorf("%w: player count must be between %d and %d, got %d", ErrInvalidConfig, MinPlayers, MaxPlayers, c.PlayerCount)
	}
	if c.StartingChips <= 0 {
		return fmt.Errorf("%w: starting chips must be positive, got %d", ErrInvalidConfig, c.StartingChips)
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.SmallBlind, c.BigBlind)
	}
	return nil
}
