package game

import (
	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/deck"
)

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithDeck replaces the shuffled deck, typically with deck.NewOrdered for
// deterministic hands.
func WithDeck(d *deck.Deck) TableOption {
	return func(t *Table) {
		t.deck = d
	}
}

// WithEventBus publishes events on bus instead of a private one.
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) {
		t.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) {
		t.clock = clock
	}
}

// WithButton seats the button at seat before the first hand. The first
// StartHand keeps it there instead of rotating.
func WithButton(seat int) TableOption {
	return func(t *Table) {
		t.button = seat
		t.fixedButton = true
	}
}
