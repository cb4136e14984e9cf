package game

import (
	"testing"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/randutil"
)

type seat struct {
	id    string
	chips int
}

// newTestTable seats players in order with the button on seat 0 for the
// first hand, optionally stacking the deck. Cards are dealt two at a time
// starting left of the button, then flop, turn and river.
func newTestTable(t *testing.T, cfg Config, stacked string, seats ...seat) (*Table, *EventRecorder) {
	t.Helper()

	rec := &EventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	opts := []TableOption{WithEventBus(bus), WithButton(0)}
	if stacked != "" {
		opts = append(opts, WithDeck(deck.NewOrdered(deck.MustParseCards(stacked)...)))
	}
	table := NewTable(randutil.New(1), cfg, opts...)
	for _, s := range seats {
		if err := table.AddPlayer(s.id, s.id, s.chips, ""); err != nil {
			t.Fatalf("AddPlayer(%s): %v", s.id, err)
		}
	}
	return table, rec
}

func mustApply(t *testing.T, table *Table, id string, a Action) {
	t.Helper()
	if err := table.Apply(id, a); err != nil {
		t.Fatalf("Apply(%s, %v): %v", id, a, err)
	}
}

func mustCurrent(t *testing.T, table *Table, want string) {
	t.Helper()
	got, ok := table.CurrentPlayer()
	if !ok || got != want {
		t.Fatalf("current player = %q (%v), want %q", got, ok, want)
	}
}

func chipsOf(t *testing.T, table *Table, id string) int {
	t.Helper()
	p, ok := table.Snapshot().Player(id)
	if !ok {
		t.Fatalf("player %s not seated", id)
	}
	return p.Chips
}

func totalChips(table *Table) int {
	v := table.Snapshot()
	total := v.Pot
	for _, p := range v.Players {
		total += p.Chips
	}
	return total
}
