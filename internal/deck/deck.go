package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Size is the number of cards in a full deck.
const Size = 52

// Deck is an ordered sequence of unique cards consumed from the front.
type Deck struct {
	cards []Card
	stack []Card
	rng   *rand.Rand
}

// New creates a full deck shuffled with the given random source.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Reset()
	return d
}

// NewOrdered creates an unshuffled deck whose first cards are top, followed
// by every remaining card in canonical order. Reset on an ordered deck
// restores the same order, so stacked hands replay identically.
func NewOrdered(top ...Card) *Deck {
	stack := append([]Card(nil), top...)
	return &Deck{cards: orderedCards(stack), stack: stack}
}

func orderedCards(top []Card) []Card {
	cards := make([]Card, 0, Size)
	seen := make(map[Card]bool, Size)
	for _, c := range top {
		if seen[c] {
			continue
		}
		seen[c] = true
		cards = append(cards, c)
	}
	for _, c := range canonical() {
		if !seen[c] {
			cards = append(cards, c)
		}
	}
	return cards
}

func canonical() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Reset repopulates all 52 cards and shuffles them. A deck built with
// NewOrdered is restored to its stacked order instead.
func (d *Deck) Reset() {
	if d.rng == nil {
		d.cards = orderedCards(d.stack)
		return
	}
	d.cards = append(d.cards[:0], canonical()...)
	d.shuffle()
}

// shuffle is an unbiased Fisher-Yates pass.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards. Asking for more cards than
// remain fails with ErrDeckExhausted and leaves the deck unchanged.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("deal %d with %d remaining: %w", n, len(d.cards), ErrDeckExhausted)
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
