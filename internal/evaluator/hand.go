package evaluator

import (
	"fmt"

	"github.com/lox/holdem-rooms/internal/deck"
)

// Category is the class of a five-card poker hand, 1 (high card) to 10
// (royal flush). Larger is stronger.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the English name of a category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Result describes the best hand found for a set of cards.
//
// Primary holds the ranks that define the category, compared first: the quad
// rank, trip then pair rank of a full house, both pair ranks high to low, the
// pair rank, the trip rank, or the top card of a straight, flush or high-card
// hand (5 for the wheel). Kickers break remaining ties in order.
type Result struct {
	Category Category    `json:"category"`
	Cards    []deck.Card `json:"cards"`
	Primary  []deck.Rank `json:"primary,omitempty"`
	Kickers  []deck.Rank `json:"kickers,omitempty"`
}

// Name returns the category name
func (r Result) Name() string {
	return r.Category.String()
}

// String returns the category followed by the contributing cards
func (r Result) String() string {
	return fmt.Sprintf("%s [%s]", r.Category, deck.FormatCards(r.Cards))
}

// Compare orders two results: positive when a beats b, negative when b beats
// a, zero on an exact tie.
func Compare(a, b Result) int {
	if a.Category != b.Category {
		return cmpInt(int(a.Category), int(b.Category))
	}
	if c := compareRanks(a.Primary, b.Primary); c != 0 {
		return c
	}
	return compareRanks(a.Kickers, b.Kickers)
}

// Best returns the indexes of every result that ties for the strongest hand.
func Best(results []Result) []int {
	if len(results) == 0 {
		return nil
	}
	best := []int{0}
	for i := 1; i < len(results); i++ {
		switch c := Compare(results[i], results[best[0]]); {
		case c > 0:
			best = []int{i}
		case c == 0:
			best = append(best, i)
		}
	}
	return best
}

func compareRanks(a, b []deck.Rank) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return cmpInt(int(a[i]), int(b[i]))
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
