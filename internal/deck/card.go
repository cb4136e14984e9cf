package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
)

// Suits lists every suit in canonical deck order.
var Suits = [4]Suit{Spades, Hearts, Clubs, Diamonds}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

// Name returns the lowercase suit name used on the wire.
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	default:
		return "unknown"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// ParseSuit accepts a suit name ("hearts"), letter ("h") or symbol ("♥").
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "spades", "s", "♠":
		return Spades, nil
	case "hearts", "h", "♥":
		return Hearts, nil
	case "clubs", "c", "♣":
		return Clubs, nil
	case "diamonds", "d", "♦":
		return Diamonds, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// Rank represents a card rank. The numeric value of a rank is its
// comparison value: Two is 2 and Ace is 14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankLabels = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String returns the rank label ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	if l, ok := rankLabels[r]; ok {
		return l
	}
	return "?"
}

// ParseRank accepts "2".."10", "T" and the face letters, case-insensitively.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

// Card is an immutable playing card value.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short form of a card, e.g. "A♠" or "10♥"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Value returns the numeric comparison value of the card (2..14).
func (c Card) Value() int {
	return int(c.Rank)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Valid reports whether the card has a known rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Diamonds
}

type cardJSON struct {
	Suit   string `json:"suit"`
	Symbol string `json:"symbol"`
	Rank   string `json:"rank"`
	Value  int    `json:"value"`
}

// MarshalJSON encodes the card as {"suit":"hearts","symbol":"♥","rank":"10","value":10}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Suit:   c.Suit.Name(),
		Symbol: c.Suit.String(),
		Rank:   c.Rank.String(),
		Value:  c.Value(),
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	suit, err := ParseSuit(raw.Suit)
	if err != nil {
		return err
	}
	rank, err := ParseRank(raw.Rank)
	if err != nil {
		return err
	}
	*c = Card{Rank: rank, Suit: suit}
	return nil
}

// ParseCard parses a two or three character card such as "As", "Th" or "10d".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses whitespace separated cards, e.g. "As Kd Th".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
