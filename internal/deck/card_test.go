package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "As Ks Qs Js Ts",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "ten spelled out",
			input: "10h 9d",
			expected: []Card{
				{Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Nine},
			},
		},
		{
			name:  "case insensitive",
			input: "as KH qD jc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "Xs Ks",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "As Kx",
			wantErr: true,
		},
		{
			name:    "too short",
			input:   "A",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !cardsEqual(got, tt.expected) {
				t.Errorf("ParseCards() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCards() should panic on invalid input")
		}
	}()
	MustParseCards("invalid")
}

func TestCardString(t *testing.T) {
	if got := NewCard(Ten, Hearts).String(); got != "10♥" {
		t.Errorf("String() = %q, want 10♥", got)
	}
	if got := NewCard(Ace, Spades).String(); got != "A♠" {
		t.Errorf("String() = %q, want A♠", got)
	}
	if !NewCard(Two, Diamonds).IsRed() || NewCard(Two, Clubs).IsRed() {
		t.Error("IsRed() mismatch")
	}
}

func TestCardJSON(t *testing.T) {
	c := NewCard(Queen, Diamonds)
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"suit":"diamonds","symbol":"♦","rank":"Q","value":12}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("Unmarshal = %v, want %v", back, c)
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
