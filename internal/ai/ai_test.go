package ai

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/randutil"
)

func situation(hole, board string, chips, pot, currentBet, toCall int) Situation {
	s := Situation{
		Chips:      chips,
		HoleCards:  deck.MustParseCards(hole),
		Pot:        pot,
		CurrentBet: currentBet,
		ToCall:     toCall,
	}
	if board != "" {
		s.Community = deck.MustParseCards(board)
	}
	return s
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		got, err := ParseDifficulty(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	got, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard, got)

	_, err = ParseDifficulty("impossible")
	assert.Error(t, err)
}

func TestLegalize(t *testing.T) {
	tests := []struct {
		name string
		s    Situation
		in   intent
		want game.Action
	}{
		{"check when nothing owed", Situation{Chips: 100}, checkCall, game.Check{}},
		{"call when owed", Situation{Chips: 100, ToCall: 20}, checkCall, game.Call{}},
		{"call for whole stack is all-in", Situation{Chips: 20, ToCall: 20}, checkCall, game.AllIn{}},
		{"raise above stack is all-in", Situation{Chips: 100, ToCall: 20}, raise(150), game.AllIn{}},
		{"raise not beating bet is a call", Situation{Chips: 100, ToCall: 20}, raise(20), game.Call{}},
		{"zero raise is a check", Situation{Chips: 100}, raise(0), game.Check{}},
		{"fractional raise floors", Situation{Chips: 100, ToCall: 10}, raise(30.9), game.Raise{Amount: 30}},
		{"fold when owed", Situation{Chips: 100, ToCall: 20}, fold, game.Fold{}},
		{"fold for free becomes check", Situation{Chips: 100}, fold, game.Check{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, legalize(tt.s, tt.in))
		})
	}
}

// acceptable reports whether the engine would accept action in s.
func acceptable(s Situation, action game.Action) bool {
	switch a := action.(type) {
	case game.Fold:
		return true
	case game.Check:
		return s.ToCall == 0
	case game.Call:
		return s.ToCall > 0
	case game.Raise:
		return a.Amount > s.ToCall && a.Amount <= s.Chips
	case game.AllIn:
		return s.Chips > 0
	}
	return false
}

func TestStrategiesAlwaysLegal(t *testing.T) {
	rng := randutil.New(5)
	boardSizes := []int{0, 3, 4, 5}

	for _, d := range Difficulties {
		strategy := New(d, randutil.New(11))
		for i := 0; i < 3000; i++ {
			cards, _ := deck.New(rng).Deal(7)
			hole := cards[:2]
			community := cards[2 : 2+boardSizes[i%len(boardSizes)]]
			chips := 1 + rng.IntN(2000)
			currentBet := rng.IntN(400)
			toCall := rng.IntN(currentBet + 1)
			s := Situation{
				Chips:      chips,
				HoleCards:  hole,
				Community:  community,
				Pot:        currentBet + rng.IntN(1000),
				CurrentBet: currentBet,
				ToCall:     toCall,
			}
			action := strategy.Decide(s)
			require.True(t, acceptable(s, action), "%s chose %v for %+v", d, action, s)
		}
	}
}

func TestEasyFoldsWeakHandFacingAllIn(t *testing.T) {
	s := situation("7c 2d", "Ah Kd 9s", 50, 400, 200, 200)
	assert.Equal(t, game.Fold{}, New(Easy, randutil.New(1)).Decide(s))
}

func TestEasyCallsAllInWithTrips(t *testing.T) {
	s := situation("9c 9d", "9s Kd 2h", 50, 400, 200, 200)
	assert.Equal(t, game.AllIn{}, New(Easy, randutil.New(1)).Decide(s))
}

func TestShortStackFoldsWeakHands(t *testing.T) {
	tests := []struct {
		name string
		s    Situation
		want game.Action
	}{
		{"weak preflop", situation("7h 2c", "", 100, 330, 300, 300), game.Fold{}},
		{"weak flop", situation("7c 2d", "Ah Kd 9s", 50, 400, 200, 200), game.Fold{}},
		{"one pair river", situation("Ac 3d", "Ah Kd 9s 8c 4h", 80, 400, 200, 200), game.Fold{}},
		{"stack exactly owed", situation("7h 2c", "Ah Kd 9s", 200, 400, 200, 200), game.Fold{}},
		{"trips call it off", situation("9c 9d", "9s Kd 2h", 50, 400, 200, 200), game.AllIn{}},
		{"premium pair preflop", situation("Qc Qd", "", 100, 330, 300, 300), game.AllIn{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, d := range Difficulties {
				for seed := int64(0); seed < 50; seed++ {
					got := New(d, randutil.New(seed)).Decide(tt.s)
					require.Equal(t, tt.want, got, "%s seed %d", d, seed)
				}
			}
		})
	}
}

func TestMediumRaisesBigPairPreflop(t *testing.T) {
	s := situation("Qc Qd", "", 1000, 30, 20, 0)
	assert.Equal(t, game.Raise{Amount: 15}, New(Medium, randutil.New(1)).Decide(s))
}

func TestMediumFoldsOverpricedHighCards(t *testing.T) {
	s := situation("Kc Qd", "", 1000, 100, 200, 180)
	assert.Equal(t, game.Fold{}, New(Medium, randutil.New(1)).Decide(s))
}

func TestHardRaisesPremiumPair(t *testing.T) {
	s := situation("Ac Ad", "", 1000, 30, 20, 10)
	// min(30*0.75, 1000*0.4) = 22
	assert.Equal(t, game.Raise{Amount: 22}, New(Hard, randutil.New(1)).Decide(s))
}

func TestDecisionsAreReproducible(t *testing.T) {
	s := situation("Jc Td", "2h 5s 9d", 800, 120, 40, 40)
	for _, d := range Difficulties {
		a := New(d, randutil.New(77))
		b := New(d, randutil.New(77))
		for i := 0; i < 20; i++ {
			assert.Equal(t, a.Decide(s), b.Decide(s))
		}
	}
}

func TestSituationFor(t *testing.T) {
	table := game.NewTable(randutil.New(3), game.DefaultConfig())
	require.NoError(t, table.AddPlayer("a", "a", 1000, "easy"))
	require.NoError(t, table.AddPlayer("b", "b", 1000, ""))
	require.NoError(t, table.StartHand())

	s, ok := SituationFor(table.ViewFor("b"), "b")
	require.True(t, ok)
	assert.Len(t, s.HoleCards, 2)
	assert.Equal(t, 30, s.Pot)
	assert.Equal(t, 10, s.ToCall)
	assert.Equal(t, 990, s.Chips)

	_, ok = SituationFor(table.ViewFor("b"), "nobody")
	assert.False(t, ok)
}

type fixedStrategy struct{ action game.Action }

func (f fixedStrategy) Decide(Situation) game.Action { return f.action }

func TestAgentWaitsForThinkDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	agent := NewAgent(fixedStrategy{game.Call{}}, mockClock, time.Second)

	got := make(chan game.Action, 1)
	agent.Schedule(Situation{Chips: 100, ToCall: 10}, func(a game.Action) { got <- a })

	mockClock.Advance(500 * time.Millisecond).MustWait(ctx)
	select {
	case a := <-got:
		t.Fatalf("decided early: %v", a)
	default:
	}

	mockClock.Advance(500 * time.Millisecond).MustWait(ctx)
	select {
	case a := <-got:
		assert.Equal(t, game.Call{}, a)
	case <-ctx.Done():
		t.Fatal("agent never decided")
	}
}

func TestAgentStop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	agent := NewAgent(fixedStrategy{game.Fold{}}, mockClock, time.Second)

	called := false
	stop := agent.Schedule(Situation{}, func(game.Action) { called = true })
	assert.True(t, stop())
	mockClock.Advance(time.Second).MustWait(ctx)
	assert.False(t, called)
}

func TestAgentActHonoursContext(t *testing.T) {
	mockClock := quartz.NewMock(t)
	agent := NewAgent(fixedStrategy{game.Fold{}}, mockClock, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := agent.Act(ctx, Situation{})
	assert.ErrorIs(t, err, context.Canceled)

	immediate := NewAgent(fixedStrategy{game.Check{}}, mockClock, 0)
	action, err := immediate.Act(context.Background(), Situation{})
	require.NoError(t, err)
	assert.Equal(t, game.Check{}, action)
}
