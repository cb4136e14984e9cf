package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/local"
)

func testView() game.TableView {
	return game.TableView{
		HandNumber:  1,
		Phase:       game.PhasePreFlop,
		Pot:         30,
		CurrentBet:  20,
		CurrentSeat: 0,
		Players: []game.PlayerView{
			{ID: "human-1", Name: "alice", Seat: 0, Chips: 990, Bet: 10, HoleCards: []deck.Card{
				deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.King, deck.Spades),
			}},
			{ID: "ai-1", Name: "AI Player 1", Seat: 1, Chips: 980, Bet: 20, IsAI: true},
		},
	}
}

// captureBridge returns a bridge whose program messages land in a channel.
func captureBridge() (*Bridge, chan tea.Msg) {
	msgs := make(chan tea.Msg, 16)
	b := NewBridge()
	b.send = func(msg tea.Msg) { msgs <- msg }
	return b, msgs
}

func next(t *testing.T, msgs chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message from bridge")
		return nil
	}
}

func TestParseInput(t *testing.T) {
	t.Parallel()
	view := testView()

	cases := []struct {
		line string
		want game.Action
	}{
		{"f", game.Fold{}},
		{"FOLD", game.Fold{}},
		{"check", game.Check{}},
		{"c", game.Call{}},
		{"call", game.Call{}},
		{"raise 40", game.Raise{Amount: 40}},
		{"r $15", game.Raise{Amount: 15}},
		{"raise to 60", game.Raise{Amount: 50}},
		{"allin", game.AllIn{}},
		{"all-in", game.AllIn{}},
	}
	for _, tc := range cases {
		got, err := ParseInput(tc.line, view, "human-1")
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	for _, line := range []string{"", "bluff", "raise", "raise lots", "raise -5", "raise to 10"} {
		_, err := ParseInput(line, view, "human-1")
		assert.Error(t, err, line)
	}

	_, err := ParseInput("quit", view, "human-1")
	assert.ErrorIs(t, err, errQuitCommand)
}

func TestCallChecksWhenNothingOwed(t *testing.T) {
	t.Parallel()
	view := testView()

	got, err := ParseInput("call", view, "ai-1")
	require.NoError(t, err)
	assert.Equal(t, game.Check{}, got)
}

func TestBridgeDecideRetriesBadInput(t *testing.T) {
	t.Parallel()
	b, msgs := captureBridge()
	view := testView()

	type result struct {
		action game.Action
		err    error
	}
	done := make(chan result, 1)
	go func() {
		a, err := b.Decide(context.Background(), "human-1", view, []game.ActionKind{game.KindFold, game.KindCall})
		done <- result{a, err}
	}()

	turn, ok := next(t, msgs).(turnMsg)
	require.True(t, ok)
	assert.Equal(t, "human-1", turn.playerID)

	require.True(t, b.submit("raise lots"))
	notice, ok := next(t, msgs).(noticeMsg)
	require.True(t, ok)
	assert.True(t, notice.err)
	_, ok = next(t, msgs).(turnMsg)
	require.True(t, ok, "prompt is repeated")

	require.True(t, b.submit("c"))
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, game.Call{}, res.action)
}

func TestBridgeQuit(t *testing.T) {
	t.Parallel()
	b, _ := captureBridge()

	b.Quit()
	b.Quit()

	_, err := b.Decide(context.Background(), "human-1", testView(), nil)
	assert.ErrorIs(t, err, local.ErrQuit)
	assert.False(t, b.Continue(context.Background(), game.HandSummary{}))
}

func TestBridgeContinue(t *testing.T) {
	t.Parallel()
	b, msgs := captureBridge()

	done := make(chan bool, 2)
	go func() {
		done <- b.Continue(context.Background(), game.HandSummary{HandNumber: 1})
		done <- b.Continue(context.Background(), game.HandSummary{HandNumber: 2})
	}()

	_, ok := next(t, msgs).(handOverMsg)
	require.True(t, ok)
	b.submit("")
	assert.True(t, <-done)

	next(t, msgs)
	b.submit("quit")
	assert.False(t, <-done)
}

func TestModelSubmitsOnlyWhenPrompted(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	m := NewModel(log.New(io.Discard), b)

	m.actionInput.SetValue("fold")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, b.lines, "no prompt is pending")

	m.Update(turnMsg{playerID: "human-1", view: testView(), valid: []game.ActionKind{game.KindFold}})
	require.NotNil(t, m.turn)
	m.actionInput.SetValue("  raise 40 ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, b.lines, 1)
	assert.Equal(t, "raise 40", <-b.lines)
	assert.Nil(t, m.turn)
	assert.Empty(t, m.actionInput.Value())
}

func TestModelLogsEvents(t *testing.T) {
	t.Parallel()
	m := NewModel(log.New(io.Discard), NewBridge())
	view := testView()

	m.Update(eventMsg{event: game.PlayerActedEvent{
		PlayerID: "ai-1",
		Action:   game.KindCall,
		Amount:   20,
		Pot:      50,
		Table:    view,
	}})
	m.Update(eventMsg{event: game.HandEndedEvent{
		Summary: game.HandSummary{Winners: []game.Winner{{PlayerID: "human-1", Name: "alice", Amount: 50}}},
		Table:   view,
	}})

	assert.Contains(t, m.gameLog, "AI Player 1: calls $20 (pot now: $50)")
	assert.Contains(t, m.gameLog, successStyle.Render("alice wins $50"))
	assert.Equal(t, "alice", m.name("human-1"))
}

func TestModelView(t *testing.T) {
	t.Parallel()
	m := NewModel(log.New(io.Discard), NewBridge())
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(turnMsg{playerID: "human-1", view: testView(), valid: []game.ActionKind{game.KindFold, game.KindCall, game.KindRaise}})

	out := m.View()
	assert.Contains(t, out, "Pot: $30")
	assert.Contains(t, out, "AI Player 1")
	assert.Contains(t, out, "[call $10]")
	assert.Contains(t, out, "alice to act")
}

func TestModelFinishAndQuit(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	m := NewModel(log.New(io.Discard), b)

	m.Update(finishedMsg{err: local.ErrQuit})
	assert.True(t, m.finished)
	assert.Contains(t, m.gameLog, handInfoStyle.Render("Game over"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	select {
	case <-b.quit:
	default:
		t.Fatal("bridge was not told to quit")
	}
}
