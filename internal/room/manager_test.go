package room

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
)

func TestCreateRoom(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})

	r, err := m.CreateRoom(Config{PlayerCount: 3})
	require.NoError(t, err)

	id, err := strconv.Atoi(r.ID())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, 1000)
	assert.LessOrEqual(t, id, 9999)

	cfg := r.Config()
	assert.Equal(t, 3, cfg.PlayerCount)
	assert.Equal(t, 1000, cfg.StartingChips)
	assert.Equal(t, 10, cfg.SmallBlind)
	assert.Equal(t, 20, cfg.BigBlind)

	summary := r.Summary()
	assert.Equal(t, game.PhaseIdle, summary.GamePhase)
	assert.Zero(t, summary.Players)

	got, ok := m.Room(r.ID())
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestCreateRoomRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})

	for _, cfg := range []Config{
		{PlayerCount: 1},
		{PlayerCount: 5},
		{PlayerCount: 2, StartingChips: -10},
		{PlayerCount: 2, SmallBlind: 50, BigBlind: 20},
	} {
		_, err := m.CreateRoom(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "config %+v", cfg)
	}
	assert.Empty(t, m.Rooms())
}

func TestRoomIDsExhausted(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})
	m.idMin, m.idMax = 1000, 1002

	seen := map[string]bool{}
	for range 3 {
		r, err := m.CreateRoom(Config{})
		require.NoError(t, err)
		assert.False(t, seen[r.ID()], "duplicate id %s", r.ID())
		seen[r.ID()] = true
	}

	_, err := m.CreateRoom(Config{})
	assert.ErrorIs(t, err, ErrNoRoomIDs)
}

func TestHostAndJoin(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})

	r, host, err := m.HostRoom(Config{PlayerCount: 2}, "c1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", host.Name)
	assert.Equal(t, 1000, host.Chips)
	assert.True(t, host.Connected)

	created, ok := rec.Last("c1", MessageTypeRoomCreated)
	require.True(t, ok)
	data := created.Data.(RoomCreatedData)
	assert.Equal(t, r.ID(), data.RoomID)
	assert.Equal(t, host.ID, data.PlayerID)
	assert.Len(t, data.Players, 1)

	bob, err := m.JoinRoom(r.ID(), "c2", "")
	require.NoError(t, err)
	assert.Equal(t, "Player 2", bob.Name)

	for _, conn := range []string{"c1", "c2"} {
		types := rec.Types(conn)
		assert.Contains(t, types, MessageTypePlayerJoined, conn)
		assert.Contains(t, types, MessageTypeRoomFull, conn)
	}
	joined, _ := rec.Last("c1", MessageTypePlayerJoined)
	assert.Equal(t, bob.ID, joined.Data.(PlayerJoinedData).Player.ID)
	assert.Len(t, joined.Data.(PlayerJoinedData).Players, 2)

	roomID, ok := m.RoomOf("c2")
	require.True(t, ok)
	assert.Equal(t, r.ID(), roomID)
}

func TestJoinFullRoom(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, _ := openRoom(t, m, Config{PlayerCount: 2}, "alice", "bob")
	before := r.Players()
	sent := len(rec.For("conn-alice"))

	_, err := m.JoinRoom(r.ID(), "c3", "carol")
	require.ErrorIs(t, err, ErrRoomFull)

	assert.Equal(t, before, r.Players())
	assert.Len(t, rec.For("conn-alice"), sent, "a rejected join notifies nobody")
	_, ok := m.RoomOf("c3")
	assert.False(t, ok)
}

func TestJoinErrors(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})
	r, _ := openRoom(t, m, Config{PlayerCount: 3}, "alice")

	_, err := m.JoinRoom("0000", "c2", "bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = m.JoinRoom(r.ID(), "conn-alice", "alice again")
	assert.ErrorIs(t, err, ErrAlreadySeated)

	_, _, err = m.HostRoom(Config{}, "conn-alice", "alice")
	assert.ErrorIs(t, err, ErrAlreadySeated)
	assert.Len(t, m.Rooms(), 1)

	assert.ErrorIs(t, m.SetReady("nobody"), ErrNotInRoom)
	assert.ErrorIs(t, m.Act("nobody", game.Fold{}), ErrNotInRoom)
	assert.ErrorIs(t, m.LeaveRoom("nobody"), ErrNotInRoom)
}

func TestReadyStartsHand(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{PlayerCount: 3}, "alice", "bob")

	require.NoError(t, m.SetReady("conn-alice"))
	assert.Equal(t, game.PhaseIdle, r.TableView().Phase, "one ready player does not start")

	changed, ok := rec.Last("conn-bob", MessageTypePlayerReadyChanged)
	require.True(t, ok)
	assert.True(t, changed.Data.(PlayerReadyChangedData).IsReady)

	require.NoError(t, m.SetReady("conn-bob"))
	assert.Equal(t, game.PhasePreFlop, r.TableView().Phase)

	for _, conn := range conns {
		msg, ok := rec.Last(conn, MessageTypeGameStarted)
		require.True(t, ok, conn)
		data := msg.Data.(GameStartedData)
		assert.Len(t, data.YourCards, 2)
		assert.Equal(t, 30, data.Pot)
		assert.Equal(t, 20, data.CurrentBet)
		for _, p := range data.Players {
			assert.Empty(t, p.HoleCards, "%s sees cards of %s", conn, p.Name)
			assert.False(t, p.IsReady, "readiness resets when the hand starts")
		}
		assert.NotEqual(t, -1, data.CurrentPlayerIndex)
		assert.Contains(t, rec.Types(conn), MessageTypeCurrentPlayer)
	}

	assert.ErrorIs(t, m.SetReady("conn-alice"), game.ErrHandInProgress)
}

func TestActRoutesToEngine(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	conn, current := currentConn(t, r, conns)
	other := "conn-alice"
	if conn == other {
		other = "conn-bob"
	}

	err := m.Act(other, game.Call{})
	require.ErrorIs(t, err, game.ErrNotYourTurn)
	assert.ErrorIs(t, m.Act(conn, game.Check{}), game.ErrInvalidAction, "cannot check facing the big blind")

	require.NoError(t, m.Act(conn, game.Call{}))
	acted, ok := rec.Last(other, MessageTypePlayerActed)
	require.True(t, ok)
	data := acted.Data.(PlayerActedData)
	assert.Equal(t, current.ID, data.PlayerID)
	assert.Equal(t, game.KindCall, data.Action)
	assert.Equal(t, 40, data.Pot)
}

func TestShowdownRevealsContenders(t *testing.T) {
	t.Parallel()
	hist := history.NewLog(0)
	m, rec := newTestManager(t, Options{History: hist})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	started, _ := rec.Last("conn-alice", MessageTypeGameStarted)
	aliceCards := started.Data.(GameStartedData).YourCards

	checkDown(t, m, r, conns)

	for _, conn := range conns {
		shown := rec.All(conn, MessageTypeShowCards)
		require.Len(t, shown, 2, conn)
		for _, msg := range shown {
			assert.Len(t, msg.Data.(ShowCardsData).Cards, 2)
			assert.NotEmpty(t, msg.Data.(ShowCardsData).HandRank)
		}

		ended, ok := rec.Last(conn, MessageTypeGameEnded)
		require.True(t, ok)
		data := ended.Data.(GameEndedData)
		assert.True(t, data.Showdown)
		assert.NotEmpty(t, data.Winner)
		assert.Equal(t, 2000, chipTotal(data.Players))

		phases := rec.All(conn, MessageTypePhaseChanged)
		assert.Len(t, phases, 3, "flop, turn and river")
	}

	var aliceID string
	for id, conn := range conns {
		if conn == "conn-alice" {
			aliceID = id
		}
	}
	for _, msg := range rec.All("conn-bob", MessageTypeShowCards) {
		if sc := msg.Data.(ShowCardsData); sc.PlayerID == aliceID {
			assert.Equal(t, aliceCards, sc.Cards)
		}
	}

	assert.Equal(t, 2, hist.Len())
	for _, entry := range hist.Entries() {
		assert.Equal(t, r.ID(), entry.RoomID)
		assert.Equal(t, 1, entry.HandNumber)
		assert.NotEmpty(t, entry.HandRank)
	}
}

func TestLeaveMidHandFoldsAndFreesSeatAfterHand(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{PlayerCount: 3}, "alice", "bob", "carol")
	readyAll(t, m, conns)

	conn, _ := currentConn(t, r, conns)
	var leaver string
	for _, c := range conns {
		if c != conn {
			leaver = c
			break
		}
	}

	require.NoError(t, m.LeaveRoom(leaver))
	require.True(t, r.TableView().Phase.Betting(), "two players remain in the hand")

	players := r.Players()
	require.Len(t, players, 3, "the seat is kept until the hand ends")
	var gone Player
	for _, p := range players {
		if conns[p.ID] == leaver {
			gone = p
		}
	}
	assert.True(t, gone.Folded)
	assert.False(t, gone.Connected)

	left, ok := rec.Last(conn, MessageTypePlayerLeft)
	require.True(t, ok)
	assert.Equal(t, gone.ID, left.Data.(PlayerLeftData).PlayerID)
	assert.Empty(t, rec.All(leaver, MessageTypePlayerLeft), "the leaver is not notified")

	require.NoError(t, m.Act(conn, game.Fold{}))
	assert.False(t, r.TableView().Phase.Betting())
	assert.Len(t, r.Players(), 2)
	assert.Equal(t, 2, r.Summary().Players)
}

func TestLeaveLastOpponentEndsHand(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	require.NoError(t, m.LeaveRoom("conn-bob"))

	ended, ok := rec.Last("conn-alice", MessageTypeGameEnded)
	require.True(t, ok)
	data := ended.Data.(GameEndedData)
	require.Len(t, data.Winner, 1)
	assert.Equal(t, "alice", data.Winner[0].Name)
	assert.False(t, data.Showdown)

	players := r.Players()
	require.Len(t, players, 1)
	assert.Equal(t, 1010, players[0].Chips, "bob forfeits his small blind")
}

func TestEmptyRoomIsDestroyed(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	require.NoError(t, m.LeaveRoom("conn-alice"))
	require.NoError(t, m.LeaveRoom("conn-bob"))

	_, ok := m.Room(r.ID())
	assert.False(t, ok)
	assert.Empty(t, m.Rooms())

	_, err := m.JoinRoom(r.ID(), "c3", "carol")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestTurnTimeoutFoldsPlayer(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, rec := newTestManager(t, Options{Clock: clock, TurnTimeout: 30 * time.Second})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)
	conn, current := currentConn(t, r, conns)

	clock.Advance(30 * time.Second).MustWait(ctx)

	timeout, ok := rec.Last(conn, MessageTypePlayerTimeout)
	require.True(t, ok)
	data := timeout.Data.(PlayerTimeoutData)
	assert.Equal(t, current.ID, data.PlayerID)
	assert.Equal(t, 30, data.TimeoutSeconds)

	acted, ok := rec.Last(conn, MessageTypePlayerActed)
	require.True(t, ok)
	assert.True(t, acted.Data.(PlayerActedData).Forced)
	assert.Equal(t, game.KindFold, acted.Data.(PlayerActedData).Action)

	assert.False(t, r.TableView().Phase.Betting())
	_, ok = rec.Last(conn, MessageTypeGameEnded)
	assert.True(t, ok)
}

func TestTurnTimerResetsOnAction(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, rec := newTestManager(t, Options{Clock: clock, TurnTimeout: 30 * time.Second})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	first, _ := currentConn(t, r, conns)
	clock.Advance(10 * time.Second).MustWait(ctx)
	require.NoError(t, m.Act(first, game.Call{}))

	second, p := currentConn(t, r, conns)
	require.NotEqual(t, first, second)

	clock.Advance(25 * time.Second).MustWait(ctx)
	assert.Empty(t, rec.All(first, MessageTypePlayerTimeout), "the first timer was cancelled")
	assert.True(t, r.TableView().Phase.Betting())

	clock.Advance(5 * time.Second).MustWait(ctx)
	timeouts := rec.All(first, MessageTypePlayerTimeout)
	require.Len(t, timeouts, 1)
	assert.Equal(t, p.ID, timeouts[0].Data.(PlayerTimeoutData).PlayerID)
}

func TestTurnTimeoutDisabled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, rec := newTestManager(t, Options{Clock: clock})
	r, conns := openRoom(t, m, Config{}, "alice", "bob")
	readyAll(t, m, conns)

	clock.Advance(time.Hour).MustWait(ctx)
	assert.Empty(t, rec.All("conn-alice", MessageTypePlayerTimeout))
	assert.True(t, r.TableView().Phase.Betting())
}

func TestRoomsRunIndependently(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, Options{})

	const rooms, hands = 8, 5
	var wg sync.WaitGroup
	errs := make(chan error, rooms)
	for i := range rooms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)
			r, host, err := m.HostRoom(Config{}, a, "alice")
			if err != nil {
				errs <- err
				return
			}
			guest, err := m.JoinRoom(r.ID(), b, "bob")
			if err != nil {
				errs <- err
				return
			}
			conns := map[string]string{host.ID: a, guest.ID: b}
			for range hands {
				if err := errors.Join(m.SetReady(a), m.SetReady(b)); err != nil {
					errs <- err
					return
				}
				p, ok := r.TableView().Current()
				if !ok {
					errs <- fmt.Errorf("room %s: nobody to act", r.ID())
					return
				}
				if err := m.Act(conns[p.ID], game.Fold{}); err != nil {
					errs <- err
					return
				}
			}
			if total := chipTotal(r.Players()); total != 2000 {
				errs <- fmt.Errorf("room %s: chips %d", r.ID(), total)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, m.Rooms(), rooms)
}

func TestTurnTimerSurvivesOutOfTurnLeave(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, rec := newTestManager(t, Options{Clock: clock, TurnTimeout: 30 * time.Second})
	r, conns := openRoom(t, m, Config{PlayerCount: 3}, "alice", "bob", "carol")
	readyAll(t, m, conns)

	conn, current := currentConn(t, r, conns)
	var leaver string
	for _, c := range conns {
		if c != conn {
			leaver = c
			break
		}
	}
	require.NoError(t, m.LeaveRoom(leaver))
	require.True(t, r.TableView().Phase.Betting())
	still, _ := currentConn(t, r, conns)
	require.Equal(t, conn, still, "an out of turn fold does not move the action")

	clock.Advance(30 * time.Second).MustWait(ctx)

	timeouts := rec.All(conn, MessageTypePlayerTimeout)
	require.Len(t, timeouts, 1)
	assert.Equal(t, current.ID, timeouts[0].Data.(PlayerTimeoutData).PlayerID)
	assert.False(t, r.TableView().Phase.Betting(), "two folds end a three-way hand")
}

func TestJoinWhileDepartedSeatIsHeld(t *testing.T) {
	t.Parallel()
	m, rec := newTestManager(t, Options{})
	r, conns := openRoom(t, m, Config{PlayerCount: 3}, "alice", "bob", "carol")
	readyAll(t, m, conns)

	conn, _ := currentConn(t, r, conns)
	var leaver string
	for _, c := range conns {
		if c != conn {
			leaver = c
			break
		}
	}
	require.NoError(t, m.LeaveRoom(leaver))

	dave, err := m.JoinRoom(r.ID(), "conn-dave", "dave")
	require.NoError(t, err, "the departed seat does not count against capacity")
	assert.True(t, dave.SittingOut)
	assert.Len(t, r.Players(), 4)

	_, err = m.JoinRoom(r.ID(), "conn-erin", "erin")
	require.ErrorIs(t, err, ErrRoomFull)

	require.NoError(t, m.Act(conn, game.Fold{}))
	require.False(t, r.TableView().Phase.Betting())
	require.Len(t, r.Players(), 3, "the departed seat is freed once the hand ends")

	for _, c := range conns {
		if c != leaver {
			require.NoError(t, m.SetReady(c))
		}
	}
	require.NoError(t, m.SetReady("conn-dave"))
	require.Equal(t, game.PhasePreFlop, r.TableView().Phase)

	started, ok := rec.Last("conn-dave", MessageTypeGameStarted)
	require.True(t, ok)
	assert.Len(t, started.Data.(GameStartedData).YourCards, 2)
}
