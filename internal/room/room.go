package room

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
)

type seat struct {
	connID   string
	playerID string
	name     string
	ready    bool
	left     bool
}

// Room is one table with its members. All methods are safe for concurrent
// use; every mutation runs under the room's own lock.
type Room struct {
	id          string
	cfg         Config
	logger      *log.Logger
	clock       quartz.Clock
	notifier    Notifier
	history     *history.Log
	turnTimeout time.Duration
	createdAt   time.Time

	mu        sync.Mutex
	table     *game.Table
	seats     []*seat
	closed    bool
	handOver  bool
	turnTimer  *quartz.Timer
	turnPlayer string
	turnSeq    uint64
}

func newRoom(id string, cfg Config, rng *rand.Rand, m *Manager) *Room {
	r := &Room{
		id:          id,
		cfg:         cfg,
		logger:      m.logger.With("room", id),
		clock:       m.clock,
		notifier:    m.notifier,
		history:     m.history,
		turnTimeout: m.turnTimeout,
		createdAt:   m.clock.Now(),
	}
	r.table = game.NewTable(rng, game.Config{SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind},
		game.WithClock(m.clock))
	r.table.Bus().Subscribe(game.SubscriberFunc(r.onEvent))
	return r
}

// ID returns the four digit room code.
func (r *Room) ID() string {
	return r.id
}

// Config returns the room configuration.
func (r *Room) Config() Config {
	return r.cfg
}

// Summary describes a room for listings.
type Summary struct {
	ID            string     `json:"id"`
	Players       int        `json:"players"`
	PlayerCount   int        `json:"playerCount"`
	StartingChips int        `json:"startingChips"`
	SmallBlind    int        `json:"smallBlind"`
	BigBlind      int        `json:"bigBlind"`
	GamePhase     game.Phase `json:"gamePhase"`
	HandNumber    int        `json:"handNumber"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Summary returns the room's listing entry.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.table.PublicView()
	return Summary{
		ID:            r.id,
		Players:       len(r.seats),
		PlayerCount:   r.cfg.PlayerCount,
		StartingChips: r.cfg.StartingChips,
		SmallBlind:    r.cfg.SmallBlind,
		BigBlind:      r.cfg.BigBlind,
		GamePhase:     view.Phase,
		HandNumber:    view.HandNumber,
		CreatedAt:     r.createdAt,
	}
}

// Players returns the public projection of every seat.
func (r *Room) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players(r.table.PublicView())
}

// TableView returns the public table state.
func (r *Room) TableView() game.TableView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.PublicView()
}

func (r *Room) join(connID, name string, host bool) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Player{}, fmt.Errorf("%w: %s", ErrRoomNotFound, r.id)
	}
	if len(r.members()) >= r.cfg.PlayerCount {
		return Player{}, fmt.Errorf("%w: %s", ErrRoomFull, r.id)
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", len(r.members())+1)
	}

	s := &seat{connID: connID, playerID: uuid.NewString(), name: name}
	if err := r.table.AddPlayer(s.playerID, name, r.cfg.StartingChips, ""); err != nil {
		return Player{}, err
	}
	r.seats = append(r.seats, s)
	r.logger.Info("Player joined", "player", name, "seats", len(r.seats))

	players := r.players(r.table.PublicView())
	player := r.playerFor(s, players)
	if host {
		r.send(s, MessageTypeRoomCreated, RoomCreatedData{RoomID: r.id, PlayerID: s.playerID, Players: players})
		return player, nil
	}

	r.broadcast(MessageTypePlayerJoined, PlayerJoinedData{Player: player, Players: players})
	if len(r.members()) == r.cfg.PlayerCount {
		r.broadcast(MessageTypeRoomFull, RoomFullData{Players: players})
	}
	return player, nil
}

// leave removes connID from the room and reports whether the room is now
// empty. A player dealt into a running hand is folded and keeps the seat
// until the hand ends.
func (r *Room) leave(connID string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seatByConn(connID)
	if s == nil || r.closed {
		return r.closed
	}

	s.left = true
	s.ready = false
	if r.table.InProgress() {
		if err := r.table.ForceFold(s.playerID); err != nil {
			r.logger.Error("Failed to fold departing player", "player", s.name, "error", err)
		}
	} else {
		r.removeSeat(s)
	}
	r.logger.Info("Player left", "player", s.name)

	if len(r.members()) == 0 {
		r.close()
		return true
	}

	r.broadcast(MessageTypePlayerLeft, PlayerLeftData{PlayerID: s.playerID, Players: r.players(r.table.PublicView())})
	r.settle()
	if err := r.maybeStart(); err != nil {
		r.logger.Warn("Could not start hand", "error", err)
	}
	return false
}

func (r *Room) setReady(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seatByConn(connID)
	if s == nil || r.closed {
		return ErrNotInRoom
	}
	if r.table.InProgress() {
		return game.ErrHandInProgress
	}

	s.ready = true
	r.broadcast(MessageTypePlayerReadyChanged, PlayerReadyChangedData{PlayerID: s.playerID, IsReady: true})
	return r.maybeStart()
}

// maybeStart deals a hand once every member is ready.
func (r *Room) maybeStart() error {
	members := r.members()
	if len(members) < MinPlayers || r.table.InProgress() {
		return nil
	}
	for _, s := range members {
		if !s.ready {
			return nil
		}
	}

	for _, s := range members {
		s.ready = false
	}
	if err := r.table.StartHand(); err != nil {
		return fmt.Errorf("start hand: %w", err)
	}
	r.logger.Info("Hand started", "hand", r.table.PublicView().HandNumber, "players", len(members))
	r.settle()
	return nil
}

func (r *Room) act(connID string, action game.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seatByConn(connID)
	if s == nil || r.closed {
		return ErrNotInRoom
	}
	err := r.table.Apply(s.playerID, action)
	if err != nil {
		r.logger.Debug("Action rejected", "player", s.name, "action", action, "error", err)
	}
	r.settle()
	return err
}

// close stops the room. Callers hold r.mu.
func (r *Room) close() {
	r.closed = true
	r.stopTurnTimer()
}

// settle removes departed seats once a hand is over.
func (r *Room) settle() {
	if !r.handOver {
		return
	}
	r.handOver = false
	for _, s := range append([]*seat(nil), r.seats...) {
		if s.left {
			r.removeSeat(s)
		}
	}
}

func (r *Room) removeSeat(s *seat) {
	if err := r.table.RemovePlayer(s.playerID); err != nil {
		r.logger.Error("Failed to remove seat", "player", s.name, "error", err)
		return
	}
	for i, other := range r.seats {
		if other == s {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			return
		}
	}
}

func (r *Room) seatByConn(connID string) *seat {
	for _, s := range r.seats {
		if s.connID == connID && !s.left {
			return s
		}
	}
	return nil
}

func (r *Room) seatByPlayer(playerID string) *seat {
	for _, s := range r.seats {
		if s.playerID == playerID {
			return s
		}
	}
	return nil
}

// members returns the seats whose connections are still present.
func (r *Room) members() []*seat {
	var out []*seat
	for _, s := range r.seats {
		if !s.left {
			out = append(out, s)
		}
	}
	return out
}

func (r *Room) players(view game.TableView) []Player {
	out := make([]Player, 0, len(view.Players))
	for _, pv := range view.Players {
		p := Player{PlayerView: pv}
		if s := r.seatByPlayer(pv.ID); s != nil {
			p.IsReady = s.ready
			p.Connected = !s.left
		}
		out = append(out, p)
	}
	return out
}

func (r *Room) playerFor(s *seat, players []Player) Player {
	for _, p := range players {
		if p.ID == s.playerID {
			return p
		}
	}
	return Player{}
}

func (r *Room) send(s *seat, mt MessageType, data any) {
	r.notifier.Notify(s.connID, Outbound{Type: mt, Data: data})
}

func (r *Room) broadcast(mt MessageType, data any) {
	for _, s := range r.members() {
		r.send(s, mt, data)
	}
}

// onEvent turns engine events into member messages. The engine publishes
// synchronously, so it always runs under r.mu.
func (r *Room) onEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartedEvent:
		players := r.players(e.Table)
		for _, s := range r.members() {
			mine, _ := r.table.ViewFor(s.playerID).Player(s.playerID)
			r.send(s, MessageTypeGameStarted, GameStartedData{
				HandNumber:         e.HandNumber,
				GamePhase:          e.Table.Phase,
				CommunityCards:     e.Table.CommunityCards,
				Pot:                e.Table.Pot,
				CurrentBet:         e.Table.CurrentBet,
				CurrentPlayerIndex: e.Table.CurrentSeat,
				DealerIndex:        e.Button,
				Players:            players,
				YourCards:          mine.HoleCards,
			})
		}

	case game.TurnChangedEvent:
		r.broadcast(MessageTypeCurrentPlayer, CurrentPlayerData{
			PlayerIndex: e.Seat,
			PlayerID:    e.PlayerID,
			ToCall:      e.ToCall,
		})
		r.armTurnTimer(e.PlayerID)

	case game.PlayerActedEvent:
		// a forced fold out of turn leaves the acting player's clock running
		if e.PlayerID == r.turnPlayer {
			r.stopTurnTimer()
		}
		r.broadcast(MessageTypePlayerActed, PlayerActedData{
			PlayerID:   e.PlayerID,
			Action:     e.Action,
			Amount:     e.Amount,
			Pot:        e.Pot,
			CurrentBet: e.CurrentBet,
			Forced:     e.Forced,
			Players:    r.players(e.Table),
		})

	case game.PhaseChangedEvent:
		r.broadcast(MessageTypePhaseChanged, PhaseChangedData{
			GamePhase:          e.Phase,
			CommunityCards:     e.CommunityCards,
			Pot:                e.Pot,
			CurrentBet:         e.CurrentBet,
			CurrentPlayerIndex: e.CurrentSeat,
			Players:            r.players(e.Table),
		})

	case game.CardsShownEvent:
		r.broadcast(MessageTypeShowCards, ShowCardsData{
			PlayerID: e.PlayerID,
			Cards:    e.Cards,
			HandRank: e.Hand.Name(),
		})

	case game.HandEndedEvent:
		r.stopTurnTimer()
		r.handOver = true
		winners := make([]WinnerData, 0, len(e.Summary.Winners))
		for _, w := range e.Summary.Winners {
			wd := WinnerData{ID: w.PlayerID, Name: w.Name, Amount: w.Amount}
			if w.Hand != nil {
				wd.HandRank = w.Hand.Name()
			}
			winners = append(winners, wd)
		}
		r.broadcast(MessageTypeGameEnded, GameEndedData{
			HandNumber: e.Summary.HandNumber,
			Winner:     winners,
			Pot:        e.Summary.Pot,
			Showdown:   e.Summary.Showdown,
			Players:    r.players(e.Table),
		})
		r.logger.Info("Hand finished", "hand", e.Summary.HandNumber, "pot", e.Summary.Pot, "winners", len(winners))
		r.record(e.Summary)
	}
}

func (r *Room) record(summary game.HandSummary) {
	if r.history == nil {
		return
	}
	now := r.clock.Now()
	var records []history.Record
	for _, pr := range summary.Players {
		if rec, ok := history.FromSummary(summary, r.id, pr.PlayerID, now); ok {
			records = append(records, rec)
		}
	}
	if err := r.history.Append(records...); err != nil {
		r.logger.Error("Failed to write history", "error", err)
	}
}

// armTurnTimer starts the clock on playerID's decision. Departed players
// are folded before their turn comes, so only connected seats get a timer.
func (r *Room) armTurnTimer(playerID string) {
	r.stopTurnTimer()
	if r.turnTimeout <= 0 {
		return
	}
	if s := r.seatByPlayer(playerID); s == nil || s.left {
		return
	}
	seq := r.turnSeq
	r.turnPlayer = playerID
	r.turnTimer = r.clock.AfterFunc(r.turnTimeout, func() {
		r.expireTurn(seq, playerID)
	}, "room", "turn")
}

func (r *Room) stopTurnTimer() {
	r.turnSeq++
	r.turnPlayer = ""
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

func (r *Room) expireTurn(seq uint64, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || seq != r.turnSeq {
		return
	}
	if current, ok := r.table.CurrentPlayer(); !ok || current != playerID {
		return
	}
	r.turnTimer = nil

	name := playerID
	if s := r.seatByPlayer(playerID); s != nil {
		name = s.name
	}
	r.logger.Info("Turn timed out", "player", name, "timeout", r.turnTimeout)
	r.broadcast(MessageTypePlayerTimeout, PlayerTimeoutData{
		PlayerID:       playerID,
		TimeoutSeconds: int(r.turnTimeout / time.Second),
	})
	if err := r.table.ForceFold(playerID); err != nil {
		r.logger.Error("Failed to fold timed out player", "player", name, "error", err)
	}
	r.settle()
}
