// Package room hosts multiplayer tables. A Manager owns the registry of
// rooms and which connection sits where; each Room serializes its own
// game behind a per-room lock.
package room

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
	"github.com/lox/holdem-rooms/internal/randutil"
)

const (
	minRoomID = 1000
	maxRoomID = 9999

	randomIDAttempts = 32
)

// Options configures a Manager. Zero values give a real clock, a time
// seeded RNG, no turn timeout, no history and no delivery.
type Options struct {
	Clock       quartz.Clock
	RNG         *rand.Rand
	TurnTimeout time.Duration
	History     *history.Log
	Notifier    Notifier
	Defaults    Config
}

// Manager is the room registry.
type Manager struct {
	logger      *log.Logger
	clock       quartz.Clock
	notifier    Notifier
	history     *history.Log
	turnTimeout time.Duration
	defaults    Config

	mu      sync.RWMutex
	rng     *rand.Rand
	rooms   map[string]*Room
	members map[string]string // connection id -> room id
	idMin   int
	idMax   int
}

// NewManager creates an empty registry.
func NewManager(logger *log.Logger, opts Options) *Manager {
	m := &Manager{
		logger:      logger.WithPrefix("rooms"),
		clock:       opts.Clock,
		notifier:    opts.Notifier,
		history:     opts.History,
		turnTimeout: opts.TurnTimeout,
		defaults:    opts.Defaults.withDefaults(DefaultConfig()),
		rng:         opts.RNG,
		rooms:       make(map[string]*Room),
		members:     make(map[string]string),
		idMin:       minRoomID,
		idMax:       maxRoomID,
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.rng == nil {
		m.rng = randutil.NewTimeSeeded()
	}
	if m.notifier == nil {
		m.notifier = discardNotifier{}
	}
	return m
}

// CreateRoom registers an empty room.
func (m *Manager) CreateRoom(cfg Config) (*Room, error) {
	cfg = cfg.withDefaults(m.defaults)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.allocateID()
	if err != nil {
		return nil, err
	}
	r := newRoom(id, cfg, randutil.Child(m.rng), m)
	m.rooms[id] = r
	m.logger.Info("Room created", "room", id, "players", cfg.PlayerCount, "chips", cfg.StartingChips)
	return r, nil
}

// HostRoom creates a room and seats its creator, who receives room-created
// instead of player-joined.
func (m *Manager) HostRoom(cfg Config, connID, name string) (*Room, Player, error) {
	m.mu.RLock()
	_, seated := m.members[connID]
	m.mu.RUnlock()
	if seated {
		return nil, Player{}, ErrAlreadySeated
	}

	r, err := m.CreateRoom(cfg)
	if err != nil {
		return nil, Player{}, err
	}
	p, err := m.join(r.ID(), connID, name, true)
	if err != nil {
		m.remove(r)
		return nil, Player{}, err
	}
	return r, p, nil
}

// JoinRoom seats connID in roomID with the room's starting stack.
func (m *Manager) JoinRoom(roomID, connID, name string) (Player, error) {
	return m.join(roomID, connID, name, false)
}

func (m *Manager) join(roomID, connID, name string, host bool) (Player, error) {
	m.mu.Lock()
	if _, ok := m.members[connID]; ok {
		m.mu.Unlock()
		return Player{}, ErrAlreadySeated
	}
	r, ok := m.rooms[roomID]
	if !ok {
		m.mu.Unlock()
		return Player{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	m.members[connID] = roomID
	m.mu.Unlock()

	p, err := r.join(connID, name, host)
	if err != nil {
		m.mu.Lock()
		if m.members[connID] == roomID {
			delete(m.members, connID)
		}
		m.mu.Unlock()
		return Player{}, err
	}
	return p, nil
}

// LeaveRoom removes connID from its room, destroying the room once nobody
// is left in it.
func (m *Manager) LeaveRoom(connID string) error {
	m.mu.Lock()
	roomID, ok := m.members[connID]
	delete(m.members, connID)
	r := m.rooms[roomID]
	m.mu.Unlock()

	if !ok {
		return ErrNotInRoom
	}
	if r == nil {
		return nil
	}
	if empty := r.leave(connID); empty {
		m.remove(r)
	}
	return nil
}

// SetReady marks connID ready and starts a hand when everyone is.
func (m *Manager) SetReady(connID string) error {
	r, err := m.roomOf(connID)
	if err != nil {
		return err
	}
	return r.setReady(connID)
}

// Act applies a betting action for connID.
func (m *Manager) Act(connID string, action game.Action) error {
	r, err := m.roomOf(connID)
	if err != nil {
		return err
	}
	return r.act(connID, action)
}

// Room returns the room with id.
func (m *Manager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomOf returns the id of the room connID sits in.
func (m *Manager) RoomOf(connID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.members[connID]
	return id, ok
}

// Rooms lists every room ordered by id.
func (m *Manager) Rooms() []Summary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close shuts every room down and empties the registry.
func (m *Manager) Close() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*Room)
	m.members = make(map[string]string)
	m.mu.Unlock()

	for _, r := range rooms {
		r.mu.Lock()
		r.close()
		r.mu.Unlock()
	}
}

func (m *Manager) roomOf(connID string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.members[connID]
	if !ok {
		return nil, ErrNotInRoom
	}
	r, ok := m.rooms[id]
	if !ok {
		return nil, ErrNotInRoom
	}
	return r, nil
}

func (m *Manager) remove(r *Room) {
	r.mu.Lock()
	r.close()
	r.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.id] == r {
		delete(m.rooms, r.id)
		m.logger.Info("Room closed", "room", r.id)
	}
}

// allocateID picks a free four digit id: random draws first, then a scan
// from a random offset. Callers hold m.mu.
func (m *Manager) allocateID() (string, error) {
	span := m.idMax - m.idMin + 1
	for range randomIDAttempts {
		id := strconv.Itoa(m.idMin + m.rng.IntN(span))
		if _, taken := m.rooms[id]; !taken {
			return id, nil
		}
	}
	start := m.rng.IntN(span)
	for i := range span {
		id := strconv.Itoa(m.idMin + (start+i)%span)
		if _, taken := m.rooms[id]; !taken {
			return id, nil
		}
	}
	return "", ErrNoRoomIDs
}
