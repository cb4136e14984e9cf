package room

import (
	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/game"
)

// MessageType names an outbound message on the wire.
type MessageType string

const (
	MessageTypeRoomCreated        MessageType = "room-created"
	MessageTypePlayerJoined       MessageType = "player-joined"
	MessageTypeRoomFull           MessageType = "room-full"
	MessageTypePlayerReadyChanged MessageType = "player-ready-changed"
	MessageTypeGameStarted        MessageType = "game-started"
	MessageTypeCurrentPlayer      MessageType = "current-player-changed"
	MessageTypePlayerActed        MessageType = "player-acted"
	MessageTypePhaseChanged       MessageType = "phase-changed"
	MessageTypeShowCards          MessageType = "show-cards"
	MessageTypeGameEnded          MessageType = "game-ended"
	MessageTypePlayerLeft         MessageType = "player-left"
	MessageTypePlayerTimeout      MessageType = "player-timeout"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Outbound is a message addressed to one connection.
type Outbound struct {
	Type MessageType
	Data any
}

// Notifier delivers outbound messages. Rooms call Notify while holding
// their lock, so implementations must not block or call back into the
// manager.
type Notifier interface {
	Notify(connID string, msg Outbound)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(connID string, msg Outbound)

func (f NotifierFunc) Notify(connID string, msg Outbound) { f(connID, msg) }

type discardNotifier struct{}

func (discardNotifier) Notify(string, Outbound) {}

// Player is the public projection of a seat.
type Player struct {
	game.PlayerView
	IsReady   bool `json:"isReady"`
	Connected bool `json:"connected"`
}

type RoomCreatedData struct {
	RoomID   string   `json:"roomId"`
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

type PlayerJoinedData struct {
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type RoomFullData struct {
	Players []Player `json:"players"`
}

type PlayerReadyChangedData struct {
	PlayerID string `json:"playerId"`
	IsReady  bool   `json:"isReady"`
}

type GameStartedData struct {
	HandNumber         int         `json:"handNumber"`
	GamePhase          game.Phase  `json:"gamePhase"`
	CommunityCards     []deck.Card `json:"communityCards"`
	Pot                int         `json:"pot"`
	CurrentBet         int         `json:"currentBet"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	DealerIndex        int         `json:"dealerIndex"`
	Players            []Player    `json:"players"`
	YourCards          []deck.Card `json:"yourCards"`
}

type CurrentPlayerData struct {
	PlayerIndex int    `json:"playerIndex"`
	PlayerID    string `json:"playerId"`
	ToCall      int    `json:"toCall"`
}

type PlayerActedData struct {
	PlayerID   string          `json:"playerId"`
	Action     game.ActionKind `json:"action"`
	Amount     int             `json:"amount"`
	Pot        int             `json:"pot"`
	CurrentBet int             `json:"currentBet"`
	Forced     bool            `json:"forced,omitempty"`
	Players    []Player        `json:"players"`
}

type PhaseChangedData struct {
	GamePhase          game.Phase  `json:"gamePhase"`
	CommunityCards     []deck.Card `json:"communityCards"`
	Pot                int         `json:"pot"`
	CurrentBet         int         `json:"currentBet"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	Players            []Player    `json:"players"`
}

type ShowCardsData struct {
	PlayerID string      `json:"playerId"`
	Cards    []deck.Card `json:"cards"`
	HandRank string      `json:"handRank"`
}

type WinnerData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	HandRank string `json:"handRank,omitempty"`
}

type GameEndedData struct {
	HandNumber int          `json:"handNumber"`
	Winner     []WinnerData `json:"winner"`
	Pot        int          `json:"pot"`
	Showdown   bool         `json:"showdown"`
	Players    []Player     `json:"players"`
}

type PlayerLeftData struct {
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

type PlayerTimeoutData struct {
	PlayerID       string `json:"playerId"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}
