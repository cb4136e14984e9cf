package transport

import (
	"encoding/json"
	"time"
)

// MessageType represents a WebSocket message type
type MessageType string

const (
	// Client to server messages
	MessageTypeCreateRoom   MessageType = "create-room"
	MessageTypeJoinRoom     MessageType = "join-room"
	MessageTypeLeaveRoom    MessageType = "leave-room"
	MessageTypePlayerReady  MessageType = "player-ready"
	MessageTypePlayerAction MessageType = "player-action"

	// Server to client messages not produced by rooms
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	PlayerCount   int    `json:"playerCount"`
	StartingChips int    `json:"startingChips"`
	PlayerName    string `json:"playerName"`
}

type JoinRoomData struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type PlayerActionData struct {
	Type   string `json:"type"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
