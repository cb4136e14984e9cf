package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/room"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBufferSize = 256
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	rooms     *room.Manager
}

// NewConnection creates a new connection wrapper
func NewConnection(id string, conn *websocket.Conn, logger *log.Logger, rooms *room.Manager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, sendBufferSize),
		logger: logger.WithPrefix("conn").With("conn", id),
		ctx:    ctx,
		cancel: cancel,
		rooms:  rooms,
	}
}

// ID returns the connection id rooms address this client by.
func (c *Connection) ID() string {
	return c.id
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. It never blocks: a client
// that cannot keep up with its buffer is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if !c.decode(msg, &data) {
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if !c.decode(msg, &data) {
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeLeaveRoom:
		if err := c.rooms.LeaveRoom(c.id); err != nil {
			c.sendError(err)
		}

	case MessageTypePlayerReady:
		if err := c.rooms.SetReady(c.id); err != nil {
			c.sendError(err)
		}

	case MessageTypePlayerAction:
		var data PlayerActionData
		if !c.decode(msg, &data) {
			return
		}
		c.handlePlayerAction(data)

	default:
		c.sendErrorCode("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// decode unmarshals the payload, tolerating an absent data field.
func (c *Connection) decode(msg *Message, v any) bool {
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendErrorCode("invalid_message", "Failed to parse "+msg.Type.String()+" data")
		return false
	}
	return true
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	c.logger.Info("Create room request", "player", data.PlayerName, "players", data.PlayerCount)

	cfg := room.Config{PlayerCount: data.PlayerCount, StartingChips: data.StartingChips}
	if _, _, err := c.rooms.HostRoom(cfg, c.id, data.PlayerName); err != nil {
		c.sendError(err)
	}
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	c.logger.Info("Join room request", "room", data.RoomID, "player", data.PlayerName)

	if _, err := c.rooms.JoinRoom(data.RoomID, c.id, data.PlayerName); err != nil {
		c.sendError(err)
	}
}

func (c *Connection) handlePlayerAction(data PlayerActionData) {
	c.logger.Debug("Player action", "action", data.Type, "amount", data.Amount)

	action, err := game.ParseAction(data.Type, data.Amount)
	if err != nil {
		c.sendError(err)
		return
	}
	if err := c.rooms.Act(c.id, action); err != nil {
		c.sendError(err)
	}
}

func (c *Connection) sendError(err error) {
	c.sendErrorCode(errorCode(err), err.Error())
}

// sendErrorCode sends an error message to the client
func (c *Connection) sendErrorCode(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, room.ErrRoomFull):
		return "room_full"
	case errors.Is(err, room.ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, room.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, room.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, room.ErrNoRoomIDs):
		return "no_rooms_available"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, game.ErrHandInProgress):
		return "hand_in_progress"
	case errors.Is(err, game.ErrNoHandInProgress):
		return "no_hand_in_progress"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	default:
		return "internal_error"
	}
}
