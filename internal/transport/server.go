// Package transport serves rooms over WebSockets. Each connection carries
// JSON envelopes of {type, data, timestamp}; inbound messages are routed to
// the room manager and room output is delivered through Notify.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-rooms/internal/room"
)

const shutdownTimeout = 5 * time.Second

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	logger      *log.Logger
	rooms       *room.Manager
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewServer creates a new WebSocket server. A room manager must be attached
// with SetRoomManager before serving.
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[string]*Connection),
	}
}

// SetRoomManager sets the manager inbound messages are routed to
func (s *Server) SetRoomManager(rooms *room.Manager) {
	s.rooms = rooms
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.rooms == nil {
		return errors.New("server has no room manager")
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		s.Stop()
		return err
	})
	return g.Wait()
}

// Stop closes every open connection
func (s *Server) Stop() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for _, conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// Notify delivers a room message to one connection. Unknown connections
// are ignored; they have already disconnected.
func (s *Server) Notify(connID string, out room.Outbound) {
	s.mu.RLock()
	conn, ok := s.connections[connID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	msg, err := NewMessage(MessageType(out.Type), out.Data)
	if err != nil {
		s.logger.Error("Failed to encode message", "type", out.Type, "error", err)
		return
	}
	if err := conn.SendMessage(msg); err != nil {
		s.logger.Debug("Failed to send message", "conn", connID, "type", out.Type, "error", err)
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.rooms == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(uuid.NewString(), conn, s.logger, s.rooms)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func (s *Server) register(c *Connection) {
	s.mu.Lock()
	s.connections[c.ID()] = c
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", c.ID(), "total", total)
}

// unregister forgets the connection and takes it out of its room. The room
// call happens after releasing s.mu because rooms call Notify under their
// own lock.
func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	_, ok := s.connections[c.ID()]
	delete(s.connections, c.ID())
	total := len(s.connections)
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.rooms.LeaveRoom(c.ID()); err != nil && !errors.Is(err, room.ErrNotInRoom) {
		s.logger.Error("Failed to remove disconnected player", "conn", c.ID(), "error", err)
	}
	s.logger.Info("Client disconnected", "conn", c.ID(), "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

type roomsResponse struct {
	Rooms       []room.Summary `json:"rooms"`
	Connections int            `json:"connections"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := roomsResponse{Rooms: []room.Summary{}, Connections: s.ConnectionCount()}
	if s.rooms != nil {
		resp.Rooms = s.rooms.Rooms()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode rooms", "error", err)
	}
}
