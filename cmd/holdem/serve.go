package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-rooms/internal/history"
	"github.com/lox/holdem-rooms/internal/randutil"
	"github.com/lox/holdem-rooms/internal/room"
	"github.com/lox/holdem-rooms/internal/transport"
)

// ServeCmd runs the room server. Flags override the config file.
type ServeCmd struct {
	Addr        string         `help:"Listen address, e.g. :8080"`
	TurnTimeout *time.Duration `help:"Time a player has to act, 0 disables"`
	HistoryFile *string        `help:"File to persist hand history to, empty keeps it in memory"`
	Seed        *int64         `help:"Deterministic RNG seed (optional)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Level())

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}
	timeout := cfg.TurnTimeout()
	if c.TurnTimeout != nil {
		timeout = *c.TurnTimeout
	}
	historyFile := cfg.Server.HistoryFile
	if c.HistoryFile != nil {
		historyFile = *c.HistoryFile
	}

	rng := randutil.NewTimeSeeded()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	}

	hist, err := history.Open(historyFile, cfg.Server.HistoryLimit, logger)
	if err != nil {
		return err
	}

	srv := transport.NewServer(addr, logger)
	rooms := room.NewManager(logger, room.Options{
		RNG:         rng,
		TurnTimeout: timeout,
		History:     hist,
		Notifier:    srv,
		Defaults:    cfg.RoomDefaults(),
	})
	defer rooms.Close()
	srv.SetRoomManager(rooms)

	defaults := cfg.RoomDefaults()
	logger.Info("Starting holdem server",
		"addr", addr,
		"players", defaults.PlayerCount,
		"starting_chips", defaults.StartingChips,
		"small_blind", defaults.SmallBlind,
		"big_blind", defaults.BigBlind,
		"turn_timeout", timeout,
		"history", historyFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
