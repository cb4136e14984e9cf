package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/holdem-rooms/internal/ai"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
	"github.com/lox/holdem-rooms/internal/local"
	"github.com/lox/holdem-rooms/internal/randutil"
	"github.com/lox/holdem-rooms/internal/tui"
)

// PlayCmd runs a local table in the terminal. Flags override the config
// file's play and game blocks.
type PlayCmd struct {
	Players    []string `short:"p" help:"Human player names, one or two for hot-seat play"`
	Opponents  *int     `short:"o" help:"Number of computer opponents"`
	Difficulty string   `short:"d" help:"Opponent difficulty (easy, medium, hard)"`
	Chips      int      `help:"Starting chips per player"`
	Seed       *int64   `help:"Deterministic RNG seed (optional)"`
	LogFile    string   `help:"Write debug logs to this file"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if len(c.Players) > 0 {
		cfg.Play.Players = c.Players
	}
	if c.Opponents != nil {
		cfg.Play.Opponents = *c.Opponents
	}
	if c.Difficulty != "" {
		cfg.Play.Difficulty = c.Difficulty
	}
	if c.Chips > 0 {
		cfg.Game.StartingChips = c.Chips
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	difficulty, err := ai.ParseDifficulty(cfg.Play.Difficulty)
	if err != nil {
		return err
	}

	w, closeLog, err := openLogFile(c.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(w, cfg.Level())

	hist, err := history.Open(cfg.Server.HistoryFile, cfg.Server.HistoryLimit, logger)
	if err != nil {
		return err
	}

	rng := randutil.NewTimeSeeded()
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	}

	bridge := tui.NewBridge()
	session, err := local.New(logger, bridge, local.Options{
		Humans:        cfg.Play.Players,
		Opponents:     cfg.Play.Opponents,
		Difficulty:    difficulty,
		StartingChips: cfg.Game.StartingChips,
		Blinds:        cfg.Blinds(),
		ThinkDelay:    cfg.AIDelay(),
		RNG:           rng,
		History:       hist,
		Observer:      bridge,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(logger, bridge), tea.WithAltScreen())
	bridge.Attach(program)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := session.Run(ctx, func(summary game.HandSummary) bool {
			return bridge.Continue(ctx, summary)
		})
		if err != nil {
			logger.Info("Session ended", "error", err)
		}
		bridge.Finish(err)
	}()

	logger.Info("Starting local game", "humans", cfg.Play.Players, "opponents", cfg.Play.Opponents, "difficulty", difficulty)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
