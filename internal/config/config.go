// Package config loads the HCL configuration shared by the serve and play
// commands.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-rooms/internal/ai"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
	"github.com/lox/holdem-rooms/internal/local"
	"github.com/lox/holdem-rooms/internal/room"
)

// Config represents the complete configuration
type Config struct {
	Server ServerSettings
	Game   GameSettings
	Play   PlaySettings
}

// ServerSettings configures the room server. A zero turn timeout disables
// turn timers, so it is a pointer to tell "unset" apart.
type ServerSettings struct {
	Address            string `hcl:"address,optional"`
	Port               int    `hcl:"port,optional"`
	LogLevel           string `hcl:"log_level,optional"`
	TurnTimeoutSeconds *int   `hcl:"turn_timeout_seconds,optional"`
	HistoryFile        string `hcl:"history_file,optional"`
	HistoryLimit       int    `hcl:"history_limit,optional"`
}

// GameSettings are the table defaults for rooms and local games
type GameSettings struct {
	PlayerCount   int  `hcl:"player_count,optional"`
	SmallBlind    int  `hcl:"small_blind,optional"`
	BigBlind      int  `hcl:"big_blind,optional"`
	StartingChips int  `hcl:"starting_chips,optional"`
	AIDelayMS     *int `hcl:"ai_delay_ms,optional"`
}

// PlaySettings seat a local game
type PlaySettings struct {
	Players    []string `hcl:"players,optional"`
	Opponents  int      `hcl:"opponents,optional"`
	Difficulty string   `hcl:"difficulty,optional"`
}

// fileConfig is the shape of the file; every block is optional.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
	Play   *PlaySettings   `hcl:"play,block"`
}

func intPtr(v int) *int { return &v }

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:            "localhost",
			Port:               8080,
			LogLevel:           "info",
			TurnTimeoutSeconds: intPtr(int(room.DefaultTurnTimeout / time.Second)),
			HistoryFile:        "hand-history.json",
			HistoryLimit:       history.DefaultLimit,
		},
		Game: GameSettings{
			PlayerCount:   room.DefaultConfig().PlayerCount,
			SmallBlind:    room.DefaultConfig().SmallBlind,
			BigBlind:      room.DefaultConfig().BigBlind,
			StartingChips: room.DefaultConfig().StartingChips,
			AIDelayMS:     intPtr(800),
		},
		Play: PlaySettings{
			Players:    []string{"You"},
			Opponents:  2,
			Difficulty: string(ai.Medium),
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. Absent blocks and attributes take defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if fc.Server != nil {
		cfg.Server = mergeServer(*fc.Server, cfg.Server)
	}
	if fc.Game != nil {
		cfg.Game = mergeGame(*fc.Game, cfg.Game)
	}
	if fc.Play != nil {
		cfg.Play = mergePlay(*fc.Play, cfg.Play)
	}
	return cfg, nil
}

func mergeServer(s, d ServerSettings) ServerSettings {
	if s.Address == "" {
		s.Address = d.Address
	}
	if s.Port == 0 {
		s.Port = d.Port
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.TurnTimeoutSeconds == nil {
		s.TurnTimeoutSeconds = d.TurnTimeoutSeconds
	}
	if s.HistoryFile == "" {
		s.HistoryFile = d.HistoryFile
	}
	if s.HistoryLimit == 0 {
		s.HistoryLimit = d.HistoryLimit
	}
	return s
}

func mergeGame(g, d GameSettings) GameSettings {
	if g.PlayerCount == 0 {
		g.PlayerCount = d.PlayerCount
	}
	if g.SmallBlind == 0 {
		g.SmallBlind = d.SmallBlind
	}
	if g.BigBlind == 0 {
		g.BigBlind = d.BigBlind
	}
	if g.StartingChips == 0 {
		g.StartingChips = d.StartingChips
	}
	if g.AIDelayMS == nil {
		g.AIDelayMS = d.AIDelayMS
	}
	return g
}

func mergePlay(p, d PlaySettings) PlaySettings {
	if len(p.Players) == 0 {
		p.Players = d.Players
	}
	if p.Opponents == 0 {
		p.Opponents = d.Opponents
	}
	if p.Difficulty == "" {
		p.Difficulty = d.Difficulty
	}
	return p
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.TurnTimeout() < 0 {
		return fmt.Errorf("turn timeout must not be negative: %ds", *c.Server.TurnTimeoutSeconds)
	}
	if c.Server.HistoryLimit < 0 {
		return fmt.Errorf("history limit must not be negative: %d", c.Server.HistoryLimit)
	}
	if err := c.RoomDefaults().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.AIDelay() < 0 {
		return fmt.Errorf("ai delay must not be negative: %dms", *c.Game.AIDelayMS)
	}

	if n := len(c.Play.Players); n < 1 || n > local.MaxHumans {
		return fmt.Errorf("play: need 1 to %d players, got %d", local.MaxHumans, n)
	}
	if seats := len(c.Play.Players) + c.Play.Opponents; c.Play.Opponents < 0 || seats < 2 || seats > local.MaxSeats {
		return fmt.Errorf("play: need 2 to %d seats, got %d", local.MaxSeats, seats)
	}
	if _, err := ai.ParseDifficulty(c.Play.Difficulty); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Address returns the listen address of the server
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// TurnTimeout is how long a room waits for a player; zero disables it.
func (c *Config) TurnTimeout() time.Duration {
	if c.Server.TurnTimeoutSeconds == nil {
		return room.DefaultTurnTimeout
	}
	return time.Duration(*c.Server.TurnTimeoutSeconds) * time.Second
}

// AIDelay is how long computer opponents think before acting.
func (c *Config) AIDelay() time.Duration {
	if c.Game.AIDelayMS == nil {
		return 0
	}
	return time.Duration(*c.Game.AIDelayMS) * time.Millisecond
}

// RoomDefaults fills zero fields of rooms created without them.
func (c *Config) RoomDefaults() room.Config {
	return room.Config{
		PlayerCount:   c.Game.PlayerCount,
		StartingChips: c.Game.StartingChips,
		SmallBlind:    c.Game.SmallBlind,
		BigBlind:      c.Game.BigBlind,
	}
}

// Blinds returns the blind levels for local tables.
func (c *Config) Blinds() game.Config {
	return game.Config{SmallBlind: c.Game.SmallBlind, BigBlind: c.Game.BigBlind}
}
