// Package local runs games in-process: one or two humans sharing a
// terminal against computer opponents on a single table.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/ai"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/history"
	"github.com/lox/holdem-rooms/internal/randutil"
)

const (
	MaxHumans = 2
	MaxSeats  = 4
)

var (
	// ErrQuit is returned by a HumanInput to end the session.
	ErrQuit = errors.New("player quit")

	ErrInvalidSeating = errors.New("invalid seating")
)

// HumanInput supplies the decisions of human seats. Decide is called with
// the acting player's view, which includes only that player's hole cards.
type HumanInput interface {
	Decide(ctx context.Context, playerID string, view game.TableView, valid []game.ActionKind) (game.Action, error)
	Rejected(playerID string, action game.Action, err error)
}

// Options configures a session.
type Options struct {
	Humans        []string
	Opponents     int
	Difficulty    ai.Difficulty
	StartingChips int
	Blinds        game.Config
	ThinkDelay    time.Duration
	Clock         quartz.Clock
	RNG           *rand.Rand
	History       *history.Log
	Observer      game.EventSubscriber
}

// Session is a running local game.
type Session struct {
	logger  *log.Logger
	table   *game.Table
	input   HumanInput
	agents  map[string]*ai.Agent
	humans  []string
	history *history.Log
	clock   quartz.Clock
}

// New seats the humans first, then the computer opponents.
func New(logger *log.Logger, input HumanInput, opts Options) (*Session, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: human input is required", ErrInvalidSeating)
	}
	if len(opts.Humans) < 1 || len(opts.Humans) > MaxHumans {
		return nil, fmt.Errorf("%w: need 1 to %d humans, got %d", ErrInvalidSeating, MaxHumans, len(opts.Humans))
	}
	if seats := len(opts.Humans) + opts.Opponents; opts.Opponents < 0 || seats < 2 || seats > MaxSeats {
		return nil, fmt.Errorf("%w: need 2 to %d seats, got %d", ErrInvalidSeating, MaxSeats, seats)
	}
	if opts.StartingChips <= 0 {
		opts.StartingChips = 1000
	}
	if opts.Blinds == (game.Config{}) {
		opts.Blinds = game.DefaultConfig()
	}
	if opts.Difficulty == "" {
		opts.Difficulty = ai.Easy
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.RNG == nil {
		opts.RNG = randutil.NewTimeSeeded()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		logger:  logger.WithPrefix("local"),
		input:   input,
		agents:  make(map[string]*ai.Agent),
		history: opts.History,
		clock:   opts.Clock,
	}
	s.table = game.NewTable(randutil.Child(opts.RNG), opts.Blinds, game.WithClock(opts.Clock))
	if opts.Observer != nil {
		s.table.Bus().Subscribe(opts.Observer)
	}

	for i, name := range opts.Humans {
		id := fmt.Sprintf("human-%d", i+1)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		if err := s.table.AddPlayer(id, name, opts.StartingChips, ""); err != nil {
			return nil, err
		}
		s.humans = append(s.humans, id)
	}
	for i := range opts.Opponents {
		id := fmt.Sprintf("ai-%d", i+1)
		name := fmt.Sprintf("AI Player %d", i+1)
		if err := s.table.AddPlayer(id, name, opts.StartingChips, string(opts.Difficulty)); err != nil {
			return nil, err
		}
		strategy := ai.New(opts.Difficulty, randutil.Child(opts.RNG))
		s.agents[id] = ai.NewAgent(strategy, opts.Clock, opts.ThinkDelay)
	}
	return s, nil
}

// Humans returns the ids of the human seats.
func (s *Session) Humans() []string {
	return append([]string(nil), s.humans...)
}

// View returns the table as playerID sees it.
func (s *Session) View(playerID string) game.TableView {
	return s.table.ViewFor(playerID)
}

// PlayHand deals one hand and drives it to the end.
func (s *Session) PlayHand(ctx context.Context) (game.HandSummary, error) {
	if err := s.table.StartHand(); err != nil {
		return game.HandSummary{}, err
	}

	for s.table.InProgress() {
		id, ok := s.table.CurrentPlayer()
		if !ok {
			return game.HandSummary{}, fmt.Errorf("hand %d stalled in %s", s.table.PublicView().HandNumber, s.table.Phase())
		}
		if err := s.turn(ctx, id); err != nil {
			return game.HandSummary{}, err
		}
	}

	summary, _ := s.table.LastHand()
	s.record(summary)
	return summary, nil
}

func (s *Session) turn(ctx context.Context, id string) error {
	agent, isAI := s.agents[id]
	if !isAI {
		action, err := s.input.Decide(ctx, id, s.table.ViewFor(id), s.table.ValidActions())
		if err != nil {
			return err
		}
		if err := s.table.Apply(id, action); err != nil {
			s.input.Rejected(id, action, err)
		}
		return nil
	}

	situation, _ := ai.SituationFor(s.table.ViewFor(id), id)
	action, err := agent.Act(ctx, situation)
	if err != nil {
		return err
	}
	if err := s.table.Apply(id, action); err != nil {
		s.logger.Warn("Computer action rejected, folding", "player", id, "action", action, "error", err)
		return s.table.ForceFold(id)
	}
	return nil
}

// Run plays hands until fewer than two players have chips, every human is
// broke, or next returns false.
func (s *Session) Run(ctx context.Context, next func(game.HandSummary) bool) error {
	for {
		summary, err := s.PlayHand(ctx)
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			return nil
		}
		if err != nil {
			return err
		}
		if !s.humansFunded() {
			return nil
		}
		if next != nil && !next(summary) {
			return nil
		}
	}
}

func (s *Session) humansFunded() bool {
	view := s.table.PublicView()
	for _, id := range s.humans {
		if p, ok := view.Player(id); ok && p.Chips > 0 {
			return true
		}
	}
	return false
}

func (s *Session) record(summary game.HandSummary) {
	if s.history == nil {
		return
	}
	now := s.clock.Now()
	var records []history.Record
	for _, id := range s.humans {
		if rec, ok := history.FromSummary(summary, "", id, now); ok {
			records = append(records, rec)
		}
	}
	if err := s.history.Append(records...); err != nil {
		s.logger.Error("Failed to write history", "error", err)
	}
}
