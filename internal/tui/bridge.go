package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/local"
)

// Bridge connects a local session running on its own goroutine to the
// program. It is the session's HumanInput and event observer; the model
// feeds typed lines back through it.
type Bridge struct {
	send  func(tea.Msg)
	lines chan string
	quit  chan struct{}
	once  sync.Once
}

type (
	eventMsg struct{ event game.GameEvent }

	turnMsg struct {
		playerID string
		view     game.TableView
		valid    []game.ActionKind
	}

	noticeMsg struct {
		text string
		err  bool
	}

	handOverMsg struct{ summary game.HandSummary }

	finishedMsg struct{ err error }
)

// NewBridge creates a bridge. Messages are dropped until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{
		send:  func(tea.Msg) {},
		lines: make(chan string, 1),
		quit:  make(chan struct{}),
	}
}

// Attach routes messages to p. Call it before the session starts.
func (b *Bridge) Attach(p *tea.Program) {
	b.send = p.Send
}

// OnEvent forwards game events to the program.
func (b *Bridge) OnEvent(event game.GameEvent) {
	b.send(eventMsg{event: event})
}

// Decide prompts for playerID and waits for a line that parses into an
// action. Unparseable lines are reported and the prompt repeats.
func (b *Bridge) Decide(ctx context.Context, playerID string, view game.TableView, valid []game.ActionKind) (game.Action, error) {
	for {
		b.send(turnMsg{playerID: playerID, view: view, valid: valid})

		line, err := b.readLine(ctx)
		if err != nil {
			return nil, err
		}
		action, err := ParseInput(line, view, playerID)
		if errors.Is(err, errQuitCommand) {
			return nil, local.ErrQuit
		}
		if err != nil {
			b.send(noticeMsg{text: err.Error(), err: true})
			continue
		}
		return action, nil
	}
}

// Rejected reports an action the table refused.
func (b *Bridge) Rejected(_ string, action game.Action, err error) {
	b.send(noticeMsg{text: "Cannot " + action.String() + ": " + err.Error(), err: true})
}

// Continue shows the end of a hand and waits for the player to start the
// next one. It returns false when they quit.
func (b *Bridge) Continue(ctx context.Context, summary game.HandSummary) bool {
	b.send(handOverMsg{summary: summary})
	line, err := b.readLine(ctx)
	return err == nil && !isQuit(line)
}

// Finish tells the program the session is over.
func (b *Bridge) Finish(err error) {
	b.send(finishedMsg{err: err})
}

// Quit unblocks any pending prompt with local.ErrQuit.
func (b *Bridge) Quit() {
	b.once.Do(func() { close(b.quit) })
}

func (b *Bridge) submit(line string) bool {
	select {
	case b.lines <- line:
		return true
	default:
		return false
	}
}

func (b *Bridge) readLine(ctx context.Context) (string, error) {
	select {
	case line := <-b.lines:
		return line, nil
	case <-b.quit:
		return "", local.ErrQuit
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
