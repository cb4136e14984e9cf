package ai

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/game"
)

// DefaultThinkDelay is how long a computer seat pauses before acting.
const DefaultThinkDelay = time.Second

// Agent drives one seat with a strategy and an artificial think delay.
type Agent struct {
	strategy Strategy
	clock    quartz.Clock
	delay    time.Duration
}

// NewAgent wraps strategy. A non-positive delay makes the agent act at once.
func NewAgent(strategy Strategy, clock quartz.Clock, delay time.Duration) *Agent {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Agent{strategy: strategy, clock: clock, delay: delay}
}

// Schedule decides after the think delay and hands the action to fn. The
// returned stop function cancels a pending decision.
func (a *Agent) Schedule(s Situation, fn func(game.Action)) (stop func() bool) {
	if a.delay <= 0 {
		fn(a.strategy.Decide(s))
		return func() bool { return false }
	}
	timer := a.clock.AfterFunc(a.delay, func() {
		fn(a.strategy.Decide(s))
	}, "ai", "think")
	return func() bool { return timer.Stop() }
}

// Act blocks for the think delay and returns the decision, or the context
// error if ctx ends first.
func (a *Agent) Act(ctx context.Context, s Situation) (game.Action, error) {
	decided := make(chan game.Action, 1)
	stop := a.Schedule(s, func(action game.Action) {
		decided <- action
	})
	defer stop()

	select {
	case action := <-decided:
		return action, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
