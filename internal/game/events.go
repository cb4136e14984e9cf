package game

import (
	"sync"
	"time"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/evaluator"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeHandStarted  EventType = "hand_started"
	EventTypeTurnChanged  EventType = "turn_changed"
	EventTypePlayerActed  EventType = "player_acted"
	EventTypePhaseChanged EventType = "phase_changed"
	EventTypeCardsShown   EventType = "cards_shown"
	EventTypeHandEnded    EventType = "hand_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand. Event payloads
// are copies and safe to retain.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartedEvent is published once blinds are posted and cards dealt.
type HandStartedEvent struct {
	HandNumber     int
	Button         int
	SmallBlindSeat int
	BigBlindSeat   int
	Table          TableView
	timestamp      time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.timestamp }

// TurnChangedEvent is published whenever a new player is asked to act.
type TurnChangedEvent struct {
	Seat      int
	PlayerID  string
	ToCall    int
	Phase     Phase
	timestamp time.Time
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }
func (e TurnChangedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActedEvent is published after an accepted action. Amount is the
// number of chips moved by the action. Forced marks folds applied on a
// player's behalf (disconnect or timeout).
type PlayerActedEvent struct {
	PlayerID   string
	Seat       int
	Action     ActionKind
	Amount     int
	Pot        int
	CurrentBet int
	Forced     bool
	Table      TableView
	timestamp  time.Time
}

func (e PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }
func (e PlayerActedEvent) Timestamp() time.Time { return e.timestamp }

// PhaseChangedEvent is published when a new street begins.
type PhaseChangedEvent struct {
	Phase          Phase
	CommunityCards []deck.Card
	Pot            int
	CurrentBet     int
	CurrentSeat    int
	Table          TableView
	timestamp      time.Time
}

func (e PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }
func (e PhaseChangedEvent) Timestamp() time.Time { return e.timestamp }

// CardsShownEvent reveals a contender's hole cards at showdown.
type CardsShownEvent struct {
	PlayerID  string
	Seat      int
	Cards     []deck.Card
	Hand      evaluator.Result
	timestamp time.Time
}

func (e CardsShownEvent) EventType() EventType { return EventTypeCardsShown }
func (e CardsShownEvent) Timestamp() time.Time { return e.timestamp }

// HandEndedEvent is published after the pot has been awarded.
type HandEndedEvent struct {
	Summary   HandSummary
	Table     TableView
	timestamp time.Time
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
func (e HandEndedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Subscribers must be comparable.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := append([]EventSubscriber(nil), bus.subscribers...)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// EventRecorder collects every event it receives, for tests and replays.
type EventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *EventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GameEvent(nil), r.events...)
}

// Types returns the types of the recorded events in order.
func (r *EventRecorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

// Reset drops recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
