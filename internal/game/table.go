package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/deck"
)

// Config holds the blind structure of a table.
type Config struct {
	SmallBlind int
	BigBlind   int
}

// DefaultConfig uses 10/20 blinds.
func DefaultConfig() Config {
	return Config{SmallBlind: 10, BigBlind: 20}
}

// Table owns the seats and runs one hand at a time. Seat order is turn order.
type Table struct {
	cfg   Config
	deck  *deck.Deck
	bus   EventBus
	clock quartz.Clock

	players     []*Player
	button      int
	fixedButton bool
	handNumber  int
	phase       Phase
	community   []deck.Card
	pot         int
	currentBet  int
	current     int
	last        *HandSummary
}

// NewTable creates an idle table. The RNG is required so shuffles are always
// explicit and reproducible in tests.
func NewTable(rng *rand.Rand, cfg Config, opts ...TableOption) *Table {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		panic(fmt.Sprintf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind))
	}

	t := &Table{
		cfg:     cfg,
		button:  -1,
		phase:   PhaseIdle,
		current: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.deck == nil {
		t.deck = deck.New(rng)
	}
	if t.bus == nil {
		t.bus = NewEventBus()
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	return t
}

// Bus returns the bus the table publishes on.
func (t *Table) Bus() EventBus {
	return t.bus
}

// Config returns the blind structure.
func (t *Table) Config() Config {
	return t.cfg
}

// Phase returns the current phase
func (t *Table) Phase() Phase {
	return t.phase
}

// InProgress reports whether a hand is being played.
func (t *Table) InProgress() bool {
	return t.phase.Betting()
}

// LastHand returns the summary of the most recently finished hand.
func (t *Table) LastHand() (HandSummary, bool) {
	if t.last == nil {
		return HandSummary{}, false
	}
	return *t.last, true
}

// NumPlayers returns the number of seats taken.
func (t *Table) NumPlayers() int {
	return len(t.players)
}

// Players returns public views of every seat.
func (t *Table) Players() []PlayerView {
	return t.PublicView().Players
}

// AddPlayer seats a new player at the end of the turn order. Players added
// during a hand sit out until the next one.
func (t *Table) AddPlayer(id, name string, chips int, difficulty string) error {
	if _, p := t.find(id); p != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	p := &Player{
		ID:         id,
		Name:       name,
		Chips:      chips,
		Difficulty: difficulty,
		startChips: chips,
	}
	if t.InProgress() {
		p.Folded = true
		p.SittingOut = true
	}
	t.players = append(t.players, p)
	return nil
}

// RemovePlayer frees a seat. Seats cannot be removed while a hand runs;
// use ForceFold and remove the seat once the hand has ended.
func (t *Table) RemovePlayer(id string) error {
	if t.InProgress() {
		return ErrHandInProgress
	}
	seat, p := t.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	t.players = append(t.players[:seat], t.players[seat+1:]...)
	switch {
	case len(t.players) == 0:
		t.button = -1
	case seat <= t.button:
		// keep the button on the same player, or the seat before the leaver
		t.button = (t.button - 1 + len(t.players)) % len(t.players)
	}
	return nil
}

func (t *Table) find(id string) (int, *Player) {
	for i, p := range t.players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

// StartHand rotates the button, deals two cards to every funded player and
// posts the blinds. Players without chips sit the hand out.
func (t *Table) StartHand() error {
	if t.InProgress() {
		return ErrHandInProgress
	}
	funded := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrNotEnoughPlayers
	}

	t.handNumber++
	t.deck.Reset()
	t.community = nil
	t.pot = 0
	t.currentBet = 0
	t.current = -1
	t.last = nil

	for _, p := range t.players {
		p.resetForHand()
		if p.Chips == 0 {
			p.SittingOut = true
			p.Folded = true
		}
	}

	if t.fixedButton && t.button >= 0 && t.button < len(t.players) && t.players[t.button].Chips > 0 {
		t.fixedButton = false
	} else {
		t.fixedButton = false
		t.button = t.nextFunded(t.button)
	}

	for i := 1; i <= len(t.players); i++ {
		p := t.players[(t.button+i)%len(t.players)]
		if p.SittingOut {
			continue
		}
		p.HoleCards = t.mustDeal(2)
	}

	sb := t.nextFunded(t.button)
	bb := t.nextFunded(sb)
	t.post(sb, t.cfg.SmallBlind)
	t.post(bb, t.cfg.BigBlind)

	t.phase = PhasePreFlop
	settled := t.roundComplete()
	if !settled {
		t.current = t.nextToAct(bb)
	}
	t.bus.Publish(HandStartedEvent{
		HandNumber:     t.handNumber,
		Button:         t.button,
		SmallBlindSeat: sb,
		BigBlindSeat:   bb,
		Table:          t.PublicView(),
		timestamp:      t.clock.Now(),
	})

	if settled {
		t.advance()
		return nil
	}
	t.setTurn(t.current)
	return nil
}

func (t *Table) post(seat, blind int) {
	p := t.players[seat]
	t.pot += p.commit(blind)
	if p.Bet > t.currentBet {
		t.currentBet = p.Bet
	}
}

// nextFunded returns the first seat after from whose player has chips and is
// dealt in.
func (t *Table) nextFunded(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		seat := ((from+i)%n + n) % n
		if p := t.players[seat]; !p.SittingOut && p.Chips > 0 {
			return seat
		}
	}
	return -1
}

func (t *Table) mustDeal(n int) []deck.Card {
	cards, err := t.deck.Deal(n)
	if err != nil {
		// A hand never needs more than 2*players+5 cards.
		panic(err)
	}
	return cards
}

func (t *Table) needsAction(p *Player) bool {
	return p.CanAct() && (!p.HasActed || p.Bet < t.currentBet)
}

// nextToAct returns the first seat after from that still owes an action, or
// -1 when nobody does.
func (t *Table) nextToAct(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if t.needsAction(t.players[seat]) {
			return seat
		}
	}
	return -1
}

// roundComplete reports whether the betting round is closed: every player
// who can still bet has acted and matched the current bet. A lone player
// with chips who already matches the bet has nobody left to bet against.
func (t *Table) roundComplete() bool {
	var actors []*Player
	for _, p := range t.players {
		if p.CanAct() {
			actors = append(actors, p)
		}
	}
	if len(actors) == 1 && actors[0].Bet >= t.currentBet {
		return true
	}
	for _, p := range actors {
		if !p.HasActed || p.Bet < t.currentBet {
			return false
		}
	}
	return true
}

func (t *Table) contenders() []int {
	var seats []int
	for i, p := range t.players {
		if !p.Folded {
			seats = append(seats, i)
		}
	}
	return seats
}

func (t *Table) setTurn(seat int) {
	t.current = seat
	if seat < 0 {
		return
	}
	p := t.players[seat]
	t.bus.Publish(TurnChangedEvent{
		Seat:      seat,
		PlayerID:  p.ID,
		ToCall:    max(t.currentBet-p.Bet, 0),
		Phase:     t.phase,
		timestamp: t.clock.Now(),
	})
}

// CurrentPlayer returns the id of the player whose turn it is.
func (t *Table) CurrentPlayer() (string, bool) {
	if !t.InProgress() || t.current < 0 {
		return "", false
	}
	return t.players[t.current].ID, true
}

// Apply validates and applies an action by playerID. A rejected action
// returns an error wrapping ErrInvalidAction and leaves the table untouched.
func (t *Table) Apply(playerID string, action Action) error {
	if !t.InProgress() {
		return ErrNoHandInProgress
	}
	if action == nil {
		return invalidf("missing action")
	}
	if t.current < 0 || t.players[t.current].ID != playerID {
		return ErrNotYourTurn
	}

	p := t.players[t.current]
	toCall := t.currentBet - p.Bet
	moved := 0

	switch a := action.(type) {
	case Fold:
		p.Folded = true
	case Check:
		if toCall > 0 {
			return invalidf("cannot check facing %d to call", toCall)
		}
	case Call:
		if toCall <= 0 {
			return invalidf("nothing to call")
		}
		moved = p.commit(toCall)
	case Raise:
		if a.Amount <= 0 {
			return invalidf("raise amount must be positive")
		}
		if a.Amount > p.Chips {
			return invalidf("raise of %d exceeds stack of %d", a.Amount, p.Chips)
		}
		if p.Bet+a.Amount <= t.currentBet {
			return invalidf("raise to %d does not exceed current bet %d", p.Bet+a.Amount, t.currentBet)
		}
		moved = p.commit(a.Amount)
		t.reopen(p)
	case AllIn:
		if p.Chips == 0 {
			return invalidf("no chips to go all-in with")
		}
		moved = p.commit(p.Chips)
		if p.Bet > t.currentBet {
			t.reopen(p)
		}
	default:
		return invalidf("unsupported action %T", action)
	}

	t.pot += moved
	p.HasActed = true
	p.LastAction = action.Kind()
	t.publishAction(t.current, action.Kind(), moved, false)
	t.progress()
	return nil
}

// reopen raises the current bet to p's contribution and makes everyone else
// act again.
func (t *Table) reopen(p *Player) {
	t.currentBet = p.Bet
	for _, other := range t.players {
		if other != p {
			other.HasActed = false
		}
	}
}

func (t *Table) publishAction(seat int, kind ActionKind, amount int, forced bool) {
	t.bus.Publish(PlayerActedEvent{
		PlayerID:   t.players[seat].ID,
		Seat:       seat,
		Action:     kind,
		Amount:     amount,
		Pot:        t.pot,
		CurrentBet: t.currentBet,
		Forced:     forced,
		Table:      t.PublicView(),
		timestamp:  t.clock.Now(),
	})
}

// ForceFold folds playerID out of turn, as when the player disconnects or
// runs out of time. Folding an already folded player is a no-op.
func (t *Table) ForceFold(playerID string) error {
	if !t.InProgress() {
		return ErrNoHandInProgress
	}
	seat, p := t.find(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if p.Folded {
		return nil
	}

	p.Folded = true
	p.HasActed = true
	p.LastAction = KindFold
	t.publishAction(seat, KindFold, 0, true)

	if seat == t.current || len(t.contenders()) == 1 || t.roundComplete() {
		t.progress()
	}
	return nil
}

// progress runs after every accepted action: it ends the hand when one
// contender remains, closes the round when betting is settled, or passes
// the turn on.
func (t *Table) progress() {
	if seats := t.contenders(); len(seats) == 1 {
		t.awardUncontested(seats[0])
		return
	}
	if t.roundComplete() {
		t.advance()
		return
	}
	t.setTurn(t.nextToAct(t.current))
}

// advance deals the next street, running the board out while nobody is left
// to bet, and resolves the hand after the river.
func (t *Table) advance() {
	for {
		next, cards := t.phase.next()
		if next == PhaseShowdown {
			t.showdown()
			return
		}

		t.phase = next
		t.community = append(t.community, t.mustDeal(cards)...)
		t.currentBet = 0
		for _, p := range t.players {
			p.resetForStreet()
		}

		settled := t.roundComplete()
		t.current = -1
		if !settled {
			t.current = t.nextToAct(t.button)
		}

		t.bus.Publish(PhaseChangedEvent{
			Phase:          t.phase,
			CommunityCards: append([]deck.Card(nil), t.community...),
			Pot:            t.pot,
			CurrentBet:     t.currentBet,
			CurrentSeat:    t.current,
			Table:          t.PublicView(),
			timestamp:      t.clock.Now(),
		})

		if !settled {
			t.setTurn(t.current)
			return
		}
	}
}

// ValidActions lists the action kinds open to the acting player.
func (t *Table) ValidActions() []ActionKind {
	if !t.InProgress() || t.current < 0 {
		return nil
	}
	p := t.players[t.current]
	toCall := t.currentBet - p.Bet

	actions := []ActionKind{KindFold}
	if toCall <= 0 {
		actions = append(actions, KindCheck)
	} else {
		actions = append(actions, KindCall)
	}
	if p.Chips > toCall {
		actions = append(actions, KindRaise)
	}
	return append(actions, KindAllIn)
}
