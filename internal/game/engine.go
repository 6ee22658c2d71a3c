package game

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

// Config holds the table stakes and presentation pacing.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingStack int

	// AIDelay is the pause before the AI acts.
	AIDelay time.Duration
	// StreetDelay is the pause before the next street is dealt.
	StreetDelay time.Duration
}

// DefaultConfig returns 10/20 blinds with 1000 chip stacks.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    10,
		BigBlind:      20,
		StartingStack: 1000,
		AIDelay:       800 * time.Millisecond,
		StreetDelay:   600 * time.Millisecond,
	}
}

// Engine owns the game across hands: it deals hands, accepts the human's
// actions, runs the AI's turns and street changes on its scheduler, and
// publishes an event after every change. All methods are safe for
// concurrent use. Subscribers are called with the engine locked and must not
// call back into it.
type Engine struct {
	cfg      Config
	opponent Opponent
	logger   *log.Logger
	clock    quartz.Clock
	rng      *rand.Rand
	newDeck  func(*rand.Rand) *deck.Deck
	bus      *SimpleEventBus
	sched    *Scheduler

	mu         sync.Mutex
	hand       *HandState
	handNumber int
	handID     string
	button     Seat
	stacks     [2]int
	message    string
	lastAI     *Decision
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used for AI and street delays.
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithRand sets the random source for shuffles and AI decisions.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

// WithDeckSource sets the function that supplies each hand's deck.
func WithDeckSource(fn func(*rand.Rand) *deck.Deck) EngineOption {
	return func(e *Engine) { e.newDeck = fn }
}

// NewEngine creates an engine. No hand is dealt until StartHand; nothing
// scheduled runs until Run is called.
func NewEngine(cfg Config, opponent Opponent, opts ...EngineOption) *Engine {
	if opponent == nil {
		panic("opponent is required")
	}
	e := &Engine{
		cfg:      cfg,
		opponent: opponent,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		clock:    quartz.NewReal(),
		newDeck:  deck.NewDeck,
		bus:      NewEventBus(),
		button:   NoSeat,
		stacks:   [2]int{cfg.StartingStack, cfg.StartingStack},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(randutil.NewSeed())
	}
	e.logger = e.logger.WithPrefix("engine")
	e.sched = NewScheduler(e.clock)
	return e
}

// Run executes scheduled AI turns and street changes until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	return e.sched.Run(ctx)
}

// WaitIdle blocks until no AI turn or street change is pending.
func (e *Engine) WaitIdle(ctx context.Context) error {
	return e.sched.WaitIdle(ctx)
}

// Subscribe registers a subscriber for game events.
func (e *Engine) Subscribe(sub EventSubscriber) {
	e.bus.Subscribe(sub)
}

// Unsubscribe removes a subscriber.
func (e *Engine) Unsubscribe(sub EventSubscriber) {
	e.bus.Unsubscribe(sub)
}

// StartHand deals a new hand with the button moved to the other seat. If
// either stack is below the big blind both are reset to the starting stack.
func (e *Engine) StartHand() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hand != nil && !e.hand.IsOver() {
		return ErrHandInProgress
	}

	replenished := false
	if e.stacks[Human] < e.cfg.BigBlind || e.stacks[AI] < e.cfg.BigBlind {
		e.logger.Info("Replenishing stacks", "human", e.stacks[Human], "ai", e.stacks[AI], "to", e.cfg.StartingStack)
		e.stacks = [2]int{e.cfg.StartingStack, e.cfg.StartingStack}
		replenished = true
	}

	if e.button.Valid() {
		e.button = e.button.Other()
	} else {
		e.button = Human
	}

	e.handNumber++
	e.handID = uuid.NewString()
	e.lastAI = nil
	e.hand = NewHand(e.rng, e.button, e.cfg.SmallBlind, e.cfg.BigBlind,
		WithStacks(e.stacks[Human], e.stacks[AI]),
		WithDeck(e.newDeck(e.rng)))

	e.message = fmt.Sprintf("Hand #%d: blinds %d/%d posted, %s has the button",
		e.handNumber, e.cfg.SmallBlind, e.cfg.BigBlind, e.button)
	e.logger.Info("Hand started",
		"hand", e.handNumber,
		"id", e.handID,
		"button", e.button,
		"human", deck.FormatCards(e.hand.Hole[Human][:]))
	e.logger.Debug("AI hole cards", "hand", e.handNumber, "cards", deck.FormatCards(e.hand.Hole[AI][:]))

	e.bus.Publish(HandStartEvent{
		Snapshot:    e.snapshotLocked(),
		Replenished: replenished,
		timestamp:   e.clock.Now(),
	})
	e.continueLocked()
	return nil
}

// SubmitAction applies an action for the human seat. For Raise, amount is
// the target total street contribution. Rejected actions return an error
// and change nothing.
func (e *Engine) SubmitAction(action Action, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hand == nil {
		return ErrHandOver
	}
	if err := e.applyLocked(Human, action, amount, ""); err != nil {
		e.logger.Debug("Rejected action", "action", action, "amount", amount, "error", err)
		return err
	}
	e.continueLocked()
	return nil
}

// Snapshot returns a copy of the observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// ValidActions returns the human's legal actions, or nil when it is not
// their turn.
func (e *Engine) ValidActions() []Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hand == nil || e.hand.ToAct != Human {
		return nil
	}
	return e.hand.ValidActions()
}

// MinRaiseTarget returns the minimum raise target for the player to act.
func (e *Engine) MinRaiseTarget() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hand == nil {
		return 0
	}
	return e.hand.MinRaiseTarget()
}

// MaxRaiseTarget returns the all-in raise target for the player to act.
func (e *Engine) MaxRaiseTarget() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hand == nil {
		return 0
	}
	return e.hand.MaxRaiseTarget()
}

func (e *Engine) snapshotLocked() Snapshot {
	if e.hand == nil {
		return Snapshot{
			Button:  NoSeat,
			ToAct:   NoSeat,
			Message: e.message,
			Players: [2]PlayerState{
				{Stack: e.stacks[Human]},
				{Stack: e.stacks[AI]},
			},
		}
	}
	s := snapshotOf(e.hand)
	s.HandNumber = e.handNumber
	s.HandID = e.handID
	s.Message = e.message
	if e.lastAI != nil {
		s.AIEquity = e.lastAI.Equity
		s.AIRationale = e.lastAI.Rationale
	}
	return s
}

// applyLocked applies one action and publishes it.
func (e *Engine) applyLocked(seat Seat, action Action, amount int, rationale string) error {
	h := e.hand
	potBefore := h.Pot
	if err := h.Apply(seat, action, amount); err != nil {
		return err
	}

	moved := h.Pot - potBefore
	shown := moved
	switch action {
	case Fold:
		e.message = fmt.Sprintf("%s folds", seat)
	case Check:
		e.message = fmt.Sprintf("%s checks", seat)
	case Call:
		e.message = fmt.Sprintf("%s calls %d", seat, moved)
	case Raise:
		shown = amount
		e.message = fmt.Sprintf("%s raises to %d", seat, amount)
	}
	if h.IsAllIn(seat) && action != Fold && action != Check {
		e.message += " and is all-in"
	}

	e.logger.Debug("Action applied",
		"hand", e.handNumber,
		"street", h.Street,
		"seat", seat,
		"action", action,
		"amount", shown,
		"pot", h.Pot)

	e.bus.Publish(PlayerActionEvent{
		Seat:      seat,
		Action:    action,
		Amount:    shown,
		Rationale: rationale,
		Snapshot:  e.snapshotLocked(),
		timestamp: e.clock.Now(),
	})
	return nil
}

// continueLocked decides what happens after a state change: settle a
// finished hand, schedule the next street, or schedule the AI's turn.
func (e *Engine) continueLocked() {
	h := e.hand
	switch {
	case h.IsOver():
		e.finishLocked()
	case h.StreetComplete():
		e.sched.Schedule("street", e.cfg.StreetDelay, e.streetStep(e.handNumber))
	case h.ToAct == AI:
		e.sched.Schedule("ai", e.cfg.AIDelay, e.aiStep(e.handNumber))
	}
}

func (e *Engine) streetStep(handNumber int) func() {
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		h := e.hand
		if e.handNumber != handNumber || h.IsOver() {
			return
		}
		if err := h.AdvanceStreet(); err != nil {
			e.logger.Error("Street advance failed", "hand", handNumber, "street", h.Street, "error", err)
			return
		}
		if rebuilds := h.DeckRebuilds(); rebuilds > 0 {
			e.logger.Warn("Deck rebuilt mid-hand", "hand", handNumber, "rebuilds", rebuilds)
		}

		if !h.IsOver() {
			e.message = fmt.Sprintf("%s: %s", h.Street, deck.FormatCards(h.Board))
			e.logger.Debug("Street dealt", "hand", handNumber, "street", h.Street, "board", deck.FormatCards(h.Board))
			e.bus.Publish(StreetChangeEvent{
				Street:    h.Street,
				Snapshot:  e.snapshotLocked(),
				timestamp: e.clock.Now(),
			})
		}
		e.continueLocked()
	}
}

func (e *Engine) aiStep(handNumber int) func() {
	return func() {
		e.mu.Lock()
		h := e.hand
		if e.handNumber != handNumber || h.IsOver() || h.ToAct != AI {
			e.mu.Unlock()
			return
		}
		view := h.View(AI)
		rng := randutil.Split(e.rng, 1)[0]
		e.mu.Unlock()

		// The opponent may run an expensive estimate; Snapshot and Act
		// must not wait on it.
		d, err := e.opponent.Decide(rng, view)
		if err != nil {
			e.logger.Error("Opponent decision failed", "hand", handNumber, "error", err)
			d = Decision{Action: Check, Rationale: "no decision available"}
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.hand != h || e.handNumber != handNumber || h.IsOver() || h.ToAct != AI {
			e.logger.Debug("Discarding stale AI decision", "hand", handNumber, "action", d.Action)
			return
		}
		e.lastAI = &d

		action, amount := normalize(h, d)
		if action != d.Action || (action == Raise && amount != d.RaiseTo) {
			e.logger.Debug("Adjusted AI decision",
				"wanted", d.Action, "wantedAmount", d.RaiseTo,
				"action", action, "amount", amount)
		}
		if err := e.applyLocked(AI, action, amount, d.Rationale); err != nil {
			// normalize only produces legal actions; reaching here is a bug.
			e.logger.Error("AI action rejected", "action", action, "amount", amount, "error", err)
			return
		}
		e.continueLocked()
	}
}

func (e *Engine) finishLocked() {
	h := e.hand
	e.stacks = h.Stacks
	res := *h.Result

	if res.Dropped > 0 {
		e.logger.Info("Odd chip dropped from split pot", "hand", e.handNumber, "chips", res.Dropped)
	}
	if !h.ChipsConserved() {
		e.logger.Error("Chip count mismatch", "hand", e.handNumber, "total", h.TotalChips())
	}

	e.message = res.Summary
	e.logger.Info("Hand finished",
		"hand", e.handNumber,
		"winner", res.Winner,
		"showdown", res.Showdown,
		"human", e.stacks[Human],
		"ai", e.stacks[AI])

	e.bus.Publish(HandEndEvent{
		Result:    res,
		Snapshot:  e.snapshotLocked(),
		timestamp: e.clock.Now(),
	})
}
