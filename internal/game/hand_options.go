package game

import (
	"math/rand/v2"

	"github.com/lox/headsup/internal/deck"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

// handConfig holds all configuration for creating a hand.
type handConfig struct {
	// Required fields (set via NewHand)
	rng        *rand.Rand
	button     Seat
	smallBlind int
	bigBlind   int

	// Optional fields (set via options)
	stacks [2]int     // Default: 1000 each
	deck   *deck.Deck // If provided, used instead of a fresh shuffle
}

// NewHand creates a new heads-up hand: the deck is shuffled, hole cards
// dealt, and blinds posted with the button on the small blind.
//
// Example usage:
//
//	rng := randutil.New(42)
//	h := NewHand(rng, game.Human, 10, 20, WithStacks(1000, 1000))
//
//	// Scripted deal for tests
//	d := deck.NewStackedDeck(rng, deck.MustParseCards("AsAhKsKh")...)
//	h := NewHand(rng, game.Human, 10, 20, WithDeck(d))
func NewHand(rng *rand.Rand, button Seat, smallBlind, bigBlind int, opts ...HandOption) *HandState {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	if !button.Valid() {
		panic("button must be Human or AI")
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		panic("blinds must be positive with big blind >= small blind")
	}

	cfg := &handConfig{
		rng:        rng,
		button:     button,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		stacks:     [2]int{1000, 1000},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	d := cfg.deck
	if d == nil {
		d = deck.NewDeck(cfg.rng)
	}

	h := &HandState{
		Button:     button,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Street:     Preflop,
		Stacks:     cfg.stacks,
		ToAct:      NoSeat,
		deck:       d,
	}
	h.startChips = h.Stacks[Human] + h.Stacks[AI]

	h.dealHoleCards()
	h.postBlinds()

	// Heads-up: button acts first preflop
	h.ToAct = h.firstToAct(button)
	return h
}

// WithStacks sets the starting stacks of the human and AI seats.
func WithStacks(human, ai int) HandOption {
	return func(c *handConfig) {
		c.stacks = [2]int{human, ai}
	}
}

// WithDeck deals from the given deck instead of a freshly shuffled one.
// Cards are dealt human, AI, human, AI, then the board in street order.
func WithDeck(d *deck.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = d
	}
}
