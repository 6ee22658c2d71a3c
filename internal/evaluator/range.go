package evaluator

import (
	"math/rand/v2"

	"github.com/lox/headsup/internal/deck"
)

// Range samples the hidden hole cards of a simulated opponent.
type Range interface {
	// SampleHand picks two distinct cards from available.
	SampleHand(rng *rand.Rand, available []deck.Card) [2]deck.Card
}

// UniformRange represents any random two cards.
type UniformRange struct{}

// SampleHand implements Range.
func (UniformRange) SampleHand(rng *rand.Rand, available []deck.Card) [2]deck.Card {
	// Pick 2 random cards without creating full permutation
	idx1 := rng.IntN(len(available))
	idx2 := rng.IntN(len(available) - 1)
	if idx2 >= idx1 {
		idx2++
	}
	return [2]deck.Card{available[idx1], available[idx2]}
}

// BiasedRange prefers strong starting hands by bounded rejection sampling.
// A weak candidate is kept with probability AcceptWeak; otherwise it is
// redrawn, at most Retries more times, after which the last draw is kept.
type BiasedRange struct {
	AcceptWeak float64
	Retries    int
	// Base draws each candidate. Nil means UniformRange.
	Base Range
}

// DefaultBiasedRange is the post-flop range the opponent assumes.
var DefaultBiasedRange = BiasedRange{AcceptWeak: 0.3, Retries: 2}

// SampleHand implements Range.
func (r BiasedRange) SampleHand(rng *rand.Rand, available []deck.Card) [2]deck.Card {
	base := r.Base
	if base == nil {
		base = UniformRange{}
	}
	hand := base.SampleHand(rng, available)
	for attempt := 0; attempt < r.Retries; attempt++ {
		if IsStrongStart(hand) || rng.Float64() < r.AcceptWeak {
			return hand
		}
		hand = base.SampleHand(rng, available)
	}
	return hand
}

// IsStrongStart reports whether two hole cards are a pocket pair, both ten or
// higher, or contain an ace.
func IsStrongStart(hand [2]deck.Card) bool {
	a, b := hand[0].Rank, hand[1].Rank
	switch {
	case a == b:
		return true
	case a >= deck.Ten && b >= deck.Ten:
		return true
	case a == deck.Ace || b == deck.Ace:
		return true
	}
	return false
}
