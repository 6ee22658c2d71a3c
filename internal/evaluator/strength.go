package evaluator

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// Category is one of the ten poker hand classes, ordered weakest first.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Categories lists every category from strongest to weakest.
var Categories = [...]Category{
	RoyalFlush, StraightFlush, FourOfAKind, FullHouse, Flush,
	Straight, ThreeOfAKind, TwoPair, OnePair, HighCard,
}

// String returns the string representation of a hand category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandStrength is a totally ordered hand value: the category first, then
// the kickers, most significant first. For straights the only kicker is the
// high card (Five for the wheel).
type HandStrength struct {
	Category Category
	Kickers  []deck.Rank
}

// Compare compares two hands and returns:
// -1 if h is weaker than o
//
//	0 if h equals o
//	1 if h is stronger than o
func (h HandStrength) Compare(o HandStrength) int {
	if h.Category != o.Category {
		if h.Category < o.Category {
			return -1
		}
		return 1
	}

	for i := 0; i < len(h.Kickers) && i < len(o.Kickers); i++ {
		if h.Kickers[i] < o.Kickers[i] {
			return -1
		}
		if h.Kickers[i] > o.Kickers[i] {
			return 1
		}
	}

	// Equal prefixes: the side that ran out of kickers first is weaker.
	switch {
	case len(h.Kickers) < len(o.Kickers):
		return -1
	case len(h.Kickers) > len(o.Kickers):
		return 1
	}
	return 0
}

// Beats returns true if h is strictly stronger than o
func (h HandStrength) Beats(o HandStrength) bool {
	return h.Compare(o) > 0
}

// Equals returns true if both hands are equal in strength
func (h HandStrength) Equals(o HandStrength) bool {
	return h.Compare(o) == 0
}

// String returns the category name.
func (h HandStrength) String() string {
	return h.Category.String()
}

// Describe returns a human readable description such as
// "Full House, Kings full of Fives".
func (h HandStrength) Describe() string {
	k := h.Kickers
	name := func(i int) string {
		if i < len(k) {
			return plural(k[i])
		}
		return "?"
	}
	single := func(i int) string {
		if i < len(k) {
			return k[i].Name()
		}
		return "?"
	}

	switch h.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", single(0))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", name(0))
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", name(0), name(1))
	case Flush:
		return fmt.Sprintf("Flush, %s high", single(0))
	case Straight:
		return fmt.Sprintf("Straight, %s high", single(0))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", name(0))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", name(0), name(1))
	case OnePair:
		return fmt.Sprintf("Pair of %s", name(0))
	default:
		return fmt.Sprintf("High Card, %s", single(0))
	}
}

// CompareWithExplanation compares two hands and returns the result together
// with a short sentence explaining it.
func (h HandStrength) CompareWithExplanation(o HandStrength) (int, string) {
	result := h.Compare(o)
	if result == 0 {
		return 0, fmt.Sprintf("both hold %s", h.Describe())
	}

	winner, loser := h, o
	if result < 0 {
		winner, loser = o, h
	}
	if winner.Category != loser.Category {
		return result, fmt.Sprintf("%s beats %s", winner.Describe(), loser.Describe())
	}

	for i := 0; i < len(winner.Kickers) && i < len(loser.Kickers); i++ {
		if winner.Kickers[i] != loser.Kickers[i] {
			return result, fmt.Sprintf("%s beats %s (%s over %s)",
				winner.Describe(), loser.Describe(),
				winner.Kickers[i].Name(), loser.Kickers[i].Name())
		}
	}
	return result, fmt.Sprintf("%s beats %s", winner.Describe(), loser.Describe())
}

func plural(r deck.Rank) string {
	return r.Name() + "s"
}
