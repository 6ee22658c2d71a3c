package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

func TestCompareOrdersCategoryBeforeKickers(t *testing.T) {
	t.Parallel()
	pair := HandStrength{Category: OnePair, Kickers: []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Jack}}
	twoPair := HandStrength{Category: TwoPair, Kickers: []deck.Rank{deck.Three, deck.Two, deck.Four}}

	assert.Equal(t, 1, twoPair.Compare(pair))
	assert.Equal(t, -1, pair.Compare(twoPair))
	assert.True(t, twoPair.Beats(pair))
}

func TestCompareKickers(t *testing.T) {
	t.Parallel()
	a := HandStrength{Category: OnePair, Kickers: []deck.Rank{deck.Nine, deck.Ace, deck.Seven, deck.Two}}
	b := HandStrength{Category: OnePair, Kickers: []deck.Rank{deck.Nine, deck.Ace, deck.Six, deck.Five}}
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	// A prefix match is decided by length: the shorter list is inferior.
	short := HandStrength{Category: HighCard, Kickers: []deck.Rank{deck.Ace, deck.King}}
	long := HandStrength{Category: HighCard, Kickers: []deck.Rank{deck.Ace, deck.King, deck.Two}}
	assert.Equal(t, -1, short.Compare(long))
	assert.Equal(t, 1, long.Compare(short))
}

func TestCompareIsATotalOrder(t *testing.T) {
	t.Parallel()
	rng := randutil.New(5)
	hands := make([]HandStrength, 60)
	for i := range hands {
		hands[i] = Evaluate(deck.NewDeck(rng).DrawN(7))
	}

	for _, a := range hands {
		for _, b := range hands {
			// antisymmetry
			assert.Equal(t, -a.Compare(b), b.Compare(a))
			for _, c := range hands {
				// transitivity
				if a.Compare(b) >= 0 && b.Compare(c) >= 0 {
					assert.GreaterOrEqual(t, a.Compare(c), 0)
				}
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"AsKsQsJsTs": "Royal Flush",
		"KdKcKh5s5d": "Full House, Kings full of 5s",
		"JhJdQs9c2h": "Pair of Jacks",
		"As2d3c4h5s": "Straight, 5 high",
		"AhAd9h9c4s": "Two Pair, Aces and 9s",
		"Ah9d7c5s3h": "High Card, Ace",
		"2h2d2c2sKs": "Four of a Kind, 2s",
		"Th8h6h4h2h": "Flush, Ten high",
		"9c8c7c6c5c": "Straight Flush, 9 high",
		"QsQdQh7c2d": "Three of a Kind, Queens",
	}
	for cards, want := range tests {
		assert.Equal(t, want, Evaluate(deck.MustParseCards(cards)).Describe(), cards)
	}
}

func TestCompareWithExplanation(t *testing.T) {
	t.Parallel()
	a := Evaluate(deck.MustParseCards("AsAdKh7c2d"))
	b := Evaluate(deck.MustParseCards("AhAcQh7d2s"))

	result, why := a.CompareWithExplanation(b)
	assert.Equal(t, 1, result)
	assert.Contains(t, why, "King over Queen")

	result, why = b.CompareWithExplanation(b)
	assert.Equal(t, 0, result)
	assert.Contains(t, why, "both hold")
}
