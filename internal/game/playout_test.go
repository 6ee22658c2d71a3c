package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/randutil"
)

func TestPlayOutConservesChips(t *testing.T) {
	t.Parallel()

	random := OpponentFunc(func(rng *rand.Rand, v View) (Decision, error) {
		switch rng.IntN(4) {
		case 0:
			return Decision{Action: Fold}, nil
		case 1:
			return Decision{Action: Raise, RaiseTo: v.OpponentContribution + rng.IntN(v.Pot+1)}, nil
		default:
			return Decision{Action: Call}, nil
		}
	})

	for seed := range int64(200) {
		rng := randutil.New(seed)
		h := NewHand(rng, Seat(seed%2), 10, 20, WithStacks(500, 800))
		require.NoError(t, PlayOut(h, rng, [2]Opponent{random, random}), "seed %d", seed)
		assert.True(t, h.IsOver())
		assert.True(t, h.ChipsConserved(), "seed %d", seed)
	}
}

func TestPlayOutShowdownWhenBothCall(t *testing.T) {
	t.Parallel()

	caller := OpponentFunc(func(*rand.Rand, View) (Decision, error) {
		return Decision{Action: Call}, nil
	})
	rng := randutil.New(3)
	h := NewHand(rng, Human, 10, 20)
	require.NoError(t, PlayOut(h, rng, [2]Opponent{caller, caller}))

	require.NotNil(t, h.Result)
	assert.True(t, h.Result.Showdown)
	assert.Len(t, h.Board, 5)
	assert.Equal(t, 40, h.Result.Won[Human]+h.Result.Won[AI]+h.Result.Dropped)
}

func TestPlayOutDecisionError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	broken := OpponentFunc(func(*rand.Rand, View) (Decision, error) {
		return Decision{}, boom
	})
	rng := randutil.New(1)
	h := NewHand(rng, Human, 10, 20)
	err := PlayOut(h, rng, [2]Opponent{broken, broken})
	assert.ErrorIs(t, err, boom)
}
