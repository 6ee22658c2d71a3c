package game

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

// scriptedHand deals human, AI, human, AI, then the board from cards.
func scriptedHand(t *testing.T, button Seat, stacks [2]int, cards string) *HandState {
	t.Helper()
	rng := randutil.New(1)
	d := deck.NewStackedDeck(rng, deck.MustParseCards(cards)...)
	return NewHand(rng, button, 10, 20, WithStacks(stacks[Human], stacks[AI]), WithDeck(d))
}

func mustApply(t *testing.T, h *HandState, seat Seat, action Action, amount int) {
	t.Helper()
	require.NoError(t, h.Apply(seat, action, amount))
}

// cloneHand copies the hand so that later mutations can be detected.
func cloneHand(h *HandState) HandState {
	c := *h
	c.Board = slices.Clone(h.Board)
	if h.Result != nil {
		r := *h.Result
		c.Result = &r
	}
	return c
}

func TestNewHandPostsBlinds(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(1), Human, 10, 20, WithStacks(1000, 1000))

	assert.Equal(t, Preflop, h.Street)
	assert.Equal(t, 30, h.Pot)
	assert.Equal(t, [2]int{990, 980}, h.Stacks)
	assert.Equal(t, [2]int{10, 20}, h.Bets)
	assert.Equal(t, [2]bool{false, false}, h.Acted)
	assert.Equal(t, Human, h.ToAct, "button acts first preflop")
	assert.Empty(t, h.Board)

	// Four distinct hole cards.
	set := deck.NewCardSet(h.Hole[Human][0], h.Hole[Human][1], h.Hole[AI][0], h.Hole[AI][1])
	assert.Equal(t, 4, set.Len())
}

func TestNewHandWithAIButton(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(1), AI, 10, 20)
	assert.Equal(t, [2]int{20, 10}, h.Bets)
	assert.Equal(t, AI, h.ToAct)
}

func TestScriptedDealOrder(t *testing.T) {
	t.Parallel()
	h := scriptedHand(t, Human, [2]int{1000, 1000}, "AsKdAhKc2s7h9c3d4s")
	assert.Equal(t, deck.MustParseCards("AsAh"), h.Hole[Human][:])
	assert.Equal(t, deck.MustParseCards("KdKc"), h.Hole[AI][:])
}

func TestCheckMovesTurnWithoutChips(t *testing.T) {
	t.Parallel()
	// AI on the button: AI completes, human checks the option, flop comes.
	h := NewHand(randutil.New(2), AI, 10, 20)
	mustApply(t, h, AI, Call, 0)
	mustApply(t, h, Human, Check, 0)
	require.True(t, h.StreetComplete())
	require.NoError(t, h.AdvanceStreet())
	require.Equal(t, Flop, h.Street)
	require.Len(t, h.Board, 3)
	require.Equal(t, Human, h.ToAct, "non-button acts first post-flop")

	stacks, pot := h.Stacks, h.Pot
	mustApply(t, h, Human, Check, 0)

	assert.Equal(t, stacks, h.Stacks)
	assert.Equal(t, pot, h.Pot)
	assert.Equal(t, AI, h.ToAct)
	assert.Equal(t, [2]bool{true, false}, h.Acted)
	assert.False(t, h.StreetComplete())
}

func TestRaiseResetsOpponentActed(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(3), AI, 10, 20)
	mustApply(t, h, AI, Call, 0)
	require.Equal(t, [2]int{20, 20}, h.Bets)
	require.Equal(t, 40, h.MinRaiseTarget())

	stack, pot := h.Stacks[Human], h.Pot
	mustApply(t, h, Human, Raise, 60)

	assert.Equal(t, stack-40, h.Stacks[Human])
	assert.Equal(t, pot+40, h.Pot)
	assert.Equal(t, 60, h.Bets[Human])
	assert.True(t, h.Acted[Human])
	assert.False(t, h.Acted[AI])
	assert.Equal(t, AI, h.ToAct)
	assert.Equal(t, 40, h.Owed(AI))
}

func TestRaiseBounds(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(4), Human, 10, 20)
	assert.Equal(t, 40, h.MinRaiseTarget())
	assert.Equal(t, 1000, h.MaxRaiseTarget())

	assert.ErrorIs(t, h.Apply(Human, Raise, 39), ErrIllegalAction)
	assert.ErrorIs(t, h.Apply(Human, Raise, 1001), ErrIllegalAction)
	mustApply(t, h, Human, Raise, 1000)
	assert.True(t, h.IsAllIn(Human))

	// Nobody may raise an all-in player.
	assert.False(t, h.CanRaise())
	assert.ErrorIs(t, h.Apply(AI, Raise, 1000), ErrIllegalAction)
	assert.Equal(t, []Action{Fold, Call}, h.ValidActions())
}

func TestPostflopMinRaiseIsOneBigBlind(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(5), Human, 10, 20)
	mustApply(t, h, Human, Call, 0)
	mustApply(t, h, AI, Check, 0)
	require.NoError(t, h.AdvanceStreet())

	require.Equal(t, AI, h.ToAct)
	assert.Equal(t, 20, h.MinRaiseTarget())
	mustApply(t, h, AI, Raise, 50)
	assert.Equal(t, 100, h.MinRaiseTarget())
}

func TestShortStackMayRaiseAllIn(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(6), Human, 10, 20, WithStacks(30, 1000))
	require.Equal(t, 40, h.MinRaiseTarget())
	require.Equal(t, 30, h.MaxRaiseTarget())

	assert.ErrorIs(t, h.Apply(Human, Raise, 25), ErrIllegalAction)
	mustApply(t, h, Human, Raise, 30)
	assert.True(t, h.IsAllIn(Human))
}

func TestCallIsClampedToStack(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(7), Human, 10, 20, WithStacks(1000, 200))
	mustApply(t, h, Human, Raise, 500)
	mustApply(t, h, AI, Call, 0)

	assert.True(t, h.IsAllIn(AI))
	assert.Equal(t, [2]int{500, 200}, h.Bets)
	assert.True(t, h.StreetComplete())

	require.NoError(t, h.AdvanceStreet())
	assert.Equal(t, 400, h.Pot, "uncalled 300 goes back to the human")
	assert.Equal(t, 800, h.Stacks[Human])
	assert.Equal(t, NoSeat, h.ToAct)
	assert.True(t, h.RunOut())
}

func TestFoldAwardsPot(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(8), Human, 10, 20)
	mustApply(t, h, Human, Fold, 0)

	require.True(t, h.IsOver())
	assert.Equal(t, Showdown, h.Street)
	assert.Equal(t, 0, h.Pot)
	assert.Equal(t, [2]int{990, 1010}, h.Stacks)
	assert.Equal(t, AI, h.Result.Winner)
	assert.Equal(t, Human, h.Result.Folded)
	assert.False(t, h.Result.Showdown)

	assert.ErrorIs(t, h.Apply(AI, Check, 0), ErrHandOver)
	assert.ErrorIs(t, h.AdvanceStreet(), ErrHandOver)
}

func TestIllegalActionsLeaveStateUnchanged(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(9), Human, 10, 20)
	before := cloneHand(h)

	tests := []struct {
		name   string
		seat   Seat
		action Action
		amount int
		err    error
	}{
		{"out of turn", AI, Check, 0, ErrNotYourTurn},
		{"out of turn fold", AI, Fold, 0, ErrNotYourTurn},
		{"check facing a bet", Human, Check, 0, ErrIllegalAction},
		{"raise below minimum", Human, Raise, 30, ErrIllegalAction},
		{"raise above stack", Human, Raise, 5000, ErrIllegalAction},
		{"unknown action", Human, Action(42), 0, ErrIllegalAction},
		{"nobody seat", NoSeat, Call, 0, ErrNotYourTurn},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, h.Apply(tt.seat, tt.action, tt.amount), tt.err, tt.name)
		assert.Equal(t, before, cloneHand(h), tt.name)
	}

}

func TestCallWithNothingOwedActsAsCheck(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(4), AI, 10, 20)

	// Small blind completes, then the big blind "calls" its option.
	mustApply(t, h, AI, Call, 0)
	require.Equal(t, Human, h.ToAct)
	mustApply(t, h, Human, Call, 0)

	assert.Equal(t, [2]int{20, 20}, h.Bets)
	assert.Equal(t, 40, h.Pot)
	assert.True(t, h.StreetComplete())
	require.NoError(t, h.AdvanceStreet())
	require.Equal(t, Flop, h.Street)

	// On a checked-to street a zero call passes the turn without chips.
	first := h.ToAct
	stacks := h.Stacks
	mustApply(t, h, first, Call, 0)
	assert.Equal(t, first.Other(), h.ToAct)
	assert.Equal(t, stacks, h.Stacks)
	mustApply(t, h, first.Other(), Call, 0)
	assert.True(t, h.StreetComplete())
	assert.True(t, h.ChipsConserved())
}

func TestAdvanceStreetRequiresClosedAction(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(10), Human, 10, 20)
	assert.ErrorIs(t, h.AdvanceStreet(), ErrStreetOpen)
	mustApply(t, h, Human, Call, 0)
	assert.ErrorIs(t, h.AdvanceStreet(), ErrStreetOpen, "big blind still has the option")
}

func TestFullHandToShowdown(t *testing.T) {
	t.Parallel()
	h := scriptedHand(t, Human, [2]int{1000, 1000}, "AsKdAhKc2s7h9c3d4s")

	mustApply(t, h, Human, Call, 0)
	mustApply(t, h, AI, Check, 0)
	for _, street := range []Street{Flop, Turn, River} {
		require.NoError(t, h.AdvanceStreet())
		require.Equal(t, street, h.Street)
		assert.Equal(t, [2]int{}, h.Bets)
		mustApply(t, h, AI, Check, 0)
		mustApply(t, h, Human, Check, 0)
	}
	require.Equal(t, deck.MustParseCards("2s7h9c3d4s"), h.Board)
	require.NoError(t, h.AdvanceStreet())

	require.True(t, h.IsOver())
	res := h.Result
	assert.True(t, res.Showdown)
	assert.Equal(t, Human, res.Winner)
	assert.Equal(t, [2]int{40, 0}, res.Won)
	assert.Equal(t, [2]int{1020, 980}, h.Stacks)
	assert.Contains(t, res.Summary, "Pair of Aces")
	assert.True(t, h.ChipsConserved())
}

func TestAllInRunsOutWithoutPrompts(t *testing.T) {
	t.Parallel()
	h := scriptedHand(t, Human, [2]int{300, 1000}, "AhKcAdKd2s7h9c3d4s")

	mustApply(t, h, Human, Call, 0)
	mustApply(t, h, AI, Raise, 1000)
	mustApply(t, h, Human, Call, 0)
	require.True(t, h.IsAllIn(Human))
	require.True(t, h.IsAllIn(AI))
	require.True(t, h.StreetComplete())

	advances := 0
	for !h.IsOver() {
		require.Equal(t, NoSeat, h.ToAct, "no prompts during the run-out")
		require.NoError(t, h.AdvanceStreet())
		require.Equal(t, 1300, h.TotalChips())
		advances++
	}
	assert.Equal(t, 4, advances)
	assert.Len(t, h.Board, 5)
	assert.Equal(t, Human, h.Result.Winner)
	assert.Equal(t, [2]int{600, 700}, h.Stacks)
}

func TestSplitPot(t *testing.T) {
	t.Parallel()
	h := scriptedHand(t, Human, [2]int{1000, 1000}, "2c2h3d3sAsKsQsJsTs")
	mustApply(t, h, Human, Raise, 100)
	mustApply(t, h, AI, Call, 0)
	for !h.IsOver() {
		if h.ToAct.Valid() {
			mustApply(t, h, h.ToAct, Check, 0)
			continue
		}
		require.NoError(t, h.AdvanceStreet())
	}

	res := h.Result
	assert.Equal(t, NoSeat, res.Winner)
	assert.True(t, res.Strength[Human].Equals(res.Strength[AI]))
	assert.Equal(t, [2]int{100, 100}, res.Won)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, [2]int{1000, 1000}, h.Stacks)
	assert.Contains(t, res.Summary, "split pot")
}

func TestSplitPotDropsOddChip(t *testing.T) {
	t.Parallel()
	h := scriptedHand(t, Human, [2]int{1000, 1000}, "2c2h3d3sAsKsQsJsTs")
	h.Board = deck.MustParseCards("AsKsQsJsTs")
	h.Pot = 41

	h.Settle()
	assert.Equal(t, [2]int{20, 20}, h.Result.Won)
	assert.Equal(t, 1, h.Result.Dropped)
	assert.Equal(t, 0, h.Pot)
}

func TestChipsAreConservedUnderRandomPlay(t *testing.T) {
	t.Parallel()
	for seed := range int64(300) {
		rng := randutil.New(seed)
		stacks := [2]int{20 + rng.IntN(1500), 20 + rng.IntN(1500)}
		h := NewHand(rng, Seat(seed%2), 10, 20, WithStacks(stacks[0], stacks[1]))
		total := stacks[0] + stacks[1]

		for steps := 0; !h.IsOver(); steps++ {
			require.Less(t, steps, 100, "seed %d: hand did not terminate", seed)
			if h.ToAct.Valid() {
				action, amount := randomAction(rng, h)
				require.NoError(t, h.Apply(h.ToAct, action, amount), "seed %d", seed)
			} else {
				require.True(t, h.StreetComplete(), "seed %d: nobody to act on an open street", seed)
				require.NoError(t, h.AdvanceStreet())
			}
			if !h.IsOver() {
				require.Equal(t, total, h.TotalChips(), "seed %d", seed)
				require.GreaterOrEqual(t, h.Pot, h.Bets[Human]+h.Bets[AI], "seed %d", seed)
				require.GreaterOrEqual(t, h.Stacks[Human], 0)
				require.GreaterOrEqual(t, h.Stacks[AI], 0)
			}
		}
		require.True(t, h.ChipsConserved(), "seed %d", seed)
		require.Equal(t, 0, h.Pot)
	}
}

func randomAction(rng *rand.Rand, h *HandState) (Action, int) {
	actions := h.ValidActions()
	action := actions[rng.IntN(len(actions))]
	// Keep folds rare so that hands reach later streets.
	if action == Fold && rng.IntN(4) != 0 {
		action = actions[len(actions)-1]
	}
	if action != Raise {
		return action, 0
	}
	lo := min(h.MinRaiseTarget(), h.MaxRaiseTarget())
	hi := h.MaxRaiseTarget()
	return Raise, lo + rng.IntN(hi-lo+1)
}

func TestNormalizeKeepsAIDecisionsLegal(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(11), AI, 10, 20)

	action, amount := normalize(h, Decision{Action: Raise, RaiseTo: 25})
	assert.Equal(t, Raise, action)
	assert.Equal(t, 40, amount, "below minimum is lifted to the minimum")

	action, amount = normalize(h, Decision{Action: Raise, RaiseTo: 5000})
	assert.Equal(t, Raise, action)
	assert.Equal(t, 1000, amount)

	action, _ = normalize(h, Decision{Action: Check})
	assert.Equal(t, Fold, action)

	mustApply(t, h, AI, Call, 0)
	mustApply(t, h, Human, Check, 0)
	require.NoError(t, h.AdvanceStreet())
	mustApply(t, h, Human, Check, 0)

	action, _ = normalize(h, Decision{Action: Fold})
	assert.Equal(t, Check, action, "never fold for free")
	action, _ = normalize(h, Decision{Action: Call})
	assert.Equal(t, Check, action)
}

func TestNormalizeCallsWhenRaisingIsClosed(t *testing.T) {
	t.Parallel()
	h := NewHand(randutil.New(12), Human, 10, 20)
	mustApply(t, h, Human, Raise, 1000)

	action, amount := normalize(h, Decision{Action: Raise, RaiseTo: 2000})
	assert.Equal(t, Call, action)
	assert.Equal(t, 0, amount)
}
