package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
)

func init() {
	DisableColor()
}

func TestChips(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Chips(0))
	assert.Equal(t, "980", Chips(980))
	assert.Equal(t, "12,500", Chips(12500))
	assert.Equal(t, "1,000,000", Chips(1000000))
}

func TestFormatCards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatCards(nil))
	cards := deck.MustParseCards("AsKh")
	assert.Equal(t, "["+cards[0].String()+" "+cards[1].String()+"]", FormatCards(cards))
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()

	snap := game.Snapshot{HandNumber: 2, Pot: 80, Button: game.AI, SmallBlind: 10, BigBlind: 20}
	snap.Players[game.Human].Hole = deck.MustParseCards("QsQd")

	start := FormatEvent(game.HandStartEvent{Snapshot: snap})
	assert.Contains(t, start, "HAND #2")
	assert.Contains(t, start, "AI on the button")
	assert.Contains(t, start, "Dealt to you")

	raise := FormatEvent(game.PlayerActionEvent{Seat: game.Human, Action: game.Raise, Amount: 60, Snapshot: snap})
	assert.Equal(t, "You: raises to 60 (pot 80)", raise)

	fold := FormatEvent(game.HandEndEvent{
		Result:   game.Result{Winner: game.AI, Folded: game.Human, Won: [2]int{0, 1500}},
		Snapshot: snap,
	})
	assert.Equal(t, "AI wins 1,500", fold)

	snap.Players[game.AI].Hole = deck.MustParseCards("2c2h")
	split := FormatEvent(game.HandEndEvent{
		Result: game.Result{
			Winner:   game.NoSeat,
			Showdown: true,
			Won:      [2]int{40, 40},
			Strength: [2]evaluator.HandStrength{
				{Category: evaluator.Straight, Kickers: []deck.Rank{deck.Ace}},
				{Category: evaluator.Straight, Kickers: []deck.Rank{deck.Ace}},
			},
		},
		Snapshot: snap,
	})
	assert.Contains(t, split, "SHOWDOWN")
	assert.Contains(t, split, "Split pot, 40 each")
}
