package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/headsup/internal/game"
)

// Baselines names the fixed-strategy opponents, for simulations.
var Baselines = []string{"fold", "call", "rand", "maniac"}

// NewBaseline returns the fixed-strategy opponent called name.
func NewBaseline(name string) (game.Opponent, error) {
	switch name {
	case "fold":
		return FoldBot{}, nil
	case "call":
		return CallBot{}, nil
	case "rand":
		return RandBot{}, nil
	case "maniac":
		return ManiacBot{}, nil
	default:
		return nil, fmt.Errorf("unknown baseline opponent %q", name)
	}
}

// FoldBot checks when it can and folds otherwise.
type FoldBot struct{}

func (FoldBot) Decide(_ *rand.Rand, v game.View) (game.Decision, error) {
	if v.ToCall == 0 {
		return game.Decision{Action: game.Check, Rationale: "fold-bot checking"}, nil
	}
	return game.Decision{Action: game.Fold, Rationale: "fold-bot folding"}, nil
}

// CallBot checks and calls to the river, where it folds to bets larger than
// most of the pot.
type CallBot struct{}

func (CallBot) Decide(_ *rand.Rand, v game.View) (game.Decision, error) {
	if v.ToCall == 0 {
		return game.Decision{Action: game.Check, Rationale: "call-bot checking"}, nil
	}
	if v.Street == game.River && float64(v.ToCall) > 0.8*float64(v.Pot-v.ToCall) {
		return game.Decision{Action: game.Fold, Rationale: "call-bot folding river to large bet"}, nil
	}
	return game.Decision{Action: game.Call, Rationale: "call-bot calling"}, nil
}

// RandBot picks uniformly among folding, the passive action and a raise of
// random size.
type RandBot struct{}

func (RandBot) Decide(rng *rand.Rand, v game.View) (game.Decision, error) {
	switch rng.IntN(3) {
	case 0:
		return game.Decision{Action: game.Fold, Rationale: "rand-bot folding"}, nil
	case 1:
		return game.Decision{Action: game.Call, Rationale: "rand-bot calling"}, nil
	}
	lo := max(2*v.OpponentContribution, v.BigBlind)
	hi := v.Stack + v.Contribution
	target := hi
	if hi > lo {
		target = lo + rng.IntN(hi-lo+1)
	}
	return game.Decision{Action: game.Raise, RaiseTo: target, Rationale: "rand-bot raising"}, nil
}

// ManiacBot raises the pot four times in five and calls otherwise.
type ManiacBot struct{}

func (ManiacBot) Decide(rng *rand.Rand, v game.View) (game.Decision, error) {
	if rng.Float64() < 0.2 {
		return game.Decision{Action: game.Call, Rationale: "maniac calling"}, nil
	}
	return game.Decision{
		Action:    game.Raise,
		RaiseTo:   v.OpponentContribution + v.Pot + v.ToCall,
		Rationale: "maniac raising the pot",
	}, nil
}
