package game

import (
	"math/rand/v2"

	"github.com/lox/headsup/internal/deck"
)

// View is the information available to a seat when it decides.
type View struct {
	Hole                 []deck.Card
	Board                []deck.Card
	Street               Street
	Pot                  int
	ToCall               int
	Contribution         int
	OpponentContribution int
	Stack                int
	BigBlind             int
}

// Decision is an opponent's chosen action with its reasoning.
type Decision struct {
	Action Action
	// RaiseTo is the target street contribution for Raise.
	RaiseTo        int
	Equity         float64
	RequiredEquity float64
	Bluff          bool
	Rationale      string
}

// Opponent chooses the AI seat's action. It is called once per AI turn from
// the engine's scheduler goroutine.
type Opponent interface {
	Decide(rng *rand.Rand, view View) (Decision, error)
}

// OpponentFunc adapts a function to the Opponent interface.
type OpponentFunc func(rng *rand.Rand, view View) (Decision, error)

// Decide implements Opponent.
func (f OpponentFunc) Decide(rng *rand.Rand, view View) (Decision, error) {
	return f(rng, view)
}

// normalize fits an opponent decision to the actions legal in h: raises are
// clamped into the legal target range or downgraded to a call, and a free
// fold or call becomes a check.
func normalize(h *HandState, d Decision) (Action, int) {
	owed := h.Owed(h.ToAct)
	passive := Check
	if owed > 0 {
		passive = Call
	}

	switch d.Action {
	case Raise:
		if !h.CanRaise() {
			return passive, 0
		}
		lo, hi := h.MinRaiseTarget(), h.MaxRaiseTarget()
		target := min(max(d.RaiseTo, lo), hi)
		return Raise, target
	case Fold:
		if owed == 0 {
			return Check, 0
		}
		return Fold, 0
	case Call, Check:
		if owed == 0 {
			return Check, 0
		}
		if d.Action == Check {
			return Fold, 0
		}
		return Call, 0
	}
	return passive, 0
}
