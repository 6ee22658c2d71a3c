package game

import (
	"github.com/lox/headsup/internal/deck"
)

// PlayerState is one seat as seen by the presentation layer.
type PlayerState struct {
	Stack int
	Bet   int
	Acted bool
	AllIn bool
	// Hole is nil for the AI seat until its cards are shown down.
	Hole []deck.Card
}

// Snapshot is an immutable copy of the observable game state.
type Snapshot struct {
	HandNumber int
	HandID     string
	InProgress bool

	Street  Street
	Pot     int
	Button  Seat
	ToAct   Seat
	Board   []deck.Card
	Players [2]PlayerState

	SmallBlind int
	BigBlind   int

	// Legal moves for the human when it is their turn.
	ValidActions   []Action
	MinRaiseTarget int
	MaxRaiseTarget int

	Message string

	// Diagnostics from the AI's most recent decision.
	AIEquity    float64
	AIRationale string

	Result *Result
}

// Player returns the state of seat.
func (s Snapshot) Player(seat Seat) PlayerState {
	return s.Players[seat]
}

// HumanToAct reports whether the engine is waiting for the human.
func (s Snapshot) HumanToAct() bool {
	return s.InProgress && s.ToAct == Human
}

func snapshotOf(h *HandState) Snapshot {
	s := Snapshot{
		InProgress: !h.IsOver(),
		Street:     h.Street,
		Pot:        h.Pot,
		Button:     h.Button,
		ToAct:      h.ToAct,
		Board:      append([]deck.Card(nil), h.Board...),
		SmallBlind: h.SmallBlind,
		BigBlind:   h.BigBlind,
	}
	for _, seat := range []Seat{Human, AI} {
		s.Players[seat] = PlayerState{
			Stack: h.Stacks[seat],
			Bet:   h.Bets[seat],
			Acted: h.Acted[seat],
			AllIn: h.IsAllIn(seat) && !h.IsOver(),
		}
	}
	s.Players[Human].Hole = []deck.Card{h.Hole[Human][0], h.Hole[Human][1]}
	if h.Result != nil && h.Result.Showdown {
		s.Players[AI].Hole = []deck.Card{h.Hole[AI][0], h.Hole[AI][1]}
	}
	if h.ToAct == Human {
		s.ValidActions = h.ValidActions()
		if h.CanRaise() {
			s.MinRaiseTarget = min(h.MinRaiseTarget(), h.MaxRaiseTarget())
			s.MaxRaiseTarget = h.MaxRaiseTarget()
		}
	}
	if h.Result != nil {
		r := *h.Result
		s.Result = &r
	}
	return s
}
