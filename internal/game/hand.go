package game

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

// HandState is the state of a single heads-up hand. It is not safe for
// concurrent use; the Engine serializes access to it.
//
// Pot always holds every chip posted this hand, including the current
// street's Bets, so Stacks[Human]+Stacks[AI]+Pot is constant until the hand
// is settled.
type HandState struct {
	Button     Seat
	SmallBlind int
	BigBlind   int

	Street Street
	Pot    int
	Stacks [2]int
	Bets   [2]int  // contributions on the current street
	Acted  [2]bool // has acted since the last raise on this street
	Hole   [2][2]deck.Card
	Board  []deck.Card
	ToAct  Seat

	// Result is set once the hand has ended.
	Result *Result

	deck       *deck.Deck
	startChips int
}

// Result describes how a hand ended.
type Result struct {
	// Winner is NoSeat for a split pot.
	Winner   Seat
	Won      [2]int
	Dropped  int  // odd chip lost on a split pot
	Showdown bool // false when the hand ended with a fold
	Folded   Seat
	Strength [2]evaluator.HandStrength
	Summary  string
}

func (h *HandState) dealHoleCards() {
	// Alternate like a real dealer: one card each, twice.
	for i := range 2 {
		h.Hole[Human][i] = h.deck.Draw()
		h.Hole[AI][i] = h.deck.Draw()
	}
}

func (h *HandState) postBlinds() {
	// Heads-up: button posts small blind
	h.post(h.Button, h.SmallBlind)
	h.post(h.Button.Other(), h.BigBlind)
}

// post moves up to amount chips from seat's stack into the pot and returns
// the chips actually moved.
func (h *HandState) post(seat Seat, amount int) int {
	amount = min(amount, h.Stacks[seat])
	h.Stacks[seat] -= amount
	h.Bets[seat] += amount
	h.Pot += amount
	return amount
}

// IsOver reports whether the hand has ended.
func (h *HandState) IsOver() bool {
	return h.Result != nil
}

// IsAllIn reports whether seat has no chips behind.
func (h *HandState) IsAllIn(seat Seat) bool {
	return h.Stacks[seat] == 0
}

// Owed returns the chips seat must add to match its opponent.
func (h *HandState) Owed(seat Seat) int {
	return max(0, h.Bets[seat.Other()]-h.Bets[seat])
}

// needsToAct reports whether seat still owes a decision on this street.
func (h *HandState) needsToAct(seat Seat) bool {
	if h.Acted[seat] || h.IsAllIn(seat) {
		return false
	}
	// Nothing left to respond to against an all-in that is already matched.
	opp := seat.Other()
	return !(h.IsAllIn(opp) && h.Bets[seat] >= h.Bets[opp])
}

// StreetComplete reports whether betting on the current street is closed:
// neither player owes a decision and the contributions are level, or one
// player is all-in.
func (h *HandState) StreetComplete() bool {
	if h.IsOver() || h.Street == Showdown {
		return false
	}
	if h.needsToAct(Human) || h.needsToAct(AI) {
		return false
	}
	return h.Bets[Human] == h.Bets[AI] || h.IsAllIn(Human) || h.IsAllIn(AI)
}

// RunOut reports whether no further betting is possible this hand, so the
// remaining board is dealt without prompting.
func (h *HandState) RunOut() bool {
	return !h.IsOver() && (h.IsAllIn(Human) || h.IsAllIn(AI))
}

// firstToAct returns preferred if it owes a decision, otherwise its opponent
// if that one does, otherwise NoSeat.
func (h *HandState) firstToAct(preferred Seat) Seat {
	if h.StreetComplete() {
		return NoSeat
	}
	if h.needsToAct(preferred) {
		return preferred
	}
	if h.needsToAct(preferred.Other()) {
		return preferred.Other()
	}
	return NoSeat
}

// CanRaise reports whether the player to act may raise at all.
func (h *HandState) CanRaise() bool {
	if !h.ToAct.Valid() {
		return false
	}
	opp := h.ToAct.Other()
	return !h.IsAllIn(opp) && h.MaxRaiseTarget() > h.Bets[opp]
}

// MinRaiseTarget returns the smallest legal raise target for the player to
// act: one big blind when the opponent has nothing in, otherwise double the
// opponent's contribution. A player who cannot cover it may still raise
// all-in.
func (h *HandState) MinRaiseTarget() int {
	if !h.ToAct.Valid() {
		return 0
	}
	opp := h.Bets[h.ToAct.Other()]
	if opp == 0 {
		return h.BigBlind
	}
	return 2 * opp
}

// MaxRaiseTarget returns the all-in target for the player to act.
func (h *HandState) MaxRaiseTarget() int {
	if !h.ToAct.Valid() {
		return 0
	}
	return h.Stacks[h.ToAct] + h.Bets[h.ToAct]
}

// ValidActions returns the actions the player to act may take.
func (h *HandState) ValidActions() []Action {
	if h.IsOver() || !h.ToAct.Valid() {
		return nil
	}
	actions := []Action{Fold}
	if h.Owed(h.ToAct) == 0 {
		actions = append(actions, Check)
	} else {
		actions = append(actions, Call)
	}
	if h.CanRaise() {
		actions = append(actions, Raise)
	}
	return actions
}

// Apply applies seat's action. For Raise, amount is the target total street
// contribution; it is ignored otherwise. A rejected action returns an error
// wrapping ErrHandOver, ErrNotYourTurn or ErrIllegalAction and leaves the
// hand untouched.
func (h *HandState) Apply(seat Seat, action Action, amount int) error {
	if h.IsOver() || h.Street == Showdown {
		return ErrHandOver
	}
	if seat != h.ToAct {
		return fmt.Errorf("%w: %s acted but %s is to act", ErrNotYourTurn, seat, h.ToAct)
	}
	opp := seat.Other()

	switch action {
	case Fold:
		h.Stacks[opp] += h.Pot
		h.Result = &Result{
			Winner:  opp,
			Folded:  seat,
			Summary: fmt.Sprintf("%s folds, %s wins %d", seat, opp, h.Pot),
		}
		h.Result.Won[opp] = h.Pot
		h.Pot = 0
		h.Street = Showdown
		h.ToAct = NoSeat
		return nil

	case Check:
		if h.Bets[seat] != h.Bets[opp] {
			return fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, h.Owed(seat))
		}
		h.Acted[seat] = true

	case Call:
		// With nothing owed this posts no chips and plays as a check.
		h.post(seat, h.Owed(seat))
		h.Acted[seat] = true

	case Raise:
		if !h.CanRaise() {
			return fmt.Errorf("%w: raising is closed", ErrIllegalAction)
		}
		lo, hi := h.MinRaiseTarget(), h.MaxRaiseTarget()
		if hi < lo {
			lo = hi // short stack may only shove
		}
		if amount < lo || amount > hi {
			return fmt.Errorf("%w: raise to %d outside [%d, %d]", ErrIllegalAction, amount, lo, hi)
		}
		h.post(seat, amount-h.Bets[seat])
		h.Acted[seat] = true
		h.Acted[opp] = false

	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}

	h.ToAct = NoSeat
	if !h.StreetComplete() && h.needsToAct(opp) {
		h.ToAct = opp
	}
	return nil
}

// returnUncalled gives back the part of a bet the all-in opponent could not
// match.
func (h *HandState) returnUncalled() int {
	hi := Human
	if h.Bets[AI] > h.Bets[Human] {
		hi = AI
	}
	excess := h.Bets[hi] - h.Bets[hi.Other()]
	if excess > 0 {
		h.Bets[hi] -= excess
		h.Stacks[hi] += excess
		h.Pot -= excess
	}
	return excess
}

// AdvanceStreet closes the current street and deals the next one. Closing
// the river settles the hand at showdown.
func (h *HandState) AdvanceStreet() error {
	if h.IsOver() {
		return ErrHandOver
	}
	if !h.StreetComplete() {
		return ErrStreetOpen
	}

	h.returnUncalled()
	h.Bets = [2]int{}
	h.Acted = [2]bool{}

	if h.Street == River {
		h.Settle()
		return nil
	}

	h.Street++
	h.Board = append(h.Board, h.deck.DrawN(h.Street.boardCards())...)

	// Post-flop the non-button acts first
	h.ToAct = h.firstToAct(h.Button.Other())
	return nil
}

// Settle evaluates both hands against the board and distributes the pot.
// A tied pot is split evenly and any odd chip is dropped.
func (h *HandState) Settle() {
	if h.IsOver() {
		return
	}
	for len(h.Board) < 5 {
		h.Board = append(h.Board, h.deck.Draw())
	}

	var strength [2]evaluator.HandStrength
	for _, seat := range []Seat{Human, AI} {
		cards := append([]deck.Card{h.Hole[seat][0], h.Hole[seat][1]}, h.Board...)
		strength[seat] = evaluator.Evaluate(cards)
	}

	res := &Result{Winner: NoSeat, Folded: NoSeat, Showdown: true, Strength: strength}
	cmp, why := strength[Human].CompareWithExplanation(strength[AI])
	switch {
	case cmp > 0:
		res.Winner = Human
	case cmp < 0:
		res.Winner = AI
	}

	if res.Winner.Valid() {
		res.Won[res.Winner] = h.Pot
		res.Summary = fmt.Sprintf("%s wins %d: %s", res.Winner, h.Pot, why)
	} else {
		share := h.Pot / 2
		res.Won = [2]int{share, share}
		res.Dropped = h.Pot - 2*share
		res.Summary = fmt.Sprintf("split pot of %d: %s", h.Pot, why)
	}
	h.Stacks[Human] += res.Won[Human]
	h.Stacks[AI] += res.Won[AI]

	h.Pot = 0
	h.Bets = [2]int{}
	h.Street = Showdown
	h.ToAct = NoSeat
	h.Result = res
}

// TotalChips returns both stacks plus the pot.
func (h *HandState) TotalChips() int {
	return h.Stacks[Human] + h.Stacks[AI] + h.Pot
}

// ChipsConserved reports whether every chip from the start of the hand is
// accounted for, counting a dropped odd chip as accounted.
func (h *HandState) ChipsConserved() bool {
	dropped := 0
	if h.Result != nil {
		dropped = h.Result.Dropped
	}
	return h.TotalChips()+dropped == h.startChips
}

// DeckRebuilds reports how many times the deck ran dry during this hand.
func (h *HandState) DeckRebuilds() int {
	return h.deck.Rebuilds()
}

// View returns what seat can see when deciding.
func (h *HandState) View(seat Seat) View {
	return View{
		Hole:                 []deck.Card{h.Hole[seat][0], h.Hole[seat][1]},
		Board:                append([]deck.Card(nil), h.Board...),
		Street:               h.Street,
		Pot:                  h.Pot,
		ToCall:               h.Owed(seat),
		Contribution:         h.Bets[seat],
		OpponentContribution: h.Bets[seat.Other()],
		Stack:                h.Stacks[seat],
		BigBlind:             h.BigBlind,
	}
}
