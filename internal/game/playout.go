package game

import (
	"fmt"
	"math/rand/v2"
)

// PlayOut plays h to completion with players[seat] choosing every action
// for that seat, without delays or events. Decisions are fitted to the
// legal actions the same way as the engine's AI turns.
func PlayOut(h *HandState, rng *rand.Rand, players [2]Opponent) error {
	for !h.IsOver() {
		if h.StreetComplete() {
			if err := h.AdvanceStreet(); err != nil {
				return err
			}
			continue
		}

		seat := h.ToAct
		if !seat.Valid() {
			return fmt.Errorf("hand stalled on the %s with nobody to act", h.Street)
		}
		d, err := players[seat].Decide(rng, h.View(seat))
		if err != nil {
			return fmt.Errorf("%s decision: %w", seat, err)
		}
		action, amount := normalize(h, d)
		if err := h.Apply(seat, action, amount); err != nil {
			return fmt.Errorf("%s %s: %w", seat, action, err)
		}
	}
	return nil
}
