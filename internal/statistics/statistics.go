// Package statistics summarises per-hand results in big blinds, for both
// the interactive session tracker and headless simulations.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/headsup/internal/game"
)

// BigPotBB is the pot size, in big blinds, from which a hand counts as a
// big pot.
const BigPotBB = 50

// HandResult is the outcome of one hand from the tracked player's side.
type HandResult struct {
	NetBB          float64 // big blinds won (negative when lost)
	Seed           int64   // seed the hand was dealt from, for replay
	OnButton       bool    // tracked player had the button
	WentToShowdown bool
	Pot            int // final pot in chips
	BigBlind       int
	Street         game.Street // furthest street reached before the hand ended
}

// moments accumulates count, sum and sum of squares.
type moments struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

func (m *moments) add(x float64) {
	m.Hands++
	m.SumBB += x
	m.SumBB2 += x * x
}

// Mean returns the mean result in big blinds per hand.
func (m moments) Mean() float64 {
	if m.Hands == 0 {
		return 0
	}
	return m.SumBB / float64(m.Hands)
}

// Variance returns the sample variance.
func (m moments) Variance() float64 {
	if m.Hands < 2 {
		return 0
	}
	mean := m.Mean()
	return (m.SumBB2 - float64(m.Hands)*mean*mean) / float64(m.Hands-1)
}

// StdDev returns the sample standard deviation.
func (m moments) StdDev() float64 {
	return math.Sqrt(m.Variance())
}

// StdError returns the standard error of the mean.
func (m moments) StdError() float64 {
	if m.Hands == 0 {
		return 0
	}
	return m.StdDev() / math.Sqrt(float64(m.Hands))
}

// PositionStats aggregates results from one position.
type PositionStats struct {
	moments
}

// Statistics aggregates hand results.
type Statistics struct {
	moments
	Values []float64

	ShowdownWins    int     // hands won at showdown
	NonShowdownWins int     // hands won because the opponent folded
	ShowdownBB      float64 // net from showdown hands, wins and losses
	NonShowdownBB   float64
	AllBB           float64

	Button   PositionStats
	BigBlind PositionStats

	// Hands that ended on each street.
	Streets [5]int

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int
	BigPotsBB   float64
}

// Add records one hand.
func (s *Statistics) Add(r HandResult) {
	s.add(r.NetBB)
	s.Values = append(s.Values, r.NetBB)
	s.AllBB += r.NetBB

	if r.WentToShowdown {
		s.ShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.NonShowdownWins++
		}
	}

	if r.OnButton {
		s.Button.add(r.NetBB)
	} else {
		s.BigBlind.add(r.NetBB)
	}

	if int(r.Street) < len(s.Streets) {
		s.Streets[r.Street]++
	}

	if r.Pot > s.MaxPotChips {
		s.MaxPotChips = r.Pot
		if r.BigBlind > 0 {
			s.MaxPotBB = float64(r.Pot) / float64(r.BigBlind)
		}
	}
	if r.BigBlind > 0 && r.Pot >= BigPotBB*r.BigBlind {
		s.BigPots++
		s.BigPotsBB += r.NetBB
	}
}

// BBPer100 returns the win rate in big blinds per hundred hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	margin := 1.96 * s.StdError()
	return s.Mean() - margin, s.Mean() + margin
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(s.Values))
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[lo+1]*w
}

// IsLedgerBalanced reports whether showdown and non-showdown totals add up.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the aggregates for internal consistency.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("recorded %d values for %d hands", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins (%d) exceed hands (%d)", wins, s.Hands)
	}
	if n := s.Button.Hands + s.BigBlind.Hands; n != s.Hands {
		return fmt.Errorf("position hands (%d) do not match hands (%d)", n, s.Hands)
	}
	return nil
}

// FromHand derives seat's result from a finished hand that started with
// startStack chips in front of seat.
func FromHand(h *game.HandState, seat game.Seat, startStack int, seed int64) HandResult {
	r := HandResult{
		NetBB:    float64(h.Stacks[seat]-startStack) / float64(h.BigBlind),
		Seed:     seed,
		OnButton: h.Button == seat,
		BigBlind: h.BigBlind,
		Street:   streetReached(len(h.Board)),
	}
	if h.Result != nil {
		r.WentToShowdown = h.Result.Showdown
		r.Pot = h.Result.Won[game.Human] + h.Result.Won[game.AI] + h.Result.Dropped
		if r.WentToShowdown {
			r.Street = game.Showdown
		}
	}
	return r
}

func streetReached(boardCards int) game.Street {
	switch {
	case boardCards >= 5:
		return game.River
	case boardCards == 4:
		return game.Turn
	case boardCards == 3:
		return game.Flop
	default:
		return game.Preflop
	}
}

// FromSnapshot derives seat's result from the snapshot published when a
// hand ended.
func FromSnapshot(s game.Snapshot, seat game.Seat, startStack int) HandResult {
	r := HandResult{
		OnButton: s.Button == seat,
		BigBlind: s.BigBlind,
		Street:   streetReached(len(s.Board)),
	}
	if s.BigBlind > 0 {
		r.NetBB = float64(s.Players[seat].Stack-startStack) / float64(s.BigBlind)
	}
	if s.Result != nil {
		r.WentToShowdown = s.Result.Showdown
		r.Pot = s.Result.Won[game.Human] + s.Result.Won[game.AI] + s.Result.Dropped
		if r.WentToShowdown {
			r.Street = game.Showdown
		}
	}
	return r
}
