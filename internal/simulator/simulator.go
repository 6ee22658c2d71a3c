// Package simulator plays the AI policy against another opponent without
// the engine's pacing, to measure its win rate over many hands.
package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Hands         int
	Seed          int64
	SmallBlind    int
	BigBlind      int
	StartingStack int
	// Workers bounds how many hand pairs are played concurrently.
	Workers int
	// Timeout bounds the whole run; zero means no limit.
	Timeout time.Duration
	Logger  *log.Logger
}

// Simulator runs heads-up matches between hero and villain. Every deal is
// played twice with the players swapped into each other's seat, so both
// see the same cards and positions.
type Simulator struct {
	config  Config
	hero    game.Opponent
	villain game.Opponent
	logger  *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config, hero, villain game.Opponent) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Simulator{
		config:  config,
		hero:    hero,
		villain: villain,
		logger:  logger.WithPrefix("simulator"),
	}
}

// Run plays config.Hands deals, each twice, and returns hero's results.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Hands <= 0 {
		return nil, fmt.Errorf("hands must be positive, got %d", s.config.Hands)
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	results := make([]statistics.HandResult, 2*s.config.Hands)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Hands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := s.config.Seed + int64(i)
			button := game.Seat(i % 2)

			r1, err := s.playHand(seed, game.AI, button)
			if err != nil {
				return fmt.Errorf("hand %d (seed %d): %w", i+1, seed, err)
			}
			r2, err := s.playHand(seed, game.Human, button)
			if err != nil {
				return fmt.Errorf("duplicate hand %d (seed %d): %w", i+1, seed, err)
			}
			results[2*i], results[2*i+1] = r1, r2
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.logger.Info("Simulation finished", "hands", stats.Hands, "bb/100", stats.BBPer100())
	return stats, nil
}

// playHand deals the hand for seed with hero in heroSeat and plays it out.
func (s *Simulator) playHand(seed int64, heroSeat game.Seat, button game.Seat) (statistics.HandResult, error) {
	rng := randutil.New(seed)
	stack := s.config.StartingStack
	h := game.NewHand(rng, button, s.config.SmallBlind, s.config.BigBlind, game.WithStacks(stack, stack))

	var players [2]game.Opponent
	players[heroSeat] = s.hero
	players[heroSeat.Other()] = s.villain

	if err := game.PlayOut(h, rng, players); err != nil {
		return statistics.HandResult{}, err
	}
	if !h.ChipsConserved() {
		return statistics.HandResult{}, fmt.Errorf("chips not conserved: %d in play", h.TotalChips())
	}

	r := statistics.FromHand(h, heroSeat, stack, seed)
	s.logger.Debug("Hand played", "seed", seed, "seat", heroSeat, "button", button, "net", r.NetBB, "showdown", r.WentToShowdown)
	return r, nil
}

// PrintSummary writes a report of stats to w.
func PrintSummary(w io.Writer, stats *statistics.Statistics, opponent string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS vs %s ===\n", opponent)
	fmt.Fprintf(w, "Hands played: %d\n", stats.Hands)
	fmt.Fprintf(w, "Win rate: %.2f bb/100 (95%% CI [%.2f, %.2f])\n", stats.BBPer100(), low*100, high*100)
	fmt.Fprintf(w, "Mean: %.4f bb/hand, median %.4f, std dev %.4f, std error %.4f\n",
		stats.Mean(), stats.Median(), stats.StdDev(), stats.StdError())
	fmt.Fprintf(w, "Percentiles: P5=%.3f P25=%.3f P75=%.3f P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PROFIT SOURCES ===\n")
	if wins := stats.ShowdownWins + stats.NonShowdownWins; wins > 0 {
		fmt.Fprintf(w, "Winning hands: %d at showdown (%.1f%%), %d uncontested (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(wins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(wins)*100)
	}
	fmt.Fprintf(w, "Showdown: %.3f bb/hand, non-showdown: %.3f bb/hand\n",
		stats.ShowdownBB/float64(stats.Hands), stats.NonShowdownBB/float64(stats.Hands))

	fmt.Fprintf(w, "\n=== POSITION ===\n")
	fmt.Fprintf(w, "Button: %d hands, %.3f bb/hand\n", stats.Button.Hands, stats.Button.Mean())
	fmt.Fprintf(w, "Big blind: %d hands, %.3f bb/hand\n", stats.BigBlind.Hands, stats.BigBlind.Mean())

	fmt.Fprintf(w, "\n=== HANDS ENDED ON ===\n")
	for street, n := range stats.Streets {
		if n > 0 {
			fmt.Fprintf(w, "%-9s %d (%.1f%%)\n", game.Street(street), n, float64(n)/float64(stats.Hands)*100)
		}
	}
	fmt.Fprintf(w, "Largest pot: %d chips (%.1f bb), big pots: %d\n", stats.MaxPotChips, stats.MaxPotBB, stats.BigPots)
}
