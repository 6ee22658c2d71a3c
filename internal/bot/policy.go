// Package bot implements the AI opponent: it estimates its equity by
// simulation and maps equity, pot odds and a scripted bluff chance to an
// action.
package bot

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
)

// Config tunes the decision ladder.
type Config struct {
	// BluffChance is the probability of bluffing when equity is below
	// BluffEquityCeiling.
	BluffChance        float64
	BluffEquityCeiling float64
	// ValueMargin is how far equity must exceed the required equity before
	// raising for value.
	ValueMargin float64
	// PotSizeEquity is the equity above which value raises are pot sized
	// instead of half pot.
	PotSizeEquity float64
}

// DefaultConfig returns the standard opponent tuning.
func DefaultConfig() Config {
	return Config{
		BluffChance:        0.08,
		BluffEquityCeiling: 0.35,
		ValueMargin:        0.20,
		PotSizeEquity:      0.80,
	}
}

// Policy is the AI opponent. It implements game.Opponent.
type Policy struct {
	est    *evaluator.Estimator
	cfg    Config
	logger *log.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithLogger sets the policy's logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Policy) { p.logger = logger }
}

// NewPolicy creates a policy that estimates equity with est.
func NewPolicy(est *evaluator.Estimator, cfg Config, opts ...Option) *Policy {
	p := &Policy{
		est:    est,
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithPrefix("bot")
	return p
}

// RequiredEquity returns the break-even equity for calling toCall into pot,
// or zero when nothing is owed.
func RequiredEquity(pot, toCall int) float64 {
	if toCall <= 0 {
		return 0
	}
	return float64(toCall) / float64(pot+toCall)
}

// Decide estimates equity for the view and walks the decision ladder:
// bluff, value raise, call, then check or fold.
func (p *Policy) Decide(rng *rand.Rand, v game.View) (game.Decision, error) {
	equity, err := p.est.Estimate(rng, v.Hole, v.Board)
	if err != nil {
		return game.Decision{}, fmt.Errorf("estimating equity: %w", err)
	}
	d := p.decide(rng, v, equity)

	p.logger.Debug("Decision",
		"street", v.Street,
		"equity", fmt.Sprintf("%.3f", d.Equity),
		"required", fmt.Sprintf("%.3f", d.RequiredEquity),
		"action", d.Action,
		"raiseTo", d.RaiseTo,
		"bluff", d.Bluff)
	return d, nil
}

func (p *Policy) decide(rng *rand.Rand, v game.View, equity float64) game.Decision {
	required := RequiredEquity(v.Pot, v.ToCall)
	d := game.Decision{Equity: equity, RequiredEquity: required}

	switch {
	case equity < p.cfg.BluffEquityCeiling && rng.Float64() < p.cfg.BluffChance:
		d.Action = game.Raise
		d.Bluff = true
		d.RaiseTo = p.raiseTarget(v, false)
		d.Rationale = fmt.Sprintf("bluffing with %.0f%% equity", 100*equity)

	case equity > required+p.cfg.ValueMargin:
		d.Action = game.Raise
		d.RaiseTo = p.raiseTarget(v, equity > p.cfg.PotSizeEquity)
		d.Rationale = fmt.Sprintf("raising for value: %.0f%% equity vs %.0f%% needed", 100*equity, 100*required)

	case equity > required:
		d.Action = game.Call
		if v.ToCall == 0 {
			d.Action = game.Check
		}
		d.Rationale = fmt.Sprintf("%.0f%% equity beats the %.0f%% price", 100*equity, 100*required)

	default:
		d.Action = game.Fold
		d.Rationale = fmt.Sprintf("%.0f%% equity is short of the %.0f%% needed", 100*equity, 100*required)
	}

	// Never fold when checking is free.
	if d.Action == game.Fold && v.ToCall == 0 {
		d.Action = game.Check
		d.Rationale = fmt.Sprintf("checking with %.0f%% equity", 100*equity)
	}
	return d
}

// raiseTarget sizes a raise to the full pot or half of it on top of the
// opponent's contribution, clamped to at least one big blind and at most
// all-in.
func (p *Policy) raiseTarget(v game.View, potSized bool) int {
	size := v.Pot / 2
	if potSized {
		size = v.Pot
	}
	target := v.OpponentContribution + size
	target = min(target, v.Stack+v.Contribution)
	return max(target, v.BigBlind)
}
