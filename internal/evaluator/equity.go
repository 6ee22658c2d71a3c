package evaluator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/randutil"
)

// DefaultTrials is the number of simulated deals per estimate.
const DefaultTrials = 600

// parallelThreshold is the trial count below which workers are not worth
// their setup cost.
const parallelThreshold = 200

// ErrInvalidInput is returned for malformed hero or board cards.
var ErrInvalidInput = errors.New("invalid equity input")

// Result aggregates the outcome of a simulation.
type Result struct {
	Wins   int
	Ties   int
	Losses int
}

// Trials returns the number of simulated deals.
func (r Result) Trials() int {
	return r.Wins + r.Ties + r.Losses
}

// Equity returns (wins + ties/2) / trials.
func (r Result) Equity() float64 {
	if r.Trials() == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Ties)/2) / float64(r.Trials())
}

func (r *Result) add(o Result) {
	r.Wins += o.Wins
	r.Ties += o.Ties
	r.Losses += o.Losses
}

// Estimator approximates a hero's probability of winning against one hidden
// opponent hand by sampling the unknown cards.
type Estimator struct {
	trials   int
	workers  int
	preflop  Range
	postflop Range
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithTrials sets the number of simulated deals.
func WithTrials(n int) EstimatorOption {
	return func(e *Estimator) { e.trials = n }
}

// WithWorkers sets the number of goroutines that share the trials. Fixing it
// makes results reproducible across machines for a given seed.
func WithWorkers(n int) EstimatorOption {
	return func(e *Estimator) { e.workers = n }
}

// WithRanges sets the opponent ranges assumed before and after the flop.
func WithRanges(preflop, postflop Range) EstimatorOption {
	return func(e *Estimator) {
		e.preflop = preflop
		e.postflop = postflop
	}
}

// NewEstimator creates an estimator. By default it runs DefaultTrials deals,
// samples the opponent uniformly pre-flop and with DefaultBiasedRange once
// board cards are known.
func NewEstimator(opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		trials:   DefaultTrials,
		workers:  min(runtime.GOMAXPROCS(0), 8),
		preflop:  UniformRange{},
		postflop: DefaultBiasedRange,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.trials < 1 {
		e.trials = 1
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// Trials returns the configured number of simulated deals.
func (e *Estimator) Trials() int {
	return e.trials
}

// Estimate returns the hero's equity in [0, 1].
func (e *Estimator) Estimate(rng *rand.Rand, hero, board []deck.Card) (float64, error) {
	res, err := e.EstimateDetailed(rng, hero, board)
	if err != nil {
		return 0, err
	}
	return res.Equity(), nil
}

// EstimateDetailed runs the simulation and returns win/tie/loss counts.
func (e *Estimator) EstimateDetailed(rng *rand.Rand, hero, board []deck.Card) (Result, error) {
	if err := validate(hero, board); err != nil {
		return Result{}, err
	}

	known := make([]deck.Card, 0, 7)
	known = append(known, hero...)
	known = append(known, board...)
	available := deck.Remaining(known...)

	opp := e.preflop
	if len(board) > 0 {
		opp = e.postflop
	}

	workers := e.workers
	if e.trials < parallelThreshold {
		workers = 1
	}
	if workers == 1 {
		return runTrials(rng, hero, board, available, opp, e.trials), nil
	}

	// Each worker owns its RNG and its copy of the pool; trials stay i.i.d.
	rngs := randutil.Split(rng, workers)
	results := make([]Result, workers)
	var g errgroup.Group
	for w := range workers {
		n := e.trials / workers
		if w < e.trials%workers {
			n++
		}
		g.Go(func() error {
			results[w] = runTrials(rngs[w], hero, board, available, opp, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total Result
	for _, r := range results {
		total.add(r)
	}
	return total, nil
}

func runTrials(rng *rand.Rand, hero, board, available []deck.Card, opp Range, n int) Result {
	pool := make([]deck.Card, len(available))
	need := 5 - len(board)

	heroHand := make([]deck.Card, 7)
	oppHand := make([]deck.Card, 7)
	copy(heroHand, hero)
	copy(heroHand[2:], board)
	copy(oppHand[2:], board)

	var res Result
	for range n {
		copy(pool, available)
		// Partial Fisher-Yates: the first need cards complete the board.
		for i := 0; i < need; i++ {
			j := i + rng.IntN(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		copy(heroHand[2+len(board):], pool[:need])
		copy(oppHand[2+len(board):], pool[:need])

		oppHole := opp.SampleHand(rng, pool[need:])
		oppHand[0], oppHand[1] = oppHole[0], oppHole[1]

		switch Evaluate(heroHand).Compare(Evaluate(oppHand)) {
		case 1:
			res.Wins++
		case 0:
			res.Ties++
		default:
			res.Losses++
		}
	}
	return res
}

func validate(hero, board []deck.Card) error {
	if len(hero) != 2 {
		return fmt.Errorf("%w: need 2 hole cards, got %d", ErrInvalidInput, len(hero))
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("%w: board must have 0, 3, 4 or 5 cards, got %d", ErrInvalidInput, len(board))
	}
	known := append(append([]deck.Card{}, hero...), board...)
	set := deck.NewCardSet()
	for _, c := range known {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrInvalidInput, c)
		}
		if set.Contains(c) {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		set.Add(c)
	}
	return nil
}
