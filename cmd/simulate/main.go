package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/bot"
	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/simulator"
)

type CLI struct {
	Hands    int           `default:"2000" help:"Number of deals to simulate (each is played twice)"`
	Opponent string        `default:"call" enum:"fold,call,rand,maniac,policy" help:"Opponent: fold, call, rand, maniac or policy (mirror match)"`
	Seed     int64         `default:"0" help:"RNG seed (0 for random)"`
	Trials   int           `default:"200" help:"Equity trials per AI decision"`
	Workers  int           `default:"0" help:"Concurrent hands (0 for one per CPU)"`
	Config   string        `short:"c" help:"HCL config file for blinds, stacks and policy tuning" type:"path"`
	Timeout  time.Duration `default:"0s" help:"Abort after this long (0 for no limit)"`
	Verbose  bool          `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Description("Measure the AI policy's win rate against a fixed opponent."))

	if err := run(cli); err != nil {
		log.Error("Simulation failed", "error", err)
		ctx.Exit(1)
	}
}

func run(cli CLI) error {
	if cli.Seed == 0 {
		cli.Seed = randutil.NewSeed()
	}
	if cli.Workers <= 0 {
		cli.Workers = runtime.GOMAXPROCS(0)
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	// Hands already run in parallel; keep each equity estimate on one goroutine.
	opts := append(slices.Clone(cfg.EstimatorOptions()), evaluator.WithTrials(cli.Trials), evaluator.WithWorkers(1))
	hero := bot.NewPolicy(evaluator.NewEstimator(opts...), cfg.PolicyConfig(), bot.WithLogger(logger))

	var villain game.Opponent = hero
	if cli.Opponent != "policy" {
		if villain, err = bot.NewBaseline(cli.Opponent); err != nil {
			return err
		}
	}

	fmt.Printf("Starting simulation: %d deals vs %s (seed: %d)\n", cli.Hands, cli.Opponent, cli.Seed)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Hands:         cli.Hands,
		Seed:          cli.Seed,
		SmallBlind:    cfg.Game.SmallBlind,
		BigBlind:      cfg.Game.BigBlind,
		StartingStack: cfg.Game.StartingStack,
		Workers:       cli.Workers,
		Timeout:       cli.Timeout,
		Logger:        logger,
	}, hero, villain)

	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, stats, cli.Opponent)
	fmt.Printf("\nCompleted in %v\n", time.Since(start).Truncate(time.Millisecond))
	return nil
}
