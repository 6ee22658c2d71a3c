package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/internal/bot"
	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/tui"
)

var version = "dev"

type CLI struct {
	Config  string           `short:"c" help:"HCL config file" default:"holdem.hcl" type:"path"`
	Seed    *int64           `help:"Random seed for reproducible shuffles and AI decisions"`
	Debug   bool             `short:"d" help:"Show AI equity and reasoning, log at debug level"`
	LogFile string           `help:"Log file (overrides the config file)" type:"path"`
	NoColor bool             `help:"Disable colors"`
	Version kong.VersionFlag `help:"Print version and exit"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Heads-up No-Limit Texas Hold'em against the computer."),
		kong.Vars{"version": version})

	if err := run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

func run(cli CLI) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogFile != "" {
		cfg.Log.File = cli.LogFile
	}
	if cli.Debug {
		cfg.Log.Level = "debug"
	}
	if cli.NoColor {
		tui.DisableColor()
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
		Prefix:          "holdem",
	})

	seed := randutil.NewSeed()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	logger.Info("Starting session", "version", version, "seed", seed, "config", cli.Config)

	estimator := evaluator.NewEstimator(cfg.EstimatorOptions()...)
	policy := bot.NewPolicy(estimator, cfg.PolicyConfig(), bot.WithLogger(logger))
	engine := game.NewEngine(cfg.EngineConfig(), policy,
		game.WithLogger(logger),
		game.WithRand(randutil.New(seed)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	model := tui.New(engine, tui.WithDebug(cli.Debug), tui.WithLogger(logger))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	engine.Subscribe(tui.Subscriber(program))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := engine.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("ui: %w", err)
		}
		return nil
	})

	err = g.Wait()
	snap := engine.Snapshot()
	logger.Info("Session ended",
		"hands", snap.HandNumber,
		"human", snap.Player(game.Human).Stack,
		"ai", snap.Player(game.AI).Stack)
	return err
}
