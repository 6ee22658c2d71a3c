// Package config loads game settings from an optional HCL file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kelseyhightower/envconfig"

	"github.com/lox/headsup/internal/bot"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
)

// EnvPrefix prefixes every environment override, e.g. HOLDEM_GAME_BIG_BLIND.
const EnvPrefix = "holdem"

// Config is the resolved configuration.
type Config struct {
	Game   GameConfig   `envconfig:"game"`
	Bot    BotConfig    `envconfig:"bot"`
	Timing TimingConfig `envconfig:"timing"`
	Log    LogConfig    `envconfig:"log"`
}

// GameConfig holds the stakes.
type GameConfig struct {
	SmallBlind    int `envconfig:"small_blind"`
	BigBlind      int `envconfig:"big_blind"`
	StartingStack int `envconfig:"starting_stack"`
}

// BotConfig tunes the AI opponent and its equity simulation.
type BotConfig struct {
	Trials             int     `envconfig:"trials"`
	Workers            int     `envconfig:"workers"`
	BluffChance        float64 `envconfig:"bluff_chance"`
	BluffEquityCeiling float64 `envconfig:"bluff_equity_ceiling"`
	ValueMargin        float64 `envconfig:"value_margin"`
	PotSizeEquity      float64 `envconfig:"pot_size_equity"`
	WeakAcceptChance   float64 `envconfig:"weak_accept_chance"`
	WeakRetries        int     `envconfig:"weak_retries"`
}

// TimingConfig paces the AI and street changes.
type TimingConfig struct {
	AIDelay     time.Duration `envconfig:"ai_delay"`
	StreetDelay time.Duration `envconfig:"street_delay"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `envconfig:"level"`
	File  string `envconfig:"file"`
}

// fileConfig mirrors the HCL file. Every attribute is optional; pointers
// distinguish an explicit zero from an absent value.
type fileConfig struct {
	Game *struct {
		SmallBlind    *int `hcl:"small_blind,optional"`
		BigBlind      *int `hcl:"big_blind,optional"`
		StartingStack *int `hcl:"starting_stack,optional"`
	} `hcl:"game,block"`
	Bot *struct {
		Trials             *int     `hcl:"trials,optional"`
		Workers            *int     `hcl:"workers,optional"`
		BluffChance        *float64 `hcl:"bluff_chance,optional"`
		BluffEquityCeiling *float64 `hcl:"bluff_equity_ceiling,optional"`
		ValueMargin        *float64 `hcl:"value_margin,optional"`
		PotSizeEquity      *float64 `hcl:"pot_size_equity,optional"`
		WeakAcceptChance   *float64 `hcl:"weak_accept_chance,optional"`
		WeakRetries        *int     `hcl:"weak_retries,optional"`
	} `hcl:"bot,block"`
	Timing *struct {
		AIDelay     *string `hcl:"ai_delay,optional"`
		StreetDelay *string `hcl:"street_delay,optional"`
	} `hcl:"timing,block"`
	Log *struct {
		Level *string `hcl:"level,optional"`
		File  *string `hcl:"file,optional"`
	} `hcl:"log,block"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			SmallBlind:    10,
			BigBlind:      20,
			StartingStack: 1000,
		},
		Bot: BotConfig{
			Trials:             evaluator.DefaultTrials,
			Workers:            0, // one per CPU, capped
			BluffChance:        0.08,
			BluffEquityCeiling: 0.35,
			ValueMargin:        0.20,
			PotSizeEquity:      0.80,
			WeakAcceptChance:   evaluator.DefaultBiasedRange.AcceptWeak,
			WeakRetries:        evaluator.DefaultBiasedRange.Retries,
		},
		Timing: TimingConfig{
			AIDelay:     800 * time.Millisecond,
			StreetDelay: 600 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
			File:  "holdem.log",
		},
	}
}

// Load reads filename (if it exists) over the defaults, applies HOLDEM_*
// environment overrides and validates the result. An empty filename skips
// the file.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := cfg.loadFile(filename); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(filename string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if g := fc.Game; g != nil {
		set(&c.Game.SmallBlind, g.SmallBlind)
		set(&c.Game.BigBlind, g.BigBlind)
		set(&c.Game.StartingStack, g.StartingStack)
	}
	if b := fc.Bot; b != nil {
		set(&c.Bot.Trials, b.Trials)
		set(&c.Bot.Workers, b.Workers)
		set(&c.Bot.BluffChance, b.BluffChance)
		set(&c.Bot.BluffEquityCeiling, b.BluffEquityCeiling)
		set(&c.Bot.ValueMargin, b.ValueMargin)
		set(&c.Bot.PotSizeEquity, b.PotSizeEquity)
		set(&c.Bot.WeakAcceptChance, b.WeakAcceptChance)
		set(&c.Bot.WeakRetries, b.WeakRetries)
	}
	if t := fc.Timing; t != nil {
		if err := setDuration(&c.Timing.AIDelay, "ai_delay", t.AIDelay); err != nil {
			return err
		}
		if err := setDuration(&c.Timing.StreetDelay, "street_delay", t.StreetDelay); err != nil {
			return err
		}
	}
	if l := fc.Log; l != nil {
		set(&c.Log.Level, l.Level)
		set(&c.Log.File, l.File)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, name string, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("timing.%s: %w", name, err)
	}
	*dst = d
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	g := c.Game
	if g.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", g.SmallBlind)
	}
	if g.BigBlind <= g.SmallBlind {
		return fmt.Errorf("big blind (%d) must be greater than small blind (%d)", g.BigBlind, g.SmallBlind)
	}
	if g.StartingStack < 2*g.BigBlind {
		return fmt.Errorf("starting stack (%d) must cover at least two big blinds", g.StartingStack)
	}

	b := c.Bot
	if b.Trials <= 0 {
		return fmt.Errorf("bot trials must be positive, got %d", b.Trials)
	}
	if b.Workers < 0 {
		return fmt.Errorf("bot workers must not be negative, got %d", b.Workers)
	}
	if b.WeakRetries < 0 {
		return fmt.Errorf("bot weak_retries must not be negative, got %d", b.WeakRetries)
	}
	probabilities := []struct {
		name string
		v    float64
	}{
		{"bluff_chance", b.BluffChance},
		{"bluff_equity_ceiling", b.BluffEquityCeiling},
		{"value_margin", b.ValueMargin},
		{"pot_size_equity", b.PotSizeEquity},
		{"weak_accept_chance", b.WeakAcceptChance},
	}
	for _, p := range probabilities {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("bot %s must be within [0, 1], got %g", p.name, p.v)
		}
	}

	if c.Timing.AIDelay < 0 || c.Timing.StreetDelay < 0 {
		return fmt.Errorf("timing delays must not be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// EngineConfig returns the engine settings.
func (c *Config) EngineConfig() game.Config {
	return game.Config{
		SmallBlind:    c.Game.SmallBlind,
		BigBlind:      c.Game.BigBlind,
		StartingStack: c.Game.StartingStack,
		AIDelay:       c.Timing.AIDelay,
		StreetDelay:   c.Timing.StreetDelay,
	}
}

// PolicyConfig returns the opponent's decision settings.
func (c *Config) PolicyConfig() bot.Config {
	return bot.Config{
		BluffChance:        c.Bot.BluffChance,
		BluffEquityCeiling: c.Bot.BluffEquityCeiling,
		ValueMargin:        c.Bot.ValueMargin,
		PotSizeEquity:      c.Bot.PotSizeEquity,
	}
}

// EstimatorOptions returns the equity simulation settings.
func (c *Config) EstimatorOptions() []evaluator.EstimatorOption {
	opts := []evaluator.EstimatorOption{
		evaluator.WithTrials(c.Bot.Trials),
		evaluator.WithRanges(evaluator.UniformRange{}, evaluator.BiasedRange{
			AcceptWeak: c.Bot.WeakAcceptChance,
			Retries:    c.Bot.WeakRetries,
		}),
	}
	if c.Bot.Workers > 0 {
		opts = append(opts, evaluator.WithWorkers(c.Bot.Workers))
	}
	return opts
}
