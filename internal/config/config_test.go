package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ec := cfg.EngineConfig()
	assert.Equal(t, 10, ec.SmallBlind)
	assert.Equal(t, 20, ec.BigBlind)
	assert.Equal(t, 1000, ec.StartingStack)
	assert.Equal(t, 800*time.Millisecond, ec.AIDelay)
	assert.Equal(t, 0.08, cfg.PolicyConfig().BluffChance)
	assert.Len(t, cfg.EstimatorOptions(), 2)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesOnlyGivenValues(t *testing.T) {
	path := writeConfig(t, `
game {
  small_blind = 25
  big_blind   = 50
}

bot {
  trials       = 1200
  workers      = 2
  bluff_chance = 0
}

timing {
  ai_delay = "1.5s"
}

log {
  level = "debug"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Game.SmallBlind)
	assert.Equal(t, 50, cfg.Game.BigBlind)
	assert.Equal(t, 1000, cfg.Game.StartingStack)
	assert.Equal(t, 1200, cfg.Bot.Trials)
	assert.Equal(t, 2, cfg.Bot.Workers)
	assert.Equal(t, 0.0, cfg.Bot.BluffChance, "explicit zero is kept")
	assert.Equal(t, 0.35, cfg.Bot.BluffEquityCeiling)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.AIDelay)
	assert.Equal(t, 600*time.Millisecond, cfg.Timing.StreetDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "holdem.log", cfg.Log.File)
	assert.Len(t, cfg.EstimatorOptions(), 3)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
game {
  big_blind = 40
}
`)
	t.Setenv("HOLDEM_GAME_BIG_BLIND", "60")
	t.Setenv("HOLDEM_GAME_STARTING_STACK", "5000")
	t.Setenv("HOLDEM_TIMING_STREET_DELAY", "0s")
	t.Setenv("HOLDEM_BOT_VALUE_MARGIN", "0.1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Game.BigBlind)
	assert.Equal(t, 5000, cfg.Game.StartingStack)
	assert.Equal(t, time.Duration(0), cfg.Timing.StreetDelay)
	assert.Equal(t, 0.1, cfg.Bot.ValueMargin)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":         `game {`,
		"unknown block":  `table "main" {}`,
		"wrong type":     `game { big_blind = "lots" }`,
		"bad duration":   `timing { ai_delay = "soon" }`,
		"invalid values": `game { big_blind = 5 }`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	t.Setenv("HOLDEM_BOT_TRIALS", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero small blind", func(c *Config) { c.Game.SmallBlind = 0 }, "small blind"},
		{"big blind not above small", func(c *Config) { c.Game.BigBlind = 10 }, "big blind"},
		{"tiny stack", func(c *Config) { c.Game.StartingStack = 30 }, "starting stack"},
		{"no trials", func(c *Config) { c.Bot.Trials = 0 }, "trials"},
		{"negative workers", func(c *Config) { c.Bot.Workers = -1 }, "workers"},
		{"negative retries", func(c *Config) { c.Bot.WeakRetries = -1 }, "weak_retries"},
		{"bluff above one", func(c *Config) { c.Bot.BluffChance = 1.5 }, "bluff_chance"},
		{"negative margin", func(c *Config) { c.Bot.ValueMargin = -0.1 }, "value_margin"},
		{"negative delay", func(c *Config) { c.Timing.AIDelay = -time.Second }, "delays"},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
