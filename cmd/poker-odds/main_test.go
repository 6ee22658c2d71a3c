package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

func TestParseInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hero     string
		board    string
		hasError bool
	}{
		{"preflop", "AcKh", "", false},
		{"flop", "AcKh", "Td7s8h", false},
		{"river", "AcKh", "Td7s8h2c3d", false},
		{"three hole cards", "AcKhQd", "", true},
		{"one hole card", "Ac", "", true},
		{"bad card", "AcXy", "", true},
		{"two board cards", "AcKh", "Td7s", true},
		{"duplicate", "AcKh", "AcTd7s", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hero, board, err := parseInput(tt.hero, tt.board)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, hero, 2)
			assert.Len(t, board, len(tt.board)/2)
		})
	}
}

func TestCategoryFrequencies(t *testing.T) {
	t.Parallel()

	rng := randutil.New(1)
	hero := deck.MustParseCards("AsKs")
	board := deck.MustParseCards("QsJsTs")
	counts := categoryFrequencies(rng, hero, board, 200)
	assert.Equal(t, map[evaluator.Category]int{evaluator.RoyalFlush: 200}, counts)

	counts = categoryFrequencies(rng, deck.MustParseCards("7c2d"), nil, 1000)
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 1000, total)
	assert.Greater(t, counts[evaluator.OnePair], counts[evaluator.Flush])
}

func TestRun(t *testing.T) {
	t.Parallel()

	seed := int64(7)
	var out bytes.Buffer
	err := run(CLI{Hero: "AhAd", Range: "biased", Trials: 2000, Workers: 2, Categories: true, Seed: &seed}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "equity")
	assert.Contains(t, s, "One Pair")
	assert.Contains(t, s, "2000 trials")

	err = run(CLI{Hero: "AhAd", Trials: 0}, &out)
	assert.Error(t, err)
}
