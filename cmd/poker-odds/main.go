package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

type CLI struct {
	Hero       string `arg:"" help:"Hero hole cards (e.g. 'AsKd')"`
	Board      string `short:"b" help:"Community board cards (e.g. 'Td7s8h')"`
	Range      string `short:"r" help:"Opponent range" enum:"uniform,biased" default:"uniform"`
	Trials     int    `short:"t" help:"Number of Monte Carlo trials" default:"20000"`
	Workers    int    `short:"w" help:"Parallel simulation workers (0 for one per CPU)" default:"0"`
	Categories bool   `short:"c" help:"Show how often the hero finishes with each hand category"`
	Seed       *int64 `help:"Random seed for reproducible results"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Monte Carlo equity of a heads-up hand against a random opponent."))

	if err := run(cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

type report struct {
	Hero       []deck.Card
	Board      []deck.Card
	Result     evaluator.Result
	Categories map[evaluator.Category]int
	Duration   time.Duration
}

func run(cli CLI, w io.Writer) error {
	hero, board, err := parseInput(cli.Hero, cli.Board)
	if err != nil {
		return err
	}
	if cli.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", cli.Trials)
	}

	seed := randutil.NewSeed()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rng := randutil.New(seed)

	var opp evaluator.Range = evaluator.UniformRange{}
	if cli.Range == "biased" {
		opp = evaluator.DefaultBiasedRange
	}
	opts := []evaluator.EstimatorOption{
		evaluator.WithTrials(cli.Trials),
		evaluator.WithRanges(opp, opp),
	}
	if cli.Workers > 0 {
		opts = append(opts, evaluator.WithWorkers(cli.Workers))
	}

	start := time.Now()
	result, err := evaluator.NewEstimator(opts...).EstimateDetailed(rng, hero, board)
	if err != nil {
		return err
	}

	r := report{Hero: hero, Board: board, Result: result}
	if cli.Categories {
		r.Categories = categoryFrequencies(rng, hero, board, cli.Trials)
	}
	r.Duration = time.Since(start)

	return displayResults(w, r)
}

func parseInput(heroStr, boardStr string) (hero, board []deck.Card, err error) {
	hero, err = deck.ParseCards(heroStr)
	if err != nil {
		return nil, nil, fmt.Errorf("hero: %w", err)
	}
	if len(hero) != 2 {
		return nil, nil, fmt.Errorf("hero must hold exactly 2 cards, got %d", len(hero))
	}
	if boardStr != "" {
		board, err = deck.ParseCards(boardStr)
		if err != nil {
			return nil, nil, fmt.Errorf("board: %w", err)
		}
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return nil, nil, fmt.Errorf("board must have 0, 3, 4 or 5 cards, got %d", len(board))
	}

	seen := deck.NewCardSet()
	for _, card := range append(append([]deck.Card(nil), hero...), board...) {
		if seen.Contains(card) {
			return nil, nil, fmt.Errorf("duplicate card: %s", card)
		}
		seen.Add(card)
	}
	return hero, board, nil
}

// categoryFrequencies deals the rest of the board trials times and counts
// the category of the hero's best hand.
func categoryFrequencies(rng *rand.Rand, hero, board []deck.Card, trials int) map[evaluator.Category]int {
	counts := make(map[evaluator.Category]int)
	available := deck.Remaining(append(append([]deck.Card(nil), hero...), board...)...)
	need := 5 - len(board)

	cards := make([]deck.Card, 0, 7)
	for range trials {
		// Partial Fisher-Yates over the first need slots.
		for i := range need {
			j := i + rng.IntN(len(available)-i)
			available[i], available[j] = available[j], available[i]
		}
		cards = append(cards[:0], hero...)
		cards = append(cards, board...)
		cards = append(cards, available[:need]...)
		counts[evaluator.Evaluate(cards).Category]++
	}
	return counts
}

func displayResults(out io.Writer, r report) error {
	if len(r.Board) > 0 {
		fmt.Fprintf(out, "%s\n%s\n\n", headerStyle.Render("board"), deck.FormatCards(r.Board))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("loss"))

	total := float64(r.Result.Trials())
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		handStyle.Render(deck.FormatCards(r.Hero)),
		winStyle.Render(fmt.Sprintf("%.1f%%", r.Result.Equity()*100)),
		winStyle.Render(fmt.Sprintf("%.1f%%", float64(r.Result.Wins)/total*100)),
		tieStyle.Render(fmt.Sprintf("%.1f%%", float64(r.Result.Ties)/total*100)),
		lossStyle.Render(fmt.Sprintf("%.1f%%", float64(r.Result.Losses)/total*100)))
	if err := w.Flush(); err != nil {
		return err
	}

	if r.Categories != nil {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		n := 0
		for _, c := range r.Categories {
			n += c
		}
		for _, cat := range evaluator.Categories {
			count := r.Categories[cat]
			if count == 0 {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n",
				categoryStyle.Render(cat.String()),
				fmt.Sprintf("%.1f%%", float64(count)/float64(n)*100))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "\n%d trials in %v\n", r.Result.Trials(), r.Duration.Truncate(time.Millisecond))
	return err
}
