package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lox/headsup/internal/game"
)

// CommandKind identifies what a line of input asks for.
type CommandKind int

const (
	CommandAction CommandKind = iota
	CommandNewHand
	CommandQuit
	CommandHelp
)

// Command is a parsed line of user input.
type Command struct {
	Kind   CommandKind
	Action game.Action
	Amount int // raise target for game.Raise
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoHand         = errors.New("no hand in progress, type 'new' to deal")
	ErrWaiting        = errors.New("waiting for the AI")
	ErrUnavailable    = errors.New("action not available")
)

const helpText = `Commands:
  fold, f          give up the hand
  check, k         pass when nothing is owed
  call, c          match the AI's bet
  raise N, r N     raise to a total of N this street
  allin, a         raise everything (or call if raising is closed)
  new, n, deal     deal the next hand (or just press enter)
  help, ?          show this help
  quit, q          leave the table`

// ParseCommand turns input into a Command, checking actions against the
// legal moves in snap. Raise amounts are checked by the engine.
func ParseCommand(input string, snap game.Snapshot) (Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		if !snap.InProgress {
			return Command{Kind: CommandNewHand}, nil
		}
		return Command{}, fmt.Errorf("%w: type an action or 'help'", ErrUnknownCommand)
	}

	switch fields[0] {
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	case "help", "?", "h":
		return Command{Kind: CommandHelp}, nil
	case "new", "n", "deal":
		if snap.InProgress {
			return Command{}, game.ErrHandInProgress
		}
		return Command{Kind: CommandNewHand}, nil
	}

	var cmd Command
	switch fields[0] {
	case "fold", "f":
		cmd = Command{Kind: CommandAction, Action: game.Fold}
	case "check", "k":
		cmd = Command{Kind: CommandAction, Action: game.Check}
	case "call", "c":
		cmd = Command{Kind: CommandAction, Action: game.Call}
	case "raise", "r", "bet", "b":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: raise needs an amount, e.g. 'raise %d'", ErrUnavailable, snap.MinRaiseTarget)
		}
		amount, err := strconv.Atoi(strings.ReplaceAll(fields[1], ",", ""))
		if err != nil || amount <= 0 {
			return Command{}, fmt.Errorf("%w: invalid raise amount %q", ErrUnavailable, fields[1])
		}
		cmd = Command{Kind: CommandAction, Action: game.Raise, Amount: amount}
	case "allin", "all-in", "a", "shove":
		cmd = Command{Kind: CommandAction, Action: game.Raise, Amount: snap.MaxRaiseTarget}
		if !slices.Contains(snap.ValidActions, game.Raise) {
			cmd = Command{Kind: CommandAction, Action: game.Call}
		}
	default:
		return Command{}, fmt.Errorf("%w %q, type 'help'", ErrUnknownCommand, fields[0])
	}

	if !snap.InProgress {
		return Command{}, ErrNoHand
	}
	if !snap.HumanToAct() {
		return Command{}, ErrWaiting
	}
	// A call with nothing owed is accepted by the engine as a check.
	zeroCall := cmd.Action == game.Call && slices.Contains(snap.ValidActions, game.Check)
	if !zeroCall && !slices.Contains(snap.ValidActions, cmd.Action) {
		return Command{}, fmt.Errorf("%w: cannot %s, valid: %s", ErrUnavailable, cmd.Action, formatActions(snap.ValidActions))
	}
	return cmd, nil
}

func formatActions(actions []game.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}
