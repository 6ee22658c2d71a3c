package tui

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/game"
)

var printer = message.NewPrinter(language.English)

// Chips formats a chip count with thousands separators.
func Chips(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatCards renders cards with suit colours.
func FormatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			formatted[i] = RedCardStyle.Render(card.String())
		} else {
			formatted[i] = BlackCardStyle.Render(card.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// hiddenCards is shown for the AI's cards before showdown.
func hiddenCards() string {
	return HiddenCardStyle.Render("[?? ??]")
}

func seatName(s game.Seat) string {
	switch s {
	case game.Human:
		return "You"
	case game.AI:
		return "AI"
	default:
		return "Nobody"
	}
}

// FormatEvent renders an event as a single log line.
func FormatEvent(ev game.GameEvent) string {
	switch e := ev.(type) {
	case game.HandStartEvent:
		s := e.Snapshot
		line := fmt.Sprintf("*** HAND #%d *** %s on the button, blinds %s/%s",
			s.HandNumber, seatName(s.Button), Chips(s.SmallBlind), Chips(s.BigBlind))
		if e.Replenished {
			line += " (stacks replenished)"
		}
		return line + "\nDealt to you " + FormatCards(s.Players[game.Human].Hole)

	case game.PlayerActionEvent:
		who := seatName(e.Seat)
		var line string
		switch e.Action {
		case game.Fold:
			line = who + ": folds"
		case game.Check:
			line = who + ": checks"
		case game.Call:
			line = fmt.Sprintf("%s: calls %s", who, Chips(e.Amount))
		case game.Raise:
			line = fmt.Sprintf("%s: raises to %s", who, Chips(e.Amount))
		}
		if p := e.Snapshot.Players[e.Seat]; p.AllIn {
			line += " (all-in)"
		}
		return line + fmt.Sprintf(" (pot %s)", Chips(e.Snapshot.Pot))

	case game.StreetChangeEvent:
		return fmt.Sprintf("*** %s *** %s", strings.ToUpper(e.Street.String()), FormatCards(e.Snapshot.Board))

	case game.HandEndEvent:
		r := e.Result
		if !r.Showdown {
			return fmt.Sprintf("%s wins %s", seatName(r.Winner), Chips(r.Won[r.Winner]))
		}
		s := e.Snapshot
		var b strings.Builder
		fmt.Fprintf(&b, "*** SHOWDOWN *** You show %s (%s), AI shows %s (%s)\n",
			FormatCards(s.Players[game.Human].Hole), r.Strength[game.Human].Describe(),
			FormatCards(s.Players[game.AI].Hole), r.Strength[game.AI].Describe())
		if r.Winner.Valid() {
			fmt.Fprintf(&b, "%s wins %s", seatName(r.Winner), Chips(r.Won[r.Winner]))
		} else {
			fmt.Fprintf(&b, "Split pot, %s each", Chips(r.Won[game.Human]))
		}
		return b.String()
	}
	return ev.EventType().String()
}
