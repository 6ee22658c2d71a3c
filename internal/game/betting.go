package game

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// boardCards is the number of community cards dealt when entering a street.
func (s Street) boardCards() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	default:
		return 0
	}
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// Seat identifies one of the two players.
type Seat int

const (
	// NoSeat means nobody is to act.
	NoSeat Seat = -1
	Human  Seat = 0
	AI     Seat = 1
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case Human:
		return AI
	case AI:
		return Human
	default:
		return NoSeat
	}
}

func (s Seat) String() string {
	switch s {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "none"
	}
}

// Valid reports whether s names a player.
func (s Seat) Valid() bool {
	return s == Human || s == AI
}
