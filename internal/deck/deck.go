package deck

import (
	"fmt"
	"math/rand/v2"
)

// Deck is a shuffled draw pile. It remembers every card dealt since the last
// Reset so that an exhausted deck can be rebuilt without re-dealing a card
// that is already in play.
type Deck struct {
	cards     []Card
	next      int
	committed CardSet
	rebuilds  int
	rng       *rand.Rand
}

// NewDeck creates a new shuffled 52-card deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{rng: rng, cards: make([]Card, 0, 52)}
	d.Reset()
	return d
}

// NewStackedDeck creates a deck whose first draws are exactly top, in order.
// The remaining cards follow in shuffled order. Used for scripted hands.
func NewStackedDeck(rng *rand.Rand, top ...Card) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	if NewCardSet(top...).Len() != len(top) {
		panic(fmt.Sprintf("deck: duplicate cards in stacked deck %v", top))
	}
	rest := Remaining(top...)
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	cards := make([]Card, 0, 52)
	cards = append(cards, top...)
	cards = append(cards, rest...)
	return &Deck{rng: rng, cards: cards}
}

// Shuffle randomizes the order of the undealt cards using Fisher-Yates
func (d *Deck) Shuffle() {
	undealt := d.cards[d.next:]
	for i := len(undealt) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		undealt[i], undealt[j] = undealt[j], undealt[i]
	}
}

// Reset restores the deck to a full 52-card deck, forgets all committed
// cards and shuffles.
func (d *Deck) Reset() {
	d.cards = append(d.cards[:0], Remaining()...)
	d.next = 0
	d.committed = 0
	d.Shuffle()
}

// Draw removes and returns the top card. An empty deck is rebuilt from the
// cards not yet committed to play and reshuffled before drawing.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		d.rebuild()
	}
	card := d.cards[d.next]
	d.next++
	d.committed.Add(card)
	return card
}

// DrawN draws n cards
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Remaining returns the number of cards left before a rebuild is needed
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Committed returns the set of cards dealt since the last Reset.
func (d *Deck) Committed() CardSet {
	return d.committed
}

// Rebuilds reports how many times the deck ran dry and was rebuilt.
func (d *Deck) Rebuilds() int {
	return d.rebuilds
}

func (d *Deck) rebuild() {
	var inPlay []Card
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			if c := NewCard(suit, rank); d.committed.Contains(c) {
				inPlay = append(inPlay, c)
			}
		}
	}
	fresh := Remaining(inPlay...)
	if len(fresh) == 0 {
		panic("deck: all 52 cards are committed to play")
	}
	d.cards = append(d.cards[:0], fresh...)
	d.next = 0
	d.rebuilds++
	d.Shuffle()
}
