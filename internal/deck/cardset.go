package deck

import "math/bits"

// CardSet represents a set of cards using a bitset for fast operations.
// Each card maps to the bit at Card.Index.
type CardSet uint64

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << card.Index()
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<card.Index()) != 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Remaining returns every standard card not present in exclude, in deck order.
func Remaining(exclude ...Card) []Card {
	used := NewCardSet(exclude...)
	cards := make([]Card, 0, 52-used.Len())
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(suit, rank)
			if !used.Contains(card) {
				cards = append(cards, card)
			}
		}
	}
	return cards
}
