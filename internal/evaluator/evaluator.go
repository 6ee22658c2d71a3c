// Package evaluator ranks poker hands and estimates equity by Monte Carlo
// simulation.
package evaluator

import (
	"fmt"
	"slices"

	"github.com/lox/headsup/internal/deck"
)

// subsets7 lists every 5-of-7 index combination. C(7,5) = 21.
var subsets7 = combinations(7, 5)

// Evaluate returns the strength of the best five-card hand that can be made
// from cards. It accepts 5, 6 or 7 distinct cards; the result does not
// depend on their order.
func Evaluate(cards []deck.Card) HandStrength {
	n := len(cards)
	if n < 5 || n > 7 {
		panic(fmt.Sprintf("evaluator: need 5-7 cards, got %d", n))
	}

	subsets := subsets7
	if n != 7 {
		subsets = combinations(n, 5)
	}

	var best HandStrength
	var five [5]deck.Card
	for i, idx := range subsets {
		for j, k := range idx {
			five[j] = cards[k]
		}
		if s := Evaluate5(five); i == 0 || s.Compare(best) > 0 {
			best = s
		}
	}
	return best
}

// Evaluate5 ranks exactly five cards.
func Evaluate5(cards [5]deck.Card) HandStrength {
	sorted := cards
	slices.SortFunc(sorted[:], func(a, b deck.Card) int { return int(b.Rank) - int(a.Rank) })

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	high, straight := straightHigh(sorted)
	switch {
	case straight && flush && high == deck.Ace:
		return HandStrength{Category: RoyalFlush, Kickers: []deck.Rank{deck.Ace}}
	case straight && flush:
		return HandStrength{Category: StraightFlush, Kickers: []deck.Rank{high}}
	}

	groups := groupRanks(sorted)
	switch {
	case groups[0].count == 4:
		return HandStrength{Category: FourOfAKind, Kickers: []deck.Rank{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count >= 2:
		return HandStrength{Category: FullHouse, Kickers: []deck.Rank{groups[0].rank, groups[1].rank}}
	case flush:
		return HandStrength{Category: Flush, Kickers: ranksOf(sorted[:])}
	case straight:
		return HandStrength{Category: Straight, Kickers: []deck.Rank{high}}
	case groups[0].count == 3:
		return HandStrength{Category: ThreeOfAKind, Kickers: []deck.Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandStrength{Category: TwoPair, Kickers: []deck.Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return HandStrength{Category: OnePair, Kickers: []deck.Rank{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	default:
		return HandStrength{Category: HighCard, Kickers: ranksOf(sorted[:])}
	}
}

// straightHigh reports whether five rank-descending cards form a straight and
// its high card. The wheel (A-5-4-3-2) plays the ace low and is five-high.
func straightHigh(sorted [5]deck.Card) (deck.Rank, bool) {
	consecutive := true
	for i := 1; i < 5; i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return sorted[0].Rank, true
	}
	if sorted[0].Rank == deck.Ace && sorted[1].Rank == deck.Five && sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three && sorted[4].Rank == deck.Two {
		return deck.Five, true
	}
	return 0, false
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// groupRanks groups rank-descending cards by rank, ordered by count and then
// by rank, both descending.
func groupRanks(sorted [5]deck.Card) []rankGroup {
	groups := make([]rankGroup, 0, 5)
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return int(b.rank) - int(a.rank)
	})
	return groups
}

func ranksOf(cards []deck.Card) []deck.Rank {
	ranks := make([]deck.Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}

// combinations returns every k-element index subset of [0, n) in
// lexicographic order.
func combinations(n, k int) [][]int {
	var out [][]int
	idx := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			out = append(out, slices.Clone(idx))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}
