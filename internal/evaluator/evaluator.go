// Package evaluator finds the best five-card poker hand in up to seven cards
// and orders hands for showdown.
package evaluator

import (
	"sort"

	"github.com/lox/holdem-rooms/internal/deck"
)

// Evaluate returns the best five-card hand formed from hole and community
// cards combined. With fewer than five cards available it returns a high card
// result listing the cards in descending order, which is what the table shows
// before the flop.
func Evaluate(hole, community []deck.Card) Result {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) < 5 {
		sorted := sortDesc(all)
		return Result{
			Category: HighCard,
			Cards:    sorted,
			Kickers:  ranksOf(sorted),
		}
	}

	var best Result
	first := true
	var five [5]deck.Card
	forEachFive(all, func(idx [5]int) {
		for i, j := range idx {
			five[i] = all[j]
		}
		r := EvaluateFive(five)
		if first || Compare(r, best) > 0 {
			best = r
			first = false
		}
	})
	return best
}

// forEachFive calls fn with the indexes of every 5-card subset of cards.
func forEachFive(cards []deck.Card, fn func([5]int)) {
	n := len(cards)
	var idx [5]int
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			fn(idx)
			return
		}
		for i := start; i <= n-(5-k); i++ {
			idx[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
}

type group struct {
	rank  deck.Rank
	cards []deck.Card
}

// EvaluateFive classifies exactly five cards.
func EvaluateFive(hand [5]deck.Card) Result {
	sorted := sortDesc(hand[:])

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straightHigh, straightCards := straight(sorted)

	switch {
	case flush && straightHigh == deck.Ace:
		return Result{Category: RoyalFlush, Cards: straightCards, Primary: []deck.Rank{deck.Ace}}
	case flush && straightHigh != 0:
		return Result{Category: StraightFlush, Cards: straightCards, Primary: []deck.Rank{straightHigh}}
	}

	groups := groupByRank(sorted)
	ordered := make([]deck.Card, 0, 5)
	for _, g := range groups {
		ordered = append(ordered, g.cards...)
	}

	switch {
	case len(groups[0].cards) == 4:
		return Result{
			Category: FourOfAKind,
			Cards:    ordered,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank},
		}
	case len(groups[0].cards) == 3 && len(groups[1].cards) == 2:
		return Result{
			Category: FullHouse,
			Cards:    ordered,
			Primary:  []deck.Rank{groups[0].rank, groups[1].rank},
		}
	case flush:
		ranks := ranksOf(sorted)
		return Result{Category: Flush, Cards: sorted, Primary: ranks[:1], Kickers: ranks[1:]}
	case straightHigh != 0:
		return Result{Category: Straight, Cards: straightCards, Primary: []deck.Rank{straightHigh}}
	case len(groups[0].cards) == 3:
		return Result{
			Category: ThreeOfAKind,
			Cards:    ordered,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank, groups[2].rank},
		}
	case len(groups[0].cards) == 2 && len(groups[1].cards) == 2:
		return Result{
			Category: TwoPair,
			Cards:    ordered,
			Primary:  []deck.Rank{groups[0].rank, groups[1].rank},
			Kickers:  []deck.Rank{groups[2].rank},
		}
	case len(groups[0].cards) == 2:
		return Result{
			Category: OnePair,
			Cards:    ordered,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank, groups[2].rank, groups[3].rank},
		}
	}

	ranks := ranksOf(sorted)
	return Result{Category: HighCard, Cards: sorted, Primary: ranks[:1], Kickers: ranks[1:]}
}

// straight reports the high card of a straight in five rank-sorted cards, or
// zero. The wheel A-2-3-4-5 is five-high and its ace is moved to the end.
func straight(sorted []deck.Card) (deck.Rank, []deck.Card) {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return 0, nil
		}
	}
	if sorted[0].Rank-sorted[4].Rank == 4 {
		return sorted[0].Rank, sorted
	}
	if sorted[0].Rank == deck.Ace && sorted[1].Rank == deck.Five && sorted[4].Rank == deck.Two {
		wheel := append(append([]deck.Card{}, sorted[1:]...), sorted[0])
		return deck.Five, wheel
	}
	return 0, nil
}

// groupByRank buckets cards by rank, largest group first and higher rank
// first within equal sizes.
func groupByRank(sorted []deck.Card) []group {
	var groups []group
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, group{rank: c.Rank, cards: []deck.Card{c}})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].cards) != len(groups[j].cards) {
			return len(groups[i].cards) > len(groups[j].cards)
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func sortDesc(cards []deck.Card) []deck.Card {
	out := append([]deck.Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}

func ranksOf(cards []deck.Card) []deck.Rank {
	ranks := make([]deck.Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}
