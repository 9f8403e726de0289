package engine

import "sort"

// Hand categories, weakest first. The numeric values are part of the wire
// contract (clients key payout tables and highlights off them).
const (
	HighCard = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var rankLabels = [...]string{
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

// Eval is a classified 5-card hand. Values is the kicker-ordered tie-break
// list: primary group ranks first, then kickers, all descending within
// their tier.
type Eval struct {
	Rank   int    `json:"rank"`
	Label  string `json:"label"`
	Values []int  `json:"values"`
}

// Evaluate5 classifies exactly five cards. Suits matter only for flush
// detection. The wheel (A-2-3-4-5) counts as a 5-high straight.
func Evaluate5(cards []Card) Eval {
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = c.Rank
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for i := 1; i < 5; i++ {
		if cards[i].Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighCard(values)

	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	// Group ranks ordered by count desc, then rank desc.
	groups := make([]int, 0, len(counts))
	for r := range counts {
		groups = append(groups, r)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] > groups[j]
	})

	grouped := make([]int, 0, 5)
	for _, r := range groups {
		for n := 0; n < counts[r]; n++ {
			grouped = append(grouped, r)
		}
	}

	rank := HighCard
	vals := grouped
	switch {
	case flush && straightHigh > 0:
		rank = StraightFlush
		vals = []int{straightHigh}
	case counts[groups[0]] == 4:
		rank = FourOfAKind
	case counts[groups[0]] == 3 && counts[groups[1]] == 2:
		rank = FullHouse
	case flush:
		rank = Flush
		vals = values
	case straightHigh > 0:
		rank = Straight
		vals = []int{straightHigh}
	case counts[groups[0]] == 3:
		rank = ThreeOfAKind
	case counts[groups[0]] == 2 && counts[groups[1]] == 2:
		rank = TwoPair
	case counts[groups[0]] == 2:
		rank = OnePair
	default:
		vals = values
	}

	return Eval{Rank: rank, Label: rankLabels[rank], Values: vals}
}

// straightHighCard returns the straight's high card for five distinct
// descending values, or 0. The wheel returns 5 (ace plays low).
func straightHighCard(desc []int) int {
	distinct := true
	for i := 1; i < 5; i++ {
		if desc[i] == desc[i-1] {
			distinct = false
			break
		}
	}
	if !distinct {
		return 0
	}
	if desc[0]-desc[4] == 4 {
		return desc[0]
	}
	if desc[0] == Ace && desc[1] == 5 && desc[4] == 2 {
		return 5
	}
	return 0
}

// BestOfN evaluates every 5-card subset of n >= 5 cards and keeps the
// strongest. Hold'em showdowns run this over 7 cards (21 subsets).
func BestOfN(cards []Card) Eval {
	n := len(cards)
	if n == 5 {
		return Evaluate5(cards)
	}
	var best Eval
	first := true
	choose := [5]int{}
	five := make([]Card, 5)
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[choose[i]]
			}
			ev := Evaluate5(five)
			if first || Compare(ev, best) > 0 {
				best = ev
				first = false
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best
}

// Compare orders two evaluated hands: 1 if a wins, -1 if b wins, 0 on an
// exact tie. Category first, then the tie-break lists lexicographically.
func Compare(a, b Eval) int {
	if a.Rank != b.Rank {
		if a.Rank > b.Rank {
			return 1
		}
		return -1
	}
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	for i := 0; i < n; i++ {
		if a.Values[i] != b.Values[i] {
			if a.Values[i] > b.Values[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// MatchedIndexes reports which card positions participate in the hand's
// made category, for client highlighting. Straights and better use all
// five cards; paired categories use the paired groups; a bare high card
// highlights only the top card.
func MatchedIndexes(cards []Card, ev Eval) []int {
	if ev.Rank >= Straight {
		return []int{0, 1, 2, 3, 4}
	}
	counts := map[int]int{}
	for _, c := range cards {
		counts[c.Rank]++
	}
	var out []int
	if ev.Rank == HighCard {
		hi := 0
		for i, c := range cards {
			if c.Rank > cards[hi].Rank {
				hi = i
			}
		}
		return []int{hi}
	}
	for i, c := range cards {
		if counts[c.Rank] >= 2 {
			out = append(out, i)
		}
	}
	return out
}
