package engine

import (
	"testing"

	poker "github.com/paulhankin/poker"
)

// hand parses "Ah Kd Ts 9c 2d" style shorthand for test fixtures.
func hand(t *testing.T, codes ...string) []Card {
	t.Helper()
	out := make([]Card, 0, len(codes))
	for _, s := range codes {
		if len(s) != 2 {
			t.Fatalf("bad card code %q", s)
		}
		var rank int
		switch s[0] {
		case 'A':
			rank = Ace
		case 'K':
			rank = King
		case 'Q':
			rank = Queen
		case 'J':
			rank = Jack
		case 'T':
			rank = 10
		default:
			rank = int(s[0] - '0')
		}
		out = append(out, Card{Rank: rank, Suit: s[1]})
	}
	return out
}

func TestEvaluate5Categories(t *testing.T) {
	cases := []struct {
		name  string
		cards []string
		rank  int
	}{
		{"high card", []string{"Ah", "Kd", "9s", "5c", "2d"}, HighCard},
		{"one pair", []string{"Ah", "Ad", "9s", "5c", "2d"}, OnePair},
		{"two pair", []string{"Ah", "Ad", "9s", "9c", "2d"}, TwoPair},
		{"trips", []string{"Ah", "Ad", "As", "5c", "2d"}, ThreeOfAKind},
		{"straight", []string{"9h", "8d", "7s", "6c", "5d"}, Straight},
		{"flush", []string{"Ah", "Jh", "9h", "5h", "2h"}, Flush},
		{"full house", []string{"Ah", "Ad", "As", "2c", "2d"}, FullHouse},
		{"quads", []string{"Ah", "Ad", "As", "Ac", "2d"}, FourOfAKind},
		{"straight flush", []string{"9h", "8h", "7h", "6h", "5h"}, StraightFlush},
	}
	for _, tc := range cases {
		ev := Evaluate5(hand(t, tc.cards...))
		if ev.Rank != tc.rank {
			t.Errorf("%s: rank %d (%s), want %d", tc.name, ev.Rank, ev.Label, tc.rank)
		}
		if ev.Label != rankLabels[tc.rank] {
			t.Errorf("%s: label %q does not match rank %d", tc.name, ev.Label, tc.rank)
		}
	}
}

func TestEvaluate5CategoryOrdering(t *testing.T) {
	// Each hand is a weak member of its category with big kickers, so any
	// ordering mistake that lets kickers leak across categories shows up.
	ladder := [][]string{
		{"Ah", "Kd", "Qs", "Jc", "9d"}, // high card
		{"2h", "2d", "As", "Kc", "Qd"}, // one pair
		{"3h", "3d", "2s", "2c", "Ad"}, // two pair
		{"2h", "2d", "2s", "Ac", "Kd"}, // trips
		{"6h", "5d", "4s", "3c", "2d"}, // straight
		{"7h", "5h", "4h", "3h", "2h"}, // flush
		{"2h", "2d", "2s", "3c", "3d"}, // full house
		{"2h", "2d", "2s", "2c", "3d"}, // quads
		{"6h", "5h", "4h", "3h", "2h"}, // straight flush
	}
	for i := 1; i < len(ladder); i++ {
		lo := Evaluate5(hand(t, ladder[i-1]...))
		hi := Evaluate5(hand(t, ladder[i]...))
		if Compare(hi, lo) != 1 {
			t.Errorf("%s should beat %s", hi.Label, lo.Label)
		}
		if Compare(lo, hi) != -1 {
			t.Errorf("%s should lose to %s", lo.Label, hi.Label)
		}
	}
}

func TestEvaluate5PermutationInvariant(t *testing.T) {
	cards := hand(t, "Ah", "Ad", "9s", "9c", "2d")
	want := Evaluate5(cards)
	rng := NewRand(3)
	for n := 0; n < 50; n++ {
		perm := append([]Card{}, cards...)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		got := Evaluate5(perm)
		if Compare(got, want) != 0 {
			t.Fatalf("permutation changed evaluation: %+v vs %+v", got, want)
		}
	}
}

func TestWheelStraight(t *testing.T) {
	ev := Evaluate5(hand(t, "Ah", "2d", "3s", "4c", "5d"))
	if ev.Rank != Straight {
		t.Fatalf("wheel evaluated as %s", ev.Label)
	}
	if len(ev.Values) != 1 || ev.Values[0] != 5 {
		t.Fatalf("wheel high card values = %v, want [5]", ev.Values)
	}
	six := Evaluate5(hand(t, "6h", "5d", "4s", "3c", "2d"))
	if Compare(six, ev) != 1 {
		t.Fatalf("six-high straight should beat the wheel")
	}
	wheelFlush := Evaluate5(hand(t, "Ah", "2h", "3h", "4h", "5h"))
	if wheelFlush.Rank != StraightFlush {
		t.Fatalf("steel wheel evaluated as %s", wheelFlush.Label)
	}
}

func TestAroundTheCornerIsNotAStraight(t *testing.T) {
	ev := Evaluate5(hand(t, "Kh", "Ad", "2s", "3c", "4d"))
	if ev.Rank != HighCard {
		t.Fatalf("K-A-2-3-4 evaluated as %s, want High Card", ev.Label)
	}
}

func TestCompareKickers(t *testing.T) {
	a := Evaluate5(hand(t, "Ah", "Ad", "Ks", "5c", "2d"))
	b := Evaluate5(hand(t, "As", "Ac", "Qs", "Jc", "Td"))
	if Compare(a, b) != 1 {
		t.Fatalf("ace pair with king kicker should beat queen kicker")
	}
	tie := Evaluate5(hand(t, "As", "Ac", "Kd", "5h", "2s"))
	if Compare(a, tie) != 0 {
		t.Fatalf("identical ranks across suits should tie")
	}
}

func TestBestOfNFindsTheNuts(t *testing.T) {
	// Seven cards hiding a flush behind a board pair.
	seven := hand(t, "Ah", "Kh", "9h", "5h", "2h", "9c", "9d")
	ev := BestOfN(seven)
	if ev.Rank != Flush {
		t.Fatalf("best of seven found %s, want Flush", ev.Label)
	}
}

func TestMatchedIndexes(t *testing.T) {
	pair := hand(t, "Ah", "9d", "As", "5c", "2d")
	idx := MatchedIndexes(pair, Evaluate5(pair))
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 2 {
		t.Fatalf("pair highlight = %v, want [0 2]", idx)
	}
	straight := hand(t, "9h", "8d", "7s", "6c", "5d")
	if got := MatchedIndexes(straight, Evaluate5(straight)); len(got) != 5 {
		t.Fatalf("straight highlight = %v, want all five", got)
	}
	high := hand(t, "Ah", "Kd", "9s", "5c", "2d")
	if got := MatchedIndexes(high, Evaluate5(high)); len(got) != 1 || got[0] != 0 {
		t.Fatalf("high card highlight = %v, want [0]", got)
	}
}

// toLibrary converts to github.com/paulhankin/poker cards, which score
// hands as int16 with larger meaning stronger.
func toLibrary(t *testing.T, cards []Card) [5]poker.Card {
	t.Helper()
	var out [5]poker.Card
	for i, c := range cards {
		var s poker.Suit
		switch c.Suit {
		case 'c':
			s = poker.Club
		case 'd':
			s = poker.Diamond
		case 'h':
			s = poker.Heart
		default:
			s = poker.Spade
		}
		r := poker.Rank(c.Rank)
		if c.Rank == Ace {
			r = poker.Rank(1)
		}
		pc, err := poker.MakeCard(s, r)
		if err != nil {
			t.Fatalf("MakeCard(%v): %v", c, err)
		}
		out[i] = pc
	}
	return out
}

func TestCompareAgreesWithReferenceEvaluator(t *testing.T) {
	rng := NewRand(42)
	for trial := 0; trial < 500; trial++ {
		deck := NewDeck(rng)
		a := deck[:5]
		b := deck[5:10]
		got := Compare(Evaluate5(a), Evaluate5(b))

		pa := toLibrary(t, a)
		pb := toLibrary(t, b)
		sa, sb := poker.Eval5(&pa), poker.Eval5(&pb)
		want := 0
		if sa > sb {
			want = 1
		} else if sa < sb {
			want = -1
		}
		if got != want {
			t.Fatalf("trial %d: Compare(%v, %v) = %d, reference says %d", trial, a, b, got, want)
		}
	}
}
