package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Card ranks run 2..14 with Ace high; blackjack re-values aces separately.
type Card struct {
	Rank int  `json:"rank"`
	Suit byte `json:"suit"` // one of 'c' 'd' 'h' 's'
}

const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

func (c Card) String() string {
	ranks := "  23456789TJQKA"
	return fmt.Sprintf("%c%c", ranks[c.Rank], c.Suit)
}

// SuitSymbol returns the display glyph for the card's suit.
func (c Card) SuitSymbol() string {
	switch c.Suit {
	case 'c':
		return "♣"
	case 'd':
		return "♦"
	case 'h':
		return "♥"
	default:
		return "♠"
	}
}

// RankLabel returns the display rank: A, 2..10, J, Q, K.
func (c Card) RankLabel() string {
	switch c.Rank {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Jack:
		return "J"
	default:
		return fmt.Sprintf("%d", c.Rank)
	}
}

// NewRand returns the round RNG. Seed 0 means time-seeded; tests pass a
// fixed seed to pin shuffles and dealer-policy branches.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewDeck builds a shuffled 52-card deck. Cards are drawn by popping from
// the end (the top of the deck).
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 52)
	for s := 0; s < 4; s++ {
		for rnk := 2; rnk <= 14; rnk++ {
			deck = append(deck, Card{Rank: rnk, Suit: "cdhs"[s]})
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

func popCard(deck *[]Card) Card {
	d := *deck
	c := d[len(d)-1]
	*deck = d[:len(d)-1]
	return c
}

// blackjackValue is the hard value of a single card: ace 11, faces 10.
func blackjackValue(c Card) int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= 10:
		return 10
	default:
		return c.Rank
	}
}

// BlackjackTotal computes the best hand total, demoting aces from 11 to 1
// while the hand would bust.
func BlackjackTotal(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		total += blackjackValue(c)
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
