package engine

import (
	"errors"
	"testing"
)

func TestBlackjackDealDebitsBet(t *testing.T) {
	s := &BlackjackState{}
	out, err := s.Deal(1000, 50, NewRand(1))
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if out.Balance != 950 {
		t.Fatalf("balance after deal = %d, want 950", out.Balance)
	}
	if len(s.Hands) != 1 || len(s.Hands[0]) != 2 || len(s.Dealer) != 2 {
		t.Fatalf("bad initial deal: hands=%v dealer=%v", s.Hands, s.Dealer)
	}
	if s.RevealDealer {
		t.Fatalf("dealer hole card revealed at deal time")
	}
	if got := len(s.Deck) + len(s.Hands[0]) + len(s.Dealer); got != 52 {
		t.Fatalf("deck accounting: %d cards total, want 52", got)
	}
}

func TestBlackjackDealValidation(t *testing.T) {
	s := &BlackjackState{}
	if _, err := s.Deal(1000, 0, NewRand(1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero bet: got %v, want validation error", err)
	}
	if _, err := s.Deal(40, 50, NewRand(1)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("oversized bet: got %v, want insufficient funds", err)
	}
	if _, err := s.Deal(1000, 50, NewRand(1)); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if _, err := s.Deal(950, 50, NewRand(1)); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("double deal: got %v, want illegal action", err)
	}
}

func TestBlackjackDealerBustPaysDouble(t *testing.T) {
	// Player stands on 21; dealer holds 16 and must draw the planted king.
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: King, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 6, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: King, Suit: 's'}, {Rank: 7, Suit: 'c'}, {Rank: 4, Suit: 'd'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	out, err := s.Stand(950)
	if err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if out.Balance != 1050 {
		t.Fatalf("balance = %d, want 1050", out.Balance)
	}
	if total := BlackjackTotal(s.Dealer); total <= 21 {
		t.Fatalf("dealer total = %d, expected a bust", total)
	}
	if !s.AwaitingClear || s.InRound || !s.RevealDealer {
		t.Fatalf("round not in terminal state: %+v", s)
	}
	if len(out.Stats) != 1 || out.Stats[0].Net != 50 || out.Stats[0].Result != "win" {
		t.Fatalf("stats = %+v, want a +50 win", out.Stats)
	}
}

func TestBlackjackDealerStandsOnSeventeen(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 2, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: King, Suit: 's'}, {Rank: 9, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	out, err := s.Stand(950)
	if err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if len(s.Dealer) != 2 {
		t.Fatalf("dealer drew on 19")
	}
	// 19 against 19 pushes and returns the bet.
	if out.Balance != 1000 {
		t.Fatalf("balance = %d, want 1000 on a push", out.Balance)
	}
	if out.Stats[0].Result != "push" || out.Stats[0].Net != 0 {
		t.Fatalf("stats = %+v, want a push", out.Stats)
	}
}

func TestBlackjackHitBustSkipsDealerDraw(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 2, Suit: 'c'}, {Rank: 5, Suit: 'd'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 6, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: King, Suit: 's'}, {Rank: 9, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	out, err := s.Hit(950)
	if err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if !s.Busted[0] {
		t.Fatalf("hand should have busted at %d", BlackjackTotal(s.Hands[0]))
	}
	if len(s.Dealer) != 2 {
		t.Fatalf("dealer drew against an all-busted table")
	}
	if out.Balance != 950 {
		t.Fatalf("balance = %d, want 950 (bet already gone)", out.Balance)
	}
	if out.Stats[0].Result != "loss" || out.Stats[0].Net != -50 {
		t.Fatalf("stats = %+v, want a -50 loss", out.Stats)
	}
}

func TestBlackjackHitBelowTwentyOneKeepsTurn(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 2, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: 5, Suit: 's'}, {Rank: 9, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	if _, err := s.Hit(950); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if !s.InRound || s.AwaitingClear {
		t.Fatalf("round ended on a safe hit")
	}
	if len(s.Hands[0]) != 3 {
		t.Fatalf("hand has %d cards, want 3", len(s.Hands[0]))
	}
}

func TestBlackjackDouble(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 10, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: 5, Suit: 's'}, {Rank: 6, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	out, err := s.Double(950)
	if err != nil {
		t.Fatalf("Double: %v", err)
	}
	// 21 beats the dealer's 19: 900 after the extra bet, plus 2x100 back.
	if out.Balance != 1100 {
		t.Fatalf("balance = %d, want 1100", out.Balance)
	}
	if s.Bets[0] != 100 || !s.Doubled[0] {
		t.Fatalf("double bookkeeping: bets=%v doubled=%v", s.Bets, s.Doubled)
	}
	if len(s.Hands[0]) != 3 {
		t.Fatalf("double drew %d cards, want exactly one", len(s.Hands[0])-2)
	}
}

func TestBlackjackDoubleValidation(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 2, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: 5, Suit: 's'}, {Rank: 6, Suit: 'c'}, {Rank: 2, Suit: 'd'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	if _, err := s.Double(950); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("three-card double: got %v, want illegal action", err)
	}
	s.Hands[0] = s.Hands[0][:2]
	if _, err := s.Double(30); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("broke double: got %v, want insufficient funds", err)
	}
}

func TestBlackjackSplit(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck: []Card{
			{Rank: 10, Suit: 'c'}, {Rank: 9, Suit: 'd'},
			{Rank: 3, Suit: 'h'}, {Rank: 2, Suit: 's'},
		},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: 8, Suit: 's'}, {Rank: 8, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	out, err := s.Split(950)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if out.Balance != 900 {
		t.Fatalf("balance = %d, want 900 after the second bet", out.Balance)
	}
	if len(s.Hands) != 2 || len(s.Hands[0]) != 2 || len(s.Hands[1]) != 2 {
		t.Fatalf("split hands = %v", s.Hands)
	}
	if !s.SplitUsed || s.Active != 0 {
		t.Fatalf("split bookkeeping: used=%v active=%d", s.SplitUsed, s.Active)
	}
	if _, err := s.Split(900); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("second split: got %v, want illegal action", err)
	}

	// Standing twice plays out both hands and settles each independently.
	if _, err := s.Stand(900); err != nil {
		t.Fatalf("Stand hand 1: %v", err)
	}
	if s.Active != 1 || s.AwaitingClear {
		t.Fatalf("first stand should pass the turn, not resolve")
	}
	final, err := s.Stand(900)
	if err != nil {
		t.Fatalf("Stand hand 2: %v", err)
	}
	if len(final.Stats) != 2 {
		t.Fatalf("split round produced %d stat rows, want 2", len(final.Stats))
	}
	if !s.AwaitingClear {
		t.Fatalf("round should await clear after both hands stand")
	}
}

func TestBlackjackSplitRequiresPair(t *testing.T) {
	s := &BlackjackState{
		InRound: true,
		Deck:    []Card{{Rank: 2, Suit: 'c'}},
		Dealer:  []Card{{Rank: 10, Suit: 'd'}, {Rank: 9, Suit: 'h'}},
		Hands:   [][]Card{{{Rank: 8, Suit: 's'}, {Rank: 9, Suit: 'c'}}},
		Bets:    []int{50},
		Doubled: []bool{false},
		Busted:  []bool{false},
	}
	if _, err := s.Split(950); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("non-pair split: got %v, want illegal action", err)
	}
}

func TestBlackjackClear(t *testing.T) {
	s := &BlackjackState{}
	if err := s.Clear(); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("clear with nothing pending: got %v, want illegal action", err)
	}
	if _, err := s.Deal(1000, 50, NewRand(2)); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	s.Busted = []bool{true}
	if _, err := s.Stand(950); err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.InRound || s.AwaitingClear || s.Hands != nil || s.Deck != nil {
		t.Fatalf("clear left state behind: %+v", s)
	}
}

func TestBlackjackActionsOutsideRound(t *testing.T) {
	s := &BlackjackState{}
	if _, err := s.Hit(1000); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("Hit outside round: %v", err)
	}
	if _, err := s.Stand(1000); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("Stand outside round: %v", err)
	}
	if _, err := s.Double(1000); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("Double outside round: %v", err)
	}
}
