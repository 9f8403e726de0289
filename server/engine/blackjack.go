package engine

import (
	"fmt"
	"math/rand"
)

// BlackjackState is one player's blackjack round. Split produces a second
// hand; Active tracks whose turn it is among the player's hands. The deck
// and the dealer hole card are server-only until RevealDealer flips.
type BlackjackState struct {
	InRound       bool     `json:"inRound"`
	AwaitingClear bool     `json:"awaitingClear"`
	Deck          []Card   `json:"deck,omitempty"`
	Dealer        []Card   `json:"dealer"`
	RevealDealer  bool     `json:"revealDealer"`
	Hands         [][]Card `json:"hands"`
	Bets          []int    `json:"bets"`
	Doubled       []bool   `json:"doubled"`
	Busted        []bool   `json:"busted"`
	Active        int      `json:"active"`
	SplitUsed     bool     `json:"splitUsed"`
}

// Deal starts a round: debits the bet and deals two cards each way. The
// dealer's first card stays hidden until resolution.
func (s *BlackjackState) Deal(balance, bet int, rng *rand.Rand) (Outcome, error) {
	if s.InRound || s.AwaitingClear {
		return Outcome{}, illegalf("round already in progress")
	}
	if bet <= 0 {
		return Outcome{}, validationf("bet must be positive")
	}
	if bet > balance {
		return Outcome{}, insufficientf("bet %d exceeds balance %d", bet, balance)
	}

	s.Deck = NewDeck(rng)
	s.Hands = [][]Card{{popCard(&s.Deck), popCard(&s.Deck)}}
	s.Dealer = []Card{popCard(&s.Deck), popCard(&s.Deck)}
	s.Bets = []int{bet}
	s.Doubled = []bool{false}
	s.Busted = []bool{false}
	s.Active = 0
	s.SplitUsed = false
	s.RevealDealer = false
	s.InRound = true

	return Outcome{Balance: balance - bet}, nil
}

// Hit draws one card into the active hand. Busting ends the hand's turn;
// otherwise the player keeps acting.
func (s *BlackjackState) Hit(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	hand := append(s.Hands[s.Active], popCard(&s.Deck))
	s.Hands[s.Active] = hand
	if BlackjackTotal(hand) > 21 {
		s.Busted[s.Active] = true
		return s.advanceOrResolve(balance), nil
	}
	return Outcome{Balance: balance}, nil
}

// Double debits a second bet, draws exactly one card, and always ends the
// hand's turn.
func (s *BlackjackState) Double(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	if len(s.Hands[s.Active]) != 2 {
		return Outcome{}, illegalf("can only double a two-card hand")
	}
	if s.Doubled[s.Active] {
		return Outcome{}, illegalf("hand already doubled")
	}
	bet := s.Bets[s.Active]
	if bet > balance {
		return Outcome{}, insufficientf("doubling needs %d more", bet)
	}

	balance -= bet
	s.Bets[s.Active] *= 2
	s.Doubled[s.Active] = true
	hand := append(s.Hands[s.Active], popCard(&s.Deck))
	s.Hands[s.Active] = hand
	if BlackjackTotal(hand) > 21 {
		s.Busted[s.Active] = true
	}
	return s.advanceOrResolve(balance), nil
}

// Split turns a two-card pair into two one-card hands, deals one card to
// each, and debits a matching bet for the new hand. Once per round.
func (s *BlackjackState) Split(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	hand := s.Hands[s.Active]
	if len(hand) != 2 || hand[0].Rank != hand[1].Rank {
		return Outcome{}, illegalf("can only split a matching pair")
	}
	if s.SplitUsed {
		return Outcome{}, illegalf("already split this round")
	}
	bet := s.Bets[s.Active]
	if bet > balance {
		return Outcome{}, insufficientf("splitting needs %d more", bet)
	}

	balance -= bet
	s.Hands = [][]Card{
		{hand[0], popCard(&s.Deck)},
		{hand[1], popCard(&s.Deck)},
	}
	s.Bets = []int{bet, bet}
	s.Doubled = []bool{false, false}
	s.Busted = []bool{false, false}
	s.Active = 0
	s.SplitUsed = true
	return Outcome{Balance: balance}, nil
}

// Stand ends the active hand's turn.
func (s *BlackjackState) Stand(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	return s.advanceOrResolve(balance), nil
}

// Clear acknowledges a finished round and wipes the table.
func (s *BlackjackState) Clear() error {
	if !s.AwaitingClear {
		return illegalf("nothing to clear")
	}
	*s = BlackjackState{}
	return nil
}

// advanceOrResolve moves to the next un-played hand, or runs the dealer
// and pays out. The dealer draws to 17 with standard soft re-totaling and
// skips drawing entirely when every player hand busted.
func (s *BlackjackState) advanceOrResolve(balance int) Outcome {
	if s.Active+1 < len(s.Hands) {
		s.Active++
		return Outcome{Balance: balance}
	}

	s.RevealDealer = true
	allBusted := true
	for _, b := range s.Busted {
		if !b {
			allBusted = false
			break
		}
	}
	if !allBusted {
		for BlackjackTotal(s.Dealer) < 17 {
			s.Dealer = append(s.Dealer, popCard(&s.Deck))
		}
	}
	dealerTotal := BlackjackTotal(s.Dealer)

	out := Outcome{}
	for i, hand := range s.Hands {
		bet := s.Bets[i]
		total := BlackjackTotal(hand)
		label := ""
		if len(s.Hands) > 1 {
			label = fmt.Sprintf("Hand %d: ", i+1)
		}
		switch {
		case s.Busted[i]:
			out.Messages = append(out.Messages, dangerMsg(fmt.Sprintf("%sbusted with %d, lost $%d", label, total, bet)))
			out.Stats = append(out.Stats, Stat{Game: "blackjack", Bet: bet, Net: -bet, Result: "loss"})
		case dealerTotal > 21 || total > dealerTotal:
			balance += 2 * bet
			out.Messages = append(out.Messages, winMsg(fmt.Sprintf("%s%d beats dealer, won $%d", label, total, bet)))
			out.Stats = append(out.Stats, Stat{Game: "blackjack", Bet: bet, Net: bet, Result: "win"})
		case total == dealerTotal:
			balance += bet
			out.Messages = append(out.Messages, winMsg(fmt.Sprintf("%spush at %d, bet returned", label, total)))
			out.Stats = append(out.Stats, Stat{Game: "blackjack", Bet: bet, Net: 0, Result: "push"})
		default:
			out.Messages = append(out.Messages, dangerMsg(fmt.Sprintf("%sdealer's %d beats %d, lost $%d", label, dealerTotal, total, bet)))
			out.Stats = append(out.Stats, Stat{Game: "blackjack", Bet: bet, Net: -bet, Result: "loss"})
		}
	}

	s.InRound = false
	s.AwaitingClear = true
	out.Balance = balance
	return out
}
