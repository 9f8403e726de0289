package engine

import (
	"fmt"
	"math/rand"
)

// DrawPhase is the single source of truth for which five-card-draw actions
// are legal.
type DrawPhase string

const (
	DrawBet1     DrawPhase = "bet1"
	DrawDiscard1 DrawPhase = "discard1"
	DrawBet2     DrawPhase = "bet2"
	DrawDiscard2 DrawPhase = "discard2"
	DrawBet3     DrawPhase = "bet3"
	DrawReveal   DrawPhase = "reveal"
)

// DrawBlind is the forced bet both sides post on deal; it is also the
// table raise unit the dealer uses.
const DrawBlind = 10

// raisePct scales the dealer's willingness to raise with its hand rank.
// High card never raises on its own.
var raisePct = [...]float64{0, 0.25, 0.40, 0.55, 0.70, 0.80, 0.90, 1.0, 1.0}

// DrawState is a five-card-draw round against the house dealer. Betting
// runs bet1 → discard1 → bet2 → discard2 → bet3 → reveal. A dealer raise
// blocks phase advancement (AwaitingRaise) until the player calls or folds.
type DrawState struct {
	InRound       bool      `json:"inRound"`
	AwaitingClear bool      `json:"awaitingClear"`
	Phase         DrawPhase `json:"phase"`
	Deck          []Card    `json:"deck,omitempty"`
	Player        []Card    `json:"player"`
	Dealer        []Card    `json:"dealer"`
	Pot           int       `json:"pot"`
	PlayerPaid    int       `json:"playerPaid"`
	DealerPaid    int       `json:"dealerPaid"`
	CurrentBet    int       `json:"currentBet"`
	PlayerBet     int       `json:"playerBet"`
	DealerBet     int       `json:"dealerBet"`
	AwaitingRaise bool      `json:"awaitingRaise"`
	PendingCall   int       `json:"pendingCall"`
	DealerRaised  bool      `json:"dealerRaised"`

	// Showdown decoration for the client.
	PlayerEval      *Eval `json:"playerEval,omitempty"`
	DealerEval      *Eval `json:"dealerEval,omitempty"`
	PlayerHighlight []int `json:"playerHighlight,omitempty"`
	DealerHighlight []int `json:"dealerHighlight,omitempty"`
}

// Deal posts both blinds and deals five cards each way.
func (s *DrawState) Deal(balance int, rng *rand.Rand) (Outcome, error) {
	if s.InRound || s.AwaitingClear {
		return Outcome{}, illegalf("round already in progress")
	}
	if DrawBlind > balance {
		return Outcome{}, insufficientf("blind is %d", DrawBlind)
	}

	s.Deck = NewDeck(rng)
	s.Player = dealHand(&s.Deck, 5)
	s.Dealer = dealHand(&s.Deck, 5)
	s.Pot = 2 * DrawBlind
	s.PlayerPaid = DrawBlind
	s.DealerPaid = DrawBlind
	s.CurrentBet = 0
	s.PlayerBet = 0
	s.DealerBet = 0
	s.Phase = DrawBet1
	s.InRound = true

	balance -= DrawBlind
	if balance == 0 {
		// The blind took the last chip; there is nothing to bet with, so
		// the opening round settles itself.
		return s.advanceBetting(balance), nil
	}
	return Outcome{Balance: balance}, nil
}

func dealHand(deck *[]Card, n int) []Card {
	hand := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		hand = append(hand, popCard(deck))
	}
	return hand
}

// Bet commits the player's voluntary raise (amount) on top of whatever is
// outstanding; amount 0 with a call due is a plain call. The dealer then
// answers per its policy, and a successful exchange advances the phase.
func (s *DrawState) Bet(balance, amount int, rng *rand.Rand) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	if s.Phase != DrawBet1 && s.Phase != DrawBet2 && s.Phase != DrawBet3 {
		return Outcome{}, illegalf("not a betting phase")
	}
	if s.AwaitingRaise {
		return Outcome{}, illegalf("dealer raise pending: call or fold first")
	}
	if amount < 0 {
		return Outcome{}, validationf("bet cannot be negative")
	}
	toCall := s.CurrentBet - s.PlayerBet
	if amount == 0 && toCall == 0 && s.Phase == DrawBet1 {
		// The opening action must put chips in; later rounds may check.
		return Outcome{}, validationf("bet cannot be zero")
	}
	cost := toCall + amount
	if cost > balance {
		return Outcome{}, insufficientf("action needs %d, balance is %d", cost, balance)
	}

	balance -= cost
	s.PlayerBet += cost
	s.PlayerPaid += cost
	s.Pot += cost
	if s.PlayerBet > s.CurrentBet {
		s.CurrentBet = s.PlayerBet
	}

	return s.dealerRespond(balance, amount, rng), nil
}

// dealerRespond runs the dealer betting policy after a player bet or call.
func (s *DrawState) dealerRespond(balance, playerRaise int, rng *rand.Rand) Outcome {
	ev := Evaluate5(s.Dealer)
	pct := raisePct[ev.Rank]

	raise := false
	switch {
	case s.DealerRaised:
		// One raise per betting round.
	case playerRaise == 0 && pct > 0:
		raise = rng.Float64() < 0.65
	case playerRaise > 0 && s.Phase != DrawBet1 && ev.Rank == HighCard:
		if rng.Float64() < 0.5 {
			return s.dealerFold(balance)
		}
	default:
		raise = pct > 0 && rng.Float64() < 0.45
	}

	toCall := s.CurrentBet - s.DealerBet
	if raise {
		raiseBy := DrawBlind
		if raiseBy > balance {
			raiseBy = balance // keep the pending call payable
		}
		if raiseBy > 0 {
			cost := toCall + raiseBy
			s.DealerBet += cost
			s.DealerPaid += cost
			s.Pot += cost
			s.CurrentBet = s.DealerBet
			s.AwaitingRaise = true
			s.PendingCall = s.CurrentBet - s.PlayerBet
			s.DealerRaised = true
			return Outcome{Balance: balance, Messages: []Message{
				dangerMsg(fmt.Sprintf("Dealer raises $%d: call or fold", raiseBy)),
			}}
		}
	}

	// Call.
	s.DealerBet += toCall
	s.DealerPaid += toCall
	s.Pot += toCall
	return s.advanceBetting(balance)
}

// Respond answers a pending dealer raise: call pays the outstanding amount
// and the round continues; fold forfeits everything paid so far.
func (s *DrawState) Respond(balance int, call bool) (Outcome, error) {
	if !s.InRound || !s.AwaitingRaise {
		return Outcome{}, illegalf("no dealer raise to respond to")
	}
	if !call {
		s.AwaitingRaise = false
		return s.playerFold(balance), nil
	}
	if s.PendingCall > balance {
		return Outcome{}, insufficientf("call needs %d, balance is %d", s.PendingCall, balance)
	}
	balance -= s.PendingCall
	s.PlayerBet += s.PendingCall
	s.PlayerPaid += s.PendingCall
	s.Pot += s.PendingCall
	s.AwaitingRaise = false
	s.PendingCall = 0
	return s.advanceBetting(balance), nil
}

// Fold ends the round; the player forfeits everything committed.
func (s *DrawState) Fold(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	if s.Phase == DrawReveal {
		return Outcome{}, illegalf("round already resolved")
	}
	s.AwaitingRaise = false
	return s.playerFold(balance), nil
}

func (s *DrawState) playerFold(balance int) Outcome {
	paid := s.PlayerPaid
	s.finish()
	return Outcome{
		Balance:  balance,
		Messages: []Message{dangerMsg(fmt.Sprintf("Folded, lost $%d", paid))},
		Stats:    []Stat{{Game: "draw", Bet: paid, Net: -paid, Result: "loss"}},
	}
}

func (s *DrawState) dealerFold(balance int) Outcome {
	pot, paid := s.Pot, s.PlayerPaid
	s.finish()
	return Outcome{
		Balance:  balance + pot,
		Messages: []Message{winMsg(fmt.Sprintf("Dealer folds, you take $%d", pot))},
		Stats:    []Stat{{Game: "draw", Bet: paid, Net: pot - paid, Result: "win"}},
	}
}

// advanceBetting closes a settled betting round. With the player's balance
// exhausted, later betting rounds are skipped outright so the round can
// still resolve.
func (s *DrawState) advanceBetting(balance int) Outcome {
	s.CurrentBet = 0
	s.PlayerBet = 0
	s.DealerBet = 0
	s.DealerRaised = false
	switch s.Phase {
	case DrawBet1:
		s.Phase = DrawDiscard1
		return Outcome{Balance: balance}
	case DrawBet2:
		s.Phase = DrawDiscard2
		return Outcome{Balance: balance}
	default: // DrawBet3
		return s.resolveShowdown(balance)
	}
}

// Draw replaces the selected player cards, runs the dealer's fixed draw
// policy, and moves on to the next betting round.
func (s *DrawState) Draw(balance int, discards []int, rng *rand.Rand) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no round in progress")
	}
	if s.Phase != DrawDiscard1 && s.Phase != DrawDiscard2 {
		return Outcome{}, illegalf("not a discard phase")
	}
	seen := map[int]bool{}
	for _, idx := range discards {
		if idx < 0 || idx >= len(s.Player) {
			return Outcome{}, validationf("discard index %d out of range", idx)
		}
		if seen[idx] {
			return Outcome{}, validationf("duplicate discard index %d", idx)
		}
		seen[idx] = true
	}

	for _, idx := range discards {
		s.Player[idx] = popCard(&s.Deck)
	}
	s.dealerDraw()

	if s.Phase == DrawDiscard1 {
		s.Phase = DrawBet2
	} else {
		s.Phase = DrawBet3
	}
	if balance == 0 {
		// The player cannot bet what they don't have; skip straight
		// through the betting phase.
		return s.advanceBetting(balance), nil
	}
	return Outcome{Balance: balance}, nil
}

// dealerDraw keeps a made straight or better whole; otherwise it keeps the
// paired cards (or the single highest card) and replaces the rest.
func (s *DrawState) dealerDraw() {
	ev := Evaluate5(s.Dealer)
	if ev.Rank >= Straight {
		return
	}
	counts := map[int]int{}
	for _, c := range s.Dealer {
		counts[c.Rank]++
	}
	keep := make([]bool, len(s.Dealer))
	kept := 0
	for i, c := range s.Dealer {
		if counts[c.Rank] >= 2 {
			keep[i] = true
			kept++
		}
	}
	if kept == 0 {
		hi := 0
		for i, c := range s.Dealer {
			if c.Rank > s.Dealer[hi].Rank {
				hi = i
			}
		}
		keep[hi] = true
	}
	for i := range s.Dealer {
		if !keep[i] {
			s.Dealer[i] = popCard(&s.Deck)
		}
	}
}

// resolveShowdown compares hands and settles the pot. Win pays the whole
// pot; a push returns exactly what the player committed.
func (s *DrawState) resolveShowdown(balance int) Outcome {
	s.Phase = DrawReveal
	pEval := Evaluate5(s.Player)
	dEval := Evaluate5(s.Dealer)
	s.PlayerEval = &pEval
	s.DealerEval = &dEval
	s.PlayerHighlight = MatchedIndexes(s.Player, pEval)
	s.DealerHighlight = MatchedIndexes(s.Dealer, dEval)

	pot, paid := s.Pot, s.PlayerPaid
	out := Outcome{}
	switch Compare(pEval, dEval) {
	case 1:
		out.Balance = balance + pot
		out.Messages = []Message{winMsg(fmt.Sprintf("%s beats %s, won $%d", pEval.Label, dEval.Label, pot-paid))}
		out.Stats = []Stat{{Game: "draw", Bet: paid, Net: pot - paid, Result: "win"}}
	case 0:
		out.Balance = balance + paid
		out.Messages = []Message{winMsg(fmt.Sprintf("Push: both show %s", pEval.Label))}
		out.Stats = []Stat{{Game: "draw", Bet: paid, Net: 0, Result: "push"}}
	default:
		out.Balance = balance
		out.Messages = []Message{dangerMsg(fmt.Sprintf("Dealer's %s beats %s, lost $%d", dEval.Label, pEval.Label, paid))}
		out.Stats = []Stat{{Game: "draw", Bet: paid, Net: -paid, Result: "loss"}}
	}

	s.InRound = false
	s.AwaitingClear = true
	return out
}

// Clear acknowledges a finished round and wipes the table.
func (s *DrawState) Clear() error {
	if !s.AwaitingClear {
		return illegalf("nothing to clear")
	}
	*s = DrawState{}
	return nil
}

// finish puts the round into its terminal awaiting-clear shape after a
// fold, keeping the cards visible for the UI until Clear.
func (s *DrawState) finish() {
	s.InRound = false
	s.AwaitingClear = true
	s.Phase = DrawReveal
	s.PendingCall = 0
}
