package engine

import (
	"fmt"
	"math"
	"math/rand"
)

// HoldemPhase names the current street.
type HoldemPhase string

const (
	HoldemPreflop  HoldemPhase = "preflop"
	HoldemFlop     HoldemPhase = "flop"
	HoldemTurn     HoldemPhase = "turn"
	HoldemRiver    HoldemPhase = "river"
	HoldemShowdown HoldemPhase = "showdown"
)

const (
	HoldemSmallBlind = 5
	HoldemBigBlind   = 10
)

// HoldemState is a heads-up hold'em hand against the house dealer.
// DealerButton persists across hands and flips on every deal; the player
// posts the big blind exactly when DealerButton is true.
type HoldemState struct {
	InRound       bool        `json:"inRound"`
	AwaitingClear bool        `json:"awaitingClear"`
	DealerButton  bool        `json:"dealerButton"`
	Phase         HoldemPhase `json:"phase"`
	Deck          []Card      `json:"deck,omitempty"`
	Player        []Card      `json:"player"`
	Dealer        []Card      `json:"dealer"`
	Community     []Card      `json:"community"`
	Pot           int         `json:"pot"`
	PlayerPaid    int         `json:"playerPaid"`
	DealerPaid    int         `json:"dealerPaid"`
	CurrentBet    int         `json:"currentBet"`
	PlayerBet     int         `json:"playerBet"`
	DealerBet     int         `json:"dealerBet"`
	DealerStack   int         `json:"dealerStack"`
	DealerRaised  bool        `json:"dealerRaised"`

	PlayerEval *Eval `json:"playerEval,omitempty"`
	DealerEval *Eval `json:"dealerEval,omitempty"`
}

// Deal flips the button, posts blinds, and deals hole cards. The dealer's
// stack is pegged to the player's balance at deal time so bet caps stay
// symmetric.
func (s *HoldemState) Deal(balance int, rng *rand.Rand) (Outcome, error) {
	if s.InRound || s.AwaitingClear {
		return Outcome{}, illegalf("hand already in progress")
	}
	if HoldemBigBlind > balance {
		return Outcome{}, insufficientf("big blind is %d", HoldemBigBlind)
	}

	s.DealerButton = !s.DealerButton
	s.DealerStack = balance
	s.Deck = NewDeck(rng)
	s.Player = dealHand(&s.Deck, 2)
	s.Dealer = dealHand(&s.Deck, 2)
	s.Community = nil
	s.Phase = HoldemPreflop
	s.PlayerEval = nil
	s.DealerEval = nil
	s.DealerRaised = false

	playerBlind, dealerBlind := HoldemSmallBlind, HoldemBigBlind
	if s.DealerButton {
		playerBlind, dealerBlind = HoldemBigBlind, HoldemSmallBlind
	}
	balance -= playerBlind
	s.PlayerBet = playerBlind
	s.PlayerPaid = playerBlind
	s.DealerStack -= dealerBlind
	s.DealerBet = dealerBlind
	s.DealerPaid = dealerBlind
	s.Pot = playerBlind + dealerBlind
	s.CurrentBet = HoldemBigBlind
	s.InRound = true

	return Outcome{Balance: balance}, nil
}

// Action is the single betting entry point. betAmount is the voluntary
// raise on top of any outstanding call; zero with nothing to call is a
// check. The dealer responds per its policy and the street advances when
// the exchange settles.
func (s *HoldemState) Action(balance, betAmount int, rng *rand.Rand) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no hand in progress")
	}
	if s.Phase == HoldemShowdown {
		return Outcome{}, illegalf("hand already resolved")
	}
	if betAmount < 0 {
		return Outcome{}, validationf("bet cannot be negative")
	}

	toCall := s.CurrentBet - s.PlayerBet
	switch {
	case toCall > 0 && betAmount > 0:
		// Raise over the call.
		cost := toCall + betAmount
		if cost > balance {
			return Outcome{}, insufficientf("raise needs %d, balance is %d", cost, balance)
		}
		balance -= cost
		s.commitPlayer(cost)
		s.CurrentBet = s.PlayerBet
		return s.dealerFacingBet(balance, rng), nil

	case toCall > 0:
		// Call; short stacks call all-in for whatever they have.
		cost := toCall
		if cost > balance {
			cost = balance
		}
		balance -= cost
		s.commitPlayer(cost)
		// Calling closes the betting round.
		return s.advanceStreet(balance), nil

	case betAmount > 0:
		// Open bet, capped by what either side can actually cover.
		bet := betAmount
		if bet > balance {
			return Outcome{}, insufficientf("bet %d exceeds balance %d", bet, balance)
		}
		balance -= bet
		s.commitPlayer(bet)
		s.CurrentBet = s.PlayerBet
		return s.dealerFacingBet(balance, rng), nil

	default:
		// Check: the dealer gets the option to bet or check behind.
		return s.dealerOption(balance, rng), nil
	}
}

func (s *HoldemState) commitPlayer(amount int) {
	s.PlayerBet += amount
	s.PlayerPaid += amount
	s.Pot += amount
}

func (s *HoldemState) commitDealer(amount int) {
	if amount > s.DealerStack {
		amount = s.DealerStack
	}
	s.DealerStack -= amount
	s.DealerBet += amount
	s.DealerPaid += amount
	s.Pot += amount
}

// Fold concedes the hand; the player forfeits everything committed.
func (s *HoldemState) Fold(balance int) (Outcome, error) {
	if !s.InRound {
		return Outcome{}, illegalf("no hand in progress")
	}
	paid := s.PlayerPaid
	s.terminalState()
	return Outcome{
		Balance:  balance,
		Messages: []Message{dangerMsg(fmt.Sprintf("Folded, lost $%d", paid))},
		Stats:    []Stat{{Game: "holdem", Bet: paid, Net: -paid, Result: "loss"}},
	}, nil
}

// Clear acknowledges a finished hand. The button survives the wipe.
func (s *HoldemState) Clear() error {
	if !s.AwaitingClear {
		return illegalf("nothing to clear")
	}
	button := s.DealerButton
	*s = HoldemState{DealerButton: button}
	return nil
}

// dealerOption runs the dealer policy after the player checks: bet with a
// decent hand most of the time, otherwise check the street through. An
// uncompleted small blind is settled before the street may close.
func (s *HoldemState) dealerOption(balance int, rng *rand.Rand) Outcome {
	strength := s.dealerStrength()
	toCall := s.CurrentBet - s.DealerBet
	if strength >= 2 && rng.Float64() < 0.85 {
		size := s.dealerBetSize(strength, balance)
		if size > 0 && toCall+size <= s.DealerStack {
			s.commitDealer(toCall + size)
			s.CurrentBet = s.DealerBet
			return Outcome{Balance: balance, Messages: []Message{
				dangerMsg(fmt.Sprintf("Dealer bets $%d", size)),
			}}
		}
	}
	s.commitDealer(toCall)
	return s.advanceStreet(balance)
}

// dealerFacingBet runs the dealer policy against a player bet or raise:
// rarely fold a hopeless hand, sometimes re-raise a strong one (once per
// street), otherwise call.
func (s *HoldemState) dealerFacingBet(balance int, rng *rand.Rand) Outcome {
	strength := s.dealerStrength()
	toCall := s.CurrentBet - s.DealerBet

	if strength <= 1 && rng.Float64() < 0.15 {
		return s.dealerFoldHand(balance)
	}
	if strength >= 3 && !s.DealerRaised && rng.Float64() < 0.80 {
		size := s.dealerBetSize(strength, balance)
		if size > 0 && toCall+size <= s.DealerStack {
			s.commitDealer(toCall + size)
			s.CurrentBet = s.DealerBet
			s.DealerRaised = true
			return Outcome{Balance: balance, Messages: []Message{
				dangerMsg(fmt.Sprintf("Dealer raises $%d", size)),
			}}
		}
	}

	s.commitDealer(toCall)
	return s.advanceStreet(balance)
}

// dealerBetSize scales with pot and strength, capped by both stacks.
func (s *HoldemState) dealerBetSize(strength, balance int) int {
	size := int(math.Round(float64(s.Pot) * (0.35 + float64(strength)*0.1)))
	if size < 10 {
		size = 10
	}
	if size > s.DealerStack {
		size = s.DealerStack
	}
	if size > balance {
		size = balance
	}
	return size
}

func (s *HoldemState) dealerFoldHand(balance int) Outcome {
	pot, paid := s.Pot, s.PlayerPaid
	s.terminalState()
	return Outcome{
		Balance:  balance + pot,
		Messages: []Message{winMsg(fmt.Sprintf("Dealer folds, you take $%d", pot))},
		Stats:    []Stat{{Game: "holdem", Bet: paid, Net: pot - paid, Result: "win"}},
	}
}

// advanceStreet settles the betting round and reveals the next community
// cards. A broke player fast-forwards every remaining street so the hand
// still resolves.
func (s *HoldemState) advanceStreet(balance int) Outcome {
	s.CurrentBet = 0
	s.PlayerBet = 0
	s.DealerBet = 0
	s.DealerRaised = false
	switch s.Phase {
	case HoldemPreflop:
		s.Community = append(s.Community, popCard(&s.Deck), popCard(&s.Deck), popCard(&s.Deck))
		s.Phase = HoldemFlop
	case HoldemFlop:
		s.Community = append(s.Community, popCard(&s.Deck))
		s.Phase = HoldemTurn
	case HoldemTurn:
		s.Community = append(s.Community, popCard(&s.Deck))
		s.Phase = HoldemRiver
	default:
		return s.resolveShowdown(balance)
	}
	if balance == 0 {
		return s.advanceStreet(balance)
	}
	return Outcome{Balance: balance}
}

// resolveShowdown runs best-of-seven for both sides. A split pot pays the
// floored half to the player, remainder to whichever side holds the button.
func (s *HoldemState) resolveShowdown(balance int) Outcome {
	s.Phase = HoldemShowdown
	pEval := BestOfN(append(append([]Card{}, s.Player...), s.Community...))
	dEval := BestOfN(append(append([]Card{}, s.Dealer...), s.Community...))
	s.PlayerEval = &pEval
	s.DealerEval = &dEval

	pot, paid := s.Pot, s.PlayerPaid
	out := Outcome{}
	switch Compare(pEval, dEval) {
	case 1:
		out.Balance = balance + pot
		out.Messages = []Message{winMsg(fmt.Sprintf("%s beats %s, won $%d", pEval.Label, dEval.Label, pot-paid))}
		out.Stats = []Stat{{Game: "holdem", Bet: paid, Net: pot - paid, Result: "win"}}
	case 0:
		share := pot / 2
		if pot%2 != 0 && s.DealerButton {
			share++
		}
		out.Balance = balance + share
		out.Messages = []Message{winMsg(fmt.Sprintf("Split pot: both show %s", pEval.Label))}
		out.Stats = []Stat{{Game: "holdem", Bet: paid, Net: share - paid, Result: "push"}}
	default:
		out.Balance = balance
		out.Messages = []Message{dangerMsg(fmt.Sprintf("Dealer's %s beats %s, lost $%d", dEval.Label, pEval.Label, paid))}
		out.Stats = []Stat{{Game: "holdem", Bet: paid, Net: -paid, Result: "loss"}}
	}

	s.InRound = false
	s.AwaitingClear = true
	return out
}

func (s *HoldemState) terminalState() {
	s.InRound = false
	s.AwaitingClear = true
	s.Phase = HoldemShowdown
}

// dealerStrength scores the dealer's hand 1..5. Preflop uses a hole-card
// heuristic; postflop maps the best-of-N category.
func (s *HoldemState) dealerStrength() int {
	if s.Phase == HoldemPreflop {
		return preflopStrength(s.Dealer)
	}
	ev := BestOfN(append(append([]Card{}, s.Dealer...), s.Community...))
	switch {
	case ev.Rank >= FullHouse:
		return 5
	case ev.Rank >= Straight:
		return 4
	case ev.Rank >= TwoPair:
		return 3
	case ev.Rank == OnePair:
		return 2
	default:
		return 1
	}
}

// preflopStrength scores hole cards without a board: pairs and big cards
// high, suited connectors in the middle, trash low.
func preflopStrength(hole []Card) int {
	a, b := hole[0], hole[1]
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	suited := a.Suit == b.Suit
	gap := hi - lo
	switch {
	case a.Rank == b.Rank && a.Rank >= 10:
		return 5
	case a.Rank == b.Rank:
		return 4
	case hi >= Jack && lo >= Jack:
		return 3
	case suited && gap <= 1:
		return 3
	case hi >= Jack:
		return 2
	default:
		return 1
	}
}
