package main

import "chipstack/server/engine"

// Sanitized round snapshots for the client. The deck is never serialized
// and hidden dealer cards are masked by omission: the client renders
// HiddenCards as face-down placeholders.

type CardDTO struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func cardDTO(c engine.Card) CardDTO {
	return CardDTO{Rank: c.RankLabel(), Suit: c.SuitSymbol()}
}

func cardDTOs(cards []engine.Card) []CardDTO {
	out := make([]CardDTO, len(cards))
	for i, c := range cards {
		out[i] = cardDTO(c)
	}
	return out
}

type BlackjackView struct {
	InRound       bool        `json:"inRound"`
	AwaitingClear bool        `json:"awaitingClear"`
	Hands         [][]CardDTO `json:"hands"`
	Totals        []int       `json:"totals"`
	Bets          []int       `json:"bets"`
	Busted        []bool      `json:"busted"`
	Active        int         `json:"active"`
	SplitUsed     bool        `json:"splitUsed"`
	Dealer        []CardDTO   `json:"dealer"`
	DealerHidden  int         `json:"dealerHidden"`
	DealerTotal   int         `json:"dealerTotal,omitempty"`
	RevealDealer  bool        `json:"revealDealer"`
}

func buildBlackjackView(s *engine.BlackjackState) BlackjackView {
	v := BlackjackView{
		InRound:       s.InRound,
		AwaitingClear: s.AwaitingClear,
		Active:        s.Active,
		SplitUsed:     s.SplitUsed,
		Bets:          s.Bets,
		Busted:        s.Busted,
		RevealDealer:  s.RevealDealer,
	}
	for _, hand := range s.Hands {
		v.Hands = append(v.Hands, cardDTOs(hand))
		v.Totals = append(v.Totals, engine.BlackjackTotal(hand))
	}
	if s.RevealDealer {
		v.Dealer = cardDTOs(s.Dealer)
		v.DealerTotal = engine.BlackjackTotal(s.Dealer)
	} else if len(s.Dealer) > 0 {
		// Hole card stays masked; only the upcard ships.
		v.Dealer = cardDTOs(s.Dealer[1:])
		v.DealerHidden = 1
	}
	return v
}

type DrawView struct {
	InRound         bool             `json:"inRound"`
	AwaitingClear   bool             `json:"awaitingClear"`
	Phase           engine.DrawPhase `json:"phase"`
	Pot             int              `json:"pot"`
	PlayerPaid      int              `json:"playerPaid"`
	CurrentBet      int              `json:"currentBet"`
	AwaitingRaise   bool             `json:"awaitingRaise"`
	PendingCall     int              `json:"pendingCall"`
	Player          []CardDTO        `json:"player"`
	Dealer          []CardDTO        `json:"dealer,omitempty"`
	DealerHidden    int              `json:"dealerHidden"`
	PlayerEval      *engine.Eval     `json:"playerEval,omitempty"`
	DealerEval      *engine.Eval     `json:"dealerEval,omitempty"`
	PlayerHighlight []int            `json:"playerHighlight,omitempty"`
	DealerHighlight []int            `json:"dealerHighlight,omitempty"`
}

func buildDrawView(s *engine.DrawState) DrawView {
	v := DrawView{
		InRound:         s.InRound,
		AwaitingClear:   s.AwaitingClear,
		Phase:           s.Phase,
		Pot:             s.Pot,
		PlayerPaid:      s.PlayerPaid,
		CurrentBet:      s.CurrentBet,
		AwaitingRaise:   s.AwaitingRaise,
		PendingCall:     s.PendingCall,
		Player:          cardDTOs(s.Player),
		PlayerEval:      s.PlayerEval,
		DealerEval:      s.DealerEval,
		PlayerHighlight: s.PlayerHighlight,
		DealerHighlight: s.DealerHighlight,
	}
	if s.Phase == engine.DrawReveal {
		v.Dealer = cardDTOs(s.Dealer)
	} else {
		v.DealerHidden = len(s.Dealer)
	}
	return v
}

type HoldemView struct {
	InRound       bool               `json:"inRound"`
	AwaitingClear bool               `json:"awaitingClear"`
	Phase         engine.HoldemPhase `json:"phase"`
	DealerButton  bool               `json:"dealerButton"`
	Pot           int                `json:"pot"`
	PlayerPaid    int                `json:"playerPaid"`
	ToCall        int                `json:"toCall"`
	Player        []CardDTO          `json:"player"`
	Community     []CardDTO          `json:"community"`
	Dealer        []CardDTO          `json:"dealer,omitempty"`
	DealerHidden  int                `json:"dealerHidden"`
	PlayerEval    *engine.Eval       `json:"playerEval,omitempty"`
	DealerEval    *engine.Eval       `json:"dealerEval,omitempty"`
}

func buildHoldemView(s *engine.HoldemState) HoldemView {
	toCall := s.CurrentBet - s.PlayerBet
	if toCall < 0 {
		toCall = 0
	}
	v := HoldemView{
		InRound:       s.InRound,
		AwaitingClear: s.AwaitingClear,
		Phase:         s.Phase,
		DealerButton:  s.DealerButton,
		Pot:           s.Pot,
		PlayerPaid:    s.PlayerPaid,
		ToCall:        toCall,
		Player:        cardDTOs(s.Player),
		Community:     cardDTOs(s.Community),
		PlayerEval:    s.PlayerEval,
		DealerEval:    s.DealerEval,
	}
	if s.Phase == engine.HoldemShowdown && s.DealerEval != nil {
		// Hole cards show only at a showdown, not after a fold.
		v.Dealer = cardDTOs(s.Dealer)
	} else {
		v.DealerHidden = len(s.Dealer)
	}
	return v
}
