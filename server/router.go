package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chipstack/server/engine"
)

const sessionCookie = "chipstack_session"

// actionResponse is the uniform reply for every game action: the
// sanitized state snapshot, messages to toast, and the new balance.
type actionResponse struct {
	State    any              `json:"state"`
	Messages []engine.Message `json:"messages"`
	Balance  int              `json:"balance"`
}

func Router(ss *Sessions) http.Handler {
	r := chi.NewRouter()
	h := &handlers{ss: ss}

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})
	r.Get("/api/balance", h.balance)
	r.Get("/api/stats", h.stats)
	r.Get("/api/state/{game}", h.state)

	r.Route("/api/blackjack", func(r chi.Router) {
		r.Post("/deal", h.blackjackDeal)
		r.Post("/hit", h.blackjackSimple((*engine.BlackjackState).Hit))
		r.Post("/stand", h.blackjackSimple((*engine.BlackjackState).Stand))
		r.Post("/double", h.blackjackSimple((*engine.BlackjackState).Double))
		r.Post("/split", h.blackjackSimple((*engine.BlackjackState).Split))
		r.Post("/clear", h.blackjackClear)
	})

	r.Route("/api/draw", func(r chi.Router) {
		r.Post("/deal", h.drawDeal)
		r.Post("/bet", h.drawBet)
		r.Post("/draw", h.drawDraw)
		r.Post("/respond", h.drawRespond)
		r.Post("/fold", h.drawFold)
		r.Post("/clear", h.drawClear)
	})

	r.Route("/api/holdem", func(r chi.Router) {
		r.Post("/deal", h.holdemDeal)
		r.Post("/action", h.holdemAction)
		r.Post("/fold", h.holdemFold)
		r.Post("/clear", h.holdemClear)
	})

	r.Post("/api/roulette/spin", h.rouletteSpin)
	r.Post("/api/roulette/chaos", h.rouletteChaos)
	r.Post("/api/slots/spin", h.slotsSpin)

	r.Get("/ws", h.ws)

	return r
}

type handlers struct {
	ss   *Sessions
	room roomHub
}

// token returns the caller's session token, minting one on first contact.
func (h *handlers) token(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

/* -----------------------------
   Read-only endpoints
------------------------------*/

func (h *handlers) balance(w http.ResponseWriter, r *http.Request) {
	h.ss.View(r.Context(), h.token(w, r), func(p *PlayerSession) {
		writeJSON(w, map[string]any{"balance": p.Balance})
	})
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ss.Stats(r.Context(), h.token(w, r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"rows": rows})
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	h.ss.View(r.Context(), h.token(w, r), func(p *PlayerSession) {
		var state any
		switch game {
		case GameBlackjack:
			state = buildBlackjackView(&p.Blackjack)
		case GameDraw:
			state = buildDrawView(&p.Draw)
		case GameHoldem:
			state = buildHoldemView(&p.Holdem)
		default:
			http.Error(w, "unknown game", http.StatusNotFound)
			return
		}
		writeJSON(w, actionResponse{State: state, Balance: p.Balance})
	})
}

/* -----------------------------
   Blackjack
------------------------------*/

func (h *handlers) blackjackDeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bet int `json:"bet"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, GameBlackjack, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Blackjack.Deal(p.Balance, req.Bet, p.rng)
	})
}

// blackjackSimple wraps the bet-free blackjack actions, which all share
// the signature (balance) -> (outcome, error).
func (h *handlers) blackjackSimple(action func(*engine.BlackjackState, int) (engine.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.act(w, r, GameBlackjack, func(p *PlayerSession) (engine.Outcome, error) {
			return action(&p.Blackjack, p.Balance)
		})
	}
}

func (h *handlers) blackjackClear(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameBlackjack, func(p *PlayerSession) (engine.Outcome, error) {
		if err := p.Blackjack.Clear(); err != nil {
			return engine.Outcome{}, err
		}
		return engine.Outcome{Balance: p.Balance}, nil
	})
}

/* -----------------------------
   Five-card draw
------------------------------*/

func (h *handlers) drawDeal(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Draw.Deal(p.Balance, p.rng)
	})
}

func (h *handlers) drawBet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Draw.Bet(p.Balance, req.Amount, p.rng)
	})
}

func (h *handlers) drawDraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Discards []int `json:"discards"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Draw.Draw(p.Balance, req.Discards, p.rng)
	})
}

func (h *handlers) drawRespond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Call bool `json:"call"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Draw.Respond(p.Balance, req.Call)
	})
}

func (h *handlers) drawFold(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Draw.Fold(p.Balance)
	})
}

func (h *handlers) drawClear(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameDraw, func(p *PlayerSession) (engine.Outcome, error) {
		if err := p.Draw.Clear(); err != nil {
			return engine.Outcome{}, err
		}
		return engine.Outcome{Balance: p.Balance}, nil
	})
}

/* -----------------------------
   Hold'em
------------------------------*/

func (h *handlers) holdemDeal(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameHoldem, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Holdem.Deal(p.Balance, p.rng)
	})
}

func (h *handlers) holdemAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bet int `json:"bet"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, GameHoldem, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Holdem.Action(p.Balance, req.Bet, p.rng)
	})
}

func (h *handlers) holdemFold(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameHoldem, func(p *PlayerSession) (engine.Outcome, error) {
		return p.Holdem.Fold(p.Balance)
	})
}

func (h *handlers) holdemClear(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, GameHoldem, func(p *PlayerSession) (engine.Outcome, error) {
		if err := p.Holdem.Clear(); err != nil {
			return engine.Outcome{}, err
		}
		return engine.Outcome{Balance: p.Balance}, nil
	})
}

/* -----------------------------
   Roulette & slots (stateless)
------------------------------*/

func (h *handlers) rouletteSpin(w http.ResponseWriter, r *http.Request) {
	var bets engine.RouletteBets
	if !decodeBody(w, r, &bets) {
		return
	}
	h.spinRoulette(w, r, bets)
}

func (h *handlers) rouletteChaos(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Budget int `json:"budget"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	token := h.token(w, r)
	p := h.ss.session(token)
	p.mu.Lock()
	h.ss.hydrate(r.Context(), p)
	budget := req.Budget
	if budget <= 0 || budget > p.Balance {
		budget = p.Balance
	}
	bets := engine.ChaosBets(budget, p.rng)
	p.mu.Unlock()
	h.spinRoulette(w, r, bets)
}

func (h *handlers) spinRoulette(w http.ResponseWriter, r *http.Request, bets engine.RouletteBets) {
	var result engine.RouletteResult
	out, _, err := h.ss.Act(r.Context(), h.token(w, r), GameRoulette, func(p *PlayerSession) (engine.Outcome, error) {
		if err := bets.Validate(); err != nil {
			return engine.Outcome{}, err
		}
		total := bets.Total()
		if total > p.Balance {
			return engine.Outcome{}, engine.ErrInsufficientFunds
		}
		result = engine.SpinRoulette(bets, p.rng)
		net := result.Payout - total
		msg := engine.Message{Tone: engine.ToneDanger, Duration: 4000}
		res := "loss"
		switch {
		case net > 0:
			res = "win"
			msg = winToast("Ball lands on %s: won $%d", result.Pocket, net)
		case net == 0:
			res = "push"
			msg = winToast("Ball lands on %s: broke even", result.Pocket)
		default:
			msg = dangerToast("Ball lands on %s: lost $%d", result.Pocket, -net)
		}
		return engine.Outcome{
			Balance:  p.Balance - total + result.Payout,
			Messages: []engine.Message{msg},
			Stats:    []engine.Stat{{Game: GameRoulette, Bet: total, Net: net, Result: res}},
		}, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, actionResponse{State: result, Messages: out.Messages, Balance: out.Balance})
}

func (h *handlers) slotsSpin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bet int `json:"bet"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	var result engine.SlotsResult
	out, _, err := h.ss.Act(r.Context(), h.token(w, r), GameSlots, func(p *PlayerSession) (engine.Outcome, error) {
		if req.Bet <= 0 {
			return engine.Outcome{}, engine.ErrValidation
		}
		if req.Bet > p.Balance {
			return engine.Outcome{}, engine.ErrInsufficientFunds
		}
		result = engine.SpinSlots(req.Bet, p.rng)
		balance := p.Balance - req.Bet + result.Payout
		net := result.Payout - req.Bet
		var msg engine.Message
		res := "loss"
		switch {
		case result.Wipe:
			balance = 0
			net = -p.Balance
			msg = dangerToast("Triple 💥! The house takes everything")
		case result.Payout > 0:
			res = "win"
			msg = winToast("%s%s%s pays $%d", result.Reels[0], result.Reels[1], result.Reels[2], result.Payout)
		default:
			msg = dangerToast("No match, lost $%d", req.Bet)
		}
		return engine.Outcome{
			Balance:  balance,
			Messages: []engine.Message{msg},
			Stats:    []engine.Stat{{Game: GameSlots, Bet: req.Bet, Net: net, Result: res}},
		}, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, actionResponse{State: result, Messages: out.Messages, Balance: out.Balance})
}

/* -----------------------------
   Plumbing
------------------------------*/

// act runs a stateful game action and replies with the sanitized view.
func (h *handlers) act(w http.ResponseWriter, r *http.Request, game string, fn func(p *PlayerSession) (engine.Outcome, error)) {
	out, p, err := h.ss.Act(r.Context(), h.token(w, r), game, fn)
	if err != nil {
		writeError(w, err)
		return
	}
	p.mu.Lock()
	var state any
	switch game {
	case GameBlackjack:
		state = buildBlackjackView(&p.Blackjack)
	case GameDraw:
		state = buildDrawView(&p.Draw)
	case GameHoldem:
		state = buildHoldemView(&p.Holdem)
	}
	p.mu.Unlock()
	writeJSON(w, actionResponse{State: state, Messages: out.Messages, Balance: out.Balance})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps the engine error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a server fault and gets logged.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, engine.ErrValidation):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, engine.ErrInsufficientFunds):
		status, kind = http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, engine.ErrIllegalAction):
		status, kind = http.StatusConflict, "illegal_action"
	default:
		log.Printf("action failed: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "kind": kind})
}

func winToast(format string, args ...any) engine.Message {
	return engine.Message{Text: fmt.Sprintf(format, args...), Tone: engine.ToneWin, Duration: 4000}
}

func dangerToast(format string, args ...any) engine.Message {
	return engine.Message{Text: fmt.Sprintf(format, args...), Tone: engine.ToneDanger, Duration: 4000}
}
