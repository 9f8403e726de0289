package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"chipstack/server/engine"
	"chipstack/server/store"
)

// Game names used for persistence keys and stats rows.
const (
	GameBlackjack = "blackjack"
	GameDraw      = "draw"
	GameHoldem    = "holdem"
	GameRoulette  = "roulette"
	GameSlots     = "slots"
)

// Sessions owns every live player session. The store is optional: with no
// DB the ledger and round states live in memory only, which is how dev
// runs without Postgres.
type Sessions struct {
	mu           sync.Mutex
	byToken      map[string]*PlayerSession
	db           *store.DB
	startBalance int
	seed         int64
}

func NewSessions(db *store.DB, startBalance int, seed int64) *Sessions {
	return &Sessions{
		byToken:      map[string]*PlayerSession{},
		db:           db,
		startBalance: startBalance,
		seed:         seed,
	}
}

// PlayerSession holds one account's balance snapshot and one RoundState
// per game. All mutation happens under mu, one action at a time; the UI
// enforces the same serialization on its side.
type PlayerSession struct {
	mu      sync.Mutex
	Token   string
	Balance int
	loaded  bool
	rng     *rand.Rand

	Blackjack engine.BlackjackState
	Draw      engine.DrawState
	Holdem    engine.HoldemState
}

func (ss *Sessions) session(token string) *PlayerSession {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	p, ok := ss.byToken[token]
	if !ok {
		p = &PlayerSession{
			Token:   token,
			Balance: ss.startBalance,
			rng:     engine.NewRand(ss.seed),
		}
		ss.byToken[p.Token] = p
	}
	return p
}

// hydrate pulls the persisted balance and any resumable round states on a
// session's first use. DB errors fall back to the in-memory defaults; a
// player losing a resumable round beats a dead table.
func (ss *Sessions) hydrate(ctx context.Context, p *PlayerSession) {
	if p.loaded {
		return
	}
	p.loaded = true
	if ss.db == nil {
		return
	}
	bal, err := ss.db.GetBalance(ctx, p.Token, ss.startBalance)
	if err != nil {
		log.Printf("load balance for %s failed: %v", p.Token, err)
		return
	}
	p.Balance = bal
	for game, dst := range map[string]any{
		GameBlackjack: &p.Blackjack,
		GameDraw:      &p.Draw,
		GameHoldem:    &p.Holdem,
	} {
		raw, err := ss.db.LoadRound(ctx, p.Token, game)
		if err != nil {
			log.Printf("load %s round for %s failed: %v", game, p.Token, err)
			continue
		}
		if raw == nil {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			log.Printf("decode %s round for %s failed: %v", game, p.Token, err)
		}
	}
}

// Act runs one engine action atomically: load the session, snapshot it,
// apply the action, and persist balance+state+stats together. Any failure
// on either side rolls the session back untouched.
func (ss *Sessions) Act(ctx context.Context, token, game string, fn func(p *PlayerSession) (engine.Outcome, error)) (engine.Outcome, *PlayerSession, error) {
	p := ss.session(token)
	p.mu.Lock()
	defer p.mu.Unlock()
	ss.hydrate(ctx, p)

	snapshot, err := p.snapshot(game)
	if err != nil {
		return engine.Outcome{}, p, fmt.Errorf("snapshot: %w", err)
	}
	prevBalance := p.Balance

	out, err := fn(p)
	if err != nil {
		return engine.Outcome{}, p, err
	}
	p.Balance = out.Balance

	if ss.db != nil {
		state, err := p.marshalGame(game)
		if err == nil {
			err = ss.db.SaveAction(ctx, p.Token, game, state, p.Balance, statRows(out.Stats))
		}
		if err != nil {
			p.restore(game, snapshot)
			p.Balance = prevBalance
			return engine.Outcome{}, p, fmt.Errorf("persist action: %w", err)
		}
	}
	return out, p, nil
}

// View runs a read-only accessor under the session lock.
func (ss *Sessions) View(ctx context.Context, token string, fn func(p *PlayerSession)) {
	p := ss.session(token)
	p.mu.Lock()
	defer p.mu.Unlock()
	ss.hydrate(ctx, p)
	fn(p)
}

// Stats reads the per-game aggregates for an account.
func (ss *Sessions) Stats(ctx context.Context, token string) ([]store.StatSummary, error) {
	if ss.db == nil {
		return []store.StatSummary{}, nil
	}
	return ss.db.SummarizeStats(ctx, token)
}

// marshalGame serializes the live round for persistence, or nil when the
// table is idle and the stored row should go away.
func (p *PlayerSession) marshalGame(game string) ([]byte, error) {
	switch game {
	case GameBlackjack:
		if !p.Blackjack.InRound && !p.Blackjack.AwaitingClear {
			return nil, nil
		}
		return json.Marshal(&p.Blackjack)
	case GameDraw:
		if !p.Draw.InRound && !p.Draw.AwaitingClear {
			return nil, nil
		}
		return json.Marshal(&p.Draw)
	case GameHoldem:
		// The button must survive idle tables, so hold'em always persists.
		return json.Marshal(&p.Holdem)
	default:
		// Roulette and slots are stateless single shots.
		return nil, nil
	}
}

func (p *PlayerSession) snapshot(game string) ([]byte, error) {
	switch game {
	case GameBlackjack:
		return json.Marshal(&p.Blackjack)
	case GameDraw:
		return json.Marshal(&p.Draw)
	case GameHoldem:
		return json.Marshal(&p.Holdem)
	default:
		return nil, nil
	}
}

func (p *PlayerSession) restore(game string, snapshot []byte) {
	if snapshot == nil {
		return
	}
	switch game {
	case GameBlackjack:
		p.Blackjack = engine.BlackjackState{}
		_ = json.Unmarshal(snapshot, &p.Blackjack)
	case GameDraw:
		p.Draw = engine.DrawState{}
		_ = json.Unmarshal(snapshot, &p.Draw)
	case GameHoldem:
		p.Holdem = engine.HoldemState{}
		_ = json.Unmarshal(snapshot, &p.Holdem)
	}
}

func statRows(stats []engine.Stat) []store.StatRow {
	rows := make([]store.StatRow, len(stats))
	for i, s := range stats {
		rows[i] = store.StatRow{Game: s.Game, Bet: s.Bet, Net: s.Net, Result: s.Result}
	}
	return rows
}
