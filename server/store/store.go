package store

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Balance ledger
------------------------------*/

// GetBalance reads an account's balance, creating the account with the
// given starting balance on first sight.
func (db *DB) GetBalance(ctx context.Context, token string, startBalance int) (int, error) {
	var balance int64
	err := db.QueryRow(ctx, `
        INSERT INTO accounts(token, balance)
        VALUES ($1, $2)
        ON CONFLICT (token) DO UPDATE SET token = EXCLUDED.token
        RETURNING balance
    `, token, startBalance).Scan(&balance)
	return int(balance), err
}

/* -----------------------------
   Round state + stats
------------------------------*/

// LoadRound fetches the serialized round state for one game, or nil when
// no round is stored.
func (db *DB) LoadRound(ctx context.Context, token, game string) ([]byte, error) {
	var state []byte
	err := db.QueryRow(ctx, `
        SELECT state FROM round_states WHERE token = $1 AND game = $2
    `, token, game).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return state, err
}

// SaveAction persists the result of one engine action atomically: the new
// balance, the new round state, and any resolved-wager stats land together
// or not at all.
func (db *DB) SaveAction(ctx context.Context, token, game string, state []byte, balance int, stats []StatRow) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, `
        UPDATE accounts SET balance = $2, updated_at = now() WHERE token = $1
    `, token, balance); err != nil {
		return err
	}

	if state == nil {
		if _, err := tx.Exec(ctx, `
            DELETE FROM round_states WHERE token = $1 AND game = $2
        `, token, game); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
            INSERT INTO round_states(token, game, state)
            VALUES ($1, $2, $3)
            ON CONFLICT (token, game) DO UPDATE
              SET state = EXCLUDED.state, updated_at = now()
        `, token, game, state); err != nil {
			return err
		}
	}

	for _, s := range stats {
		if _, err := tx.Exec(ctx, `
            INSERT INTO game_stats(token, game, bet, net, result)
            VALUES ($1, $2, $3, $4, $5)
        `, token, s.Game, s.Bet, s.Net, s.Result); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// StatRow mirrors engine.Stat without importing it; the store stays a
// dumb collaborator.
type StatRow struct {
	Game   string
	Bet    int
	Net    int
	Result string
}

// StatSummary is a per-game aggregate for the stats endpoint.
type StatSummary struct {
	Game    string `json:"game"`
	Rounds  int    `json:"rounds"`
	Wagered int    `json:"wagered"`
	Net     int    `json:"net"`
	Wins    int    `json:"wins"`
}

// SummarizeStats aggregates an account's resolved wagers per game.
func (db *DB) SummarizeStats(ctx context.Context, token string) ([]StatSummary, error) {
	rows, err := db.Query(ctx, `
        SELECT game,
               COUNT(*)::int                                   AS rounds,
               COALESCE(SUM(bet), 0)::int                      AS wagered,
               COALESCE(SUM(net), 0)::int                      AS net,
               COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0)::int AS wins
          FROM game_stats
         WHERE token = $1
         GROUP BY game
         ORDER BY game
    `, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatSummary{}
	for rows.Next() {
		var s StatSummary
		if err := rows.Scan(&s.Game, &s.Rounds, &s.Wagered, &s.Net, &s.Wins); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
