// Package database persists finished hands and games to Postgres.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared pool. It is nil until Connect succeeds, and callers skip
// persistence when it is nil.
var DB *pgxpool.Pool

// ErrNoDatabase is returned when DB has not been initialised.
var ErrNoDatabase = errors.New("database: not connected")

// Connect opens the pool, pings it and applies the schema.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("database: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("database: ping: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return err
	}
	DB = pool
	return nil
}

// Close releases the pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS hand_results (
		game_id          UUID        NOT NULL,
		room_code        TEXT        NOT NULL,
		hand_number      INT         NOT NULL,
		dealer           TEXT        NOT NULL,
		bidder           TEXT        NOT NULL,
		bidder_player_id TEXT        NOT NULL,
		bid_amount       INT         NOT NULL,
		all_pass         BOOLEAN     NOT NULL,
		trump            TEXT        NOT NULL,
		bidders_set      BOOLEAN     NOT NULL,
		team1_points     INT         NOT NULL,
		team2_points     INT         NOT NULL,
		team1_score      INT         NOT NULL,
		team2_score      INT         NOT NULL,
		team1_total      INT         NOT NULL,
		team2_total      INT         NOT NULL,
		seed             NUMERIC(20) NOT NULL,
		deck_mode        TEXT        NOT NULL,
		fingerprint      TEXT        NOT NULL,
		recorded_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (game_id, hand_number)
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id     UUID PRIMARY KEY,
		room_code   TEXT        NOT NULL,
		winner_team TEXT        NOT NULL,
		team1_total INT         NOT NULL,
		team2_total INT         NOT NULL,
		hands       INT         NOT NULL,
		final_state JSONB       NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("database: migration %d: %w", i, err)
		}
	}
	return nil
}

// HandResult is one scored hand.
type HandResult struct {
	GameID         uuid.UUID
	RoomCode       string
	HandNumber     int
	Dealer         string
	Bidder         string
	BidderPlayerID string
	BidAmount      int
	AllPass        bool
	Trump          string
	BiddersSet     bool
	Points         [2]int
	Scores         [2]int
	Totals         [2]int
	Seed           uint64
	DeckMode       string
	Fingerprint    string
}

const insertHand = `INSERT INTO hand_results (
	game_id, room_code, hand_number, dealer, bidder, bidder_player_id, bid_amount,
	all_pass, trump, bidders_set, team1_points, team2_points, team1_score, team2_score,
	team1_total, team2_total, seed, deck_mode, fingerprint
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
ON CONFLICT (game_id, hand_number) DO NOTHING`

func (h HandResult) args() []any {
	return []any{
		h.GameID, h.RoomCode, h.HandNumber, h.Dealer, h.Bidder, h.BidderPlayerID, h.BidAmount,
		h.AllPass, h.Trump, h.BiddersSet, h.Points[0], h.Points[1], h.Scores[0], h.Scores[1],
		h.Totals[0], h.Totals[1], fmt.Sprint(h.Seed), h.DeckMode, h.Fingerprint,
	}
}

// StoreHandResult records a scored hand. Replays of the same hand are ignored.
func StoreHandResult(ctx context.Context, h HandResult) error {
	if DB == nil {
		return ErrNoDatabase
	}
	if _, err := DB.Exec(ctx, insertHand, h.args()...); err != nil {
		return fmt.Errorf("database: storing hand %d of game %s: %w", h.HandNumber, h.GameID, err)
	}
	return nil
}

// GameResult is a finished game.
type GameResult struct {
	GameID     uuid.UUID
	RoomCode   string
	WinnerTeam string
	Totals     [2]int
	Hands      int
	FinalState any
}

const upsertGame = `INSERT INTO game_results (
	game_id, room_code, winner_team, team1_total, team2_total, hands, final_state
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (game_id) DO UPDATE SET
	winner_team = EXCLUDED.winner_team,
	team1_total = EXCLUDED.team1_total,
	team2_total = EXCLUDED.team2_total,
	hands       = EXCLUDED.hands,
	final_state = EXCLUDED.final_state,
	finished_at = now()`

// StoreFinalGameState records the outcome and final state of a game.
func StoreFinalGameState(ctx context.Context, g GameResult) error {
	if DB == nil {
		return ErrNoDatabase
	}
	state, err := json.Marshal(g.FinalState)
	if err != nil {
		return fmt.Errorf("database: encoding final state of game %s: %w", g.GameID, err)
	}
	_, err = DB.Exec(ctx, upsertGame, g.GameID, g.RoomCode, g.WinnerTeam, g.Totals[0], g.Totals[1], g.Hands, state)
	if err != nil {
		return fmt.Errorf("database: storing game %s: %w", g.GameID, err)
	}
	return nil
}
