package simulation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"diceville/internal/bot"
	"diceville/internal/engine"
)

// Store keeps one row per simulated game.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and creates if needed) the results database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initStore(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game INTEGER NOT NULL,
			seed TEXT NOT NULL,
			strategies TEXT NOT NULL,
			finished INTEGER NOT NULL,
			winner TEXT NOT NULL,
			winner_strategy INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			balances_json TEXT NOT NULL,
			floors_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_strategy ON games(winner_strategy);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a finished (or capped) game.
func (s *Store) Save(ctx context.Context, r Result) error {
	strategies, err := json.Marshal(r.Strategies)
	if err != nil {
		return err
	}
	balances, err := json.Marshal(r.Balances)
	if err != nil {
		return err
	}
	floors, err := json.Marshal(r.Floors)
	if err != nil {
		return err
	}
	finished := 0
	if r.Finished {
		finished = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (game, seed, strategies, finished, winner, winner_strategy, turns, balances_json, floors_json, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Game, strconv.FormatUint(r.Seed, 10), string(strategies), finished, r.Winner.String(), int(r.WinnerStrategy),
		r.Turns, string(balances), string(floors), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save game %d: %w", r.Game, err)
	}
	return nil
}

// Load returns the latest stored result of game n. Seeds are kept as
// decimal text so the full uint64 range survives sqlite's signed integers.
func (s *Store) Load(ctx context.Context, n int) (Result, error) {
	var (
		seed, strategies, winner, balances, floors string
		finished, winnerStrategy                   int
	)
	r := Result{Game: n}
	err := s.db.QueryRowContext(ctx,
		`SELECT seed, strategies, finished, winner, winner_strategy, turns, balances_json, floors_json
		 FROM games WHERE game = ? ORDER BY id DESC LIMIT 1`, n,
	).Scan(&seed, &strategies, &finished, &winner, &winnerStrategy, &r.Turns, &balances, &floors)
	if err != nil {
		return Result{}, fmt.Errorf("load game %d: %w", n, err)
	}
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Result{}, fmt.Errorf("load game %d: seed: %w", n, err)
	}
	r.Finished = finished == 1
	r.WinnerStrategy = bot.Strategy(winnerStrategy)
	r.Winner = engine.PlayerNone
	if r.Finished {
		if r.Winner, err = engine.ParsePlayer(winner); err != nil {
			return Result{}, fmt.Errorf("load game %d: %w", n, err)
		}
	}
	for _, field := range []struct {
		raw string
		dst any
	}{
		{strategies, &r.Strategies},
		{balances, &r.Balances},
		{floors, &r.Floors},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.dst); err != nil {
			return Result{}, fmt.Errorf("load game %d: %w", n, err)
		}
	}
	return r, nil
}

// Wins counts stored victories per strategy.
func (s *Store) Wins(ctx context.Context) (map[bot.Strategy]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT winner_strategy, COUNT(*) FROM games WHERE finished = 1 GROUP BY winner_strategy`)
	if err != nil {
		return nil, fmt.Errorf("query wins: %w", err)
	}
	defer rows.Close()

	out := make(map[bot.Strategy]int)
	for rows.Next() {
		var strategy, n int
		if err := rows.Scan(&strategy, &n); err != nil {
			return nil, err
		}
		out[bot.Strategy(strategy)] = n
	}
	return out, rows.Err()
}

// Count returns how many games are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}
