package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

// Migrate создаёт схему, если её ещё нет. Заявки, результаты, хронологии и
// сетка хранятся как JSONB.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id             TEXT PRIMARY KEY,
			country        TEXT NOT NULL UNIQUE,
			tier           INT NOT NULL,
			overall_rating DOUBLE PRECISION NOT NULL,
			squad          JSONB NOT NULL,
			flag_key       TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tournaments (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL UNIQUE,
			status       TEXT NOT NULL,
			organizer_id INT NOT NULL REFERENCES users(id),
			bracket      JSONB,
			winner_id    TEXT,
			runner_up_id TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tournament_teams (
			tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
			team_id       TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			PRIMARY KEY (tournament_id, team_id)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id            TEXT PRIMARY KEY,
			tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
			round         TEXT NOT NULL,
			team1_id      TEXT NOT NULL REFERENCES teams(id),
			team2_id      TEXT NOT NULL REFERENCES teams(id),
			status        TEXT NOT NULL,
			result        JSONB,
			timeline      JSONB,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_tournament ON matches (tournament_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
