package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema creates the tables if they do not exist. The CHECK constraints
// mirror the application's field rules, so the database rejects out-of-range
// records even when a write path skips validation.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
			amount NUMERIC(14, 2) NOT NULL CHECK (amount >= 0),
			category TEXT NOT NULL CHECK (btrim(category) <> ''),
			date TIMESTAMPTZ NOT NULL,
			description TEXT NOT NULL CHECK (btrim(description) <> '' AND char_length(description) <= 200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS transactions_date_idx ON transactions (date DESC);

		CREATE TABLE IF NOT EXISTS category_rules (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			pattern TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
