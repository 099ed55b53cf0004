package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, description string) (string, error) {
	// Longest pattern wins; ties go to the most recently learned rule.
	query := `
		SELECT category
		FROM category_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, description).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category: %w", err)
	}

	return category, nil
}

func (s *Store) UpsertRule(ctx context.Context, pattern, category string) error {
	query := `
		INSERT INTO category_rules (pattern, category)
		VALUES ($1, $2)
		ON CONFLICT (pattern) DO UPDATE SET category = EXCLUDED.category
	`

	_, err := s.db.ExecContext(ctx, query, pattern, category)
	if err != nil {
		return fmt.Errorf("upserting rule: %w", err)
	}

	return nil
}
