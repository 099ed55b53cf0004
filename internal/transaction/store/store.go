package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, type, amount, category, date, description, created_at, updated_at`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Amount, &tx.Category, &tx.Date, &tx.Description,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

func (s *Store) InsertTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, category, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Category,
		tx.Date,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if sv := schemaViolation(err); sv != nil {
			return sv
		}

		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}

// schemaViolation maps constraint failures reported by Postgres onto the
// domain error: check violation, not-null violation, value too long,
// numeric out of range.
func schemaViolation(err error) *transaction.SchemaViolation {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case "23514", "23502", "22001", "22003":
		return &transaction.SchemaViolation{
			Constraint: pgErr.ConstraintName,
			Message:    pgErr.Message,
		}
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE true`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) Stats(ctx context.Context) (*transaction.Stats, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM transactions
	`

	var stats transaction.Stats

	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalIncome,
		&stats.TotalExpenses,
		&stats.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)

	return &stats, nil
}

func (s *Store) MonthlyOverview(ctx context.Context, months int) ([]transaction.MonthSummary, error) {
	query := `
		SELECT
			to_char(date_trunc('month', date), 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE date >= date_trunc('month', now()) - make_interval(months => $1 - 1)
		GROUP BY month
		ORDER BY month
	`

	rows, err := s.db.QueryContext(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("querying monthly overview: %w", err)
	}
	defer rows.Close()

	var summaries []transaction.MonthSummary

	for rows.Next() {
		var m transaction.MonthSummary
		if err := rows.Scan(&m.Month, &m.Income, &m.Expenses); err != nil {
			return nil, fmt.Errorf("scanning month summary: %w", err)
		}

		summaries = append(summaries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating month summaries: %w", err)
	}

	return summaries, nil
}

func (s *Store) CategoryBreakdown(ctx context.Context) ([]transaction.CategorySummary, error) {
	query := `
		SELECT category, SUM(amount) AS total, COUNT(*)
		FROM transactions
		WHERE type = 'expense'
		GROUP BY category
		ORDER BY total DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer rows.Close()

	var summaries []transaction.CategorySummary

	for rows.Next() {
		var c transaction.CategorySummary
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category summary: %w", err)
		}

		summaries = append(summaries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category summaries: %w", err)
	}

	return summaries, nil
}
