package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// InsertTransaction persists one record and fills its ID, CreatedAt and
	// UpdatedAt. Records the schema rejects yield a *SchemaViolation.
	InsertTransaction(ctx context.Context, tx *Transaction) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Stats(ctx context.Context) (*Stats, error)
	MonthlyOverview(ctx context.Context, months int) ([]MonthSummary, error)
	CategoryBreakdown(ctx context.Context) ([]CategorySummary, error)
}

type Service struct {
	repo    Repository
	workers int
}

// NewService creates a transaction service. workers bounds how many records
// of a bulk request may be in flight at once; values below 1 mean strictly
// sequential.
func NewService(repo Repository, workers int) *Service {
	if workers < 1 {
		workers = 1
	}

	return &Service{repo: repo, workers: workers}
}

// CreateParams holds the validated, typed fields for creating a transaction.
// It is only ever built by Draft.Validate.
type CreateParams struct {
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
}

type ListFilter struct {
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Stats summarizes the whole ledger.
type Stats struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}

// MonthSummary is one month of the overview, keyed as "YYYY-MM".
type MonthSummary struct {
	Month    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// CategorySummary aggregates spending for one category.
type CategorySummary struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Create validates a single draft under the API amount policy and persists
// it. Validation failures come back as *ValidationError.
func (s *Service) Create(ctx context.Context, draft Draft) (*Transaction, error) {
	params, err := draft.Validate(NonNegativeAmount)
	if err != nil {
		return nil, err
	}

	tx := paramsToTransaction(params)
	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) MonthlyOverview(ctx context.Context, months int) ([]MonthSummary, error) {
	return s.repo.MonthlyOverview(ctx, months)
}

func (s *Service) CategoryBreakdown(ctx context.Context) ([]CategorySummary, error) {
	return s.repo.CategoryBreakdown(ctx)
}

// BulkSuccess is one persisted record of a bulk request, tagged with its
// position in the input.
type BulkSuccess struct {
	Index       int
	Transaction *Transaction
}

// BulkFailure is one rejected or unpersisted record of a bulk request.
type BulkFailure struct {
	Index   int
	Message string
	Draft   Draft
}

// BulkResult partitions the outcome of a bulk request. Both slices keep the
// input order, and len(Succeeded)+len(Failed) equals the input length.
type BulkResult struct {
	Succeeded []BulkSuccess
	Failed    []BulkFailure
}

// IngestBatch validates and persists every draft as an independent unit of
// work: one record's failure never aborts the rest, partial success is an
// expected outcome, and no transaction spans the batch. At most s.workers
// records are in flight at once; outcomes are reassembled in input order.
func (s *Service) IngestBatch(ctx context.Context, drafts []Draft) *BulkResult {
	type outcome struct {
		tx  *Transaction
		err error
	}

	outcomes := make([]outcome, len(drafts))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i := range drafts {
		g.Go(func() error {
			params, err := drafts[i].Validate(NonNegativeAmount)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}

			tx := paramsToTransaction(params)
			if err := s.repo.InsertTransaction(ctx, tx); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}

			outcomes[i] = outcome{tx: tx}

			return nil
		})
	}

	// Workers record outcomes instead of returning errors, so Wait never fails.
	_ = g.Wait()

	result := &BulkResult{
		Succeeded: make([]BulkSuccess, 0, len(drafts)),
		Failed:    make([]BulkFailure, 0),
	}

	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, BulkFailure{Index: i, Message: o.err.Error(), Draft: drafts[i]})
			continue
		}

		result.Succeeded = append(result.Succeeded, BulkSuccess{Index: i, Transaction: o.tx})
	}

	return result
}

func paramsToTransaction(p CreateParams) *Transaction {
	return &Transaction{
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Date:        p.Date,
		Description: p.Description,
	}
}
