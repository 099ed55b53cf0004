package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

// Fake repository

type fakeRepo struct {
	listFunc   func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	lastFilter transaction.ListFilter
}

func (f *fakeRepo) InsertTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return nil
}

func (f *fakeRepo) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	f.lastFilter = filter

	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}

	return nil, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (*transaction.Stats, error) { return nil, nil }

func (f *fakeRepo) MonthlyOverview(ctx context.Context, months int) ([]transaction.MonthSummary, error) {
	return nil, nil
}

func (f *fakeRepo) CategoryBreakdown(ctx context.Context) ([]transaction.CategorySummary, error) {
	return nil, nil
}

func TestService_WriteCSV(t *testing.T) {
	repo := &fakeRepo{
		listFunc: func(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{
					Type:        transaction.TypeExpense,
					Amount:      decimal.NewFromFloat(12.5),
					Category:    "Food",
					Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
					Description: "Lunch",
				},
				{
					Type:        transaction.TypeIncome,
					Amount:      decimal.NewFromInt(2500),
					Category:    "Salary",
					Date:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
					Description: "January salary",
				},
			}, nil
		},
	}

	svc := NewService(transaction.NewService(repo, 1))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := transaction.ListFilter{StartDate: &start}

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, filter))

	want := "type,amount,category,date,description\n" +
		"expense,12.5,Food,2024-01-15,Lunch\n" +
		"income,2500,Salary,2024-01-31,January salary\n"
	assert.Equal(t, want, buf.String())

	// The filter reaches the store untouched.
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, start, *repo.lastFilter.StartDate)
}

func TestService_WriteCSV_RoundTrip(t *testing.T) {
	// An export must come back through the import pipeline with every row
	// accepted.
	repo := &fakeRepo{
		listFunc: func(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{
					Type:        transaction.TypeExpense,
					Amount:      decimal.NewFromFloat(9.99),
					Category:    "Transport",
					Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
					Description: "Bus ticket, monthly",
				},
			}, nil
		},
	}

	svc := NewService(transaction.NewService(repo, 1))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, transaction.ListFilter{}))

	records, err := importer.NewCSVParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	params, rowErr := importer.Validate(records[0])
	require.Nil(t, rowErr)
	assert.Equal(t, transaction.TypeExpense, params.Type)
	assert.True(t, params.Amount.Equal(decimal.NewFromFloat(9.99)))
	assert.Equal(t, "Bus ticket, monthly", params.Description)
}

func TestService_WriteCSV_ListError(t *testing.T) {
	repo := &fakeRepo{
		listFunc: func(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
			return nil, assert.AnError
		},
	}

	svc := NewService(transaction.NewService(repo, 1))

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), &buf, transaction.ListFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing transactions")
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "transactions-2024-03-09.csv", Filename(now))
}
