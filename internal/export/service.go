// Package export renders stored transactions as CSV. The column order
// matches what the import pipeline expects, so an export re-imports cleanly.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

// Columns is the exported header row, in positional import order.
var Columns = []string{"type", "amount", "category", "date", "description"}

// Service renders transactions for download.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// WriteCSV streams transactions matching the filter to w, most recent first,
// header row included.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter transaction.ListFilter) error {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			string(tx.Type),
			tx.Amount.String(),
			tx.Category,
			tx.Date.Format(time.DateOnly),
			tx.Description,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Filename names a download taken now, e.g. "transactions-2026-08-25.csv".
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions-%s.csv", now.Format(time.DateOnly))
}
