package importer

import (
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

// Validate checks one candidate against the client-side rules, which require
// strictly positive amounts. On failure the returned RowError carries the
// row position and the offending record; File is left for the caller, which
// knows which file the record came from.
func Validate(rec CandidateRecord) (transaction.CreateParams, *RowError) {
	draft := transaction.Draft{
		Type:        rec.Type,
		Amount:      rec.Amount,
		Category:    rec.Category,
		Date:        rec.Date,
		Description: rec.Description,
	}

	params, err := draft.Validate(transaction.StrictPositiveAmount)
	if err != nil {
		return transaction.CreateParams{}, &RowError{
			Row:     rec.Row,
			Message: err.Error(),
			Data:    rec,
		}
	}

	return params, nil
}
