package transaction

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

// draftPayload is the wire shape of one submitted record, shared by the
// single-create and bulk endpoints. Field types are not trusted beyond the
// JSON decode; every record goes through Draft.Validate on the way in.
type draftPayload struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func (p draftPayload) toDraft() transaction.Draft {
	return transaction.Draft{
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Date:        p.Date,
		Description: p.Description,
	}
}

func draftToPayload(d transaction.Draft) draftPayload {
	return draftPayload{
		Type:        d.Type,
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        d.Date,
		Description: d.Description,
	}
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      float64          `json:"amount"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount.InexactFloat64(),
		Category:    tx.Category,
		Date:        tx.Date,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type bulkSuccessEntry struct {
	Index       int                 `json:"index"`
	Transaction transactionResponse `json:"transaction"`
}

type bulkErrorEntry struct {
	Index int          `json:"index"`
	Error string       `json:"error"`
	Data  draftPayload `json:"data"`
}

type bulkResults struct {
	Success []bulkSuccessEntry `json:"success"`
	Errors  []bulkErrorEntry   `json:"errors"`
}

type bulkResponse struct {
	Message      string      `json:"message"`
	SuccessCount int         `json:"successCount"`
	ErrorCount   int         `json:"errorCount"`
	Results      bulkResults `json:"results"`
}

func toBulkResponse(submitted []draftPayload, result *transaction.BulkResult) bulkResponse {
	// Both lists marshal as [] rather than null when empty.
	resp := bulkResponse{
		SuccessCount: len(result.Succeeded),
		ErrorCount:   len(result.Failed),
		Results: bulkResults{
			Success: make([]bulkSuccessEntry, 0, len(result.Succeeded)),
			Errors:  make([]bulkErrorEntry, 0, len(result.Failed)),
		},
	}

	resp.Message = fmt.Sprintf("Processed %d transactions: %d succeeded, %d failed",
		len(submitted), resp.SuccessCount, resp.ErrorCount)

	for _, s := range result.Succeeded {
		resp.Results.Success = append(resp.Results.Success, bulkSuccessEntry{
			Index:       s.Index,
			Transaction: toResponse(s.Transaction),
		})
	}

	for _, f := range result.Failed {
		resp.Results.Errors = append(resp.Results.Errors, bulkErrorEntry{
			Index: f.Index,
			Error: f.Message,
			Data:  draftToPayload(f.Draft),
		})
	}

	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
