package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

const defaultListLimit = 50

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/bulk", h.bulk)
}

// decode reads a JSON body strictly: unknown fields and type mismatches are
// rejected, so nothing loosely shaped reaches the business rules.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req draftPayload
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.svc.Create(r.Context(), req.toDraft())
	if err != nil {
		var vErr *transaction.ValidationError
		var sErr *transaction.SchemaViolation

		if errors.As(err, &vErr) || errors.As(err, &sErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{Limit: defaultListLimit}

	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	if s := q.Get("type"); s != "" {
		t := transaction.Type(s)
		if t == transaction.TypeIncome || t == transaction.TypeExpense {
			filter.Type = &t
		}
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

type bulkRequest struct {
	Transactions []draftPayload `json:"transactions"`
}

// bulk ingests a batch of records, each as an independent unit of work.
// Individual failures never fail the request: once the body is well formed,
// the response is 200 with a full per-index breakdown, and partial success
// is an expected outcome.
func (h *Handler) bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Transactions) == 0 {
		writeError(w, http.StatusBadRequest, "Transactions array is required and cannot be empty")
		return
	}

	drafts := make([]transaction.Draft, len(req.Transactions))
	for i, p := range req.Transactions {
		drafts[i] = p.toDraft()
	}

	result := h.svc.IngestBatch(r.Context(), drafts)

	writeJSON(w, http.StatusOK, toBulkResponse(req.Transactions, result))
}
