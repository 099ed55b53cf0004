// Package stats serves the dashboard's aggregate read endpoints. The
// queries are simple grouped sums; all shaping happens in the store.
package stats

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

const defaultOverviewMonths = 6

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/monthly-overview", h.monthlyOverview)
	r.Get("/category-breakdown", h.categoryBreakdown)
}

type statsResponse struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalIncome:      stats.TotalIncome.InexactFloat64(),
		TotalExpenses:    stats.TotalExpenses.InexactFloat64(),
		Balance:          stats.Balance.InexactFloat64(),
		TransactionCount: stats.TransactionCount,
	})
}

type monthResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

func (h *Handler) monthlyOverview(w http.ResponseWriter, r *http.Request) {
	months := defaultOverviewMonths

	if s := r.URL.Query().Get("months"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			months = n
		}
	}

	summaries, err := h.svc.MonthlyOverview(r.Context(), months)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]monthResponse, 0, len(summaries))
	for _, m := range summaries {
		resp = append(resp, monthResponse{
			Month:    m.Month,
			Income:   m.Income.InexactFloat64(),
			Expenses: m.Expenses.InexactFloat64(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type categoryResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

func (h *Handler) categoryBreakdown(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.CategoryBreakdown(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]categoryResponse, 0, len(summaries))
	for _, c := range summaries {
		resp = append(resp, categoryResponse{
			Category: c.Category,
			Total:    c.Total.InexactFloat64(),
			Count:    c.Count,
		})
	}

	writeJSON(w, http.StatusOK, resp)
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
