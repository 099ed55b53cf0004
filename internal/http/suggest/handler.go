package suggest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KVinaykumar2002/reckon-snap/internal/suggest"
)

type Handler struct {
	svc *suggest.Service
}

func NewHandler(svc *suggest.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	if description == "" {
		writeError(w, http.StatusBadRequest, "description query parameter is required")
		return
	}

	category, err := h.svc.Suggest(r.Context(), description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Category is "" when no rule matches; the client treats that as
	// nothing to pre-fill.
	writeJSON(w, http.StatusOK, suggestResponse{
		Description: description,
		Category:    category,
	})
}

type learnRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Pattern) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "pattern and category are required")
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.Category); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusCreated)
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
