package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/KVinaykumar2002/reckon-snap/internal/http/export"
	"github.com/KVinaykumar2002/reckon-snap/internal/http/stats"
	"github.com/KVinaykumar2002/reckon-snap/internal/http/suggest"
	"github.com/KVinaykumar2002/reckon-snap/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	transactions *transaction.Handler,
	aggregates *stats.Handler,
	categories *suggest.Handler,
	exports *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactions.Routes(r)
		})

		aggregates.Routes(r)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categories.Routes(r)
		})

		r.Route("/export", exports.Routes)
	})

	return router
}
