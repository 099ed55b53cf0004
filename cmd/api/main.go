package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/KVinaykumar2002/reckon-snap/internal/config"
	"github.com/KVinaykumar2002/reckon-snap/internal/database"
	"github.com/KVinaykumar2002/reckon-snap/internal/export"
	api "github.com/KVinaykumar2002/reckon-snap/internal/http"
	exportHandler "github.com/KVinaykumar2002/reckon-snap/internal/http/export"
	statsHandler "github.com/KVinaykumar2002/reckon-snap/internal/http/stats"
	suggestHandler "github.com/KVinaykumar2002/reckon-snap/internal/http/suggest"
	txHandler "github.com/KVinaykumar2002/reckon-snap/internal/http/transaction"
	"github.com/KVinaykumar2002/reckon-snap/internal/suggest"
	suggestStore "github.com/KVinaykumar2002/reckon-snap/internal/suggest/store"
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
	txStore "github.com/KVinaykumar2002/reckon-snap/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The connection is the process's one long-lived resource: if it cannot
	// be established, the endpoints are not brought up at all.
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	var (
		transactionService = transaction.NewService(txStore.New(db), cfg.Ingest.Workers)
		suggestService     = suggest.NewService(suggestStore.New(db))
		exportService      = export.NewService(transactionService)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		statsH       = statsHandler.NewHandler(transactionService)
		suggestH     = suggestHandler.NewHandler(suggestService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := api.New(cfg.HTTP.AllowedOrigins, transactionH, statsH, suggestH, exportH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
