package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/journal-engine/internal/config"
	"github.com/jwebster45206/journal-engine/internal/handlers"
	"github.com/jwebster45206/journal-engine/internal/logger"
	"github.com/jwebster45206/journal-engine/internal/middleware"
	"github.com/jwebster45206/journal-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	slogger := logger.Setup(cfg)

	slogger.Info("Starting Journal Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, slogger)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		slogger.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	slogger.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, slogger)
	mux.Handle("/health", healthHandler)

	journalHandler := handlers.NewJournalHandler(slogger, store)
	mux.Handle("/v1/journal", journalHandler)

	memoryHandler := handlers.NewMemoryHandler(slogger, store)
	// Journal subpaths route on segment count: /memories/ paths go to
	// the memory handler, everything else to the journal handler.
	mux.Handle("/v1/journal/", journalRouter(journalHandler, memoryHandler))

	turnHandler := handlers.NewTurnHandler(slogger, store)
	mux.Handle("/v1/turn", turnHandler)

	booksHandler := handlers.NewBooksHandler(slogger, store)
	mux.Handle("/v1/books", booksHandler)
	mux.Handle("/v1/books/", booksHandler)

	handler := middleware.Logger(slogger, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		slogger.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slogger.Info("Server exited")
}
