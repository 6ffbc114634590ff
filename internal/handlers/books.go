package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/journal-engine/internal/storage"
)

// BooksHandler serves the prompt book catalog.
// Routes:
// GET /v1/books        - List available books (name -> filename)
// GET /v1/books/{file} - Read one book
type BooksHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewBooksHandler(logger *slog.Logger, storage storage.Storage) *BooksHandler {
	return &BooksHandler{
		logger:  logger,
		storage: storage,
	}
}

func (h *BooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for books endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/books"), "/")

	if path == "" {
		books, err := h.storage.ListBooks(r.Context())
		if err != nil {
			h.logger.Error("Failed to list books", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to list books")
			return
		}
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(books); err != nil {
			h.logger.Error("Failed to encode books response", "error", err)
		}
		return
	}

	b, err := h.storage.GetBook(r.Context(), path)
	if err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			h.logger.Warn("Book not found", "book", path)
			writeError(w, h.logger, http.StatusNotFound, "Book not found: "+path)
			return
		}
		h.logger.Error("Failed to load book", "book", path, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load book")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(b); err != nil {
		h.logger.Error("Failed to encode book response", "error", err)
	}
}
