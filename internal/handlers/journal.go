package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

type JournalHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewJournalHandler(logger *slog.Logger, storage storage.Storage) *JournalHandler {
	return &JournalHandler{
		logger:  logger,
		storage: storage,
	}
}

// CreateJournalRequest defines the request body for opening a new journal
type CreateJournalRequest struct {
	Book string `json:"book"` // Required: prompt book filename
}

// normalizeBook converts a book reference to lowercase snake_case and
// ensures a .json extension.
func normalizeBook(s string) string {
	if s == "" {
		return ""
	}

	var out strings.Builder
	prevUnderscore := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		switch {
		case r == '.':
			out.WriteRune('.')
			prevUnderscore = false

		case r == ' ' || r == '-' || r == '_':
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}

		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false

		default:
			// Ignore other characters
		}
	}

	name := out.String()
	if name != "" && !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}

// ServeHTTP handles HTTP requests for journal operations
// Routes:
// POST /v1/journal         - Open a new journal
// GET /v1/journal/{id}     - Read journal by ID
// DELETE /v1/journal/{id}  - Delete journal by ID
func (h *JournalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/journal")
	var journalID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		journalID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid journal ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid journal ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if journalID == uuid.Nil {
			h.logger.Warn("GET request without journal ID")
			writeError(w, h.logger, http.StatusBadRequest, "Journal ID is required for GET requests")
			return
		}
		h.handleRead(w, r, journalID)

	case http.MethodDelete:
		if journalID == uuid.Nil {
			h.logger.Warn("DELETE request without journal ID")
			writeError(w, h.logger, http.StatusBadRequest, "Journal ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, journalID)

	default:
		h.logger.Warn("Method not allowed for journal endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *JournalHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Opening new journal")

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.Book = normalizeBook(req.Book)
	if req.Book == "" {
		h.logger.Warn("Missing required field: book")
		writeError(w, h.logger, http.StatusBadRequest, "book field is required")
		return
	}

	b, err := h.storage.GetBook(r.Context(), req.Book)
	if err != nil {
		h.logger.Warn("Failed to load prompt book", "book", req.Book, "error", err)
		if errors.Is(err, storage.ErrBookNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Prompt book not found: "+req.Book)
			return
		}
		writeError(w, h.logger, http.StatusBadRequest, "Failed to load prompt book: "+err.Error())
		return
	}

	js := journal.NewJournalState(req.Book)

	// Seed the pool when the book defines a starting memory.
	if b.SeedMemory != nil {
		js.Memories = memory.Seed(b.SeedMemory.Title, b.SeedMemory.Text)
	}

	if err := h.storage.SaveJournal(r.Context(), js.ID, js); err != nil {
		h.logger.Error("Failed to save new journal", "error", err, "id", js.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create journal")
		return
	}

	h.logger.Debug("Journal created successfully", "id", js.ID.String(), "book", js.Book)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(js); err != nil {
		h.logger.Error("Failed to encode journal response", "error", err)
	}
}

func (h *JournalHandler) handleRead(w http.ResponseWriter, r *http.Request, journalID uuid.UUID) {
	js, err := h.storage.LoadJournal(r.Context(), journalID)
	if err != nil {
		h.logger.Error("Failed to load journal", "error", err, "id", journalID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load journal")
		return
	}

	if js == nil {
		h.logger.Warn("Journal not found", "id", journalID.String())
		writeError(w, h.logger, http.StatusNotFound, "Journal not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(js); err != nil {
		h.logger.Error("Failed to encode journal response", "error", err)
	}
}

func (h *JournalHandler) handleDelete(w http.ResponseWriter, r *http.Request, journalID uuid.UUID) {
	if err := h.storage.DeleteJournal(r.Context(), journalID); err != nil {
		h.logger.Error("Failed to delete journal", "error", err, "id", journalID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete journal")
		return
	}
	h.logger.Debug("Journal deleted successfully", "id", journalID.String())
	w.WriteHeader(http.StatusNoContent)
}
