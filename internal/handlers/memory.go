package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/memory"
)

// MemoryHandler handles memory lifecycle transitions:
// POST /v1/journal/{id}/memories/{memoryID}/archive
// POST /v1/journal/{id}/memories/{memoryID}/retire
// Archiving moves a memory to long-term storage but keeps its pool
// slot; retiring frees the slot permanently.
type MemoryHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewMemoryHandler(logger *slog.Logger, storage storage.Storage) *MemoryHandler {
	return &MemoryHandler{
		logger:  logger,
		storage: storage,
	}
}

func (h *MemoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for memory endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	journalID, memoryID, action, ok := parseMemoryPath(r.URL.Path)
	if !ok {
		h.logger.Warn("Invalid memory path", "path", r.URL.Path)
		writeError(w, h.logger, http.StatusBadRequest, "Expected /v1/journal/{id}/memories/{memoryID}/archive or /retire")
		return
	}

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

	if err := js.Validate(); err != nil {
		h.logger.Error("Corrupt journal state", "error", err, "id", js.ID.String())
		writeError(w, h.logger, http.StatusUnprocessableEntity, "Journal state is corrupt: "+err.Error())
		return
	}

	var updated memory.Pool
	switch action {
	case "archive":
		updated, err = memory.Archive(js.Memories, memoryID)
	case "retire":
		updated, err = memory.Retire(js.Memories, memoryID)
	}
	if err != nil {
		switch {
		case errors.Is(err, memory.ErrMemoryNotFound):
			writeError(w, h.logger, http.StatusNotFound, "Memory not found: "+memoryID)
		case errors.Is(err, memory.ErrMemoryRetired):
			writeError(w, h.logger, http.StatusConflict, "Memory is retired and frozen: "+memoryID)
		default:
			h.logger.Error("Memory transition failed", "error", err, "memory_id", memoryID)
			writeError(w, h.logger, http.StatusInternalServerError, "Memory transition failed")
		}
		return
	}

	js.Memories = updated
	if err := h.storage.SaveJournal(r.Context(), js.ID, js); err != nil {
		h.logger.Error("Failed to save journal after memory transition", "error", err, "id", js.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save journal")
		return
	}

	h.logger.Debug("Memory transition applied", "id", js.ID.String(), "memory_id", memoryID, "action", action)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(js); err != nil {
		h.logger.Error("Failed to encode journal response", "error", err)
	}
}

// parseMemoryPath extracts the journal ID, memory ID, and action from
// a path like /v1/journal/{uuid}/memories/{ulid}/archive.
func parseMemoryPath(path string) (uuid.UUID, string, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// v1 journal {id} memories {memoryID} {action}
	if len(parts) != 6 || parts[0] != "v1" || parts[1] != "journal" || parts[3] != "memories" {
		return uuid.Nil, "", "", false
	}

	journalID, err := uuid.Parse(parts[2])
	if err != nil {
		return uuid.Nil, "", "", false
	}

	memoryID := parts[4]
	action := parts[5]
	if memoryID == "" || (action != "archive" && action != "retire") {
		return uuid.Nil, "", "", false
	}

	return journalID, memoryID, action, true
}
