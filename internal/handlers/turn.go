package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
	"github.com/jwebster45206/journal-engine/pkg/turn"
)

// TurnHandler processes one journal turn: dice roll in, next prompt
// and memory placement out. Turns against the same journal are
// serialized so a slow request cannot overwrite a newer visit record
// or memory pool with a stale snapshot.
type TurnHandler struct {
	storage storage.Storage
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewTurnHandler(logger *slog.Logger, storage storage.Storage) *TurnHandler {
	return &TurnHandler{
		logger:  logger,
		storage: storage,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (h *TurnHandler) journalLock(id uuid.UUID) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[id]
	if !ok {
		l = &sync.Mutex{}
		h.locks[id] = l
	}
	return l
}

// ServeHTTP handles POST /v1/turn
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req turn.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'journal_id', 'roll', and 'response' fields.")
		return
	}

	// Input validation happens here; the core assumes valid rolls.
	if req.JournalID == uuid.Nil {
		h.logger.Warn("Turn request without journal ID")
		writeError(w, h.logger, http.StatusBadRequest, "journal_id is required")
		return
	}
	if err := req.Roll.Validate(); err != nil {
		h.logger.Warn("Invalid roll in turn request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid roll: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Response) == "" {
		h.logger.Warn("Empty response in turn request")
		writeError(w, h.logger, http.StatusBadRequest, "response cannot be empty")
		return
	}

	lock := h.journalLock(req.JournalID)
	lock.Lock()
	defer lock.Unlock()

	js, err := h.storage.LoadJournal(r.Context(), req.JournalID)
	if err != nil {
		h.logger.Error("Failed to load journal for turn", "error", err, "id", req.JournalID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if js == nil {
		h.logger.Warn("Journal not found for turn", "id", req.JournalID.String())
		writeError(w, h.logger, http.StatusNotFound, "Journal not found")
		return
	}

	// Persisted state that violates a core invariant is rejected, not
	// repaired.
	if err := js.Validate(); err != nil {
		h.logger.Error("Corrupt journal state", "error", err, "id", js.ID.String())
		writeError(w, h.logger, http.StatusUnprocessableEntity, "Journal state is corrupt: "+err.Error())
		return
	}

	b, err := h.storage.GetBook(r.Context(), js.Book)
	if err != nil {
		h.logger.Error("Failed to load prompt book for turn", "error", err, "book", js.Book)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load prompt book")
		return
	}

	// Place the response first. A full pool blocks the whole turn: the
	// position does not advance, so the player can archive or retire a
	// memory and resubmit the same roll.
	updatedPool, outcome := memory.Record(req.Response, js.Memories)
	if outcome.Blocked() {
		h.logger.Info("Turn blocked: memory pool full", "id", js.ID.String())
		result := turn.Result{
			JournalID:   js.ID,
			Roll:        req.Roll,
			Movement:    req.Roll.Movement(),
			Position:    js.Position,
			Memory:      outcome,
			Memories:    js.Memories,
			TurnCounter: js.TurnCounter,
		}
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			h.logger.Error("Failed to encode turn result", "error", err)
		}
		return
	}

	next, updatedVisits := journal.Advance(js.Position, req.Roll, js.Visits, b.Exists)
	promptText, placeholder := b.Text(next)

	js.Position = next
	js.Visits = updatedVisits
	js.Memories = updatedPool
	js.TurnCounter++

	if err := h.storage.SaveJournal(r.Context(), js.ID, js); err != nil {
		h.logger.Error("Failed to save journal after turn", "error", err, "id", js.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save journal")
		return
	}

	h.logger.Debug("Turn processed",
		"id", js.ID.String(),
		"position", next.String(),
		"movement", req.Roll.Movement(),
		"outcome", outcome.Kind,
		"placeholder", placeholder)

	result := turn.Result{
		JournalID:       js.ID,
		Roll:            req.Roll,
		Movement:        req.Roll.Movement(),
		Position:        next,
		PromptText:      promptText,
		PlaceholderUsed: placeholder,
		Memory:          outcome,
		Memories:        updatedPool,
		TurnCounter:     js.TurnCounter,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode turn result", "error", err)
	}
}
