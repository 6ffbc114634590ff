package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemoryTest(t *testing.T) (*MemoryHandler, *storage.MockStorage, *journal.JournalState) {
	t.Helper()

	mock := storage.NewMockStorage()
	js := journal.NewJournalState("test_book.json")
	js.Memories, _ = memory.Record("I fed on a traveler", js.Memories)
	require.NoError(t, mock.SaveJournal(context.Background(), js.ID, js))

	return NewMemoryHandler(testLogger(), mock), mock, js
}

func postMemoryAction(h *MemoryHandler, journalID uuid.UUID, memoryID, action string) *httptest.ResponseRecorder {
	path := "/v1/journal/" + journalID.String() + "/memories/" + memoryID + "/" + action
	r := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestMemoryHandler_Archive(t *testing.T) {
	h, mock, js := setupMemoryTest(t)
	memID := js.Memories[0].ID

	w := postMemoryAction(h, js.ID, memID, "archive")
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := mock.LoadJournal(context.Background(), js.ID)
	require.NoError(t, err)
	m, ok := saved.Memories.Get(memID)
	require.True(t, ok)
	assert.True(t, m.Archived)
	assert.False(t, m.Retired)
	assert.Equal(t, 1, saved.Memories.ActiveCount(), "archived memory keeps its slot")
}

func TestMemoryHandler_Retire(t *testing.T) {
	h, mock, js := setupMemoryTest(t)
	memID := js.Memories[0].ID

	w := postMemoryAction(h, js.ID, memID, "retire")
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := mock.LoadJournal(context.Background(), js.ID)
	require.NoError(t, err)
	m, ok := saved.Memories.Get(memID)
	require.True(t, ok)
	assert.True(t, m.Retired)
	assert.Equal(t, 0, saved.Memories.ActiveCount(), "retired memory frees its slot")

	// Archiving after retirement is a conflict: the memory is frozen.
	w = postMemoryAction(h, js.ID, memID, "archive")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMemoryHandler_Errors(t *testing.T) {
	h, _, js := setupMemoryTest(t)

	tests := []struct {
		name           string
		journalID      uuid.UUID
		memoryID       string
		action         string
		expectedStatus int
	}{
		{"unknown journal", uuid.New(), js.Memories[0].ID, "archive", http.StatusNotFound},
		{"unknown memory", js.ID, "missing", "retire", http.StatusNotFound},
		{"bad action", js.ID, js.Memories[0].ID, "burn", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postMemoryAction(h, tt.journalID, tt.memoryID, tt.action)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestParseMemoryPath(t *testing.T) {
	id := uuid.New()

	journalID, memoryID, action, ok := parseMemoryPath("/v1/journal/" + id.String() + "/memories/01ABC/retire")
	require.True(t, ok)
	assert.Equal(t, id, journalID)
	assert.Equal(t, "01ABC", memoryID)
	assert.Equal(t, "retire", action)

	for _, path := range []string{
		"/v1/journal/not-a-uuid/memories/01ABC/retire",
		"/v1/journal/" + id.String() + "/memories/01ABC",
		"/v1/journal/" + id.String() + "/memories/01ABC/burn",
		"/v1/turn",
	} {
		if _, _, _, ok := parseMemoryPath(path); ok {
			t.Errorf("parseMemoryPath(%q) should fail", path)
		}
	}
}
