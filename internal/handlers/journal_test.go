package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/promptbook"
)

func setupJournalTest() (*JournalHandler, *storage.MockStorage) {
	mock := storage.NewMockStorage()
	mock.AddBook("test_book.json", &promptbook.Book{
		Name: "Test Book",
		SeedMemory: &promptbook.SeedMemory{
			Title: "First Hunger",
			Text:  "I woke beneath the chapel floor.",
		},
		Entries: map[string]string{"1a": "You wake in the dark."},
	})
	return NewJournalHandler(testLogger(), mock), mock
}

func TestJournalHandler_Create(t *testing.T) {
	h, _ := setupJournalTest()

	body, _ := json.Marshal(CreateJournalRequest{Book: "Test Book"})
	r := httptest.NewRequest(http.MethodPost, "/v1/journal", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var js journal.JournalState
	if err := json.Unmarshal(w.Body.Bytes(), &js); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if js.ID == uuid.Nil {
		t.Error("created journal missing ID")
	}
	if js.Book != "test_book.json" {
		t.Errorf("book = %q, want normalized test_book.json", js.Book)
	}
	if js.Position != journal.Start() {
		t.Errorf("position = %v, want 1a", js.Position)
	}
	if len(js.Memories) != 1 || js.Memories[0].Title != "First Hunger" {
		t.Errorf("seed memory missing: %+v", js.Memories)
	}
}

func TestJournalHandler_Create_Validation(t *testing.T) {
	h, _ := setupJournalTest()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"missing book", `{}`, http.StatusBadRequest},
		{"unknown book", `{"book":"nope"}`, http.StatusNotFound},
		{"invalid json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/v1/journal", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestJournalHandler_ReadAndDelete(t *testing.T) {
	h, mock := setupJournalTest()

	js := journal.NewJournalState("test_book.json")
	if err := mock.SaveJournal(context.Background(), js.ID, js); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/v1/journal/"+js.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}

	r = httptest.NewRequest(http.MethodDelete, "/v1/journal/"+js.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/journal/"+js.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", w.Code)
	}
}

func TestJournalHandler_InvalidID(t *testing.T) {
	h, _ := setupJournalTest()

	r := httptest.NewRequest(http.MethodGet, "/v1/journal/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNormalizeBook(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Book", "test_book.json"},
		{"test_book.json", "test_book.json"},
		{"The-Hungering-Dark", "the_hungering_dark.json"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeBook(tt.in); got != tt.want {
			t.Errorf("normalizeBook(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
