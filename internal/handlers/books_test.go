package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/journal-engine/internal/storage"
	"github.com/jwebster45206/journal-engine/pkg/promptbook"
)

func TestBooksHandler(t *testing.T) {
	mock := storage.NewMockStorage()
	mock.AddBook("test_book.json", &promptbook.Book{
		Name:    "Test Book",
		Entries: map[string]string{"1a": "You wake in the dark."},
	})
	h := NewBooksHandler(testLogger(), mock)

	t.Run("list", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var books map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &books); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if books["Test Book"] != "test_book.json" {
			t.Errorf("books = %v", books)
		}
	})

	t.Run("get", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books/test_book.json", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var b promptbook.Book
		if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if b.Name != "Test Book" || len(b.Entries) != 1 {
			t.Errorf("book = %+v", b)
		}
	})

	t.Run("not found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books/missing.json", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
	})
}
