package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewRedisStorage(mr.Addr(), t.TempDir(), logger)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestRedisStorage_JournalLifecycle(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	js := journal.NewJournalState("the_hungering_dark.json")
	js.Visits = js.Visits.Record(journal.Start())
	js.Memories, _ = memory.Record("I woke beneath the chapel floor", js.Memories)
	js.TurnCounter = 1

	if err := s.SaveJournal(ctx, js.ID, js); err != nil {
		t.Fatalf("SaveJournal failed: %v", err)
	}
	if js.UpdatedAt.IsZero() {
		t.Error("SaveJournal should stamp UpdatedAt")
	}

	loaded, err := s.LoadJournal(ctx, js.ID)
	if err != nil {
		t.Fatalf("LoadJournal failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadJournal returned nil for existing journal")
	}
	if loaded.ID != js.ID || loaded.Position != js.Position || loaded.TurnCounter != 1 {
		t.Errorf("loaded journal mismatch: %+v", loaded)
	}
	if !loaded.Visits.Visited(journal.Start()) {
		t.Error("loaded journal lost visit record")
	}
	if len(loaded.Memories) != 1 {
		t.Errorf("loaded journal has %d memories, want 1", len(loaded.Memories))
	}

	if err := s.DeleteJournal(ctx, js.ID); err != nil {
		t.Fatalf("DeleteJournal failed: %v", err)
	}
	gone, err := s.LoadJournal(ctx, js.ID)
	if err != nil {
		t.Fatalf("LoadJournal after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("journal should be gone after delete")
	}
}

func TestRedisStorage_LoadJournal_NotFound(t *testing.T) {
	s, _ := setupTestStorage(t)

	js, err := s.LoadJournal(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadJournal should not error on missing journal: %v", err)
	}
	if js != nil {
		t.Error("LoadJournal should return nil for missing journal")
	}
}

func TestRedisStorage_Books(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	dataDir := t.TempDir()
	booksDir := filepath.Join(dataDir, "books")
	if err := os.MkdirAll(booksDir, 0o755); err != nil {
		t.Fatal(err)
	}

	bookJSON := `{
		"name": "The Hungering Dark",
		"description": "A solo vampire chronicle.",
		"entries": {
			"1a": "You wake in the dark.",
			"1b": "The same dark, seen differently.",
			"2a": "A knock at the crypt door."
		}
	}`
	if err := os.WriteFile(filepath.Join(booksDir, "the_hungering_dark.json"), []byte(bookJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	// A non-JSON file should be ignored by listing.
	if err := os.WriteFile(filepath.Join(booksDir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewRedisStorage(mr.Addr(), dataDir, logger)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 1 || books["The Hungering Dark"] != "the_hungering_dark.json" {
		t.Errorf("ListBooks = %v", books)
	}

	b, err := s.GetBook(ctx, "the_hungering_dark.json")
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if b.Name != "The Hungering Dark" || len(b.Entries) != 3 {
		t.Errorf("GetBook = %+v", b)
	}

	if _, err := s.GetBook(ctx, "missing.json"); err == nil {
		t.Error("GetBook should fail for missing book")
	}
}

func TestRedisStorage_WaitForConnection_Timeout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewRedisStorage("localhost:1", t.TempDir(), logger)
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.WaitForConnection(ctx); err == nil {
		t.Error("Expected timeout error, got nil")
	}
}
