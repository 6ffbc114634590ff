package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/promptbook"
)

// ErrBookNotFound marks a lookup for a prompt book that does not exist.
var ErrBookNotFound = errors.New("prompt book not found")

// Storage defines a unified interface for all storage operations:
// journal persistence (Redis) and prompt book loading (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Journal operations (Redis-backed). LoadJournal returns (nil, nil)
	// when the journal does not exist.
	SaveJournal(ctx context.Context, id uuid.UUID, js *journal.JournalState) error
	LoadJournal(ctx context.Context, id uuid.UUID) (*journal.JournalState, error)
	DeleteJournal(ctx context.Context, id uuid.UUID) error

	// Prompt book operations (filesystem-backed, read-only).
	// ListBooks maps book name to filename.
	ListBooks(ctx context.Context) (map[string]string, error)
	GetBook(ctx context.Context, filename string) (*promptbook.Book, error)
}
