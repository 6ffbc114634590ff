package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/promptbook"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	journals  map[uuid.UUID]*journal.JournalState
	books     map[string]*promptbook.Book
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		journals: make(map[uuid.UUID]*journal.JournalState),
		books:    make(map[string]*promptbook.Book),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveJournal
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// AddBook registers a prompt book under a filename
func (m *MockStorage) AddBook(filename string, b *promptbook.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[filename] = b
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveJournal(ctx context.Context, id uuid.UUID, js *journal.JournalState) error {
	if js == nil {
		return errors.New("journal cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.journals[id] = js
	return nil
}

func (m *MockStorage) LoadJournal(ctx context.Context, id uuid.UUID) (*journal.JournalState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.journals[id], nil
}

func (m *MockStorage) DeleteJournal(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.journals, id)
	return nil
}

func (m *MockStorage) ListBooks(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make(map[string]string, len(m.books))
	for filename, b := range m.books {
		books[b.Name] = filename
	}
	return books, nil
}

func (m *MockStorage) GetBook(ctx context.Context, filename string) (*promptbook.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, filename)
	}
	return b, nil
}
