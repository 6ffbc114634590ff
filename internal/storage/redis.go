package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/promptbook"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements the Storage interface using Redis for
// journal state and the filesystem for static prompt books.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Journal operations (Redis-backed)

func (r *RedisStorage) SaveJournal(ctx context.Context, id uuid.UUID, js *journal.JournalState) error {
	js.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(js)
	if err != nil {
		r.logger.Error("Failed to marshal journal", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	// Journals are durable campaign state: no expiry.
	key := "journal:" + id.String()
	cmd := r.client.Set(ctx, key, string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save journal", "uuid", id, "error", err)
		return fmt.Errorf("failed to save journal: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadJournal(ctx context.Context, id uuid.UUID) (*journal.JournalState, error) {
	key := "journal:" + id.String()
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Journal not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load journal", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Journal not found", "uuid", id)
		return nil, nil
	}

	var js journal.JournalState
	if err := json.Unmarshal([]byte(data), &js); err != nil {
		r.logger.Error("Failed to unmarshal journal", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}

	return &js, nil
}

func (r *RedisStorage) DeleteJournal(ctx context.Context, id uuid.UUID) error {
	key := "journal:" + id.String()
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete journal", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	return nil
}

// Prompt book operations (filesystem-backed)

func (r *RedisStorage) ListBooks(ctx context.Context) (map[string]string, error) {
	booksDir := filepath.Join(r.dataDir, "books")
	books := make(map[string]string)

	err := filepath.WalkDir(booksDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read book file", "path", path, "error", err)
			return nil
		}

		var b promptbook.Book
		if err := json.Unmarshal(file, &b); err != nil {
			r.logger.Warn("Failed to unmarshal book file", "path", path, "error", err)
			return nil
		}

		filename := filepath.Base(path)
		books[b.Name] = filename
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk books directory", "error", err)
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return books, nil
}

func (r *RedisStorage) GetBook(ctx context.Context, filename string) (*promptbook.Book, error) {
	path := filepath.Join(r.dataDir, "books", filename)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read book file: %w", err)
	}

	var b promptbook.Book
	if err := json.Unmarshal(file, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book: %w", err)
	}

	return &b, nil
}
