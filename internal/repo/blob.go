package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlobStore — хранилище ключ → JSON-документ.
// Каждый тип записей хранится одним списком под своим ключом.
type BlobStore interface {
	// Get возвращает документ или ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put записывает документ целиком.
	Put(ctx context.Context, key string, value []byte) error
}

// PGBlobStore — BlobStore поверх таблицы kv_blobs (JSONB).
type PGBlobStore struct {
	pool *pgxpool.Pool
}

// NewPGBlobStore создаёт новый PGBlobStore.
func NewPGBlobStore(pool *pgxpool.Pool) *PGBlobStore {
	return &PGBlobStore{pool: pool}
}

// Get возвращает документ по ключу.
func (s *PGBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

// Put записывает документ (upsert).
func (s *PGBlobStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// MemoryBlobStore — BlobStore в памяти процесса (тесты, STORE_BACKEND=memory).
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore создаёт пустое хранилище.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Get возвращает копию документа.
func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put сохраняет копию документа.
func (s *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), value...)
	return nil
}
