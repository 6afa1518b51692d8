package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// listStore — типизированный список записей под одним ключом BlobStore.
// Изменения выполняются как read-modify-write под мьютексом.
type listStore[T any] struct {
	store BlobStore
	key   string
	mu    sync.Mutex
}

func newListStore[T any](store BlobStore, key string) *listStore[T] {
	return &listStore[T]{store: store, key: key}
}

// load читает список. Отсутствующий ключ — пустой список.
func (s *listStore[T]) load(ctx context.Context) ([]T, error) {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", s.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *listStore[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.key, err)
	}
	return s.store.Put(ctx, s.key, raw)
}

// list возвращает все записи.
func (s *listStore[T]) list(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// update применяет fn к списку и сохраняет результат.
// Если fn вернула ошибку, хранилище не изменяется.
func (s *listStore[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return s.save(ctx, items)
}

// find возвращает индекс первой записи, удовлетворяющей match, или -1.
func find[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}
