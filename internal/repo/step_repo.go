package repo

import (
	"context"

	"github.com/shaiso/routecost/internal/domain"
)

const keyStepCatalog = "step_catalog"

// StepRepo — репозиторий каталога шагов.
type StepRepo struct {
	items *listStore[domain.StepDefinition]
}

// NewStepRepo создаёт новый StepRepo.
func NewStepRepo(store BlobStore) *StepRepo {
	return &StepRepo{items: newListStore[domain.StepDefinition](store, keyStepCatalog)}
}

// List возвращает шаги в порядке добавления.
func (r *StepRepo) List(ctx context.Context) ([]domain.StepDefinition, error) {
	return r.items.list(ctx)
}

// Get возвращает шаг по ID.
func (r *StepRepo) Get(ctx context.Context, id string) (*domain.StepDefinition, error) {
	steps, err := r.items.list(ctx)
	if err != nil {
		return nil, err
	}
	i := find(steps, func(s domain.StepDefinition) bool { return s.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &steps[i], nil
}

// Upsert заменяет шаг с тем же ID или добавляет новый в конец.
// Возвращает true, если шаг был создан.
func (r *StepRepo) Upsert(ctx context.Context, step domain.StepDefinition) (bool, error) {
	var created bool
	err := r.items.update(ctx, func(steps []domain.StepDefinition) ([]domain.StepDefinition, error) {
		i := find(steps, func(s domain.StepDefinition) bool { return s.ID == step.ID })
		if i >= 0 {
			steps[i] = step
			return steps, nil
		}
		created = true
		return append(steps, step), nil
	})
	return created, err
}

// ReplaceAll заменяет весь каталог.
func (r *StepRepo) ReplaceAll(ctx context.Context, steps []domain.StepDefinition) error {
	return r.items.update(ctx, func([]domain.StepDefinition) ([]domain.StepDefinition, error) {
		return append([]domain.StepDefinition{}, steps...), nil
	})
}

// Delete удаляет шаг по ID.
func (r *StepRepo) Delete(ctx context.Context, id string) error {
	return r.items.update(ctx, func(steps []domain.StepDefinition) ([]domain.StepDefinition, error) {
		i := find(steps, func(s domain.StepDefinition) bool { return s.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(steps[:i], steps[i+1:]...), nil
	})
}
