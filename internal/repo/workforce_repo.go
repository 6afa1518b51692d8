package repo

import (
	"context"

	"github.com/shaiso/routecost/internal/domain"
)

const (
	keyWorkers  = "workers"
	keyMachines = "machines"
)

// WorkerRepo — репозиторий сотрудников.
type WorkerRepo struct {
	items *listStore[domain.Worker]
}

// NewWorkerRepo создаёт новый WorkerRepo.
func NewWorkerRepo(store BlobStore) *WorkerRepo {
	return &WorkerRepo{items: newListStore[domain.Worker](store, keyWorkers)}
}

// List возвращает всех сотрудников.
func (r *WorkerRepo) List(ctx context.Context) ([]domain.Worker, error) {
	return r.items.list(ctx)
}

// Get возвращает сотрудника по ID.
func (r *WorkerRepo) Get(ctx context.Context, id string) (*domain.Worker, error) {
	workers, err := r.items.list(ctx)
	if err != nil {
		return nil, err
	}
	i := find(workers, func(w domain.Worker) bool { return w.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &workers[i], nil
}

// Create добавляет сотрудника.
func (r *WorkerRepo) Create(ctx context.Context, worker domain.Worker) error {
	return r.items.update(ctx, func(workers []domain.Worker) ([]domain.Worker, error) {
		if find(workers, func(w domain.Worker) bool { return w.ID == worker.ID }) >= 0 {
			return nil, ErrAlreadyExists
		}
		return append(workers, worker), nil
	})
}

// Delete удаляет сотрудника по ID.
func (r *WorkerRepo) Delete(ctx context.Context, id string) error {
	return r.items.update(ctx, func(workers []domain.Worker) ([]domain.Worker, error) {
		i := find(workers, func(w domain.Worker) bool { return w.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(workers[:i], workers[i+1:]...), nil
	})
}

// MachineRepo — репозиторий оборудования.
type MachineRepo struct {
	items *listStore[domain.Machine]
}

// NewMachineRepo создаёт новый MachineRepo.
func NewMachineRepo(store BlobStore) *MachineRepo {
	return &MachineRepo{items: newListStore[domain.Machine](store, keyMachines)}
}

// List возвращает всё оборудование.
func (r *MachineRepo) List(ctx context.Context) ([]domain.Machine, error) {
	return r.items.list(ctx)
}

// Create добавляет машину.
func (r *MachineRepo) Create(ctx context.Context, machine domain.Machine) error {
	return r.items.update(ctx, func(machines []domain.Machine) ([]domain.Machine, error) {
		if find(machines, func(m domain.Machine) bool { return m.ID == machine.ID }) >= 0 {
			return nil, ErrAlreadyExists
		}
		return append(machines, machine), nil
	})
}

// Delete удаляет машину по ID.
func (r *MachineRepo) Delete(ctx context.Context, id string) error {
	return r.items.update(ctx, func(machines []domain.Machine) ([]domain.Machine, error) {
		i := find(machines, func(m domain.Machine) bool { return m.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(machines[:i], machines[i+1:]...), nil
	})
}
