package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
	"github.com/shaiso/routecost/internal/repo"
	"github.com/shaiso/routecost/internal/telemetry"
)

// ListWorkers возвращает всех сотрудников.
func (s *Service) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	return s.workers.List(ctx)
}

// CreateWorker создаёт сотрудника; стоимость часа = оклад / 220.
func (s *Service) CreateWorker(ctx context.Context, name string, monthlySalary float64) (*domain.Worker, error) {
	worker, err := domain.NewWorker(name, monthlySalary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.workers.Create(ctx, *worker); err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}

	telemetry.WithWorkerID(s.loggerFrom(ctx), worker.ID).Info("worker created", "hourly_rate", worker.HourlyRate)
	return worker, nil
}

// DeleteWorker удаляет сотрудника, если на него не ссылаются
// ни машины, ни шаги каталога.
func (s *Service) DeleteWorker(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.workers.Get(ctx, id); err != nil {
		return err
	}

	machines, err := s.machines.List(ctx)
	if err != nil {
		return err
	}
	steps, err := s.steps.List(ctx)
	if err != nil {
		return err
	}

	logger := telemetry.WithWorkerID(s.loggerFrom(ctx), id)
	if err := engine.CheckWorkerDeletion(id, machines, steps); err != nil {
		s.rejectDeletion(logger, "worker", err)
		return err
	}

	if err := s.workers.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("worker deleted")
	return nil
}

// ListMachines возвращает всё оборудование.
func (s *Service) ListMachines(ctx context.Context) ([]domain.Machine, error) {
	return s.machines.List(ctx)
}

// CreateMachine создаёт машину. Назначенный сотрудник должен существовать.
func (s *Service) CreateMachine(ctx context.Context, name, sector, workerID string) (*domain.Machine, error) {
	machine, err := domain.NewMachine(name, sector, workerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if workerID != "" {
		if _, err := s.workers.Get(ctx, workerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, fmt.Errorf("%w: worker %s does not exist", ErrValidation, workerID)
			}
			return nil, err
		}
	}

	if err := s.machines.Create(ctx, *machine); err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}

	s.loggerFrom(ctx).Info("machine created", "machine_id", machine.ID, "worker_id", workerID)
	return machine, nil
}

// DeleteMachine удаляет машину, если на неё не ссылаются шаги каталога.
func (s *Service) DeleteMachine(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	machines, err := s.machines.List(ctx)
	if err != nil {
		return err
	}
	if !hasMachine(machines, id) {
		return repo.ErrNotFound
	}

	steps, err := s.steps.List(ctx)
	if err != nil {
		return err
	}

	logger := s.loggerFrom(ctx).With("machine_id", id)
	if err := engine.CheckMachineDeletion(id, steps); err != nil {
		s.rejectDeletion(logger, "machine", err)
		return err
	}

	if err := s.machines.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("machine deleted")
	return nil
}

func (s *Service) rejectDeletion(logger *slog.Logger, kind string, err error) {
	telemetry.ReferenceConflicts.WithLabelValues(kind).Inc()
	logger.Warn("deletion rejected", "kind", kind, "error", err)
}
