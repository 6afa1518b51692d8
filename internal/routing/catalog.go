package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/routecost/internal/catalog"
	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
	"github.com/shaiso/routecost/internal/repo"
	"github.com/shaiso/routecost/internal/telemetry"
)

// ListSteps возвращает каталог шагов.
func (s *Service) ListSteps(ctx context.Context) ([]domain.StepDefinition, error) {
	return s.steps.List(ctx)
}

// GetStep возвращает шаг каталога по ID.
func (s *Service) GetStep(ctx context.Context, id string) (*domain.StepDefinition, error) {
	return s.steps.Get(ctx, id)
}

// UpsertStep создаёт или заменяет шаг каталога.
// Назначенные сотрудник и машина должны существовать.
// Возвращает true, если шаг был создан.
func (s *Service) UpsertStep(ctx context.Context, step domain.StepDefinition) (bool, error) {
	if err := step.Profile.Validate(); err != nil {
		return false, engine.NewValidationError(step.ID, "profile", err.Error(), engine.ErrInvalidProfile)
	}
	if err := step.Validate(); err != nil {
		return false, engine.NewValidationError(step.ID, "step", err.Error(), ErrValidation)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if step.AssignedWorkerID != "" {
		if _, err := s.workers.Get(ctx, step.AssignedWorkerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return false, engine.NewValidationError(step.ID, "assigned_worker_id", "worker "+step.AssignedWorkerID+" does not exist", ErrValidation)
			}
			return false, err
		}
	}
	if step.AssignedMachineID != "" {
		machines, err := s.machines.List(ctx)
		if err != nil {
			return false, err
		}
		if !hasMachine(machines, step.AssignedMachineID) {
			return false, engine.NewValidationError(step.ID, "assigned_machine_id", "machine "+step.AssignedMachineID+" does not exist", ErrValidation)
		}
	}

	created, err := s.steps.Upsert(ctx, step)
	if err != nil {
		return false, fmt.Errorf("upsert step: %w", err)
	}

	telemetry.WithStepID(s.loggerFrom(ctx), step.ID).Info("catalog step saved", "created", created, "kind", step.Profile.Kind)
	return created, nil
}

// DeleteStep удаляет шаг из каталога и все его экземпляры из текущего маршрута.
func (s *Service) DeleteStep(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.steps.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	pruned := s.builder.PruneStep(id)
	s.mu.Unlock()

	telemetry.WithStepID(s.loggerFrom(ctx), id).Info("catalog step deleted", "pruned_entries", pruned)
	return nil
}

// SeedCatalog устанавливает начальный каталог, если хранилище пусто.
// Возвращает true, если каталог был записан.
func (s *Service) SeedCatalog(ctx context.Context, seed *catalog.Seed) (bool, error) {
	existing, err := s.steps.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	if err := s.steps.ReplaceAll(ctx, seed.Steps); err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}

	s.loggerFrom(ctx).Info("catalog seeded", "steps", seed.StepIDs())
	return true, nil
}

func hasMachine(machines []domain.Machine, id string) bool {
	for _, m := range machines {
		if m.ID == id {
			return true
		}
	}
	return false
}
