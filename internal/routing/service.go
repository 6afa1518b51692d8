package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
	"github.com/shaiso/routecost/internal/repo"
	"github.com/shaiso/routecost/internal/telemetry"
)

// StepStore — хранилище каталога шагов.
type StepStore interface {
	List(ctx context.Context) ([]domain.StepDefinition, error)
	Get(ctx context.Context, id string) (*domain.StepDefinition, error)
	Upsert(ctx context.Context, step domain.StepDefinition) (bool, error)
	ReplaceAll(ctx context.Context, steps []domain.StepDefinition) error
	Delete(ctx context.Context, id string) error
}

// WorkerStore — хранилище сотрудников.
type WorkerStore interface {
	List(ctx context.Context) ([]domain.Worker, error)
	Get(ctx context.Context, id string) (*domain.Worker, error)
	Create(ctx context.Context, worker domain.Worker) error
	Delete(ctx context.Context, id string) error
}

// MachineStore — хранилище оборудования.
type MachineStore interface {
	List(ctx context.Context) ([]domain.Machine, error)
	Create(ctx context.Context, machine domain.Machine) error
	Delete(ctx context.Context, id string) error
}

// MaterialStore — хранилище материалов.
type MaterialStore interface {
	List(ctx context.Context) ([]domain.Material, error)
	UpsertByName(ctx context.Context, name string, unitCost float64) (*domain.Material, bool, error)
	Delete(ctx context.Context, id string) error
}

// ProductStore — хранилище изделий.
type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher публикует событие после связывания стоимости с изделием.
type EventPublisher interface {
	PublishCostAssociated(ctx context.Context, product *domain.Product) error
}

// Config — зависимости Service.
type Config struct {
	Steps     StepStore
	Workers   WorkerStore
	Machines  MachineStore
	Materials MaterialStore
	Products  ProductStore

	// Rules — правила автодобавления (nil — engine.DefaultRules()).
	Rules []engine.ExpansionRule

	// Publisher — nil отключает события.
	Publisher EventPublisher

	Logger *slog.Logger
}

// Session — снимок текущей сессии построения маршрута.
type Session struct {
	Entries    []domain.RoutingEntry `json:"entries"`
	Parameters domain.RunParameters  `json:"parameters"`
}

// Service — точка входа для расчёта маршрутов и управления справочниками.
//
// Сессия одна на сервис и живёт только в памяти процесса.
type Service struct {
	steps     StepStore
	workers   WorkerStore
	machines  MachineStore
	materials MaterialStore
	products  ProductStore
	publisher EventPublisher
	logger    *slog.Logger

	// session
	mu      sync.Mutex
	builder *engine.Builder
	params  domain.RunParameters

	// сериализует чтение-изменение изделий и проверки целостности
	writeMu sync.Mutex
}

// New создаёт новый Service.
func New(cfg Config) *Service {
	rules := cfg.Rules
	if rules == nil {
		rules = engine.DefaultRules()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		steps:     cfg.Steps,
		workers:   cfg.Workers,
		machines:  cfg.Machines,
		materials: cfg.Materials,
		products:  cfg.Products,
		publisher: cfg.Publisher,
		logger:    logger,
		builder:   engine.NewBuilder(rules),
		params:    domain.DefaultRunParameters(),
	}
}

// loggerFrom возвращает логгер запроса из контекста, если он есть.
func (s *Service) loggerFrom(ctx context.Context) *slog.Logger {
	if ctx.Value(telemetry.CtxLogger) != nil {
		return telemetry.FromContext(ctx)
	}
	return s.logger
}

// --- Snapshot ---

func (s *Service) loadCatalog(ctx context.Context) (*engine.Catalog, error) {
	steps, err := s.steps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return engine.NewCatalog(steps), nil
}

func (s *Service) loadRegistry(ctx context.Context) (*engine.Registry, error) {
	workers, err := s.workers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}
	machines, err := s.machines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load machines: %w", err)
	}
	return engine.NewRegistry(workers, machines), nil
}

// --- Computation ---

// ComputeRouting рассчитывает произвольную последовательность
// по текущему каталогу и реестрам. Состояние сессии не используется.
func (s *Service) ComputeRouting(ctx context.Context, seq []domain.RoutingEntry, params domain.RunParameters) (*domain.RoutingResult, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidParameters, err)
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := engine.Aggregate(seq, params, catalog, registry)
	if err != nil {
		return nil, err
	}
	telemetry.RoutingComputeSeconds.Observe(time.Since(start).Seconds())
	telemetry.RoutingComputations.Inc()

	for _, line := range result.Lines {
		if !line.TierResolved {
			s.loggerFrom(ctx).Debug("step time unresolved for run parameters",
				"step_id", line.StepID,
				"size", params.Size,
				"mounting", params.Mounting,
			)
		}
	}

	return result, nil
}

// Compute рассчитывает маршрут текущей сессии.
func (s *Service) Compute(ctx context.Context) (*domain.RoutingResult, error) {
	session := s.Session()
	return s.ComputeRouting(ctx, session.Entries, session.Parameters)
}

// --- Session ---

// Session возвращает копию текущей сессии.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{Entries: s.builder.Entries(), Parameters: s.params}
}

// AddStep добавляет шаг в маршрут с учётом правил автодобавления.
// Возвращает добавленные записи (сам шаг и зависимые).
//
// Снимок каталога берётся под блокировкой сессии: DeleteStep не может
// удалить шаг между чтением каталога и добавлением.
func (s *Service) AddStep(ctx context.Context, stepID string) ([]domain.RoutingEntry, error) {
	s.mu.Lock()
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	added, err := s.builder.Add(stepID, s.params, catalog)
	length := s.builder.Len()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logger := telemetry.WithStepID(s.loggerFrom(ctx), stepID)
	logger.Info("step added to routing", "position", length-len(added))

	if implied := added[1:]; len(implied) > 0 {
		ids := make([]string, len(implied))
		for i, e := range implied {
			ids[i] = e.StepID
		}
		telemetry.ImpliedStepsAdded.Add(float64(len(implied)))
		logger.Info("implied steps added", "steps", ids)
	}

	return added, nil
}

// RemoveStep удаляет запись маршрута по позиции.
func (s *Service) RemoveStep(ctx context.Context, index int) (domain.RoutingEntry, error) {
	s.mu.Lock()
	removed, err := s.builder.Remove(index)
	s.mu.Unlock()
	if err != nil {
		return domain.RoutingEntry{}, err
	}

	telemetry.WithStepID(s.loggerFrom(ctx), removed.StepID).Info("step removed from routing", "position", index)
	return removed, nil
}

// SetParameters задаёт параметры запуска.
// Уже добавленные шаги не пересматриваются.
func (s *Service) SetParameters(ctx context.Context, params domain.RunParameters) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrInvalidParameters, err)
	}

	s.mu.Lock()
	s.params = params
	s.mu.Unlock()

	s.loggerFrom(ctx).Debug("run parameters set", "size", params.Size, "mounting", params.Mounting)
	return nil
}

// Reset очищает маршрут и возвращает параметры по умолчанию.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	s.builder.Reset()
	s.params = domain.DefaultRunParameters()
	s.mu.Unlock()

	s.loggerFrom(ctx).Info("routing session reset")
}

// --- Association ---

// AssociateToProduct записывает стоимость труда в изделие.
// Отсутствующее изделие возвращает engine.ErrProductNotFound;
// изделия не изменяются при любой ошибке.
func (s *Service) AssociateToProduct(ctx context.Context, productID string, laborCost float64) (*domain.Product, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	product, err := s.products.Get(ctx, productID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("get product: %w", err)
	}

	updated, err := engine.MergeLaborCost(product, laborCost)
	if err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, *updated); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	telemetry.CostAssociations.Inc()
	logger := telemetry.WithProductID(s.loggerFrom(ctx), updated.ID)
	logger.Info("labor cost associated",
		"labor_cost", laborCost,
		"total_estimated_cost", updated.TotalEstimatedCost,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishCostAssociated(ctx, updated); err != nil {
			telemetry.EventPublishFailures.Inc()
			logger.Error("failed to publish cost event", "error", err)
		}
	}

	return updated, nil
}

// AssociateCurrent рассчитывает текущий маршрут и записывает
// его стоимость в изделие.
func (s *Service) AssociateCurrent(ctx context.Context, productID string) (*domain.Product, *domain.RoutingResult, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return nil, nil, err
	}

	product, err := s.AssociateToProduct(ctx, productID, result.TotalCost)
	if err != nil {
		return nil, nil, err
	}
	return product, result, nil
}
