package domain

import (
	"fmt"
	"math"
)

// RoutingEntry — экземпляр шага в текущем маршруте.
//
// Один и тот же StepID может встречаться несколько раз;
// InstanceID уникален для каждой записи. Записи не сохраняются.
type RoutingEntry struct {
	StepID     string `json:"step_id"`
	InstanceID string `json:"instance_id"`
}

// RunParameters — параметры производственного запуска,
// общие для всех шагов маршрута.
type RunParameters struct {
	// Size — физический размер изделия. 0 означает "не задан".
	Size float64 `json:"size"`

	// Mounting — тип крепления.
	Mounting MountingType `json:"mounting"`
}

// DefaultRunParameters возвращает параметры по умолчанию.
func DefaultRunParameters() RunParameters {
	return RunParameters{Mounting: MountingFlanged}
}

// HasSize возвращает true, если размер задан и пригоден для поиска tier.
func (p RunParameters) HasSize() bool {
	return p.Size > 0 && !math.IsInf(p.Size, 0)
}

// Validate проверяет параметры запуска.
func (p RunParameters) Validate() error {
	if math.IsNaN(p.Size) || math.IsInf(p.Size, 0) || p.Size < 0 {
		return fmt.Errorf("size must be a non-negative number, got %v", p.Size)
	}
	if !p.Mounting.IsValid() {
		return fmt.Errorf("unknown mounting type %q", p.Mounting)
	}
	return nil
}

// RoutingLine — расчёт по одному экземпляру шага.
type RoutingLine struct {
	InstanceID string `json:"instance_id"`
	StepID     string `json:"step_id"`
	StepName   string `json:"step_name"`
	Sector     string `json:"sector"`

	WorkerID    string `json:"worker_id,omitempty"`
	WorkerName  string `json:"worker_name,omitempty"`
	MachineName string `json:"machine_name,omitempty"`

	// SetupMinutes — наладка по таблице.
	SetupMinutes float64 `json:"setup_minutes"`

	// CountedSetupMinutes — наладка, вошедшая в общий итог
	// (0 для не первого шага группы joint operation).
	CountedSetupMinutes float64 `json:"counted_setup_minutes"`

	OperationMinutes float64 `json:"operation_minutes"`

	// TotalMinutes — полное время шага: SetupMinutes + OperationMinutes.
	TotalMinutes float64 `json:"total_minutes"`

	// TierResolved — false, если размер не попал ни в один tier
	// или не задан (время в этом случае нулевое).
	TierResolved bool `json:"tier_resolved"`
}

// WorkerCost — накопленное время и стоимость по одному сотруднику.
type WorkerCost struct {
	WorkerID    string  `json:"worker_id"`
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourly_rate"`
	TimeMinutes float64 `json:"time_minutes"`
	Cost        float64 `json:"cost"`
}

// RoutingResult — итог расчёта маршрута.
type RoutingResult struct {
	// TotalTimeMinutes — учтённая наладка + все операции.
	TotalTimeMinutes float64 `json:"total_time_minutes"`

	TotalSetupMinutes     float64 `json:"total_setup_minutes"`
	TotalOperationMinutes float64 `json:"total_operation_minutes"`

	// TotalCost — сумма стоимостей по сотрудникам.
	TotalCost float64 `json:"total_cost"`

	// Workers — разбивка по сотрудникам в порядке первого появления в маршруте.
	Workers []WorkerCost `json:"workers"`

	Lines []RoutingLine `json:"lines"`
}

// TotalHours возвращает общее время в часах.
func (r *RoutingResult) TotalHours() float64 {
	return r.TotalTimeMinutes / 60
}
