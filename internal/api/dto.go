package api

import (
	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/routing"
)

// Workforce DTOs

// CreateWorkerRequest — запрос на создание сотрудника.
type CreateWorkerRequest struct {
	Name          string  `json:"name"`
	MonthlySalary float64 `json:"monthly_salary"`
}

// CreateMachineRequest — запрос на создание машины.
type CreateMachineRequest struct {
	Name             string `json:"name"`
	Sector           string `json:"sector"`
	AssignedWorkerID string `json:"assigned_worker_id,omitempty"`
}

// Material DTOs

// UpsertMaterialRequest — запрос на создание или обновление материала по имени.
type UpsertMaterialRequest struct {
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
}

// Routing DTOs

// AddRoutingStepRequest — запрос на добавление шага в маршрут.
type AddRoutingStepRequest struct {
	StepID string `json:"step_id"`
}

// AddRoutingStepResponse — добавленные записи: сам шаг и зависимые.
type AddRoutingStepResponse struct {
	Added   []domain.RoutingEntry `json:"added"`
	Session routing.Session       `json:"session"`
}

// RoutingParamsRequest — параметры запуска.
// Отсутствующее поле оставляет текущее значение; size 0 сбрасывает размер.
type RoutingParamsRequest struct {
	Size     *float64 `json:"size,omitempty"`
	Mounting string   `json:"mounting,omitempty"`
}

// RoutingResponse — текущая сессия и её расчёт.
type RoutingResponse struct {
	Session routing.Session       `json:"session"`
	Result  *domain.RoutingResult `json:"result"`
}

// AssociateRequest — запрос на связывание стоимости труда с изделием.
// Без labor_cost используется стоимость текущего маршрута.
type AssociateRequest struct {
	ProductID string   `json:"product_id"`
	LaborCost *float64 `json:"labor_cost,omitempty"`
}

// AssociateResponse — изделие после связывания.
type AssociateResponse struct {
	Product *domain.Product       `json:"product"`
	Result  *domain.RoutingResult `json:"result,omitempty"`
}
