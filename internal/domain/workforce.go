package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// StandardMonthlyHours — стандартное число рабочих часов в месяце
// для пересчёта оклада в стоимость часа.
const StandardMonthlyHours = 220

// Worker — сотрудник, которому назначаются шаги маршрута.
type Worker struct {
	// ID — уникальный идентификатор.
	ID string `json:"id"`

	// Name — имя сотрудника.
	Name string `json:"name"`

	// MonthlySalary — месячный оклад.
	MonthlySalary float64 `json:"monthly_salary"`

	// HourlyRate — стоимость часа, MonthlySalary / 220.
	// Вычисляется при создании и хранится.
	HourlyRate float64 `json:"hourly_rate"`
}

// NewWorker создаёт сотрудника с вычисленной стоимостью часа.
func NewWorker(name string, monthlySalary float64) (*Worker, error) {
	if name == "" {
		return nil, fmt.Errorf("worker name is required")
	}
	if math.IsNaN(monthlySalary) || math.IsInf(monthlySalary, 0) || monthlySalary < 0 {
		return nil, fmt.Errorf("monthly salary must be a non-negative number, got %v", monthlySalary)
	}
	return &Worker{
		ID:            uuid.New().String(),
		Name:          name,
		MonthlySalary: monthlySalary,
		HourlyRate:    HourlyRateFromSalary(monthlySalary),
	}, nil
}

// HourlyRateFromSalary пересчитывает месячный оклад в стоимость часа.
func HourlyRateFromSalary(monthlySalary float64) float64 {
	return monthlySalary / StandardMonthlyHours
}

// Machine — единица оборудования.
type Machine struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`

	// AssignedWorkerID — слабая ссылка на Worker.
	AssignedWorkerID string `json:"assigned_worker_id,omitempty"`
}

// NewMachine создаёт единицу оборудования.
func NewMachine(name, sector, workerID string) (*Machine, error) {
	if name == "" {
		return nil, fmt.Errorf("machine name is required")
	}
	return &Machine{
		ID:               uuid.New().String(),
		Name:             name,
		Sector:           sector,
		AssignedWorkerID: workerID,
	}, nil
}
