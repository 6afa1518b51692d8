package engine

import (
	"github.com/shaiso/routecost/internal/domain"
)

// Aggregate рассчитывает маршрут: общее время и стоимость труда по сотрудникам.
//
// Последовательность обрабатывается строго в заданном порядке:
// правило общей наладки для joint operation зависит от порядка.
//
//   - Для шага с JointOperation наладка учитывается в итоге, только если он
//     первый в непрерывной группе таких шагов; остальные шаги группы
//     добавляют лишь время операции.
//   - Любой шаг без JointOperation сбрасывает группу: его наладка учитывается
//     всегда, а следующий joint шаг снова начинает группу.
//   - Время операции учитывается всегда.
//
// Разбивка по сотрудникам использует полное время шага (наладка по таблице
// + операция), даже если наладка исключена из общего итога. Поэтому сумма
// стоимостей по сотрудникам не выводится из общего времени.
//
// Шаг без назначенного (или с удалённым) сотрудником добавляет только время.
func Aggregate(seq []domain.RoutingEntry, params domain.RunParameters, catalog *Catalog, registry *Registry) (*domain.RoutingResult, error) {
	result := &domain.RoutingResult{
		Workers: []domain.WorkerCost{},
		Lines:   make([]domain.RoutingLine, 0, len(seq)),
	}

	buckets := make(map[string]int) // worker ID → индекс в result.Workers
	firstOfGroup := true

	for _, entry := range seq {
		step, ok := catalog.Find(entry.StepID)
		if !ok {
			return nil, NewValidationError(entry.StepID, "step_id", "routing references a step missing from the catalog", ErrStepNotFound)
		}

		times, resolved := Resolve(step, params.Size, params.Mounting)

		countedSetup := times.SetupMinutes
		if step.JointOperation {
			if firstOfGroup {
				firstOfGroup = false
			} else {
				countedSetup = 0
			}
		} else {
			firstOfGroup = true
		}

		result.TotalSetupMinutes += countedSetup
		result.TotalOperationMinutes += times.OperationMinutes

		line := domain.RoutingLine{
			InstanceID:          entry.InstanceID,
			StepID:              step.ID,
			StepName:            step.Name,
			Sector:              step.Sector,
			SetupMinutes:        times.SetupMinutes,
			CountedSetupMinutes: countedSetup,
			OperationMinutes:    times.OperationMinutes,
			TotalMinutes:        times.Total(),
			TierResolved:        resolved,
		}

		if m, ok := registry.Machine(step.AssignedMachineID); ok {
			line.MachineName = m.Name
		}

		if w, ok := registry.Worker(step.AssignedWorkerID); ok {
			line.WorkerID = w.ID
			line.WorkerName = w.Name

			stepMinutes := times.Total()
			idx, seen := buckets[w.ID]
			if !seen {
				idx = len(result.Workers)
				buckets[w.ID] = idx
				result.Workers = append(result.Workers, domain.WorkerCost{
					WorkerID:   w.ID,
					Name:       w.Name,
					HourlyRate: w.HourlyRate,
				})
			}
			result.Workers[idx].TimeMinutes += stepMinutes
			result.Workers[idx].Cost += LaborCost(stepMinutes, w.HourlyRate)
		}

		result.Lines = append(result.Lines, line)
	}

	result.TotalTimeMinutes = result.TotalSetupMinutes + result.TotalOperationMinutes
	for _, w := range result.Workers {
		result.TotalCost += w.Cost
	}

	return result, nil
}

// LaborCost — стоимость труда: (минуты / 60) * стоимость часа.
func LaborCost(minutes, hourlyRate float64) float64 {
	return (minutes / 60) * hourlyRate
}
