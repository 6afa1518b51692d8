package engine

import "github.com/shaiso/routecost/internal/domain"

// CheckWorkerDeletion проверяет, можно ли удалить сотрудника.
// Возвращает *ReferenceConflictError с именами всех машин и шагов,
// которые на него ссылаются.
func CheckWorkerDeletion(workerID string, machines []domain.Machine, steps []domain.StepDefinition) error {
	conflict := &ReferenceConflictError{Kind: "worker", ID: workerID}

	for _, m := range machines {
		if m.AssignedWorkerID == workerID {
			conflict.Machines = append(conflict.Machines, m.Name)
		}
	}
	for _, s := range steps {
		if s.AssignedWorkerID == workerID {
			conflict.Steps = append(conflict.Steps, s.Name)
		}
	}

	if len(conflict.Machines) > 0 || len(conflict.Steps) > 0 {
		return conflict
	}
	return nil
}

// CheckMachineDeletion проверяет, можно ли удалить машину.
func CheckMachineDeletion(machineID string, steps []domain.StepDefinition) error {
	conflict := &ReferenceConflictError{Kind: "machine", ID: machineID}

	for _, s := range steps {
		if s.AssignedMachineID == machineID {
			conflict.Steps = append(conflict.Steps, s.Name)
		}
	}

	if len(conflict.Steps) > 0 {
		return conflict
	}
	return nil
}
