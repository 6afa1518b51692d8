package engine

import (
	"errors"
	"strings"
)

// Ошибки валидации маршрута и каталога.
var (
	// ErrStepNotFound — шаг отсутствует в каталоге.
	ErrStepNotFound = errors.New("step not found in catalog")

	// ErrIndexOutOfRange — позиция вне текущего маршрута.
	ErrIndexOutOfRange = errors.New("routing index out of range")

	// ErrInvalidProfile — таблица времени не согласована со своим видом.
	ErrInvalidProfile = errors.New("invalid time profile")

	// ErrInvalidParameters — некорректные параметры запуска.
	ErrInvalidParameters = errors.New("invalid run parameters")

	// ErrInvalidLaborCost — стоимость труда не является неотрицательным числом.
	ErrInvalidLaborCost = errors.New("invalid labor cost")
)

// Ошибки связывания с изделием.
var (
	// ErrProductNotFound — изделие для связывания не найдено.
	ErrProductNotFound = errors.New("product not found")
)

// Ошибки ссылочной целостности.
var (
	// ErrReferenceConflict — запись нельзя удалить, на неё ссылаются.
	ErrReferenceConflict = errors.New("record is still referenced")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	StepID  string // ID шага, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.StepID != "" {
		return "step " + e.StepID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(stepID, field, message string, err error) *ValidationError {
	return &ValidationError{
		StepID:  stepID,
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// ReferenceConflictError — удаление отклонено: запись используется.
// Перечисляет ссылающиеся записи по именам, чтобы их можно было
// переназначить вручную.
type ReferenceConflictError struct {
	Kind     string   // "worker" или "machine"
	ID       string   // ID удаляемой записи
	Machines []string // имена ссылающихся машин
	Steps    []string // имена ссылающихся шагов каталога
}

// Error реализует интерфейс error.
func (e *ReferenceConflictError) Error() string {
	var b strings.Builder
	b.WriteString("cannot delete ")
	b.WriteString(e.Kind)
	b.WriteString(" ")
	b.WriteString(e.ID)
	b.WriteString(": referenced by")
	if len(e.Machines) > 0 {
		b.WriteString(" machines [")
		b.WriteString(strings.Join(e.Machines, ", "))
		b.WriteString("]")
	}
	if len(e.Steps) > 0 {
		b.WriteString(" steps [")
		b.WriteString(strings.Join(e.Steps, ", "))
		b.WriteString("]")
	}
	return b.String()
}

// Unwrap возвращает ErrReferenceConflict.
func (e *ReferenceConflictError) Unwrap() error {
	return ErrReferenceConflict
}
