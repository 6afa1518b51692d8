package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shaiso/routecost/internal/domain"
)

// ExpansionRule — правило автодобавления зависимых шагов.
//
// Когда в маршрут добавляется TriggerStepID и тип крепления совпадает
// с Mounting (пустой Mounting — любой), в конец маршрута добавляются
// шаги Implied, которых ещё нет в маршруте (проверка по ID шага).
type ExpansionRule struct {
	TriggerStepID string              `json:"trigger_step_id" yaml:"trigger"`
	Mounting      domain.MountingType `json:"mounting,omitempty" yaml:"mounting,omitempty"`
	Implied       []string            `json:"implied" yaml:"implied"`
}

// Matches проверяет, срабатывает ли правило.
func (r ExpansionRule) Matches(stepID string, params domain.RunParameters) bool {
	if r.TriggerStepID != stepID {
		return false
	}
	return r.Mounting == "" || r.Mounting == params.Mounting
}

// DefaultRules — плазменная резка фланцевого изделия влечёт
// сварку основания и финишную обработку.
func DefaultRules() []ExpansionRule {
	return []ExpansionRule{
		{
			TriggerStepID: "plasma",
			Mounting:      domain.MountingFlanged,
			Implied:       []string{"soldagem_base", "acabamento"},
		},
	}
}

// Builder — упорядоченная последовательность экземпляров шагов одного запуска.
//
// Builder владеет только составом и порядком; времени и стоимости не хранит.
type Builder struct {
	entries []domain.RoutingEntry
	rules   []ExpansionRule
	newID   func() string
}

// NewBuilder создаёт пустой маршрут с заданными правилами автодобавления.
func NewBuilder(rules []ExpansionRule) *Builder {
	return &Builder{
		rules: append([]ExpansionRule(nil), rules...),
		newID: func() string { return uuid.New().String() },
	}
}

// Add добавляет экземпляр шага и применяет правила автодобавления.
// Возвращает добавленные записи: первой идёт сам шаг, далее — зависимые.
//
// Шаг, отсутствующий в каталоге, отклоняется без изменения маршрута.
// Зависимые шаги, отсутствующие в каталоге, пропускаются.
func (b *Builder) Add(stepID string, params domain.RunParameters, catalog *Catalog) ([]domain.RoutingEntry, error) {
	if !catalog.Has(stepID) {
		return nil, NewValidationError(stepID, "step_id", "step is not in the catalog", ErrStepNotFound)
	}

	added := []domain.RoutingEntry{b.push(stepID)}

	for _, rule := range b.rules {
		if !rule.Matches(stepID, params) {
			continue
		}
		for _, implied := range rule.Implied {
			if b.Contains(implied) || !catalog.Has(implied) {
				continue
			}
			added = append(added, b.push(implied))
		}
	}

	return added, nil
}

func (b *Builder) push(stepID string) domain.RoutingEntry {
	e := domain.RoutingEntry{StepID: stepID, InstanceID: b.newID()}
	b.entries = append(b.entries, e)
	return e
}

// Remove удаляет запись по позиции. Последующие позиции сдвигаются.
func (b *Builder) Remove(index int) (domain.RoutingEntry, error) {
	if index < 0 || index >= len(b.entries) {
		return domain.RoutingEntry{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(b.entries))
	}
	removed := b.entries[index]
	b.entries = append(b.entries[:index], b.entries[index+1:]...)
	return removed, nil
}

// PruneStep удаляет все экземпляры шага (например, после удаления из каталога).
// Возвращает количество удалённых записей.
func (b *Builder) PruneStep(stepID string) int {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.StepID != stepID {
			kept = append(kept, e)
		}
	}
	n := len(b.entries) - len(kept)
	b.entries = kept
	return n
}

// Reset очищает маршрут.
func (b *Builder) Reset() {
	b.entries = nil
}

// Contains проверяет, есть ли в маршруте экземпляр шага.
func (b *Builder) Contains(stepID string) bool {
	for _, e := range b.entries {
		if e.StepID == stepID {
			return true
		}
	}
	return false
}

// Entries возвращает копию последовательности.
func (b *Builder) Entries() []domain.RoutingEntry {
	return append([]domain.RoutingEntry(nil), b.entries...)
}

// Len возвращает длину маршрута.
func (b *Builder) Len() int {
	return len(b.entries)
}
