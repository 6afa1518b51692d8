package engine

import "github.com/shaiso/routecost/internal/domain"

// Catalog — снимок каталога шагов для одного расчёта.
type Catalog struct {
	steps map[string]domain.StepDefinition
	order []string
}

// NewCatalog строит снимок из списка определений.
// При повторяющихся ID побеждает последнее.
func NewCatalog(defs []domain.StepDefinition) *Catalog {
	c := &Catalog{steps: make(map[string]domain.StepDefinition, len(defs))}
	for _, d := range defs {
		if _, exists := c.steps[d.ID]; !exists {
			c.order = append(c.order, d.ID)
		}
		c.steps[d.ID] = d
	}
	return c
}

// Find возвращает определение шага по ID.
func (c *Catalog) Find(id string) (domain.StepDefinition, bool) {
	d, ok := c.steps[id]
	return d, ok
}

// Has проверяет наличие шага в каталоге.
func (c *Catalog) Has(id string) bool {
	_, ok := c.steps[id]
	return ok
}

// List возвращает определения в исходном порядке.
func (c *Catalog) List() []domain.StepDefinition {
	out := make([]domain.StepDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.steps[id])
	}
	return out
}

// Size возвращает количество шагов.
func (c *Catalog) Size() int {
	return len(c.steps)
}

// Registry — снимок сотрудников и оборудования.
// Ссылки из шагов разрешаются через него только на время расчёта.
type Registry struct {
	workers  map[string]domain.Worker
	machines map[string]domain.Machine
}

// NewRegistry строит снимок реестров.
func NewRegistry(workers []domain.Worker, machines []domain.Machine) *Registry {
	r := &Registry{
		workers:  make(map[string]domain.Worker, len(workers)),
		machines: make(map[string]domain.Machine, len(machines)),
	}
	for _, w := range workers {
		r.workers[w.ID] = w
	}
	for _, m := range machines {
		r.machines[m.ID] = m
	}
	return r
}

// Worker возвращает сотрудника по ID.
func (r *Registry) Worker(id string) (domain.Worker, bool) {
	if id == "" {
		return domain.Worker{}, false
	}
	w, ok := r.workers[id]
	return w, ok
}

// Machine возвращает машину по ID.
func (r *Registry) Machine(id string) (domain.Machine, bool) {
	if id == "" {
		return domain.Machine{}, false
	}
	m, ok := r.machines[id]
	return m, ok
}
