package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/repo"
)

// ListSteps возвращает каталог шагов.
// GET /api/v1/steps
func (h *Handler) ListSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := h.svc.ListSteps(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}
	List(w, steps, len(steps))
}

// CreateStep добавляет шаг в каталог.
// POST /api/v1/steps
func (h *Handler) CreateStep(w http.ResponseWriter, r *http.Request) {
	var step domain.StepDefinition
	if !decode(w, r, &step) {
		return
	}

	if step.ID == "" {
		step.ID = uuid.New().String()
	} else if _, err := h.svc.GetStep(r.Context(), step.ID); err == nil {
		Conflict(w, "step "+step.ID+" already exists")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		InternalError(w, h.logger, err)
		return
	}

	if _, err := h.svc.UpsertStep(r.Context(), step); HandleError(w, h.logger, err, "") {
		return
	}
	Created(w, step)
}

// GetStep возвращает шаг по ID.
// GET /api/v1/steps/{id}
func (h *Handler) GetStep(w http.ResponseWriter, r *http.Request) {
	step, err := h.svc.GetStep(r.Context(), r.PathValue("id"))
	if HandleError(w, h.logger, err, "step not found") {
		return
	}
	Success(w, step)
}

// UpdateStep заменяет существующий шаг.
// PUT /api/v1/steps/{id}
func (h *Handler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var step domain.StepDefinition
	if !decode(w, r, &step) {
		return
	}
	step.ID = id

	if _, err := h.svc.GetStep(r.Context(), id); HandleError(w, h.logger, err, "step not found") {
		return
	}
	if _, err := h.svc.UpsertStep(r.Context(), step); HandleError(w, h.logger, err, "") {
		return
	}
	Success(w, step)
}

// DeleteStep удаляет шаг из каталога и из текущего маршрута.
// DELETE /api/v1/steps/{id}
func (h *Handler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	if HandleError(w, h.logger, h.svc.DeleteStep(r.Context(), r.PathValue("id")), "step not found") {
		return
	}
	NoContent(w)
}
