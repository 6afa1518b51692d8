package api

import (
	"net/http"
)

// ListWorkers возвращает всех сотрудников.
// GET /api/v1/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.svc.ListWorkers(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}
	List(w, workers, len(workers))
}

// CreateWorker создаёт сотрудника.
// POST /api/v1/workers
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if !decode(w, r, &req) {
		return
	}

	worker, err := h.svc.CreateWorker(r.Context(), req.Name, req.MonthlySalary)
	if HandleError(w, h.logger, err, "") {
		return
	}
	Created(w, worker)
}

// DeleteWorker удаляет сотрудника, если на него никто не ссылается.
// DELETE /api/v1/workers/{id}
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	if HandleError(w, h.logger, h.svc.DeleteWorker(r.Context(), r.PathValue("id")), "worker not found") {
		return
	}
	NoContent(w)
}

// ListMachines возвращает всё оборудование.
// GET /api/v1/machines
func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.svc.ListMachines(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}
	List(w, machines, len(machines))
}

// CreateMachine создаёт машину.
// POST /api/v1/machines
func (h *Handler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineRequest
	if !decode(w, r, &req) {
		return
	}

	machine, err := h.svc.CreateMachine(r.Context(), req.Name, req.Sector, req.AssignedWorkerID)
	if HandleError(w, h.logger, err, "") {
		return
	}
	Created(w, machine)
}

// DeleteMachine удаляет машину, если на неё не ссылаются шаги.
// DELETE /api/v1/machines/{id}
func (h *Handler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	if HandleError(w, h.logger, h.svc.DeleteMachine(r.Context(), r.PathValue("id")), "machine not found") {
		return
	}
	NoContent(w)
}
