package api

import (
	"net/http"
	"strconv"

	"github.com/shaiso/routecost/internal/domain"
)

// GetRouting возвращает текущий маршрут и его расчёт.
// GET /api/v1/routing
func (h *Handler) GetRouting(w http.ResponseWriter, r *http.Request) {
	session := h.svc.Session()

	result, err := h.svc.ComputeRouting(r.Context(), session.Entries, session.Parameters)
	if HandleError(w, h.logger, err, "") {
		return
	}

	Success(w, RoutingResponse{Session: session, Result: result})
}

// ResetRouting очищает маршрут.
// DELETE /api/v1/routing
func (h *Handler) ResetRouting(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset(r.Context())
	NoContent(w)
}

// AddRoutingStep добавляет шаг и зависимые от него шаги.
// POST /api/v1/routing/steps
func (h *Handler) AddRoutingStep(w http.ResponseWriter, r *http.Request) {
	var req AddRoutingStepRequest
	if !decode(w, r, &req) {
		return
	}
	if req.StepID == "" {
		BadRequest(w, "step_id is required")
		return
	}

	added, err := h.svc.AddStep(r.Context(), req.StepID)
	if HandleError(w, h.logger, err, "") {
		return
	}

	Created(w, AddRoutingStepResponse{Added: added, Session: h.svc.Session()})
}

// RemoveRoutingStep удаляет запись маршрута по позиции.
// DELETE /api/v1/routing/steps/{index}
func (h *Handler) RemoveRoutingStep(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		BadRequest(w, "invalid index")
		return
	}

	removed, err := h.svc.RemoveStep(r.Context(), index)
	if HandleError(w, h.logger, err, "") {
		return
	}
	Success(w, removed)
}

// SetRoutingParams задаёт размер и тип крепления.
// PUT /api/v1/routing/params
func (h *Handler) SetRoutingParams(w http.ResponseWriter, r *http.Request) {
	var req RoutingParamsRequest
	if !decode(w, r, &req) {
		return
	}

	params := h.svc.Session().Parameters
	if req.Size != nil {
		params.Size = *req.Size
	}
	if req.Mounting != "" {
		mounting, err := domain.ParseMountingType(req.Mounting)
		if err != nil {
			BadRequest(w, err.Error())
			return
		}
		params.Mounting = mounting
	}

	if HandleError(w, h.logger, h.svc.SetParameters(r.Context(), params), "") {
		return
	}
	Success(w, params)
}

// AssociateRouting записывает стоимость труда в изделие.
// POST /api/v1/routing/associate
func (h *Handler) AssociateRouting(w http.ResponseWriter, r *http.Request) {
	var req AssociateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		BadRequest(w, "product_id is required")
		return
	}

	if req.LaborCost != nil {
		product, err := h.svc.AssociateToProduct(r.Context(), req.ProductID, *req.LaborCost)
		if HandleError(w, h.logger, err, "product not found") {
			return
		}
		Success(w, AssociateResponse{Product: product})
		return
	}

	product, result, err := h.svc.AssociateCurrent(r.Context(), req.ProductID)
	if HandleError(w, h.logger, err, "product not found") {
		return
	}
	Success(w, AssociateResponse{Product: product, Result: result})
}
