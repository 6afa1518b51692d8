package api

import (
	"net/http"

	"github.com/shaiso/routecost/internal/routing"
)

// ListMaterials возвращает все материалы.
// GET /api/v1/materials
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.svc.ListMaterials(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}
	List(w, materials, len(materials))
}

// UpsertMaterial создаёт материал или обновляет стоимость
// материала с тем же именем.
// POST /api/v1/materials
func (h *Handler) UpsertMaterial(w http.ResponseWriter, r *http.Request) {
	var req UpsertMaterialRequest
	if !decode(w, r, &req) {
		return
	}

	material, created, err := h.svc.UpsertMaterial(r.Context(), req.Name, req.UnitCost)
	if HandleError(w, h.logger, err, "") {
		return
	}
	if created {
		Created(w, material)
		return
	}
	Success(w, material)
}

// DeleteMaterial удаляет материал.
// DELETE /api/v1/materials/{id}
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if HandleError(w, h.logger, h.svc.DeleteMaterial(r.Context(), r.PathValue("id")), "material not found") {
		return
	}
	NoContent(w)
}

// ListProducts возвращает все изделия.
// GET /api/v1/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}
	List(w, products, len(products))
}

// CreateProduct создаёт изделие.
// POST /api/v1/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req routing.ProductInput
	if !decode(w, r, &req) {
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), req)
	if HandleError(w, h.logger, err, "") {
		return
	}
	Created(w, product)
}

// GetProduct возвращает изделие по ID.
// GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), r.PathValue("id"))
	if HandleError(w, h.logger, err, "product not found") {
		return
	}
	Success(w, product)
}

// UpdateProduct меняет изделие.
// PUT /api/v1/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req routing.ProductInput
	if !decode(w, r, &req) {
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), r.PathValue("id"), req)
	if HandleError(w, h.logger, err, "product not found") {
		return
	}
	Success(w, product)
}

// DeleteProduct удаляет изделие.
// DELETE /api/v1/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if HandleError(w, h.logger, h.svc.DeleteProduct(r.Context(), r.PathValue("id")), "product not found") {
		return
	}
	NoContent(w)
}
