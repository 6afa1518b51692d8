package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Metrics(),
		Logging(h.logger),
	)

	// Step catalog
	mux.Handle("GET /api/v1/steps", chain(http.HandlerFunc(h.ListSteps)))
	mux.Handle("POST /api/v1/steps", chain(http.HandlerFunc(h.CreateStep)))
	mux.Handle("GET /api/v1/steps/{id}", chain(http.HandlerFunc(h.GetStep)))
	mux.Handle("PUT /api/v1/steps/{id}", chain(http.HandlerFunc(h.UpdateStep)))
	mux.Handle("DELETE /api/v1/steps/{id}", chain(http.HandlerFunc(h.DeleteStep)))

	// Workers
	mux.Handle("GET /api/v1/workers", chain(http.HandlerFunc(h.ListWorkers)))
	mux.Handle("POST /api/v1/workers", chain(http.HandlerFunc(h.CreateWorker)))
	mux.Handle("DELETE /api/v1/workers/{id}", chain(http.HandlerFunc(h.DeleteWorker)))

	// Machines
	mux.Handle("GET /api/v1/machines", chain(http.HandlerFunc(h.ListMachines)))
	mux.Handle("POST /api/v1/machines", chain(http.HandlerFunc(h.CreateMachine)))
	mux.Handle("DELETE /api/v1/machines/{id}", chain(http.HandlerFunc(h.DeleteMachine)))

	// Materials
	mux.Handle("GET /api/v1/materials", chain(http.HandlerFunc(h.ListMaterials)))
	mux.Handle("POST /api/v1/materials", chain(http.HandlerFunc(h.UpsertMaterial)))
	mux.Handle("DELETE /api/v1/materials/{id}", chain(http.HandlerFunc(h.DeleteMaterial)))

	// Products
	mux.Handle("GET /api/v1/products", chain(http.HandlerFunc(h.ListProducts)))
	mux.Handle("POST /api/v1/products", chain(http.HandlerFunc(h.CreateProduct)))
	mux.Handle("GET /api/v1/products/{id}", chain(http.HandlerFunc(h.GetProduct)))
	mux.Handle("PUT /api/v1/products/{id}", chain(http.HandlerFunc(h.UpdateProduct)))
	mux.Handle("DELETE /api/v1/products/{id}", chain(http.HandlerFunc(h.DeleteProduct)))

	// Routing session
	mux.Handle("GET /api/v1/routing", chain(http.HandlerFunc(h.GetRouting)))
	mux.Handle("DELETE /api/v1/routing", chain(http.HandlerFunc(h.ResetRouting)))
	mux.Handle("POST /api/v1/routing/steps", chain(http.HandlerFunc(h.AddRoutingStep)))
	mux.Handle("DELETE /api/v1/routing/steps/{index}", chain(http.HandlerFunc(h.RemoveRoutingStep)))
	mux.Handle("PUT /api/v1/routing/params", chain(http.HandlerFunc(h.SetRoutingParams)))
	mux.Handle("POST /api/v1/routing/associate", chain(http.HandlerFunc(h.AssociateRouting)))
}
