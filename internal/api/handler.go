package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shaiso/routecost/internal/routing"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	svc    *routing.Service
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Service *routing.Service
	Logger  *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    cfg.Service,
		logger: logger,
	}
}

// decode читает JSON тело запроса; при ошибке отвечает 400.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}
