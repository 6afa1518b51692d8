// Package api содержит HTTP API сервиса.
//
// Структура:
//   - handler.go           — Handler с DI (сервис, logger)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery, metrics)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - step_handler.go      — обработчики для /steps
//   - workforce_handler.go — обработчики для /workers и /machines
//   - product_handler.go   — обработчики для /materials и /products
//   - routing_handler.go   — обработчики для /routing
package api
