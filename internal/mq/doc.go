// Package mq публикует события расчёта себестоимости в RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий
//
// Типы сообщений:
//   - product.cost_associated — стоимость труда по маршруту записана в изделие
//
// Exchanges:
//   - routecost.products — события изделий
//   - routecost.dlq      — dead letter queue
package mq
