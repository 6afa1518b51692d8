package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoutingComputations — количество расчётов маршрута.
	RoutingComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routecost_routing_computations_total",
		Help: "Total routing cost computations",
	})

	// RoutingComputeSeconds — длительность расчёта маршрута.
	RoutingComputeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routecost_routing_compute_seconds",
		Help:    "Duration of routing cost computations",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// ImpliedStepsAdded — шаги, добавленные правилами автодобавления.
	ImpliedStepsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routecost_implied_steps_added_total",
		Help: "Steps appended to a routing by expansion rules",
	})

	// CostAssociations — успешные связывания стоимости труда с изделием.
	CostAssociations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routecost_cost_associations_total",
		Help: "Labor costs merged into products",
	})

	// ReferenceConflicts — отклонённые удаления, по виду записи.
	ReferenceConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routecost_reference_conflicts_total",
		Help: "Deletions rejected because the record is still referenced",
	}, []string{"kind"})

	// EventPublishFailures — неудачные публикации событий в RabbitMQ.
	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routecost_event_publish_failures_total",
		Help: "Events that could not be published",
	})

	// HTTPRequests — запросы к API по методу и коду ответа.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routecost_http_requests_total",
		Help: "HTTP requests handled by routecost-api",
	}, []string{"method", "code"})
)
