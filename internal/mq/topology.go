package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

const (
	ExchangeProducts Exchange = "routecost.products"
	ExchangeDLQ      Exchange = "routecost.dlq"
)

const (
	QueueCostAssociated Queue = "products.cost_associated"
	QueueDLQProducts    Queue = "dlq.products"
)

const (
	RoutingKeyCostAssociated RoutingKey = "cost.associated"
	RoutingKeyDLQProducts    RoutingKey = "products"
)

type binding struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
	args       amqp.Table
}

// bindings — очереди и их привязки. Очередь событий стоимости
// отправляет отвергнутые сообщения в routecost.dlq.
func bindings() []binding {
	return []binding{
		{
			queue:      QueueCostAssociated,
			routingKey: RoutingKeyCostAssociated,
			exchange:   ExchangeProducts,
			args: amqp.Table{
				"x-dead-letter-exchange":    string(ExchangeDLQ),
				"x-dead-letter-routing-key": string(RoutingKeyDLQProducts),
			},
		},
		{
			queue:      QueueDLQProducts,
			routingKey: RoutingKeyDLQProducts,
			exchange:   ExchangeDLQ,
		},
	}
}

// SetupTopology объявляет exchanges, очереди и привязки. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range []Exchange{ExchangeProducts, ExchangeDLQ} {
			if err := ch.ExchangeDeclare(string(ex), "direct", true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		for _, b := range bindings() {
			if _, err := ch.QueueDeclare(string(b.queue), true, false, false, false, b.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", b.queue, err)
			}
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(b.exchange), false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}
		return nil
	})
}
