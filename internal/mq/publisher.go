package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/routecost/internal/domain"
)

// MessageType — тип сообщения.
type MessageType string

const (
	MessageTypeCostAssociated MessageType = "product.cost_associated"
)

// Message — конверт публикуемого события.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// CostAssociatedPayload — себестоимость изделия после связывания с маршрутом.
type CostAssociatedPayload struct {
	ProductID          string  `json:"product_id"`
	ProductName        string  `json:"product_name"`
	LaborCost          float64 `json:"labor_cost"`
	MaterialCost       float64 `json:"material_cost"`
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
}

// NewCostAssociatedMessage строит событие по обновлённому изделию.
func NewCostAssociatedMessage(product *domain.Product) *Message {
	return &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeCostAssociated,
		Payload: CostAssociatedPayload{
			ProductID:          product.ID,
			ProductName:        product.Name,
			LaborCost:          product.EffectiveLaborCost(),
			MaterialCost:       product.MaterialCost,
			TotalEstimatedCost: product.TotalEstimatedCost,
		},
		Timestamp: time.Now().UTC(),
	}
}

// Publisher публикует события в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(ctx, string(exchange), string(routingKey), false, false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishCostAssociated публикует событие product.cost_associated.
func (p *Publisher) PublishCostAssociated(ctx context.Context, product *domain.Product) error {
	return p.Publish(ctx, ExchangeProducts, RoutingKeyCostAssociated, NewCostAssociatedMessage(product))
}
