package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"mealmart/internal/models"
)

// OrderEvent is emitted on every order lifecycle transition. Downstream
// consumers (notifications, analytics) key on the order ID.
type OrderEvent struct {
	OrderID     uuid.UUID          `json:"order_id"`
	UserID      uuid.UUID          `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishOrderEvent(ctx context.Context, event *OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher stands in when no brokers are configured, so order flows
// never depend on kafka being up.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) PublishOrderEvent(ctx context.Context, event *OrderEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
