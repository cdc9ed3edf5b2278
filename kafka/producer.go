package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"basket-service/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher publishes checkout events. Satisfied by Producer; tests
// substitute an in-memory recorder.
type EventPublisher interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
	Close() error
}

// Producer publishes checkout events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Producer for the given brokers (comma-separated)
// and topic.
func NewProducer(brokers, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

// SendCheckoutEvent publishes the event keyed by user id.
func (p *Producer) SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
