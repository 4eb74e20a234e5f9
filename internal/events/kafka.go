package events

import (
	"context"       // Publishing context
	"encoding/json" // Event payloads
	"fmt"           // Error wrapping
	"time"          // Batch timeout

	"github.com/segmentio/kafka-go" // Kafka client
	"github.com/sirupsen/logrus"    // Logrus for structured logging
)

// KafkaPublisher writes order events to a Kafka topic. Messages are keyed by order id so
// every event of one order lands on the same partition, in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates an asynchronous writer for topic. Delivery failures are
// reported through the log since the request that produced the event has already returned.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},    // Key-based partitioning
		RequiredAcks: kafka.RequireOne, // Leader ack
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"topic":    topic,
					"messages": len(messages),
				}).WithError(err).Error("Failed to deliver order events")
			}
		},
	}}
}

// PublishOrder enqueues the event
func (p *KafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(event OrderEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}
