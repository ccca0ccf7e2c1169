package broker

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher implements domain.Publisher on top of a kafka-go Writer.
// Every Publish is a synchronous write that waits for the leader's
// acknowledgment before returning.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the given broker address and topic.
func NewKafkaPublisher(broker, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

// Publish sends one record and blocks until the broker confirms it.
func (p *KafkaPublisher) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads records from the topic as part of a consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

// NewKafkaConsumer creates a group reader for the given broker and topic.
func NewKafkaConsumer(broker, topic, group string, logger *slog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{broker},
			Topic:       topic,
			GroupID:     group,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			StartOffset: kafka.FirstOffset,
		}),
		logger: logger,
	}
}

// Fetch blocks until the next record is available and returns its value.
// Offsets are committed by the group reader as messages are read.
func (c *KafkaConsumer) Fetch(ctx context.Context) ([]byte, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Value, nil
}

// Close closes the underlying reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
