package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

// NewDefaultKafkaPublisher builds an async writer. Delivery errors are
// reported through logger, Publish only fails on local errors.
func NewDefaultKafkaPublisher(brokers []string, logger *zap.Logger) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logger.Warn("kafka delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
				}
			},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
