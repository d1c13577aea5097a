// Package kafka implements the notification sink: emitted Notification
// records are published to a Kafka topic owned by the downstream
// notification store, which handles read/unread lifecycle and
// cross-restart deduplication.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/disaster-watch/internal/config"
	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// Writer produces notification records to the sink topic.
// It implements pipeline.NotificationSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured notification topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes a cycle's notifications in a single
// WriteMessages call.
func (w *Writer) PublishBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(notifications))
	for i := range notifications {
		msg, err := serializeToMessage(notifications[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Notification into a Kafka message.
func serializeToMessage(n domain.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(n.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(n.Type)},
			{Key: "emitted_at", Value: []byte(n.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
