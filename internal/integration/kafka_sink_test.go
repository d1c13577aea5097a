//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-watch/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-watch/internal/config"
	"github.com/couchcryptid/disaster-watch/internal/domain"
)

const testNotificationTopic = "test-notifications"

// receivedNotification holds a deserialized message read from the sink topic.
type receivedNotification struct {
	Notification domain.Notification
	Key          string
	Headers      map[string]string
}

// readNotification reads a single message from the consumer and deserializes it.
func readNotification(ctx context.Context, t *testing.T, consumer *kafkago.Reader) receivedNotification {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from notification topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var n domain.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &n), "unmarshal notification")

	return receivedNotification{Notification: n, Key: string(msg.Key), Headers: headers}
}

// TestNotificationSink verifies that kafka.Writer publishes a cycle's
// notifications to the topic with the expected key, headers, and body.
func TestNotificationSink(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testNotificationTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		NotificationTopic: testNotificationTopic,
	}

	emitted := time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC)
	batch := []domain.Notification{
		{
			ID:        "ntf-tornado",
			Title:     "Tornado Warning",
			Message:   "Take cover now.",
			Type:      domain.NotificationError,
			Timestamp: emitted,
			Source:    domain.AttributionNWS,
		},
		{
			ID:        "ntf-declaration",
			Title:     "DR-4999-TX",
			Message:   "Major disaster declaration for wildfires.",
			Type:      domain.NotificationWarning,
			Timestamp: emitted,
			Source:    domain.AttributionFEMA,
		},
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishBatch(ctx, batch))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testNotificationTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	first := readNotification(ctx, t, consumer)
	assert.Equal(t, "ntf-tornado", first.Key)
	assert.Equal(t, "error", first.Headers["type"])
	assert.Equal(t, "2024-04-26T12:00:00Z", first.Headers["emitted_at"])
	assert.Equal(t, "Tornado Warning", first.Notification.Title)
	assert.Equal(t, domain.AttributionNWS, first.Notification.Source)
	assert.False(t, first.Notification.Read, "notifications arrive unread")

	second := readNotification(ctx, t, consumer)
	assert.Equal(t, "ntf-declaration", second.Key)
	assert.Equal(t, "warning", second.Headers["type"])
	assert.Equal(t, domain.AttributionFEMA, second.Notification.Source)
}

// TestNotificationSink_EmptyBatch verifies that publishing nothing is a no-op
// that does not touch the broker.
func TestNotificationSink_EmptyBatch(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:      []string{"localhost:1"}, // unreachable on purpose
		NotificationTopic: testNotificationTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishBatch(context.Background(), nil))
}
