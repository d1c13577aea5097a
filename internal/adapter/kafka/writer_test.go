package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	ts := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	n := domain.Notification{
		ID:        "ntf-abc123",
		Title:     "Tornado Warning",
		Message:   "Take cover now.",
		Type:      domain.NotificationError,
		Timestamp: ts,
		Source:    domain.AttributionNWS,
	}

	msg, err := serializeToMessage(n)
	require.NoError(t, err)

	assert.Equal(t, []byte("ntf-abc123"), msg.Key)

	var decoded domain.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, n.Title, decoded.Title)
	assert.Equal(t, n.Type, decoded.Type)
	assert.True(t, ts.Equal(decoded.Timestamp))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, []byte("error"), msg.Headers[0].Value)
	assert.Equal(t, "emitted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26T12:00:00Z"), msg.Headers[1].Value)
}

func TestSerializeToMessage_UnreadByDefault(t *testing.T) {
	msg, err := serializeToMessage(domain.Notification{ID: "ntf-1", Type: domain.NotificationInfo})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, false, decoded["read"], "read state always serializes so the store sees it explicitly")
}
