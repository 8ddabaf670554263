package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/internal/moderation/models"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestNATSPublisher(t *testing.T) {
	t.Run("publishes on per-user subject", func(t *testing.T) {
		conn := &recordingConn{}
		pub := NewNATSPublisher(conn, "")

		err := pub.PublishStatusChanged(context.Background(), models.StatusChangedEvent{
			UserID: "user-1",
			Status: models.StatusSuspended,
			Action: models.ActionSuspend,
		})
		require.NoError(t, err)
		assert.Equal(t, "moderation.status.user-1", conn.subject)

		var decoded models.StatusChangedEvent
		require.NoError(t, json.Unmarshal(conn.data, &decoded))
		assert.Equal(t, models.StatusSuspended, decoded.Status)
	})

	t.Run("wraps connection errors", func(t *testing.T) {
		conn := &recordingConn{err: errors.New("nats: connection closed")}
		pub := NewNATSPublisher(conn, "custom")

		err := pub.PublishStatusChanged(context.Background(), models.StatusChangedEvent{UserID: "u"})
		require.Error(t, err)
		assert.Equal(t, "custom.u", conn.subject)
		assert.Contains(t, err.Error(), "publish status event")
	})
}
