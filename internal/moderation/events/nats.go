package events

import (
	"context"
	"encoding/json"
	"fmt"

	"chatguard/internal/moderation/models"
)

// DefaultSubjectPrefix is followed by ".<userId>".
const DefaultSubjectPrefix = "moderation.status"

// Conn is satisfied by the platform NATS client.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes status changes on moderation.status.<userId>.
type NATSPublisher struct {
	conn   Conn
	prefix string
}

func NewNATSPublisher(conn Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject a user's status events are published on.
func (p *NATSPublisher) Subject(event models.StatusChangedEvent) string {
	return p.prefix + "." + event.UserID.String()
}

func (p *NATSPublisher) PublishStatusChanged(_ context.Context, event models.StatusChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event), data); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}
