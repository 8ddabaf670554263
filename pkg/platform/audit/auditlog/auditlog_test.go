package auditlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/pkg/platform/audit"
	"chatguard/pkg/requestcontext"
)

type capturePublisher struct {
	events []audit.SecurityEvent
}

func (p *capturePublisher) Emit(_ context.Context, e audit.SecurityEvent) {
	p.events = append(p.events, e)
}

func TestLogAudit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	pub := &capturePublisher{}
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	ctx = requestcontext.WithTime(ctx, now)

	LogAudit(ctx, logger, pub, audit.EventUserBlocked, audit.SeverityWarning,
		"user_id", "user-7",
		"actor_id", "mod-1",
		"reason", "spam",
	)

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, "user-7", e.Subject)
	assert.Equal(t, "mod-1", e.ActorID)
	assert.Equal(t, "spam", e.Reason)
	assert.Equal(t, "req-42", e.RequestID)
	assert.Equal(t, audit.CategorySecurity, e.Category)
	assert.Equal(t, now, e.Timestamp)

	assert.Contains(t, buf.String(), "log_type=audit")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestLogAudit_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		LogAudit(context.Background(), nil, nil, audit.EventChatsCleaned, audit.SeverityInfo, "job", "retention")
	})
}
