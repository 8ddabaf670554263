// Package auditlog writes audit events to both the structured logger and the
// audit publisher, so every trust-and-safety decision is searchable in logs and
// durable in the audit stream.
package auditlog

import (
	"context"
	"log/slog"

	"chatguard/pkg/attrs"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/requestcontext"
)

// Publisher is satisfied by *security.Publisher.
type Publisher interface {
	Emit(ctx context.Context, event audit.SecurityEvent)
}

// LogAudit logs event with attrList and forwards a SecurityEvent to publisher.
// Subject, actor, and reason are read from attrList keys.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher Publisher, event audit.AuditEvent, severity audit.Severity, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	args := append(attrList, "event", string(event), "log_type", "audit")
	if logger != nil {
		level := slog.LevelInfo
		if severity == audit.SeverityWarning || severity == audit.SeverityCritical {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, string(event), args...)
	}

	if publisher == nil {
		return
	}

	publisher.Emit(ctx, audit.SecurityEvent{
		Timestamp: requestcontext.Now(ctx),
		Category:  event.Category(),
		Action:    string(event),
		Subject:   extractSubject(attrList),
		ActorID:   attrs.ExtractString(attrList, "actor_id"),
		Reason:    attrs.ExtractString(attrList, "reason"),
		RequestID: requestID,
		Severity:  severity,
	})
}

func extractSubject(attrList []any) string {
	for _, key := range []string{"user_id", "chat_id", "key_id", "job"} {
		if val := attrs.ExtractString(attrList, key); val != "" {
			return val
		}
	}
	return ""
}
