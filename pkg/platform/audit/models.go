package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// route them to different topics and retention policies.
type EventCategory string

const (
	// CategorySecurity covers trust-and-safety decisions: blocks, suspensions,
	// denied permissions, rate-limit breaches, key rotation.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine job activity that is useful for
	// debugging but not for investigations.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	// Moderation state transitions
	EventUserBlocked        AuditEvent = "moderation_user_blocked"
	EventUserSuspended      AuditEvent = "moderation_user_suspended"
	EventUserCleared        AuditEvent = "moderation_user_cleared"
	EventUserAutoUnblocked  AuditEvent = "moderation_user_auto_unblocked"
	EventRestrictionAdded   AuditEvent = "moderation_restriction_added"
	EventRestrictionRemoved AuditEvent = "moderation_restriction_removed"
	EventViolationRecorded  AuditEvent = "moderation_violation_recorded"

	// Hot path decisions
	EventPermissionDenied  AuditEvent = "permission_denied"
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
	EventRateLimitDegraded AuditEvent = "rate_limit_degraded"
	EventSensitiveContent  AuditEvent = "sensitive_content_encrypted"

	// Scheduled jobs
	EventChatsCleaned     AuditEvent = "retention_chats_cleaned"
	EventCleanupFailed    AuditEvent = "retention_cleanup_failed"
	EventKeyCreated       AuditEvent = "encryption_key_created"
	EventKeyDeprecated    AuditEvent = "encryption_key_deprecated"
	EventRateLimitCompact AuditEvent = "rate_limit_compacted"

	// Reporting
	EventAuditReportGenerated AuditEvent = "audit_report_generated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserBlocked:          CategorySecurity,
	EventUserSuspended:        CategorySecurity,
	EventUserCleared:          CategorySecurity,
	EventUserAutoUnblocked:    CategorySecurity,
	EventRestrictionAdded:     CategorySecurity,
	EventRestrictionRemoved:   CategorySecurity,
	EventViolationRecorded:    CategorySecurity,
	EventPermissionDenied:     CategorySecurity,
	EventRateLimitExceeded:    CategorySecurity,
	EventRateLimitDegraded:    CategorySecurity,
	EventKeyCreated:           CategorySecurity,
	EventKeyDeprecated:        CategorySecurity,
	EventAuditReportGenerated: CategorySecurity,

	EventSensitiveContent: CategoryOperations,
	EventChatsCleaned:     CategoryOperations,
	EventCleanupFailed:    CategoryOperations,
	EventRateLimitCompact: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Severity levels for security events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SecurityEvent is the record written to audit sinks.
type SecurityEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Category  EventCategory `json:"category"`
	Action    string        `json:"action"`
	Subject   string        `json:"subject,omitempty"`  // user id, chat id, or key id
	ActorID   string        `json:"actor_id,omitempty"` // moderator when different from subject
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Severity  Severity      `json:"severity"`
}

// Sink persists batches of audit events.
type Sink interface {
	Write(ctx context.Context, events []SecurityEvent) error
}
