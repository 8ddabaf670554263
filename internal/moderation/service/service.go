package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatguard/internal/moderation/metrics"
	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/platform/sentinel"
	"chatguard/pkg/requestcontext"
)

// StatusStore persists the single moderation record per user.
// Get returns sentinel.ErrNotFound for users never moderated.
type StatusStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.ModerationStatus, error)
	Upsert(ctx context.Context, status *models.ModerationStatus) error
}

type ViolationStore interface {
	Append(ctx context.Context, v *models.Violation) error
	CountSince(ctx context.Context, userID id.UserID, since time.Time) (int, error)
}

type ActionLogStore interface {
	Append(ctx context.Context, action *models.ModerationAction) error
}

// EventPublisher fans status changes out to the chat transport.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event models.StatusChangedEvent) error
}

// Transactor runs fn as one unit of work against the stores.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher = auditlog.Publisher

type Service struct {
	statuses       StatusStore
	violations     ViolationStore
	actions        ActionLogStore
	events         EventPublisher
	tx             Transactor
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	suspendAfter   int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTransactor makes each status upsert and its action-log entry atomic.
func WithTransactor(t Transactor) Option {
	return func(s *Service) {
		s.tx = t
	}
}

// WithSuspendAfter sets how many violations within 24h suspend a user.
func WithSuspendAfter(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suspendAfter = n
		}
	}
}

func New(statuses StatusStore, violations ViolationStore, actions ActionLogStore, opts ...Option) (*Service, error) {
	if statuses == nil {
		return nil, errors.New("moderation status store is required")
	}
	if violations == nil {
		return nil, errors.New("violation store is required")
	}
	if actions == nil {
		return nil, errors.New("action log store is required")
	}

	svc := &Service{
		statuses:     statuses,
		violations:   violations,
		actions:      actions,
		tx:           passthroughTx{},
		logger:       slog.Default(),
		suspendAfter: models.DefaultSuspendAfter,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Get returns the user's moderation record, or an active record with no
// restrictions when none exists.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.ModerationStatus, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	status, err := s.statuses.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.NewActiveStatus(userID), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load moderation status")
	}
	return status, nil
}

// SetBlocked temporarily blocks the user until the given time.
func (s *Service) SetBlocked(ctx context.Context, userID id.UserID, until time.Time, reason string) (*models.ModerationStatus, error) {
	now := requestcontext.Now(ctx)
	if !until.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "block end must be in the future")
	}
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	status.Block(until, reason, now)
	if err := s.transition(ctx, status, models.ActionBlock, reason, actorFrom(ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

// SetSuspended suspends the user until an admin clears the record.
func (s *Service) SetSuspended(ctx context.Context, userID id.UserID, reason string) (*models.ModerationStatus, error) {
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	status.Suspend(reason, requestcontext.Now(ctx))
	if err := s.transition(ctx, status, models.ActionSuspend, reason, actorFrom(ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

// Clear returns the user to active and keeps restrictions. Lifting a
// suspension requires the admin role on the caller.
func (s *Service) Clear(ctx context.Context, userID id.UserID, reason string) (*models.ModerationStatus, error) {
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status.Status == models.StatusSuspended && requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins can lift a suspension")
	}
	status.Clear(reason, requestcontext.Now(ctx))
	if err := s.transition(ctx, status, models.ActionClear, reason, actorFrom(ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

// ClearExpiredBlock moves an expired temporary block back to active.
// Any other record is returned unchanged.
func (s *Service) ClearExpiredBlock(ctx context.Context, userID id.UserID) (*models.ModerationStatus, error) {
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if !status.BlockExpiredAt(now) {
		return status, nil
	}
	status.Clear("block expired", now)
	if err := s.transition(ctx, status, models.ActionAutoUnblock, "block expired", models.ActorSystem); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Service) AddRestriction(ctx context.Context, userID id.UserID, tag models.Restriction) (*models.ModerationStatus, error) {
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.AddRestriction(tag, requestcontext.Now(ctx)) {
		return status, nil
	}
	if err := s.transition(ctx, status, models.ActionRestrict, string(tag), actorFrom(ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Service) RemoveRestriction(ctx context.Context, userID id.UserID, tag models.Restriction) (*models.ModerationStatus, error) {
	status, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.RemoveRestriction(tag, requestcontext.Now(ctx)) {
		return status, nil
	}
	if err := s.transition(ctx, status, models.ActionUnrestrict, string(tag), actorFrom(ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

// RecordViolation appends the violation and escalates the user's status by
// the number of violations in the last 24h. Suspended users stay suspended,
// and an existing longer block is never shortened.
func (s *Service) RecordViolation(ctx context.Context, v *models.Violation) (*models.ViolationOutcome, error) {
	if v == nil || v.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "violation requires user id")
	}
	if !v.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown violation type")
	}
	now := requestcontext.Now(ctx)
	v.ID = uuid.New()
	v.CreatedAt = now
	if v.Severity == "" {
		v.Severity = models.SeverityMedium
	}

	if err := s.violations.Append(ctx, v); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record violation")
	}
	if s.metrics != nil {
		s.metrics.IncrementViolation(string(v.Type))
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventViolationRecorded, audit.SeverityWarning,
		"user_id", v.UserID,
		"chat_id", v.ChatID,
		"violation_type", v.Type,
		"actor_id", actorFrom(ctx),
		"reason", v.Detail,
	)

	count, err := s.violations.CountSince(ctx, v.UserID, now.Add(-models.EscalationWindow))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count violations")
	}
	status, err := s.Get(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	outcome := &models.ViolationOutcome{Violation: v, Status: status}
	if status.Status == models.StatusSuspended {
		return outcome, nil
	}

	reason := "escalation: " + string(v.Type)
	esc := models.EscalationFor(count, s.suspendAfter)
	switch {
	case esc.Suspend:
		status.Suspend(reason, now)
		if err := s.transition(ctx, status, models.ActionSuspend, reason, models.ActorSystem); err != nil {
			return nil, err
		}
		outcome.Escalated = true
	case esc.BlockDuration > 0:
		until := now.Add(esc.BlockDuration)
		if status.IsBlockedAt(now) && !until.After(*status.UnblockAt) {
			return outcome, nil
		}
		status.Block(until, reason, now)
		if err := s.transition(ctx, status, models.ActionBlock, reason, models.ActorSystem); err != nil {
			return nil, err
		}
		outcome.Escalated = true
	}
	return outcome, nil
}

// transition persists status with its action-log entry, then emits the audit
// line and the status event. Event publishing is best-effort.
func (s *Service) transition(ctx context.Context, status *models.ModerationStatus, action models.ActionType, reason, actor string) error {
	if err := status.Validate(); err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	entry := &models.ModerationAction{
		ID:        uuid.New(),
		UserID:    status.UserID,
		ActorID:   actor,
		Action:    action,
		Reason:    reason,
		CreatedAt: now,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.statuses.Upsert(ctx, status); err != nil {
			return err
		}
		return s.actions.Append(ctx, entry)
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save moderation status")
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(action))
	}
	event, severity := auditEventFor(action)
	attrs := []any{
		"user_id", status.UserID,
		"actor_id", actor,
		"status", status.Status,
		"reason", reason,
	}
	if status.UnblockAt != nil {
		attrs = append(attrs, "unblock_at", status.UnblockAt.UTC().Format(time.RFC3339))
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, event, severity, attrs...)

	if s.events != nil {
		err := s.events.PublishStatusChanged(ctx, models.StatusChangedEvent{
			UserID:       status.UserID,
			Status:       status.Status,
			Restrictions: status.Restrictions,
			UnblockAt:    status.UnblockAt,
			Action:       action,
			Reason:       reason,
			OccurredAt:   now,
		})
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncrementEventPublishErrors()
			}
			s.logger.WarnContext(ctx, "failed to publish moderation status event",
				"user_id", status.UserID,
				"action", action,
				"error", err,
			)
		}
	}
	return nil
}

func auditEventFor(action models.ActionType) (audit.AuditEvent, audit.Severity) {
	switch action {
	case models.ActionBlock:
		return audit.EventUserBlocked, audit.SeverityWarning
	case models.ActionSuspend:
		return audit.EventUserSuspended, audit.SeverityCritical
	case models.ActionClear:
		return audit.EventUserCleared, audit.SeverityInfo
	case models.ActionAutoUnblock:
		return audit.EventUserAutoUnblocked, audit.SeverityInfo
	case models.ActionRestrict:
		return audit.EventRestrictionAdded, audit.SeverityWarning
	default:
		return audit.EventRestrictionRemoved, audit.SeverityInfo
	}
}

func actorFrom(ctx context.Context) string {
	if uid := requestcontext.UserID(ctx); !uid.IsNil() {
		return uid.String()
	}
	return models.ActorSystem
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
