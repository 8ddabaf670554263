// Package service decides whether a user may read, write or moderate in a
// chat. Denials are values. Internal failures deny rather than error.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ChatStore,ModerationService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	chatmodels "chatguard/internal/chat/models"
	modmodels "chatguard/internal/moderation/models"
	"chatguard/internal/permission/metrics"
	"chatguard/internal/permission/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/platform/sentinel"
	"chatguard/pkg/requestcontext"
)

type ChatStore interface {
	FindByID(ctx context.Context, chatID id.ChatID) (*chatmodels.Chat, error)
}

// ModerationService is satisfied by the moderation service.
type ModerationService interface {
	Get(ctx context.Context, userID id.UserID) (*modmodels.ModerationStatus, error)
	ClearExpiredBlock(ctx context.Context, userID id.UserID) (*modmodels.ModerationStatus, error)
}

type Service struct {
	chats          ChatStore
	moderation     ModerationService
	auditPublisher auditlog.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher auditlog.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(chats ChatStore, moderation ModerationService, opts ...Option) (*Service, error) {
	if chats == nil {
		return nil, errors.New("chat store is required")
	}
	if moderation == nil {
		return nil, errors.New("moderation service is required")
	}
	svc := &Service{
		chats:      chats,
		moderation: moderation,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Validate runs the permission checks in order and stops at the first
// denial. Only an invalid action or user is returned as an error.
func (s *Service) Validate(ctx context.Context, chatID id.ChatID, userID id.UserID, action models.Action, role string) (*models.Decision, error) {
	if !action.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown action: "+string(action))
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if chatID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "chat id is required")
	}

	decision, err := s.evaluate(ctx, chatID, userID, action, role)
	if err != nil {
		s.logger.ErrorContext(ctx, "permission validation failed",
			"chat_id", chatID.String(),
			"user_id", userID.String(),
			"action", string(action),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementValidationErrors()
		}
		decision = models.Deny(models.ReasonValidationError)
	}

	if s.metrics != nil {
		s.metrics.IncrementDecision(string(action), decision.Allowed)
	}
	if !decision.Allowed {
		auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventPermissionDenied, audit.SeverityWarning,
			"user_id", userID.String(),
			"chat_id", chatID.String(),
			"action", string(action),
			"reason", decision.Reason,
		)
	}
	return decision, nil
}

func (s *Service) evaluate(ctx context.Context, chatID id.ChatID, userID id.UserID, action models.Action, role string) (*models.Decision, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Deny(models.ReasonChatNotFound), nil
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return models.Deny(models.ReasonNotParticipant), nil
	}

	status, err := s.moderation.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch status.Status {
	case modmodels.StatusSuspended:
		return models.Deny(models.ReasonSuspended), nil
	case modmodels.StatusTemporarilyBlocked:
		now := requestcontext.Now(ctx)
		if status.IsBlockedAt(now) {
			return models.Deny(models.ReasonBlockedUntil + status.UnblockAt.UTC().Format(time.RFC3339)), nil
		}
		status, err = s.moderation.ClearExpiredBlock(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if action == models.ActionWrite && status.HasRestriction(modmodels.RestrictionNoMessaging) {
		return models.Deny(models.ReasonRestricted), nil
	}
	if action == models.ActionModerate && !id.IsStaff(role) {
		return models.Deny(models.ReasonNotModerator), nil
	}
	return models.Allow(), nil
}
