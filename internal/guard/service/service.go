// Package service chains permission, rate limiting and sanitisation into a
// single admission decision for an outgoing chat message.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks PermissionValidator,RateLimiter,Sanitizer

import (
	"context"
	"errors"
	"log/slog"

	"chatguard/internal/guard/metrics"
	"chatguard/internal/guard/models"
	permmodels "chatguard/internal/permission/models"
	rlmodels "chatguard/internal/ratelimit/models"
	rlservice "chatguard/internal/ratelimit/service"
	sanmodels "chatguard/internal/sanitizer/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

type PermissionValidator interface {
	Validate(ctx context.Context, chatID id.ChatID, userID id.UserID, action permmodels.Action, role string) (*permmodels.Decision, error)
}

type RateLimiter interface {
	Check(ctx context.Context, userID id.UserID, action rlmodels.Action, opts ...rlservice.CheckOption) (*rlmodels.RateLimitResult, error)
}

type Sanitizer interface {
	Classify(ctx context.Context, text string, hints sanmodels.Hints) (*sanmodels.Result, error)
}

type Service struct {
	permissions PermissionValidator
	rateLimiter RateLimiter
	sanitizer   Sanitizer
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(permissions PermissionValidator, rateLimiter RateLimiter, sanitizer Sanitizer, opts ...Option) (*Service, error) {
	if permissions == nil {
		return nil, errors.New("permission validator is required")
	}
	if rateLimiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	if sanitizer == nil {
		return nil, errors.New("sanitizer is required")
	}
	svc := &Service{
		permissions: permissions,
		rateLimiter: rateLimiter,
		sanitizer:   sanitizer,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Admit runs the write permission check, then the message rate limit, then
// classification. A rejected message does not consume rate-limit quota
// unless it got past the permission stage.
func (s *Service) Admit(ctx context.Context, chatID id.ChatID, userID id.UserID, role, text string, hints sanmodels.Hints) (*models.Admission, error) {
	if text == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if len(text) > sanmodels.MaxTextLength {
		return nil, dErrors.New(dErrors.CodeValidation, "text is too long")
	}

	decision, err := s.permissions.Validate(ctx, chatID, userID, permmodels.ActionWrite, role)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return s.done(models.Rejected(models.StagePermission, decision.Reason)), nil
	}

	limit, err := s.rateLimiter.Check(ctx, userID, rlmodels.ActionMessage)
	if err != nil {
		return nil, err
	}
	if !limit.Allowed {
		a := models.Rejected(models.StageRateLimit, "Too many messages")
		a.RetryAfter = limit.RetryAfter
		a.RateLimit = limit
		return s.done(a), nil
	}

	msg, err := s.sanitizer.Classify(ctx, text, hints)
	if err != nil {
		s.logger.ErrorContext(ctx, "message classification failed",
			"chat_id", chatID.String(),
			"user_id", userID.String(),
			"error", err,
		)
		return nil, err
	}
	return s.done(&models.Admission{Admitted: true, RateLimit: limit, Message: msg}), nil
}

func (s *Service) done(a *models.Admission) *models.Admission {
	if s.metrics != nil {
		s.metrics.IncrementAdmission(string(a.Stage))
	}
	return a
}
