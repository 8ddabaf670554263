// Package service aggregates moderation, rate-limit and retention records
// into a read-only security audit report.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ViolationSource,ActionSource,RateLimitSource,DeletionSource

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	chatmodels "chatguard/internal/chat/models"
	modmodels "chatguard/internal/moderation/models"
	"chatguard/internal/platform/tracing"
	rlmodels "chatguard/internal/ratelimit/models"
	"chatguard/internal/report/metrics"
	"chatguard/internal/report/models"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/requestcontext"
)

type ViolationSource interface {
	CountByType(ctx context.Context, from, to time.Time) (map[modmodels.ViolationType]int, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*modmodels.Violation, error)
}

type ActionSource interface {
	CountByAction(ctx context.Context, from, to time.Time) (map[modmodels.ActionType]int, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*modmodels.ModerationAction, error)
}

type RateLimitSource interface {
	CountByAction(ctx context.Context, from, to time.Time) (map[rlmodels.Action]int, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*rlmodels.Record, error)
}

type DeletionSource interface {
	CountByReason(ctx context.Context, from, to time.Time) (map[string]int, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*chatmodels.DeletionLog, error)
}

type Service struct {
	violations     ViolationSource
	actions        ActionSource
	rateLimits     RateLimitSource
	deletions      DeletionSource
	maxRange       time.Duration
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

func WithMaxRange(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.maxRange = d
		}
	}
}

func New(violations ViolationSource, actions ActionSource, rateLimits RateLimitSource, deletions DeletionSource, opts ...Option) (*Service, error) {
	switch {
	case violations == nil:
		return nil, errors.New("violation source is required")
	case actions == nil:
		return nil, errors.New("action source is required")
	case rateLimits == nil:
		return nil, errors.New("rate limit source is required")
	case deletions == nil:
		return nil, errors.New("deletion source is required")
	}
	svc := &Service{
		violations: violations,
		actions:    actions,
		rateLimits: rateLimits,
		deletions:  deletions,
		maxRange:   models.MaxReportRange,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Generate queries the four sources concurrently. The first failure cancels
// the rest and fails the report.
func (s *Service) Generate(ctx context.Context, start, end time.Time, includeDetails bool) (report *models.AuditReport, err error) {
	if err := s.validateRange(start, end); err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "report.generate",
		attribute.String("report.start", start.Format(time.RFC3339)),
		attribute.String("report.end", end.Format(time.RFC3339)),
		attribute.Bool("report.include_details", includeDetails),
	)
	began := time.Now()
	defer func() {
		tracing.End(span, err)
		if s.metrics != nil {
			s.metrics.ObserveReport(err, time.Since(began))
		}
	}()

	report = &models.AuditReport{
		Period: models.Period{Start: start, End: end},
	}
	var details models.Details

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.violations.CountByType(gctx, start, end)
		if err != nil {
			return err
		}
		report.ViolationsByType = stringKeys(counts)
		if includeDetails {
			details.Violations, err = s.violations.ListRecent(gctx, start, end, models.DetailLimit)
		}
		return err
	})
	g.Go(func() error {
		counts, err := s.actions.CountByAction(gctx, start, end)
		if err != nil {
			return err
		}
		report.ActionsByType = stringKeys(counts)
		if includeDetails {
			details.ModerationActions, err = s.actions.ListRecent(gctx, start, end, models.DetailLimit)
		}
		return err
	})
	g.Go(func() error {
		counts, err := s.rateLimits.CountByAction(gctx, start, end)
		if err != nil {
			return err
		}
		report.RateLimitsByAction = stringKeys(counts)
		if includeDetails {
			details.RateLimitEvents, err = s.rateLimits.ListRecent(gctx, start, end, models.DetailLimit)
		}
		return err
	})
	g.Go(func() error {
		counts, err := s.deletions.CountByReason(gctx, start, end)
		if err != nil {
			return err
		}
		report.DeletionsByReason = stringKeys(counts)
		if includeDetails {
			details.ChatDeletions, err = s.deletions.ListRecent(gctx, start, end, models.DetailLimit)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "audit report generation failed", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate audit report")
	}

	if includeDetails {
		report.Details = &details
	}
	report.ComputeTotals()
	report.GeneratedAt = requestcontext.Now(ctx)

	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventAuditReportGenerated, audit.SeverityInfo,
		"user_id", requestcontext.UserID(ctx).String(),
		"start", start,
		"end", end,
		"include_details", includeDetails,
	)
	return report, nil
}

func (s *Service) validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start and end are required")
	}
	if start.After(end) {
		return dErrors.New(dErrors.CodeValidation, "start must not be after end")
	}
	if end.Sub(start) > s.maxRange {
		return dErrors.New(dErrors.CodeValidation, "report range is too large")
	}
	return nil
}

func stringKeys[K ~string](in map[K]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		if v > 0 {
			out[string(k)] = v
		}
	}
	return out
}
