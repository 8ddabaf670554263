package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks KeyStore,ReportStore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"chatguard/internal/jobs"
	jobmodels "chatguard/internal/jobs/models"
	"chatguard/internal/keys/metrics"
	"chatguard/internal/keys/models"
	"chatguard/internal/platform/tracing"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/platform/sentinel"
	"chatguard/pkg/requestcontext"
)

// KeyStore persists encryption keys. ListActive is ordered newest first.
type KeyStore interface {
	Create(ctx context.Context, k *models.EncryptionKey) error
	ListActive(ctx context.Context) ([]*models.EncryptionKey, error)
	FindByID(ctx context.Context, keyID id.KeyID) (*models.EncryptionKey, error)
	Deprecate(ctx context.Context, keyID id.KeyID, at time.Time) (bool, error)
}

type ReportStore interface {
	AppendReport(ctx context.Context, r *jobmodels.CleanupReport) error
}

type Service struct {
	keys           KeyStore
	reports        ReportStore
	failures       *jobs.FailureRecorder
	auditPublisher auditlog.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	rotationAge    time.Duration
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

func WithReportStore(reports ReportStore) Option {
	return func(s *Service) {
		s.reports = reports
	}
}

// WithFailureRecorder persists and reports rotation failures.
func WithFailureRecorder(f *jobs.FailureRecorder) Option {
	return func(s *Service) {
		s.failures = f
	}
}

// WithRotationDays sets the age after which active keys are deprecated.
func WithRotationDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.rotationAge = time.Duration(days) * 24 * time.Hour
		}
	}
}

func New(keys KeyStore, opts ...Option) (*Service, error) {
	if keys == nil {
		return nil, errors.New("key store is required")
	}
	svc := &Service{
		keys:        keys,
		logger:      slog.Default(),
		rotationAge: models.DefaultRotationDays * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RotateEncryptionKeys creates a fresh active key and only then deprecates
// active keys older than the rotation age, so at least one active key exists
// at every point of the run.
func (s *Service) RotateEncryptionKeys(ctx context.Context) (report *models.RotationReport, err error) {
	ctx, span := tracing.Start(ctx, "keys.rotate")
	defer func() { tracing.End(span, err) }()

	start := requestcontext.Now(ctx)
	cutoff := start.Add(-s.rotationAge)

	created, err := s.createKey(ctx, start)
	if err != nil {
		return nil, s.fail(ctx, "create_key", err)
	}

	active, err := s.keys.ListActive(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list_active_keys", err)
	}

	var deprecated []id.KeyID
	for _, k := range active {
		if k.KeyID == created.KeyID || !k.CreatedAt.Before(cutoff) {
			continue
		}
		changed, err := s.keys.Deprecate(ctx, k.KeyID, start)
		if err != nil {
			return nil, s.fail(ctx, "deprecate_key", err)
		}
		if !changed {
			continue
		}
		deprecated = append(deprecated, k.KeyID)
		auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventKeyDeprecated, audit.SeverityInfo,
			"key_id", k.KeyID.String(),
			"created_at", k.CreatedAt,
		)
	}
	if s.metrics != nil {
		s.metrics.AddKeysDeprecated(len(deprecated))
	}
	span.SetAttributes(
		attribute.String("key.new_id", created.KeyID.String()),
		attribute.Int("key.deprecated", len(deprecated)),
	)

	report = &models.RotationReport{
		NewKeyID:   created.KeyID,
		Deprecated: deprecated,
		Cutoff:     cutoff,
		StartedAt:  start,
		FinishedAt: requestcontext.Now(ctx),
	}
	s.appendReport(ctx, report)
	return report, nil
}

// EnsureActiveKey bootstraps the first key when no active key exists. It
// reports whether a key was created.
func (s *Service) EnsureActiveKey(ctx context.Context) (*models.EncryptionKey, bool, error) {
	active, err := s.keys.ListActive(ctx)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active keys")
	}
	if len(active) > 0 {
		return active[0], false, nil
	}
	k, err := s.createKey(ctx, requestcontext.Now(ctx))
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bootstrap encryption key")
	}
	return k, true, nil
}

// ActiveKey returns the newest active key.
func (s *Service) ActiveKey(ctx context.Context) (*models.EncryptionKey, error) {
	active, err := s.keys.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active keys")
	}
	if len(active) == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "no active encryption key")
	}
	return active[0], nil
}

// KeyByID returns a key regardless of status.
func (s *Service) KeyByID(ctx context.Context, keyID id.KeyID) (*models.EncryptionKey, error) {
	k, err := s.keys.FindByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "encryption key not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load encryption key")
	}
	return k, nil
}

func (s *Service) createKey(ctx context.Context, now time.Time) (*models.EncryptionKey, error) {
	k, err := models.NewEncryptionKey(now)
	if err != nil {
		return nil, err
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if err := s.keys.Create(ctx, k); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementKeysCreated()
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventKeyCreated, audit.SeverityInfo,
		"key_id", k.KeyID.String(),
		"algorithm", k.Algorithm,
	)
	return k, nil
}

func (s *Service) fail(ctx context.Context, errType string, err error) error {
	if s.metrics != nil {
		s.metrics.IncrementRotationFailures()
	}
	s.failures.Record(ctx, jobmodels.JobRotateEncryptionKeys, errType, err)
	return dErrors.Wrap(err, dErrors.CodeInternal, "key rotation failed")
}

func (s *Service) appendReport(ctx context.Context, r *models.RotationReport) {
	if s.reports == nil {
		return
	}
	err := s.reports.AppendReport(ctx, &jobmodels.CleanupReport{
		ID:             uuid.NewString(),
		Job:            jobmodels.JobRotateEncryptionKeys,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		KeysCreated:    1,
		KeysDeprecated: len(r.Deprecated),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to append rotation report", "error", err)
	}
}
