// Package jobs holds what the scheduled jobs share: failure recording, the
// name-to-job registry used by the admin endpoints and the jobs binary.
package jobs

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"chatguard/internal/jobs/models"
	"chatguard/internal/platform/sentry"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/requestcontext"
)

// ErrorStore persists CleanupError records.
type ErrorStore interface {
	AppendError(ctx context.Context, e *models.CleanupError) error
}

// FailureRecorder is what a job calls once before it stops on an error.
type FailureRecorder struct {
	store          ErrorStore
	reporter       sentry.Reporter
	auditPublisher auditlog.Publisher
	logger         *slog.Logger
}

func NewFailureRecorder(store ErrorStore, reporter sentry.Reporter, publisher auditlog.Publisher, logger *slog.Logger) *FailureRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FailureRecorder{store: store, reporter: reporter, auditPublisher: publisher, logger: logger}
}

// Record appends a CleanupError, reports err to Sentry and writes an audit
// line. It runs detached from ctx cancellation so a timed-out job still
// leaves a trace.
func (f *FailureRecorder) Record(ctx context.Context, job, errType string, err error) {
	if f == nil || err == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	entry := &models.CleanupError{
		ID:        uuid.NewString(),
		Job:       job,
		Type:      errType,
		Message:   err.Error(),
		Timestamp: requestcontext.Now(ctx),
	}
	if f.store != nil {
		if serr := f.store.AppendError(ctx, entry); serr != nil {
			f.logger.ErrorContext(ctx, "failed to persist cleanup error",
				"job", job,
				"error", serr,
			)
		}
	}
	if f.reporter != nil {
		f.reporter.CaptureJobError(ctx, job, err)
	}
	auditlog.LogAudit(ctx, f.logger, f.auditPublisher, audit.EventCleanupFailed, audit.SeverityCritical,
		"job", job,
		"type", errType,
		"reason", err.Error(),
	)
}
