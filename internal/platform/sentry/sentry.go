package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"chatguard/internal/platform/config"
)

// Init configures the global Sentry hub. An empty DSN leaves Sentry disabled
// and every capture becomes a no-op.
func Init(cfg config.SentryConfig) error {
	if cfg.DSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    false,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// Reporter captures job failures.
type Reporter interface {
	CaptureJobError(ctx context.Context, job string, err error)
}

// HubReporter reports through the current Sentry hub.
type HubReporter struct{}

// CaptureJobError tags the event with the job name.
func (HubReporter) CaptureJobError(ctx context.Context, job string, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("job", job)
		hub.CaptureException(err)
	})
}
