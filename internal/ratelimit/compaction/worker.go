// Package compaction removes expired rate limit records that the hot path
// never revisits, such as keys of users who stopped sending.
package compaction

import (
	"context"
	"errors"
	"log/slog"

	"chatguard/internal/ratelimit/config"
	"chatguard/internal/ratelimit/metrics"
	"chatguard/internal/ratelimit/models"
	"chatguard/internal/ratelimit/ports"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/requestcontext"
)

const JobName = "compact-rate-limits"

type Worker struct {
	store          ports.CompactionStore
	config         *config.Config
	metrics        *metrics.Metrics
	auditPublisher auditlog.Publisher
	logger         *slog.Logger
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(w *Worker) {
		if cfg != nil {
			w.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithAuditPublisher(publisher auditlog.Publisher) Option {
	return func(w *Worker) {
		w.auditPublisher = publisher
	}
}

func New(store ports.CompactionStore, opts ...Option) (*Worker, error) {
	if store == nil {
		return nil, errors.New("compaction store is required")
	}
	w := &Worker{
		store:  store,
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run walks the key space once, starting from cursor 0. It stops when the
// cursor wraps or after Compaction.MaxPages pages, whichever comes first.
func (w *Worker) Run(ctx context.Context) (*models.CompactionResult, error) {
	now := requestcontext.Now(ctx)
	pageSize := w.config.Compaction.PageSize
	maxPages := w.config.Compaction.MaxPages

	result := &models.CompactionResult{}
	var cursor uint64
	for maxPages <= 0 || result.Pages < maxPages {
		if err := ctx.Err(); err != nil {
			result.Cursor = cursor
			return result, dErrors.Wrap(err, dErrors.CodeTimeout, "compaction cancelled")
		}

		keys, next, err := w.store.ScanKeys(ctx, cursor, pageSize)
		if err != nil {
			result.Cursor = cursor
			return result, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan rate limit keys")
		}
		result.Pages++

		for _, raw := range keys {
			key, ok := models.ParseRecordKey(raw)
			if !ok {
				continue
			}
			limit, ok := w.config.LimitFor(key.Action)
			if !ok {
				continue
			}
			purged, err := w.store.PurgeBefore(ctx, raw, now.Add(-limit.Window))
			if err != nil {
				result.Cursor = next
				return result, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compact rate limit key")
			}
			result.KeysScanned++
			result.RecordsPurged += purged
		}

		cursor = next
		if cursor == 0 {
			result.Complete = true
			break
		}
	}
	result.Cursor = cursor

	if w.metrics != nil {
		w.metrics.AddCompaction(result.KeysScanned, result.RecordsPurged)
	}
	auditlog.LogAudit(ctx, w.logger, w.auditPublisher, audit.EventRateLimitCompact, audit.SeverityInfo,
		"job", JobName,
		"keys_scanned", result.KeysScanned,
		"records_purged", result.RecordsPurged,
		"pages", result.Pages,
		"complete", result.Complete,
	)
	return result, nil
}
