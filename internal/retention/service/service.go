// Package service soft-deletes chats that have been closed and idle past the
// inactivity window, then cascades the deletion to their messages.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ChatStore,MessageStore,DeletionLogStore,ReportStore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	chatmodels "chatguard/internal/chat/models"
	"chatguard/internal/jobs"
	jobmodels "chatguard/internal/jobs/models"
	"chatguard/internal/platform/tracing"
	"chatguard/internal/retention/config"
	"chatguard/internal/retention/metrics"
	"chatguard/internal/retention/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/requestcontext"
)

type ChatStore interface {
	FindCleanupCandidates(ctx context.Context, cutoff time.Time, limit int) ([]*chatmodels.Chat, error)
	SoftDeletePage(ctx context.Context, chatIDs []id.ChatID, cutoff, at time.Time, reason string) ([]id.ChatID, error)
	FindPendingCascades(ctx context.Context, limit int) ([]*chatmodels.Chat, error)
	SaveCascadeProgress(ctx context.Context, chatID id.ChatID, cursor id.MessageID, complete bool) error
}

type MessageStore interface {
	SoftDeleteBatch(ctx context.Context, chatID id.ChatID, after id.MessageID, limit int, at time.Time) (int, id.MessageID, error)
}

type DeletionLogStore interface {
	Append(ctx context.Context, log *chatmodels.DeletionLog) error
}

type ReportStore interface {
	AppendReport(ctx context.Context, r *jobmodels.CleanupReport) error
}

type Service struct {
	chats          ChatStore
	messages       MessageStore
	deletions      DeletionLogStore
	reports        ReportStore
	failures       *jobs.FailureRecorder
	config         *config.Config
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

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithReportStore(reports ReportStore) Option {
	return func(s *Service) {
		s.reports = reports
	}
}

func WithFailureRecorder(f *jobs.FailureRecorder) Option {
	return func(s *Service) {
		s.failures = f
	}
}

func New(chats ChatStore, messages MessageStore, deletions DeletionLogStore, opts ...Option) (*Service, error) {
	if chats == nil {
		return nil, errors.New("chat store is required")
	}
	if messages == nil {
		return nil, errors.New("message store is required")
	}
	if deletions == nil {
		return nil, errors.New("deletion log store is required")
	}
	svc := &Service{
		chats:     chats,
		messages:  messages,
		deletions: deletions,
		config:    config.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CleanupInactiveChats first resumes message cascades left unfinished by
// earlier runs, then deletes pages of idle closed chats until a short page
// or the page cap. Each page is logged first, then soft-deleted as a unit.
// Message cascades run after the page commits and their failures do not
// abort the run.
func (s *Service) CleanupInactiveChats(ctx context.Context) (report *models.RunReport, err error) {
	ctx, span := tracing.Start(ctx, "retention.cleanup_inactive_chats")
	defer func() { tracing.End(span, err) }()

	start := requestcontext.Now(ctx)
	report = &models.RunReport{
		Cutoff:       start.AddDate(0, 0, -s.config.InactivityDays),
		StartedAt:    start,
		ChatsDeleted: []id.ChatID{},
	}

	if err := s.resumePending(ctx, report); err != nil {
		return nil, err
	}

	for report.Pages < s.config.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(ctx, "canceled", err)
		}
		candidates, err := s.chats.FindCleanupCandidates(ctx, report.Cutoff, s.config.PageSize)
		if err != nil {
			return nil, s.fail(ctx, "find_candidates", err)
		}
		if len(candidates) == 0 {
			break
		}
		report.Pages++

		deleted, err := s.deletePage(ctx, candidates, report.Cutoff, start)
		if err != nil {
			return nil, err
		}
		report.ChatsDeleted = append(report.ChatsDeleted, deleted...)

		for _, chatID := range deleted {
			s.cascade(ctx, report, chatID, "")
		}

		if len(candidates) < s.config.PageSize {
			break
		}
	}

	report.FinishedAt = requestcontext.Now(ctx)
	span.SetAttributes(
		attribute.Int("retention.pages", report.Pages),
		attribute.Int("retention.cascades_resumed", len(report.Resumed)),
		attribute.Int("retention.chats_deleted", len(report.ChatsDeleted)),
		attribute.Int("retention.messages_deleted", report.MessagesDeleted),
	)
	if s.metrics != nil {
		s.metrics.AddDeleted(len(report.ChatsDeleted), report.MessagesDeleted)
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventChatsCleaned, audit.SeverityInfo,
		"job", jobmodels.JobCleanupInactiveChats,
		"chats_deleted", len(report.ChatsDeleted),
		"messages_deleted", report.MessagesDeleted,
		"cutoff", report.Cutoff,
	)
	s.appendReport(ctx, report)
	return report, nil
}

// resumePending finishes one page of cascades that stopped early on a
// previous run, starting each from its saved cursor.
func (s *Service) resumePending(ctx context.Context, report *models.RunReport) error {
	pending, err := s.chats.FindPendingCascades(ctx, s.config.PageSize)
	if err != nil {
		return s.fail(ctx, "find_pending_cascades", err)
	}
	for _, c := range pending {
		report.Resumed = append(report.Resumed, c.ID)
		s.cascade(ctx, report, c.ID, c.CleanupCursor)
	}
	return nil
}

// cascade runs the message cleanup for one deleted chat and saves how far it
// got. The chat stays pending until a cascade completes without error.
func (s *Service) cascade(ctx context.Context, report *models.RunReport, chatID id.ChatID, from id.MessageID) {
	res, err := s.cleanupMessagesFrom(ctx, chatID, from)
	report.MessagesDeleted += res.Processed
	complete := err == nil && res.Complete
	if serr := s.chats.SaveCascadeProgress(ctx, chatID, res.Cursor, complete); serr != nil {
		err = errors.Join(err, serr)
		complete = false
	}
	if complete {
		return
	}
	report.Incomplete = append(report.Incomplete, chatID)
	if s.metrics != nil {
		s.metrics.IncrementCascadeFailures()
	}
	s.logger.WarnContext(ctx, "message cascade incomplete",
		"chat_id", chatID.String(),
		"processed", res.Processed,
		"cursor", res.Cursor.String(),
		"error", err,
	)
}

func (s *Service) deletePage(ctx context.Context, candidates []*chatmodels.Chat, cutoff, at time.Time) ([]id.ChatID, error) {
	ids := make([]id.ChatID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
		err := s.deletions.Append(ctx, &chatmodels.DeletionLog{
			ID:             uuid.NewString(),
			ChatID:         c.ID,
			ParticipantIDs: c.ParticipantIDs,
			LastActivity:   c.UpdatedAt,
			MessageCount:   c.MessageCount,
			Reason:         chatmodels.DeletionReasonInactive,
			CreatedAt:      at,
		})
		if err != nil {
			return nil, s.fail(ctx, "append_deletion_log", err)
		}
	}
	deleted, err := s.chats.SoftDeletePage(ctx, ids, cutoff, at, chatmodels.DeletionReasonInactive)
	if err != nil {
		return nil, s.fail(ctx, "soft_delete_page", err)
	}
	return deleted, nil
}

// CleanupChatMessages soft-deletes the chat's messages in id order, one
// batch per iteration, until a short batch or the iteration cap.
func (s *Service) CleanupChatMessages(ctx context.Context, chatID id.ChatID) (*chatmodels.MessageBatchResult, error) {
	return s.cleanupMessagesFrom(ctx, chatID, "")
}

func (s *Service) cleanupMessagesFrom(ctx context.Context, chatID id.ChatID, from id.MessageID) (*chatmodels.MessageBatchResult, error) {
	res := &chatmodels.MessageBatchResult{ChatID: chatID, Cursor: from}
	at := requestcontext.Now(ctx)
	for range s.config.MaxMessageIterations {
		n, cursor, err := s.messages.SoftDeleteBatch(ctx, chatID, res.Cursor, s.config.MessageBatchSize, at)
		if err != nil {
			return res, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete message batch")
		}
		res.Processed += n
		res.Cursor = cursor
		if n < s.config.MessageBatchSize {
			res.Complete = true
			break
		}
	}
	return res, nil
}

func (s *Service) fail(ctx context.Context, errType string, err error) error {
	if s.metrics != nil {
		s.metrics.IncrementRunFailures()
	}
	s.failures.Record(ctx, jobmodels.JobCleanupInactiveChats, errType, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "chat cleanup interrupted")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "chat cleanup failed")
}

func (s *Service) appendReport(ctx context.Context, r *models.RunReport) {
	if s.reports == nil {
		return
	}
	err := s.reports.AppendReport(ctx, &jobmodels.CleanupReport{
		ID:              uuid.NewString(),
		Job:             jobmodels.JobCleanupInactiveChats,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		ChatsDeleted:    len(r.ChatsDeleted),
		MessagesDeleted: r.MessagesDeleted,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to append cleanup report", "error", err)
	}
}
