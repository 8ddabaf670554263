package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	chatmodels "chatguard/internal/chat/models"
	"chatguard/internal/chat/store/chat"
	"chatguard/internal/chat/store/deletionlog"
	"chatguard/internal/chat/store/message"
	"chatguard/internal/jobs"
	jobmodels "chatguard/internal/jobs/models"
	"chatguard/internal/jobs/store/joblog"
	"chatguard/internal/retention/config"
	"chatguard/internal/retention/metrics"
	"chatguard/internal/retention/service/mocks"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/requestcontext"
)

var testMetrics = metrics.New()

type captureReporter struct {
	jobs []string
}

func (r *captureReporter) CaptureJobError(_ context.Context, job string, _ error) {
	r.jobs = append(r.jobs, job)
}

type RetentionServiceSuite struct {
	suite.Suite
	now       time.Time
	ctx       context.Context
	logger    *slog.Logger
	chats     *chat.InMemoryChatStore
	messages  *message.InMemoryMessageStore
	deletions *deletionlog.InMemoryStore
	joblog    *joblog.InMemoryStore
	reporter  *captureReporter
	cfg       *config.Config
}

func TestRetentionServiceSuite(t *testing.T) {
	suite.Run(t, new(RetentionServiceSuite))
}

func (s *RetentionServiceSuite) SetupTest() {
	s.now = time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.chats = chat.NewInMemory()
	s.messages = message.NewInMemory()
	s.deletions = deletionlog.NewInMemory()
	s.joblog = joblog.NewInMemory()
	s.reporter = &captureReporter{}
	s.cfg = config.DefaultConfig()
}

func (s *RetentionServiceSuite) newService() *Service {
	svc, err := New(s.chats, s.messages, s.deletions,
		WithLogger(s.logger),
		WithConfig(s.cfg),
		WithMetrics(testMetrics),
		WithReportStore(s.joblog),
		WithFailureRecorder(jobs.NewFailureRecorder(s.joblog, s.reporter, nil, s.logger)),
	)
	s.Require().NoError(err)
	return svc
}

func (s *RetentionServiceSuite) seedChat(chatID id.ChatID, status chatmodels.ChatStatus, idleDays, messages int) {
	s.Require().NoError(s.chats.Create(s.ctx, &chatmodels.Chat{
		ID:             chatID,
		ParticipantIDs: []id.UserID{"alice", "bob"},
		Status:         status,
		UpdatedAt:      s.now.AddDate(0, 0, -idleDays),
		MessageCount:   messages,
	}))
	for i := range messages {
		s.Require().NoError(s.messages.Create(s.ctx, &chatmodels.Message{
			ID:       id.MessageID(fmt.Sprintf("%s-m%04d", chatID, i)),
			ChatID:   chatID,
			SenderID: "alice",
			Content:  fmt.Sprintf("message %d", i),
		}))
	}
}

// =============================================================================
// Cleanup run
// =============================================================================

func (s *RetentionServiceSuite) TestCleanupInactiveChats() {
	s.seedChat("closed-91d", chatmodels.ChatStatusClosed, 91, 3)
	s.seedChat("active-200d", chatmodels.ChatStatusActive, 200, 2)
	s.seedChat("closed-30d", chatmodels.ChatStatusClosed, 30, 1)

	report, err := s.newService().CleanupInactiveChats(s.ctx)
	s.Require().NoError(err)

	s.Run("only the idle closed chat is deleted", func() {
		s.Equal([]id.ChatID{"closed-91d"}, report.ChatsDeleted)
		s.Equal(3, report.MessagesDeleted)
		s.Equal(1, report.Pages)
		s.Empty(report.Incomplete)
		s.Equal(s.now.AddDate(0, 0, -90), report.Cutoff)

		deleted, err := s.chats.FindByID(s.ctx, "closed-91d")
		s.Require().NoError(err)
		s.Equal(chatmodels.ChatStatusDeleted, deleted.Status)
		s.Equal(chatmodels.DeletionReasonInactive, deleted.DeletionReason)

		for _, chatID := range []id.ChatID{"active-200d", "closed-30d"} {
			kept, err := s.chats.FindByID(s.ctx, chatID)
			s.Require().NoError(err)
			s.Nil(kept.DeletedAt, chatID)
		}
	})

	s.Run("messages of the deleted chat keep their original content", func() {
		msgs, err := s.messages.ListByChat(s.ctx, "closed-91d")
		s.Require().NoError(err)
		for _, m := range msgs {
			s.True(m.Deleted)
			s.Empty(m.Content)
			s.NotEmpty(m.OriginalContent)
		}
		kept, err := s.messages.ListByChat(s.ctx, "active-200d")
		s.Require().NoError(err)
		s.False(kept[0].Deleted)
	})

	s.Run("deletion log and report are written", func() {
		logs, err := s.deletions.ListRecent(s.ctx, s.now.Add(-time.Hour), s.now.Add(time.Hour), 10)
		s.Require().NoError(err)
		s.Require().Len(logs, 1)
		s.Equal(id.ChatID("closed-91d"), logs[0].ChatID)
		s.Equal(3, logs[0].MessageCount)
		s.Equal([]id.UserID{"alice", "bob"}, logs[0].ParticipantIDs)

		reports := s.joblog.Reports()
		s.Require().Len(reports, 1)
		s.Equal(jobmodels.JobCleanupInactiveChats, reports[0].Job)
		s.Equal(1, reports[0].ChatsDeleted)
		s.Equal(3, reports[0].MessagesDeleted)
	})

	s.Run("second run finds nothing", func() {
		again, err := s.newService().CleanupInactiveChats(s.ctx)
		s.Require().NoError(err)
		s.Empty(again.ChatsDeleted)
		s.Zero(again.Pages)
	})
}

func (s *RetentionServiceSuite) TestPaging() {
	s.cfg.PageSize = 2
	s.cfg.MaxPages = 2
	for i := range 5 {
		s.seedChat(id.ChatID(fmt.Sprintf("c%d", i)), chatmodels.ChatStatusDeleted, 100+i, 0)
	}

	report, err := s.newService().CleanupInactiveChats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, report.Pages)
	s.Len(report.ChatsDeleted, 4)
	s.Equal(id.ChatID("c4"), report.ChatsDeleted[0])
}

// =============================================================================
// Message cascade
// =============================================================================

func (s *RetentionServiceSuite) TestCleanupChatMessages() {
	s.cfg.MessageBatchSize = 10
	s.seedChat("big", chatmodels.ChatStatusClosed, 100, 25)

	s.Run("pages through every message", func() {
		res, err := s.newService().CleanupChatMessages(s.ctx, "big")
		s.Require().NoError(err)
		s.Equal(25, res.Processed)
		s.True(res.Complete)
		s.Equal(id.MessageID("big-m0024"), res.Cursor)
	})

	s.Run("iteration cap leaves the cascade incomplete", func() {
		s.seedChat("huge", chatmodels.ChatStatusClosed, 100, 30)
		s.cfg.MaxMessageIterations = 2
		res, err := s.newService().CleanupChatMessages(s.ctx, "huge")
		s.Require().NoError(err)
		s.Equal(20, res.Processed)
		s.False(res.Complete)
		s.Equal(id.MessageID("huge-m0019"), res.Cursor)
	})
}

func (s *RetentionServiceSuite) TestUnfinishedCascadeResumesOnNextRun() {
	s.cfg.MaxMessageIterations = 1
	s.seedChat("closed-big", chatmodels.ChatStatusClosed, 91, 150)

	first, err := s.newService().CleanupInactiveChats(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.ChatID{"closed-big"}, first.ChatsDeleted)
	s.Equal(100, first.MessagesDeleted)
	s.Equal([]id.ChatID{"closed-big"}, first.Incomplete)

	s.Run("the cursor is saved on the chat", func() {
		c, err := s.chats.FindByID(s.ctx, "closed-big")
		s.Require().NoError(err)
		s.True(c.MessagesPending)
		s.Equal(id.MessageID("closed-big-m0099"), c.CleanupCursor)
	})

	second, err := s.newService().CleanupInactiveChats(s.ctx)
	s.Require().NoError(err)

	s.Run("the next run finishes the remaining messages", func() {
		s.Empty(second.ChatsDeleted)
		s.Equal([]id.ChatID{"closed-big"}, second.Resumed)
		s.Equal(50, second.MessagesDeleted)
		s.Empty(second.Incomplete)

		msgs, err := s.messages.ListByChat(s.ctx, "closed-big")
		s.Require().NoError(err)
		live := 0
		for _, m := range msgs {
			if !m.Deleted {
				live++
			}
		}
		s.Zero(live)
	})

	s.Run("a completed cascade is not resumed again", func() {
		c, err := s.chats.FindByID(s.ctx, "closed-big")
		s.Require().NoError(err)
		s.False(c.MessagesPending)
		s.Empty(c.CleanupCursor)

		third, err := s.newService().CleanupInactiveChats(s.ctx)
		s.Require().NoError(err)
		s.Empty(third.Resumed)
		s.Zero(third.MessagesDeleted)
	})
}

// =============================================================================
// Failures
// =============================================================================

func (s *RetentionServiceSuite) TestFailures() {
	ctrl := gomock.NewController(s.T())
	chats := mocks.NewMockChatStore(ctrl)
	messages := mocks.NewMockMessageStore(ctrl)
	deletions := mocks.NewMockDeletionLogStore(ctrl)
	svc, err := New(chats, messages, deletions,
		WithLogger(s.logger),
		WithReportStore(s.joblog),
		WithFailureRecorder(jobs.NewFailureRecorder(s.joblog, s.reporter, nil, s.logger)),
	)
	s.Require().NoError(err)

	candidate := &chatmodels.Chat{ID: "c1", ParticipantIDs: []id.UserID{"a", "b"}, Status: chatmodels.ChatStatusClosed}

	s.Run("pending cascade query failure stops the run", func() {
		chats.EXPECT().FindPendingCascades(gomock.Any(), 50).Return(nil, errors.New("no primary"))

		_, err := svc.CleanupInactiveChats(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		errs := s.joblog.Errors()
		s.Require().NotEmpty(errs)
		s.Equal("find_pending_cascades", errs[len(errs)-1].Type)
	})

	s.Run("query failure is recorded and stops the run", func() {
		chats.EXPECT().FindPendingCascades(gomock.Any(), 50).Return(nil, nil)
		chats.EXPECT().FindCleanupCandidates(gomock.Any(), gomock.Any(), 50).Return(nil, errors.New("no primary"))

		_, err := svc.CleanupInactiveChats(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		errs := s.joblog.Errors()
		s.Require().NotEmpty(errs)
		s.Equal("find_candidates", errs[len(errs)-1].Type)
		s.Equal(jobmodels.JobCleanupInactiveChats, errs[len(errs)-1].Job)
		s.Equal([]string{jobmodels.JobCleanupInactiveChats, jobmodels.JobCleanupInactiveChats}, s.reporter.jobs)
	})

	s.Run("deletion log failure happens before any chat is touched", func() {
		chats.EXPECT().FindPendingCascades(gomock.Any(), gomock.Any()).Return(nil, nil)
		chats.EXPECT().FindCleanupCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return([]*chatmodels.Chat{candidate}, nil)
		deletions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := svc.CleanupInactiveChats(s.ctx)
		s.Error(err)
		errs := s.joblog.Errors()
		s.Equal("append_deletion_log", errs[len(errs)-1].Type)
	})

	s.Run("transaction failure", func() {
		chats.EXPECT().FindPendingCascades(gomock.Any(), gomock.Any()).Return(nil, nil)
		chats.EXPECT().FindCleanupCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return([]*chatmodels.Chat{candidate}, nil)
		deletions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		chats.EXPECT().SoftDeletePage(gomock.Any(), []id.ChatID{"c1"}, gomock.Any(), s.now, chatmodels.DeletionReasonInactive).
			Return(nil, errors.New("transaction aborted"))

		_, err := svc.CleanupInactiveChats(s.ctx)
		s.Error(err)
		errs := s.joblog.Errors()
		s.Equal("soft_delete_page", errs[len(errs)-1].Type)
	})

	s.Run("cascade failure is logged and the run completes", func() {
		chats.EXPECT().FindPendingCascades(gomock.Any(), gomock.Any()).Return(nil, nil)
		chats.EXPECT().FindCleanupCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return([]*chatmodels.Chat{candidate}, nil)
		deletions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		chats.EXPECT().SoftDeletePage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]id.ChatID{"c1"}, nil)
		messages.EXPECT().SoftDeleteBatch(gomock.Any(), id.ChatID("c1"), id.MessageID(""), 100, s.now).
			Return(0, id.MessageID(""), errors.New("timeout"))
		chats.EXPECT().SaveCascadeProgress(gomock.Any(), id.ChatID("c1"), id.MessageID(""), false).Return(nil)

		report, err := svc.CleanupInactiveChats(s.ctx)
		s.Require().NoError(err)
		s.Equal([]id.ChatID{"c1"}, report.ChatsDeleted)
		s.Equal([]id.ChatID{"c1"}, report.Incomplete)
	})

	s.Run("progress save failure keeps the chat incomplete", func() {
		pending := &chatmodels.Chat{ID: "c2", ParticipantIDs: []id.UserID{"a", "b"}, CleanupCursor: "c2-m0009"}
		chats.EXPECT().FindPendingCascades(gomock.Any(), gomock.Any()).Return([]*chatmodels.Chat{pending}, nil)
		messages.EXPECT().SoftDeleteBatch(gomock.Any(), id.ChatID("c2"), id.MessageID("c2-m0009"), 100, s.now).
			Return(3, id.MessageID("c2-m0012"), nil)
		chats.EXPECT().SaveCascadeProgress(gomock.Any(), id.ChatID("c2"), id.MessageID("c2-m0012"), true).
			Return(errors.New("write conflict"))
		chats.EXPECT().FindCleanupCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		report, err := svc.CleanupInactiveChats(s.ctx)
		s.Require().NoError(err)
		s.Equal([]id.ChatID{"c2"}, report.Resumed)
		s.Equal([]id.ChatID{"c2"}, report.Incomplete)
		s.Equal(3, report.MessagesDeleted)
	})
}
