package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"chatguard/internal/jobs"
	"chatguard/internal/jobs/store/joblog"
	"chatguard/internal/keys/models"
	"chatguard/internal/keys/service/mocks"
	"chatguard/internal/keys/store/key"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/requestcontext"
)

type captureReporter struct {
	jobs []string
}

func (r *captureReporter) CaptureJobError(_ context.Context, job string, _ error) {
	r.jobs = append(r.jobs, job)
}

type KeyServiceSuite struct {
	suite.Suite
	now      time.Time
	ctx      context.Context
	logger   *slog.Logger
	joblog   *joblog.InMemoryStore
	reporter *captureReporter
	failures *jobs.FailureRecorder
}

func TestKeyServiceSuite(t *testing.T) {
	suite.Run(t, new(KeyServiceSuite))
}

func (s *KeyServiceSuite) SetupTest() {
	s.now = time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.joblog = joblog.NewInMemory()
	s.reporter = &captureReporter{}
	s.failures = jobs.NewFailureRecorder(s.joblog, s.reporter, nil, s.logger)
}

func (s *KeyServiceSuite) seedKey(store *key.InMemoryKeyStore, age time.Duration, deprecated bool) *models.EncryptionKey {
	k, err := models.NewEncryptionKey(s.now.Add(-age))
	s.Require().NoError(err)
	if deprecated {
		k.Deprecate(s.now.Add(-age / 2))
	}
	s.Require().NoError(store.Create(context.Background(), k))
	return k
}

func (s *KeyServiceSuite) newService(store KeyStore) *Service {
	svc, err := New(store,
		WithLogger(s.logger),
		WithReportStore(s.joblog),
		WithFailureRecorder(s.failures),
	)
	s.Require().NoError(err)
	return svc
}

// =============================================================================
// RotateEncryptionKeys
// =============================================================================

func (s *KeyServiceSuite) TestRotate() {
	s.Run("creates a key then deprecates only old active keys", func() {
		store := key.NewInMemory()
		old := s.seedKey(store, 40*24*time.Hour, false)
		recent := s.seedKey(store, 5*24*time.Hour, false)
		retired := s.seedKey(store, 90*24*time.Hour, true)
		svc := s.newService(store)

		report, err := svc.RotateEncryptionKeys(s.ctx)
		s.Require().NoError(err)
		s.Equal([]id.KeyID{old.KeyID}, report.Deprecated)
		s.Equal(s.now.Add(-30*24*time.Hour), report.Cutoff)

		active, err := store.ListActive(context.Background())
		s.Require().NoError(err)
		s.Require().Len(active, 2)
		s.Equal(report.NewKeyID, active[0].KeyID)
		s.Equal(recent.KeyID, active[1].KeyID)

		oldNow, err := store.FindByID(context.Background(), old.KeyID)
		s.Require().NoError(err)
		s.Equal(models.KeyStatusDeprecated, oldNow.Status)
		s.Equal(s.now, *oldNow.DeprecatedAt)

		retiredNow, err := store.FindByID(context.Background(), retired.KeyID)
		s.Require().NoError(err)
		s.Equal(*retired.DeprecatedAt, *retiredNow.DeprecatedAt)

		reports := s.joblog.Reports()
		s.Require().Len(reports, 1)
		s.Equal(1, reports[0].KeysCreated)
		s.Equal(1, reports[0].KeysDeprecated)
	})

	s.Run("rotation with every key old still leaves one active key", func() {
		store := key.NewInMemory()
		s.seedKey(store, 31*24*time.Hour, false)
		s.seedKey(store, 60*24*time.Hour, false)
		svc := s.newService(store)

		report, err := svc.RotateEncryptionKeys(s.ctx)
		s.Require().NoError(err)
		s.Len(report.Deprecated, 2)

		active, err := store.ListActive(context.Background())
		s.Require().NoError(err)
		s.Require().Len(active, 1)
		s.Equal(report.NewKeyID, active[0].KeyID)
	})

	s.Run("custom rotation age", func() {
		store := key.NewInMemory()
		k := s.seedKey(store, 8*24*time.Hour, false)
		svc, err := New(store, WithLogger(s.logger), WithRotationDays(7))
		s.Require().NoError(err)

		report, err := svc.RotateEncryptionKeys(s.ctx)
		s.Require().NoError(err)
		s.Equal([]id.KeyID{k.KeyID}, report.Deprecated)
	})
}

func (s *KeyServiceSuite) TestRotate_Failures() {
	s.Run("create failure is recorded and nothing is deprecated", func() {
		ctrl := gomock.NewController(s.T())
		store := mocks.NewMockKeyStore(ctrl)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("mongo: write concern"))
		svc := s.newService(store)

		_, err := svc.RotateEncryptionKeys(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		errs := s.joblog.Errors()
		s.Require().Len(errs, 1)
		s.Equal("rotate-encryption-keys", errs[0].Job)
		s.Equal("create_key", errs[0].Type)
		s.Equal([]string{"rotate-encryption-keys"}, s.reporter.jobs)
		s.Empty(s.joblog.Reports())
	})

	s.Run("deprecate failure stops the run after the new key exists", func() {
		ctrl := gomock.NewController(s.T())
		store := mocks.NewMockKeyStore(ctrl)
		old, err := models.NewEncryptionKey(s.now.Add(-45 * 24 * time.Hour))
		s.Require().NoError(err)

		gomock.InOrder(
			store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
			store.EXPECT().ListActive(gomock.Any()).Return([]*models.EncryptionKey{old}, nil),
			store.EXPECT().Deprecate(gomock.Any(), old.KeyID, s.now).Return(false, errors.New("timeout")),
		)
		svc := s.newService(store)

		_, err = svc.RotateEncryptionKeys(s.ctx)
		s.Error(err)
		errs := s.joblog.Errors()
		s.Equal("deprecate_key", errs[len(errs)-1].Type)
	})
}

// =============================================================================
// Lookups
// =============================================================================

func (s *KeyServiceSuite) TestEnsureActiveKey() {
	store := key.NewInMemory()
	svc := s.newService(store)

	first, created, err := svc.EnsureActiveKey(s.ctx)
	s.Require().NoError(err)
	s.True(created)

	again, created, err := svc.EnsureActiveKey(s.ctx)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.KeyID, again.KeyID)
}

func (s *KeyServiceSuite) TestActiveKeyAndKeyByID() {
	store := key.NewInMemory()
	svc := s.newService(store)

	s.Run("no active key is internal", func() {
		_, err := svc.ActiveKey(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("newest active key wins", func() {
		s.seedKey(store, 10*24*time.Hour, false)
		newest := s.seedKey(store, time.Hour, false)
		k, err := svc.ActiveKey(s.ctx)
		s.Require().NoError(err)
		s.Equal(newest.KeyID, k.KeyID)
	})

	s.Run("deprecated keys are still found by id", func() {
		dep := s.seedKey(store, 100*24*time.Hour, true)
		k, err := svc.KeyByID(s.ctx, dep.KeyID)
		s.Require().NoError(err)
		s.Equal(models.KeyStatusDeprecated, k.Status)
	})

	s.Run("unknown id is not found", func() {
		_, err := svc.KeyByID(s.ctx, "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
