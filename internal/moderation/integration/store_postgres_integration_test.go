//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chatguard/internal/moderation/models"
	"chatguard/internal/moderation/store/actionlog"
	"chatguard/internal/moderation/store/status"
	"chatguard/internal/moderation/store/violation"
	"chatguard/pkg/platform/sentinel"
	"chatguard/pkg/platform/tx"
	"chatguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	statuses   *status.PostgresStore
	violations *violation.PostgresStore
	actions    *actionlog.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.statuses = status.NewPostgres(s.postgres.DB)
	s.violations = violation.NewPostgres(s.postgres.DB)
	s.actions = actionlog.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "moderation_status", "moderation_violations", "moderation_logs")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestStatusRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := s.statuses.Get(ctx, "u1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	st := models.NewActiveStatus("u1")
	st.AddRestriction(models.RestrictionNoMessaging, now)
	st.Block(now.Add(time.Hour), "spam", now)
	s.Require().NoError(s.statuses.Upsert(ctx, st))

	got, err := s.statuses.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Equal(models.StatusTemporarilyBlocked, got.Status)
	s.Equal([]models.Restriction{models.RestrictionNoMessaging}, got.Restrictions)
	s.True(now.Add(time.Hour).Equal(*got.UnblockAt))

	got.Clear("appeal", now)
	s.Require().NoError(s.statuses.Upsert(ctx, got))
	cleared, err := s.statuses.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Nil(cleared.UnblockAt)
	s.Equal(models.StatusActive, cleared.Status)
}

func (s *PostgresStoreSuite) TestStatusConstraintRejectsBrokenInvariant() {
	ctx := context.Background()
	until := time.Now()
	err := s.statuses.Upsert(ctx, &models.ModerationStatus{
		UserID: "u2", Status: models.StatusActive, UnblockAt: &until, UpdatedAt: until, Restrictions: []models.Restriction{},
	})
	s.Error(err)
}

func (s *PostgresStoreSuite) TestViolationAggregates() {
	ctx := context.Background()
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.violations.Append(ctx, &models.Violation{
			ID: uuid.New(), UserID: "u1", Type: models.ViolationSpam, Severity: models.SeverityLow, CreatedAt: jan.Add(time.Duration(i) * time.Hour),
		}))
	}
	for i := 0; i < 2; i++ {
		s.Require().NoError(s.violations.Append(ctx, &models.Violation{
			ID: uuid.New(), UserID: "u2", ChatID: "c1", Type: models.ViolationHarassment, Severity: models.SeverityHigh, CreatedAt: jan.AddDate(0, 0, i),
		}))
	}

	counts, err := s.violations.CountByType(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(map[models.ViolationType]int{models.ViolationSpam: 5, models.ViolationHarassment: 2}, counts)

	n, err := s.violations.CountSince(ctx, "u1", jan.Add(3*time.Hour))
	s.Require().NoError(err)
	s.Equal(2, n)

	recent, err := s.violations.ListRecent(ctx, jan, jan.AddDate(0, 1, 0), 3)
	s.Require().NoError(err)
	s.Len(recent, 3)
	s.Equal(models.ViolationHarassment, recent[0].Type)
}

func (s *PostgresStoreSuite) TestActionLogJoinsTransaction() {
	ctx := context.Background()
	now := time.Now().UTC()

	err := tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		st := models.NewActiveStatus("u3")
		st.Suspend("fraud", now)
		if err := s.statuses.Upsert(ctx, st); err != nil {
			return err
		}
		if err := s.actions.Append(ctx, &models.ModerationAction{
			ID: uuid.New(), UserID: "u3", ActorID: "mod", Action: models.ActionSuspend, CreatedAt: now,
		}); err != nil {
			return err
		}
		return sentinel.ErrConflict
	})
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.statuses.Get(ctx, "u3")
	s.ErrorIs(err, sentinel.ErrNotFound)
	logged, err := s.actions.ListByUser(ctx, "u3")
	s.Require().NoError(err)
	s.Empty(logged)
}
