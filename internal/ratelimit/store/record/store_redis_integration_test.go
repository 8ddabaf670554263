//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"chatguard/internal/ratelimit/models"
	"chatguard/internal/ratelimit/store/record"
	"chatguard/pkg/testutil/containers"
)

type RedisRecordStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *record.RedisRecordStore
	t0    time.Time
}

func TestRedisRecordStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRecordStoreSuite))
}

func (s *RedisRecordStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = record.NewRedis(s.redis.Client)
}

func (s *RedisRecordStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.t0 = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *RedisRecordStoreSuite) TestWindowAndAppend() {
	ctx := context.Background()
	key := models.NewRecordKey("u1", models.ActionMessage)
	for i := range 3 {
		s.Require().NoError(s.store.Append(ctx, key, s.t0.Add(time.Duration(i)*time.Second), time.Minute))
	}

	count, oldest, err := s.store.Window(ctx, key, s.t0.Add(time.Second))
	s.Require().NoError(err)
	s.Equal(2, count)
	s.True(oldest.Equal(s.t0.Add(time.Second)))

	ttl, err := s.redis.Client.PTTL(ctx, key.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisRecordStoreSuite) TestIdenticalTimestampsAreDistinctRecords() {
	ctx := context.Background()
	key := models.NewRecordKey("u1", models.ActionVideoCall)
	for range 3 {
		s.Require().NoError(s.store.Append(ctx, key, s.t0, 24*time.Hour))
	}
	count, _, err := s.store.Window(ctx, key, s.t0)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *RedisRecordStoreSuite) TestPurgeAndScan() {
	ctx := context.Background()
	key := models.NewRecordKey("u2", models.ActionMessage)
	for i := range 5 {
		s.Require().NoError(s.store.Append(ctx, key, s.t0.Add(time.Duration(i)*time.Second), time.Minute))
	}

	n, err := s.store.PurgeExpired(ctx, key, s.t0.Add(3*time.Second), 2)
	s.Require().NoError(err)
	s.EqualValues(2, n)

	n, err = s.store.PurgeBefore(ctx, key.String(), s.t0.Add(4*time.Second))
	s.Require().NoError(err)
	s.EqualValues(1, n)

	s.Require().NoError(s.redis.Client.Set(ctx, "unrelated", "x", 0).Err())
	var keys []string
	var cursor uint64
	for {
		page, next, err := s.store.ScanKeys(ctx, cursor, 10)
		s.Require().NoError(err)
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}
	s.Equal([]string{key.String()}, keys)
}

func (s *RedisRecordStoreSuite) TestReporting() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, models.NewRecordKey("u1", models.ActionQuotation), s.t0, time.Hour))
	s.Require().NoError(s.store.Append(ctx, models.NewRecordKey("u2", models.ActionQuotation), s.t0.Add(time.Minute), time.Hour))
	s.Require().NoError(s.store.Append(ctx, models.NewRecordKey("u2", models.ActionMessage), s.t0.Add(2*time.Minute), time.Hour))

	counts, err := s.store.CountByAction(ctx, s.t0, s.t0.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(map[models.Action]int{models.ActionQuotation: 2, models.ActionMessage: 1}, counts)

	recent, err := s.store.ListRecent(ctx, s.t0, s.t0.Add(time.Hour), 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(models.ActionMessage, recent[0].Action)
	s.Equal("u2", recent[1].UserID)
}
