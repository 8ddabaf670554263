package record

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"chatguard/internal/ratelimit/models"
)

type InMemoryRecordStoreSuite struct {
	suite.Suite
	store *InMemoryRecordStore
	ctx   context.Context
	t0    time.Time
}

func TestInMemoryRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryRecordStoreSuite))
}

func (s *InMemoryRecordStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryRecordStoreSuite) seed(key models.RecordKey, offsets ...time.Duration) {
	for _, off := range offsets {
		s.Require().NoError(s.store.Append(s.ctx, key, s.t0.Add(off), time.Minute))
	}
}

func (s *InMemoryRecordStoreSuite) TestWindow() {
	key := models.NewRecordKey("u1", models.ActionMessage)
	s.seed(key, 30*time.Second, 0, 90*time.Second)

	s.Run("counts records at or after since", func() {
		count, oldest, err := s.store.Window(s.ctx, key, s.t0.Add(30*time.Second))
		s.Require().NoError(err)
		s.Equal(2, count)
		s.Equal(s.t0.Add(30*time.Second), oldest)
	})

	s.Run("empty window returns zero time", func() {
		count, oldest, err := s.store.Window(s.ctx, key, s.t0.Add(time.Hour))
		s.Require().NoError(err)
		s.Zero(count)
		s.True(oldest.IsZero())
	})
}

func (s *InMemoryRecordStoreSuite) TestPurge() {
	key := models.NewRecordKey("u1", models.ActionMessage)

	s.Run("purge expired respects the batch limit", func() {
		s.seed(key, 0, time.Second, 2*time.Second, 3*time.Second)
		n, err := s.store.PurgeExpired(s.ctx, key, s.t0.Add(3*time.Second), 2)
		s.Require().NoError(err)
		s.EqualValues(2, n)
		s.Equal(2, s.store.Len(key))
	})

	s.Run("purge before removes everything older and drops empty keys", func() {
		n, err := s.store.PurgeBefore(s.ctx, key.String(), s.t0.Add(time.Hour))
		s.Require().NoError(err)
		s.EqualValues(2, n)
		keys, _, err := s.store.ScanKeys(s.ctx, 0, 10)
		s.Require().NoError(err)
		s.Empty(keys)
	})
}

func (s *InMemoryRecordStoreSuite) TestScanKeys() {
	for _, u := range []string{"c", "a", "b", "d", "e"} {
		s.seed(models.NewRecordKey(u, models.ActionQuotation), 0)
	}

	var seen []string
	var cursor uint64
	pages := 0
	for {
		keys, next, err := s.store.ScanKeys(s.ctx, cursor, 2)
		s.Require().NoError(err)
		seen = append(seen, keys...)
		pages++
		if next == 0 {
			break
		}
		cursor = next
	}
	s.Equal(3, pages)
	s.Equal([]string{
		"ratelimit:quotation:a",
		"ratelimit:quotation:b",
		"ratelimit:quotation:c",
		"ratelimit:quotation:d",
		"ratelimit:quotation:e",
	}, seen)
}

func (s *InMemoryRecordStoreSuite) TestConcurrentAppend() {
	key := models.NewRecordKey("u1", models.ActionMessage)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Append(s.ctx, key, s.t0.Add(time.Duration(i)*time.Millisecond), time.Minute)
		}()
	}
	wg.Wait()
	count, oldest, err := s.store.Window(s.ctx, key, s.t0)
	s.Require().NoError(err)
	s.Equal(50, count)
	s.Equal(s.t0, oldest)
}
