package record

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chatguard/internal/ratelimit/models"
)

// RedisRecordStore keeps one sorted set per record key, scored by the record
// timestamp in microseconds.
type RedisRecordStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisRecordStore {
	return &RedisRecordStore{client: client}
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixMicro(), 10)
}

func fromScore(s float64) time.Time {
	return time.UnixMicro(int64(s)).UTC()
}

func (s *RedisRecordStore) Window(ctx context.Context, key models.RecordKey, since time.Time) (int, time.Time, error) {
	k := key.String()
	var (
		countCmd  *redis.IntCmd
		oldestCmd *redis.ZSliceCmd
	)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		countCmd = p.ZCount(ctx, k, score(since), "+inf")
		oldestCmd = p.ZRangeByScoreWithScores(ctx, k, &redis.ZRangeBy{
			Min: score(since), Max: "+inf", Offset: 0, Count: 1,
		})
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, time.Time{}, fmt.Errorf("read rate limit window: %w", err)
	}
	count := int(countCmd.Val())
	oldest := oldestCmd.Val()
	if count == 0 || len(oldest) == 0 {
		return 0, time.Time{}, nil
	}
	return count, fromScore(oldest[0].Score), nil
}

// Append adds a record and refreshes the key TTL to the action window, so
// idle keys expire on their own.
func (s *RedisRecordStore) Append(ctx context.Context, key models.RecordKey, at time.Time, ttl time.Duration) error {
	k := key.String()
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, k, redis.Z{Score: float64(at.UnixMicro()), Member: uuid.NewString()})
		if ttl > 0 {
			p.PExpire(ctx, k, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append rate limit record: %w", err)
	}
	return nil
}

func (s *RedisRecordStore) PurgeExpired(ctx context.Context, key models.RecordKey, before time.Time, limit int) (int64, error) {
	k := key.String()
	members, err := s.client.ZRangeByScore(ctx, k, &redis.ZRangeBy{
		Min: "-inf", Max: "(" + score(before), Offset: 0, Count: int64(limit),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list expired rate limit records: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	n, err := s.client.ZRem(ctx, k, args...).Result()
	if err != nil {
		return 0, fmt.Errorf("purge expired rate limit records: %w", err)
	}
	return n, nil
}

func (s *RedisRecordStore) PurgeBefore(ctx context.Context, key string, before time.Time) (int64, error) {
	n, err := s.client.ZRemRangeByScore(ctx, key, "-inf", "("+score(before)).Result()
	if err != nil {
		return 0, fmt.Errorf("compact rate limit key: %w", err)
	}
	return n, nil
}

func (s *RedisRecordStore) ScanKeys(ctx context.Context, cursor uint64, count int64) ([]string, uint64, error) {
	keys, next, err := s.client.Scan(ctx, cursor, models.KeyPattern(), count).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("scan rate limit keys: %w", err)
	}
	return keys, next, nil
}

func (s *RedisRecordStore) CountByAction(ctx context.Context, from, to time.Time) (map[models.Action]int, error) {
	out := make(map[models.Action]int)
	err := s.eachKey(ctx, func(k string, key models.RecordKey) error {
		n, err := s.client.ZCount(ctx, k, score(from), score(to)).Result()
		if err != nil {
			return fmt.Errorf("count rate limit records: %w", err)
		}
		out[key.Action] += int(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisRecordStore) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.Record, error) {
	var out []*models.Record
	err := s.eachKey(ctx, func(k string, key models.RecordKey) error {
		zs, err := s.client.ZRevRangeByScoreWithScores(ctx, k, &redis.ZRangeBy{
			Min: score(from), Max: score(to), Offset: 0, Count: int64(limit),
		}).Result()
		if err != nil {
			return fmt.Errorf("list rate limit records: %w", err)
		}
		for _, z := range zs {
			out = append(out, &models.Record{UserID: key.UserID, Action: key.Action, Timestamp: fromScore(z.Score)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newestFirst(out, limit), nil
}

func (s *RedisRecordStore) eachKey(ctx context.Context, fn func(k string, key models.RecordKey) error) error {
	var cursor uint64
	for {
		keys, next, err := s.ScanKeys(ctx, cursor, 200)
		if err != nil {
			return err
		}
		for _, k := range keys {
			key, ok := models.ParseRecordKey(k)
			if !ok {
				continue
			}
			if err := fn(k, key); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
