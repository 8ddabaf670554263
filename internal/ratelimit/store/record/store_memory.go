package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"chatguard/internal/ratelimit/models"
)

// InMemoryRecordStore keeps sorted timestamps per record key.
// It backs development, tests and the circuit-breaker fallback.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string][]time.Time
}

func NewInMemory() *InMemoryRecordStore {
	return &InMemoryRecordStore{records: make(map[string][]time.Time)}
}

// Window counts records with timestamp >= since and returns the oldest of them.
func (s *InMemoryRecordStore) Window(_ context.Context, key models.RecordKey, since time.Time) (int, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := s.records[key.String()]
	idx := firstAtOrAfter(ts, since)
	if idx == len(ts) {
		return 0, time.Time{}, nil
	}
	return len(ts) - idx, ts[idx], nil
}

// Append inserts a record, keeping timestamps sorted.
func (s *InMemoryRecordStore) Append(_ context.Context, key models.RecordKey, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key.String()
	ts := s.records[k]
	idx := sort.Search(len(ts), func(i int) bool { return ts[i].After(at) })
	ts = append(ts, time.Time{})
	copy(ts[idx+1:], ts[idx:])
	ts[idx] = at
	s.records[k] = ts
	return nil
}

// PurgeExpired removes up to limit records older than before.
func (s *InMemoryRecordStore) PurgeExpired(_ context.Context, key models.RecordKey, before time.Time, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purge(key.String(), before, limit), nil
}

// PurgeBefore removes every record older than before.
func (s *InMemoryRecordStore) PurgeBefore(_ context.Context, key string, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purge(key, before, 0), nil
}

func (s *InMemoryRecordStore) purge(key string, before time.Time, limit int) int64 {
	ts := s.records[key]
	n := firstAtOrAfter(ts, before)
	if limit > 0 && n > limit {
		n = limit
	}
	if n == 0 {
		return 0
	}
	remaining := append([]time.Time(nil), ts[n:]...)
	if len(remaining) == 0 {
		delete(s.records, key)
	} else {
		s.records[key] = remaining
	}
	return int64(n)
}

// ScanKeys walks keys in sorted order. The cursor is an offset; 0 is
// returned once the walk has wrapped.
func (s *InMemoryRecordStore) ScanKeys(_ context.Context, cursor uint64, count int64) ([]string, uint64, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)

	if count <= 0 {
		count = 10
	}
	start := int(cursor)
	if start >= len(keys) {
		return nil, 0, nil
	}
	end := min(start+int(count), len(keys))
	next := uint64(end)
	if end == len(keys) {
		next = 0
	}
	return keys[start:end], next, nil
}

func (s *InMemoryRecordStore) CountByAction(_ context.Context, from, to time.Time) (map[models.Action]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.Action]int)
	for k, ts := range s.records {
		key, ok := models.ParseRecordKey(k)
		if !ok {
			continue
		}
		for _, t := range ts {
			if !t.Before(from) && !t.After(to) {
				out[key.Action]++
			}
		}
	}
	return out, nil
}

func (s *InMemoryRecordStore) ListRecent(_ context.Context, from, to time.Time, limit int) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for k, ts := range s.records {
		key, ok := models.ParseRecordKey(k)
		if !ok {
			continue
		}
		for _, t := range ts {
			if !t.Before(from) && !t.After(to) {
				out = append(out, &models.Record{UserID: key.UserID, Action: key.Action, Timestamp: t})
			}
		}
	}
	return newestFirst(out, limit), nil
}

// Len returns the number of stored records for key.
func (s *InMemoryRecordStore) Len(key models.RecordKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[key.String()])
}

func firstAtOrAfter(ts []time.Time, since time.Time) int {
	return sort.Search(len(ts), func(i int) bool { return !ts[i].Before(since) })
}

func newestFirst(records []*models.Record, limit int) []*models.Record {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp.After(records[j].Timestamp) })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
