// Package ports defines the record store interfaces shared by the ratelimit
// service and the compaction worker.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"time"

	"chatguard/internal/ratelimit/models"
)

// RecordStore holds one time-ordered record set per (user, action) key.
type RecordStore interface {
	// Window counts records with timestamp >= since and returns the oldest
	// of them (zero time when count is 0).
	Window(ctx context.Context, key models.RecordKey, since time.Time) (int, time.Time, error)

	// Append stores a record at the given time. ttl is the action window,
	// used by stores that can expire idle keys.
	Append(ctx context.Context, key models.RecordKey, at time.Time, ttl time.Duration) error

	// PurgeExpired removes at most limit records older than before.
	PurgeExpired(ctx context.Context, key models.RecordKey, before time.Time, limit int) (int64, error)
}

// CompactionStore walks record keys with a resumable cursor. A returned
// cursor of 0 means the walk is complete.
type CompactionStore interface {
	ScanKeys(ctx context.Context, cursor uint64, count int64) ([]string, uint64, error)
	PurgeBefore(ctx context.Context, key string, before time.Time) (int64, error)
}

// ReportingStore answers aggregate queries over stored records.
type ReportingStore interface {
	CountByAction(ctx context.Context, from, to time.Time) (map[models.Action]int, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.Record, error)
}

// Store is everything the Redis and memory stores implement.
type Store interface {
	RecordStore
	CompactionStore
	ReportingStore
}
