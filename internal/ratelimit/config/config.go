package config

import (
	"time"

	"chatguard/internal/ratelimit/models"
)

// Limit is the sliding window for one action.
type Limit struct {
	Window time.Duration
	Max    int
}

// CompactionConfig bounds one background compaction run.
type CompactionConfig struct {
	PageSize int64
	MaxPages int
}

type Config struct {
	Limits            map[models.Action]Limit
	OnError           models.ErrorPolicy
	HotPathPurgeBatch int
	// FallbackEnabled routes checks to an in-memory store while the primary
	// store's circuit breaker is open.
	FallbackEnabled  bool
	BreakerThreshold int
	Compaction       CompactionConfig
}

// DefaultConfig returns the fixed per-action table.
func DefaultConfig() *Config {
	return &Config{
		Limits: map[models.Action]Limit{
			models.ActionMessage:     {Window: time.Minute, Max: 10},
			models.ActionMediaUpload: {Window: time.Hour, Max: 20},
			models.ActionQuotation:   {Window: 24 * time.Hour, Max: 10},
			models.ActionVideoCall:   {Window: 24 * time.Hour, Max: 5},
		},
		OnError:           models.FailOpen,
		HotPathPurgeBatch: 10,
		FallbackEnabled:   true,
		BreakerThreshold:  5,
		Compaction: CompactionConfig{
			PageSize: 100,
			MaxPages: 1000,
		},
	}
}

// LimitFor returns the limit for action.
func (c *Config) LimitFor(action models.Action) (Limit, bool) {
	l, ok := c.Limits[action]
	return l, ok
}
