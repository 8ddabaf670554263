package models

import (
	"time"

	chatmodels "chatguard/internal/chat/models"
	modmodels "chatguard/internal/moderation/models"
	rlmodels "chatguard/internal/ratelimit/models"
)

const (
	// MaxReportRange bounds end - start.
	MaxReportRange = 366 * 24 * time.Hour
	// DetailLimit caps the raw records per category.
	DetailLimit = 10
)

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Totals struct {
	Violations        int `json:"violations"`
	ModerationActions int `json:"moderation_actions"`
	RateLimitEvents   int `json:"rate_limit_events"`
	ChatDeletions     int `json:"chat_deletions"`
}

// Details holds the most recent raw records per category, newest first.
type Details struct {
	Violations        []*modmodels.Violation        `json:"violations"`
	ModerationActions []*modmodels.ModerationAction `json:"moderation_actions"`
	RateLimitEvents   []*rlmodels.Record            `json:"rate_limit_events"`
	ChatDeletions     []*chatmodels.DeletionLog     `json:"chat_deletions"`
}

// AuditReport aggregates one period. Rate-limit records only live for one
// limit window before they are purged, so RateLimitsByAction and
// RateLimitEvents cover recent activity only and are empty for past periods.
type AuditReport struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	Period             Period         `json:"period"`
	ViolationsByType   map[string]int `json:"violations_by_type"`
	ActionsByType      map[string]int `json:"actions_by_type"`
	RateLimitsByAction map[string]int `json:"rate_limits_by_action"`
	DeletionsByReason  map[string]int `json:"deletions_by_reason"`
	Totals             Totals         `json:"totals"`
	Details            *Details       `json:"details,omitempty"`
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// ComputeTotals fills Totals from the per-category maps.
func (r *AuditReport) ComputeTotals() {
	r.Totals = Totals{
		Violations:        sum(r.ViolationsByType),
		ModerationActions: sum(r.ActionsByType),
		RateLimitEvents:   sum(r.RateLimitsByAction),
		ChatDeletions:     sum(r.DeletionsByReason),
	}
}
