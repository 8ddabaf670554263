package models

import (
	"time"

	dErrors "chatguard/pkg/domain-errors"
)

// Action is a rate-limited marketplace action.
type Action string

const (
	ActionMessage     Action = "message"
	ActionMediaUpload Action = "media_upload"
	ActionQuotation   Action = "quotation"
	ActionVideoCall   Action = "video_call"
)

// ParseAction validates a raw action name.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "action is required")
	}
	a := Action(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown rate limit action: "+s)
	}
	return a, nil
}

func (a Action) IsValid() bool {
	switch a {
	case ActionMessage, ActionMediaUpload, ActionQuotation, ActionVideoCall:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ErrorPolicy decides the outcome of a check when the record store fails.
type ErrorPolicy string

const (
	// FailOpen allows the action. Availability wins over strictness.
	FailOpen ErrorPolicy = "allow"
	// FailClosed denies the action.
	FailClosed ErrorPolicy = "deny"
)

// ParseErrorPolicy accepts "allow" or "deny".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	p := ErrorPolicy(s)
	if p != FailOpen && p != FailClosed {
		return "", dErrors.New(dErrors.CodeValidation, "error policy must be allow or deny")
	}
	return p, nil
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
	// Degraded is set when the decision came from the error policy or the
	// in-memory fallback instead of the primary store.
	Degraded bool `json:"degraded,omitempty"`
}

// Record is one allowed action. Records are immutable and purged once their
// window has passed.
type Record struct {
	UserID    string    `json:"user_id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// CompactionResult summarises one compaction run.
type CompactionResult struct {
	KeysScanned   int    `json:"keys_scanned"`
	RecordsPurged int64  `json:"records_purged"`
	Pages         int    `json:"pages"`
	Cursor        uint64 `json:"cursor"`
	Complete      bool   `json:"complete"`
}
