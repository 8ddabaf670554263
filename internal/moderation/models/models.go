package models

import (
	"slices"
	"time"

	"github.com/google/uuid"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

// Status is the moderation state of a user.
type Status string

const (
	StatusActive             Status = "active"
	StatusTemporarilyBlocked Status = "temporarily_blocked"
	StatusSuspended          Status = "suspended"
)

// Restriction is a capability tag that is independent of Status.
type Restriction string

const (
	RestrictionNoMessaging Restriction = "no_messaging"
	RestrictionNoMedia     Restriction = "no_media"
)

// ActorSystem is recorded as the actor for automatic transitions.
const ActorSystem = "system"

// ModerationStatus is the single per-user moderation record.
// UnblockAt is set iff Status is StatusTemporarilyBlocked.
type ModerationStatus struct {
	UserID       id.UserID     `json:"user_id"`
	Status       Status        `json:"status"`
	Restrictions []Restriction `json:"restrictions"`
	UnblockAt    *time.Time    `json:"unblock_at,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewActiveStatus is the implicit record for users never moderated.
func NewActiveStatus(userID id.UserID) *ModerationStatus {
	return &ModerationStatus{
		UserID:       userID,
		Status:       StatusActive,
		Restrictions: []Restriction{},
	}
}

// Validate checks the record invariants before it is persisted.
func (m *ModerationStatus) Validate() error {
	if m.UserID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "moderation status requires user id")
	}
	switch m.Status {
	case StatusActive, StatusSuspended:
		if m.UnblockAt != nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "unblock_at set on non-blocked status")
		}
	case StatusTemporarilyBlocked:
		if m.UnblockAt == nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "temporarily blocked status requires unblock_at")
		}
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown moderation status")
	}
	return nil
}

// IsBlockedAt reports whether a temporary block is still in force at now.
func (m *ModerationStatus) IsBlockedAt(now time.Time) bool {
	return m.Status == StatusTemporarilyBlocked && m.UnblockAt != nil && now.Before(*m.UnblockAt)
}

// BlockExpiredAt reports whether a temporary block has run out at now.
func (m *ModerationStatus) BlockExpiredAt(now time.Time) bool {
	return m.Status == StatusTemporarilyBlocked && m.UnblockAt != nil && !now.Before(*m.UnblockAt)
}

func (m *ModerationStatus) HasRestriction(tag Restriction) bool {
	return slices.Contains(m.Restrictions, tag)
}

// Block moves the user to temporarily_blocked until the given time.
func (m *ModerationStatus) Block(until time.Time, reason string, now time.Time) {
	u := until
	m.Status = StatusTemporarilyBlocked
	m.UnblockAt = &u
	m.Reason = reason
	m.UpdatedAt = now
}

// Suspend moves the user to suspended.
func (m *ModerationStatus) Suspend(reason string, now time.Time) {
	m.Status = StatusSuspended
	m.UnblockAt = nil
	m.Reason = reason
	m.UpdatedAt = now
}

// Clear returns the user to active. Restrictions are kept.
func (m *ModerationStatus) Clear(reason string, now time.Time) {
	m.Status = StatusActive
	m.UnblockAt = nil
	m.Reason = reason
	m.UpdatedAt = now
}

// AddRestriction adds tag and reports whether the set changed.
func (m *ModerationStatus) AddRestriction(tag Restriction, now time.Time) bool {
	if m.HasRestriction(tag) {
		return false
	}
	m.Restrictions = append(m.Restrictions, tag)
	slices.Sort(m.Restrictions)
	m.UpdatedAt = now
	return true
}

// RemoveRestriction removes tag and reports whether the set changed.
func (m *ModerationStatus) RemoveRestriction(tag Restriction, now time.Time) bool {
	idx := slices.Index(m.Restrictions, tag)
	if idx < 0 {
		return false
	}
	m.Restrictions = slices.Delete(m.Restrictions, idx, idx+1)
	m.UpdatedAt = now
	return true
}

// ViolationType classifies a reported violation.
type ViolationType string

const (
	ViolationSpam                 ViolationType = "spam"
	ViolationHarassment           ViolationType = "harassment"
	ViolationContactSharing       ViolationType = "contact_sharing"
	ViolationFraud                ViolationType = "fraud"
	ViolationInappropriateContent ViolationType = "inappropriate_content"
	ViolationOther                ViolationType = "other"
)

// IsValid reports whether t is a known violation type.
func (t ViolationType) IsValid() bool {
	switch t {
	case ViolationSpam, ViolationHarassment, ViolationContactSharing,
		ViolationFraud, ViolationInappropriateContent, ViolationOther:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Violation is an append-only record of a policy breach.
type Violation struct {
	ID        uuid.UUID     `json:"id"`
	UserID    id.UserID     `json:"user_id"`
	ChatID    id.ChatID     `json:"chat_id,omitempty"`
	Type      ViolationType `json:"type"`
	Severity  Severity      `json:"severity"`
	Detail    string        `json:"detail,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ActionType names an entry in the moderation action log.
type ActionType string

const (
	ActionBlock       ActionType = "block"
	ActionSuspend     ActionType = "suspend"
	ActionClear       ActionType = "clear"
	ActionRestrict    ActionType = "restrict"
	ActionUnrestrict  ActionType = "unrestrict"
	ActionAutoUnblock ActionType = "auto_unblock"
)

// ModerationAction is an append-only log entry for a state transition.
type ModerationAction struct {
	ID        uuid.UUID  `json:"id"`
	UserID    id.UserID  `json:"user_id"`
	ActorID   string     `json:"actor_id"`
	Action    ActionType `json:"action"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// StatusChangedEvent is published after every transition so the chat
// transport can react, e.g. by disconnecting suspended users.
type StatusChangedEvent struct {
	UserID       id.UserID     `json:"user_id"`
	Status       Status        `json:"status"`
	Restrictions []Restriction `json:"restrictions"`
	UnblockAt    *time.Time    `json:"unblock_at,omitempty"`
	Action       ActionType    `json:"action"`
	Reason       string        `json:"reason,omitempty"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// ViolationOutcome is the result of recording a violation.
type ViolationOutcome struct {
	Violation *Violation        `json:"violation"`
	Status    *ModerationStatus `json:"status"`
	Escalated bool              `json:"escalated"`
}

// Clone returns a deep copy so stores never share slices with callers.
func (m *ModerationStatus) Clone() *ModerationStatus {
	out := *m
	out.Restrictions = slices.Clone(m.Restrictions)
	if out.Restrictions == nil {
		out.Restrictions = []Restriction{}
	}
	if m.UnblockAt != nil {
		u := *m.UnblockAt
		out.UnblockAt = &u
	}
	return &out
}
