package models

import (
	dErrors "chatguard/pkg/domain-errors"
)

// Action is what the caller wants to do inside a chat.
type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionModerate Action = "moderate"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionModerate:
		return true
	}
	return false
}

// Deny reasons returned to callers.
const (
	ReasonChatNotFound    = "Chat not found"
	ReasonNotParticipant  = "Not a participant"
	ReasonSuspended       = "User suspended"
	ReasonBlockedUntil    = "Temporarily blocked until "
	ReasonRestricted      = "Messaging restricted"
	ReasonNotModerator    = "Not a moderator"
	ReasonValidationError = "Error validating permissions"
)

// Decision is the result of a permission check. A deny is a value, not an
// error.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func Allow() *Decision {
	return &Decision{Allowed: true}
}

func Deny(reason string) *Decision {
	return &Decision{Allowed: false, Reason: reason}
}

type CheckRequest struct {
	Action Action `json:"action"`
}

func (r *CheckRequest) Validate() error {
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	if !r.Action.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown action: "+string(r.Action))
	}
	return nil
}
