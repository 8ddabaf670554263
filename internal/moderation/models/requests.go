package models

import (
	"regexp"
	"strings"
	"time"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

const maxReasonLength = 500

var restrictionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// ParseRestriction validates a restriction tag.
func ParseRestriction(raw string) (Restriction, error) {
	tag := strings.TrimSpace(raw)
	if !restrictionPattern.MatchString(tag) {
		return "", dErrors.New(dErrors.CodeValidation, "restriction must be a lowercase tag such as no_messaging")
	}
	return Restriction(tag), nil
}

func validateReason(reason string) error {
	if len(reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason is too long")
	}
	return nil
}

type BlockRequest struct {
	Until  time.Time `json:"until"`
	Reason string    `json:"reason"`
}

func (r *BlockRequest) Validate() error {
	if r.Until.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "until is required")
	}
	return validateReason(r.Reason)
}

// ReasonRequest is the body for suspend and clear.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	return validateReason(r.Reason)
}

type RestrictionRequest struct {
	Tag string `json:"tag"`
}

func (r *RestrictionRequest) Validate() error {
	_, err := ParseRestriction(r.Tag)
	return err
}

type RecordViolationRequest struct {
	UserID   string `json:"user_id"`
	ChatID   string `json:"chat_id,omitempty"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}

func (r *RecordViolationRequest) Validate() error {
	if _, err := id.ParseUserID(r.UserID); err != nil {
		return err
	}
	if r.ChatID != "" {
		if _, err := id.ParseChatID(r.ChatID); err != nil {
			return err
		}
	}
	if !ViolationType(r.Type).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown violation type")
	}
	if r.Severity != "" && !Severity(r.Severity).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "severity must be low, medium or high")
	}
	if len(r.Detail) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "detail is too long")
	}
	return nil
}

// ToViolation converts a validated request. Severity defaults to medium.
func (r *RecordViolationRequest) ToViolation() *Violation {
	sev := Severity(r.Severity)
	if sev == "" {
		sev = SeverityMedium
	}
	return &Violation{
		UserID:   id.UserID(r.UserID),
		ChatID:   id.ChatID(r.ChatID),
		Type:     ViolationType(r.Type),
		Severity: sev,
		Detail:   r.Detail,
	}
}
