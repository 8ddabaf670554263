package models

import (
	"strings"

	dErrors "chatguard/pkg/domain-errors"
)

// CheckRequest is the body for POST /v1/ratelimit/check.
type CheckRequest struct {
	Action string `json:"action"`
}

func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Action = strings.TrimSpace(r.Action)
	_, err := ParseAction(r.Action)
	return err
}
