package models

import (
	"strings"

	rlmodels "chatguard/internal/ratelimit/models"
	sanmodels "chatguard/internal/sanitizer/models"
	dErrors "chatguard/pkg/domain-errors"
)

// Stage names the pipeline step that rejected a message.
type Stage string

const (
	StagePermission Stage = "permission"
	StageRateLimit  Stage = "rate_limit"
)

// Admission is the outcome of Admit. When Admitted is false, Stage and
// Reason say why; Message is set only when admitted.
type Admission struct {
	Admitted   bool                      `json:"admitted"`
	Stage      Stage                     `json:"stage,omitempty"`
	Reason     string                    `json:"reason,omitempty"`
	RetryAfter int                       `json:"retry_after,omitempty"`
	RateLimit  *rlmodels.RateLimitResult `json:"rate_limit,omitempty"`
	Message    *sanmodels.Result         `json:"message,omitempty"`
}

func Rejected(stage Stage, reason string) *Admission {
	return &Admission{Stage: stage, Reason: reason}
}

type AdmitRequest struct {
	Text  string          `json:"text"`
	Hints sanmodels.Hints `json:"hints"`
}

func (r *AdmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if len(r.Text) > sanmodels.MaxTextLength {
		return dErrors.New(dErrors.CodeValidation, "text is too long")
	}
	return nil
}
