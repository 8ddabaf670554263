package models

import (
	"strings"
	"time"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

// Pattern names why a message was considered sensitive.
type Pattern string

const (
	PatternPhone Pattern = "phone"
	PatternEmail Pattern = "email"
	PatternHint  Pattern = "hint"
)

// Hints carry the client's own judgement about the message.
type Hints struct {
	ContainsSensitiveInfo bool `json:"contains_sensitive_info"`
}

// EncryptedPayload is the sealed form of a sensitive message. Nonce and
// Ciphertext are standard base64. KeyID is bound as additional data.
type EncryptedPayload struct {
	KeyID      id.KeyID `json:"key_id" bson:"keyId"`
	Algorithm  string   `json:"algorithm" bson:"algorithm"`
	Nonce      string   `json:"nonce" bson:"nonce"`
	Ciphertext string   `json:"ciphertext" bson:"ciphertext"`
}

func (p *EncryptedPayload) Validate() error {
	if p == nil {
		return dErrors.New(dErrors.CodeValidation, "payload is required")
	}
	if p.KeyID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "payload key id is required")
	}
	if p.Nonce == "" || p.Ciphertext == "" {
		return dErrors.New(dErrors.CodeValidation, "payload nonce and ciphertext are required")
	}
	return nil
}

type Metadata struct {
	OriginalLength int       `json:"original_length"`
	Patterns       []Pattern `json:"patterns"`
	KeyID          id.KeyID  `json:"key_id"`
	ClassifiedAt   time.Time `json:"classified_at"`
}

// Result is the outcome of Classify. Exactly one of Content and
// EncryptedContent is set.
type Result struct {
	Sensitive        bool              `json:"sensitive"`
	Encrypted        bool              `json:"encrypted"`
	Content          string            `json:"content,omitempty"`
	EncryptedContent *EncryptedPayload `json:"encrypted_content,omitempty"`
	Metadata         *Metadata         `json:"metadata,omitempty"`
}

// MaxTextLength bounds a single chat message.
const MaxTextLength = 10000

type ClassifyRequest struct {
	Text  string `json:"text"`
	Hints Hints  `json:"hints"`
}

func (r *ClassifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if len(r.Text) > MaxTextLength {
		return dErrors.New(dErrors.CodeValidation, "text is too long")
	}
	return nil
}
