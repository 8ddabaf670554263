package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

type KeyStatus string

const (
	KeyStatusActive     KeyStatus = "active"
	KeyStatusDeprecated KeyStatus = "deprecated"
)

const (
	AlgorithmXChaCha20Poly1305 = "xchacha20poly1305"
	MaterialSize               = 32
	DefaultRotationDays        = 30
)

// EncryptionKey is a symmetric message key. Keys are never deleted; a
// deprecated key still opens old payloads.
type EncryptionKey struct {
	KeyID        id.KeyID   `json:"key_id" bson:"_id"`
	Status       KeyStatus  `json:"status" bson:"status"`
	Algorithm    string     `json:"algorithm" bson:"algorithm"`
	Material     []byte     `json:"-" bson:"material"`
	CreatedAt    time.Time  `json:"created_at" bson:"createdAt"`
	DeprecatedAt *time.Time `json:"deprecated_at,omitempty" bson:"deprecatedAt,omitempty"`
}

// NewEncryptionKey generates an active key with fresh random material.
func NewEncryptionKey(now time.Time) (*EncryptionKey, error) {
	material := make([]byte, MaterialSize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("generate key material: %w", err)
	}
	return &EncryptionKey{
		KeyID:     id.KeyID(uuid.NewString()),
		Status:    KeyStatusActive,
		Algorithm: AlgorithmXChaCha20Poly1305,
		Material:  material,
		CreatedAt: now,
	}, nil
}

func (k *EncryptionKey) Validate() error {
	if k.KeyID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "key id is required")
	}
	if k.Algorithm != AlgorithmXChaCha20Poly1305 {
		return dErrors.New(dErrors.CodeInvariantViolation, "unsupported key algorithm: "+k.Algorithm)
	}
	if len(k.Material) != MaterialSize {
		return dErrors.New(dErrors.CodeInvariantViolation, "key material must be 32 bytes")
	}
	switch k.Status {
	case KeyStatusActive:
		if k.DeprecatedAt != nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "active key cannot carry deprecatedAt")
		}
	case KeyStatusDeprecated:
		if k.DeprecatedAt == nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "deprecated key requires deprecatedAt")
		}
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown key status: "+string(k.Status))
	}
	return nil
}

func (k *EncryptionKey) IsActive() bool {
	return k.Status == KeyStatusActive
}

// Deprecate marks an active key deprecated. It reports false when the key was
// already deprecated.
func (k *EncryptionKey) Deprecate(at time.Time) bool {
	if !k.IsActive() {
		return false
	}
	k.Status = KeyStatusDeprecated
	k.DeprecatedAt = &at
	return true
}

func (k *EncryptionKey) Clone() *EncryptionKey {
	c := *k
	c.Material = append([]byte(nil), k.Material...)
	if k.DeprecatedAt != nil {
		t := *k.DeprecatedAt
		c.DeprecatedAt = &t
	}
	return &c
}

// RotationReport is returned by one rotation run.
type RotationReport struct {
	NewKeyID   id.KeyID   `json:"new_key_id"`
	Deprecated []id.KeyID `json:"deprecated"`
	Cutoff     time.Time  `json:"cutoff"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
