package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "chatguard/pkg/domain-errors"
)

func TestNewEncryptionKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewEncryptionKey(now)
	require.NoError(t, err)
	b, err := NewEncryptionKey(now)
	require.NoError(t, err)

	require.NoError(t, a.Validate())
	assert.Len(t, a.Material, MaterialSize)
	assert.True(t, a.IsActive())
	assert.NotEqual(t, a.KeyID, b.KeyID)
	assert.NotEqual(t, a.Material, b.Material)
}

func TestDeprecate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k, err := NewEncryptionKey(now)
	require.NoError(t, err)

	assert.True(t, k.Deprecate(now.Add(time.Hour)))
	require.NoError(t, k.Validate())
	assert.False(t, k.Deprecate(now.Add(2*time.Hour)))
	assert.Equal(t, now.Add(time.Hour), *k.DeprecatedAt)
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k, err := NewEncryptionKey(now)
	require.NoError(t, err)

	short := k.Clone()
	short.Material = short.Material[:16]
	assert.True(t, dErrors.HasCode(short.Validate(), dErrors.CodeInvariantViolation))

	inconsistent := k.Clone()
	inconsistent.Status = KeyStatusDeprecated
	assert.Error(t, inconsistent.Validate())
}
