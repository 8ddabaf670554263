package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "chatguard/pkg/domain-errors"
)

func TestRecordKey(t *testing.T) {
	key := NewRecordKey("tenant:user", ActionMessage)
	assert.Equal(t, "ratelimit:message:tenant_user", key.String())

	parsed, ok := ParseRecordKey(key.String())
	require.True(t, ok)
	assert.Equal(t, key, parsed)

	_, ok = ParseRecordKey("ratelimit:unknown:u1")
	assert.False(t, ok)
	_, ok = ParseRecordKey("session:abc")
	assert.False(t, ok)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("video_call")
	require.NoError(t, err)
	assert.Equal(t, ActionVideoCall, a)

	_, err = ParseAction("teleport")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	_, err = ParseAction("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestParseErrorPolicy(t *testing.T) {
	p, err := ParseErrorPolicy("deny")
	require.NoError(t, err)
	assert.Equal(t, FailClosed, p)

	_, err = ParseErrorPolicy("maybe")
	assert.Error(t, err)
}
