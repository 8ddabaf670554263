package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

func TestChatValidate(t *testing.T) {
	base := Chat{ID: "c1", ParticipantIDs: []id.UserID{"a", "b"}, Status: ChatStatusActive}
	require.NoError(t, base.Validate())

	one := base.Clone()
	one.ParticipantIDs = []id.UserID{"a"}
	assert.True(t, dErrors.HasCode(one.Validate(), dErrors.CodeInvariantViolation))

	dup := base.Clone()
	dup.ParticipantIDs = []id.UserID{"a", "a"}
	assert.Error(t, dup.Validate())

	bad := base.Clone()
	bad.Status = "archived"
	assert.Error(t, bad.Validate())
}

func TestIsCleanupCandidate(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-time.Hour)
	deletedAt := cutoff

	tests := []struct {
		name string
		chat Chat
		want bool
	}{
		{"old closed", Chat{Status: ChatStatusClosed, UpdatedAt: old}, true},
		{"old deleted without deletedAt", Chat{Status: ChatStatusDeleted, UpdatedAt: old}, true},
		{"old active is never selected", Chat{Status: ChatStatusActive, UpdatedAt: old}, false},
		{"recent closed", Chat{Status: ChatStatusClosed, UpdatedAt: cutoff}, false},
		{"already soft deleted", Chat{Status: ChatStatusDeleted, UpdatedAt: old, DeletedAt: &deletedAt}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.chat.IsCleanupCandidate(cutoff))
		})
	}
}

func TestSoftDelete(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	c := &Chat{ID: "c1", ParticipantIDs: []id.UserID{"a", "b"}, Status: ChatStatusClosed, UpdatedAt: now.AddDate(0, 0, -91), MessageCount: 7}
	c.SoftDelete(now, DeletionReasonInactive)

	assert.Equal(t, ChatStatusDeleted, c.Status)
	assert.Equal(t, now, *c.DeletedAt)
	require.NotNil(t, c.Snapshot)
	assert.Equal(t, ChatStatusClosed, c.Snapshot.Status)
	assert.Equal(t, 7, c.Snapshot.MessageCount)
	assert.True(t, c.HasPendingCascade())

	c.SaveCascadeProgress("m0099", false)
	assert.True(t, c.HasPendingCascade())
	assert.Equal(t, id.MessageID("m0099"), c.CleanupCursor)
	c.SaveCascadeProgress("m0149", true)
	assert.False(t, c.HasPendingCascade())
	assert.Empty(t, c.CleanupCursor)

	m := &Message{ID: "m1", Content: "hi"}
	m.SoftDelete(now)
	m.SoftDelete(now.Add(time.Hour))
	assert.True(t, m.Deleted)
	assert.Equal(t, "hi", m.OriginalContent)
	assert.Empty(t, m.Content)
	assert.Equal(t, now, *m.DeletedAt)
}
