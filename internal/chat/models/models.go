package models

import (
	"time"

	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
)

type ChatStatus string

const (
	ChatStatusActive  ChatStatus = "active"
	ChatStatusClosed  ChatStatus = "closed"
	ChatStatusDeleted ChatStatus = "deleted"
)

func (s ChatStatus) IsValid() bool {
	switch s {
	case ChatStatusActive, ChatStatusClosed, ChatStatusDeleted:
		return true
	}
	return false
}

// CleanupStatuses are the only statuses retention may select. Active chats
// are never candidates regardless of age.
var CleanupStatuses = []ChatStatus{ChatStatusClosed, ChatStatusDeleted}

// DeletionReasonInactive marks chats removed by the retention job.
const DeletionReasonInactive = "auto_cleanup_inactive"

// ChatSnapshot keeps the fields a soft delete overwrites.
type ChatSnapshot struct {
	Status         ChatStatus  `json:"status" bson:"status"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updatedAt"`
	MessageCount   int         `json:"message_count" bson:"messageCount"`
	ParticipantIDs []id.UserID `json:"participant_ids" bson:"participantIds"`
}

// Chat is a conversation between participants. MessagesPending stays set
// from a retention soft delete until the message cascade completes, and
// CleanupCursor is the last message id that cascade reached.
type Chat struct {
	ID              id.ChatID     `json:"id" bson:"_id"`
	ParticipantIDs  []id.UserID   `json:"participant_ids" bson:"participantIds"`
	Status          ChatStatus    `json:"status" bson:"status"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updatedAt"`
	MessageCount    int           `json:"message_count" bson:"messageCount"`
	DeletedAt       *time.Time    `json:"deleted_at,omitempty" bson:"deletedAt,omitempty"`
	DeletionReason  string        `json:"deletion_reason,omitempty" bson:"deletionReason,omitempty"`
	Snapshot        *ChatSnapshot `json:"snapshot,omitempty" bson:"snapshot,omitempty"`
	MessagesPending bool          `json:"messages_pending,omitempty" bson:"messagesPending,omitempty"`
	CleanupCursor   id.MessageID  `json:"cleanup_cursor,omitempty" bson:"cleanupCursor,omitempty"`
}

// Validate checks the participant set: at least two, no duplicates.
func (c *Chat) Validate() error {
	if c.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "chat id is required")
	}
	if !c.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown chat status: "+string(c.Status))
	}
	if len(c.ParticipantIDs) < 2 {
		return dErrors.New(dErrors.CodeInvariantViolation, "chat needs at least two participants")
	}
	seen := make(map[id.UserID]struct{}, len(c.ParticipantIDs))
	for _, p := range c.ParticipantIDs {
		if p.IsNil() {
			return dErrors.New(dErrors.CodeInvariantViolation, "participant id is required")
		}
		if _, dup := seen[p]; dup {
			return dErrors.New(dErrors.CodeInvariantViolation, "duplicate participant: "+p.String())
		}
		seen[p] = struct{}{}
	}
	return nil
}

func (c *Chat) HasParticipant(userID id.UserID) bool {
	for _, p := range c.ParticipantIDs {
		if p == userID {
			return true
		}
	}
	return false
}

// IsCleanupCandidate mirrors the retention query predicate.
func (c *Chat) IsCleanupCandidate(cutoff time.Time) bool {
	if c.DeletedAt != nil || !c.UpdatedAt.Before(cutoff) {
		return false
	}
	for _, s := range CleanupStatuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// SoftDelete snapshots the prior state and marks the chat deleted.
func (c *Chat) SoftDelete(at time.Time, reason string) {
	c.Snapshot = &ChatSnapshot{
		Status:         c.Status,
		UpdatedAt:      c.UpdatedAt,
		MessageCount:   c.MessageCount,
		ParticipantIDs: append([]id.UserID(nil), c.ParticipantIDs...),
	}
	c.Status = ChatStatusDeleted
	c.DeletedAt = &at
	c.DeletionReason = reason
	c.MessagesPending = true
	c.CleanupCursor = ""
}

// HasPendingCascade reports whether retention still owes this chat a
// message cascade.
func (c *Chat) HasPendingCascade() bool {
	return c.MessagesPending && c.DeletedAt != nil && c.DeletionReason == DeletionReasonInactive
}

// SaveCascadeProgress records how far a message cascade got. A complete
// cascade clears the pending marker.
func (c *Chat) SaveCascadeProgress(cursor id.MessageID, complete bool) {
	if complete {
		c.MessagesPending = false
		c.CleanupCursor = ""
		return
	}
	c.CleanupCursor = cursor
}

func (c *Chat) Clone() *Chat {
	out := *c
	out.ParticipantIDs = append([]id.UserID(nil), c.ParticipantIDs...)
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		out.DeletedAt = &t
	}
	if c.Snapshot != nil {
		snap := *c.Snapshot
		snap.ParticipantIDs = append([]id.UserID(nil), c.Snapshot.ParticipantIDs...)
		out.Snapshot = &snap
	}
	return &out
}

type Message struct {
	ID              id.MessageID `json:"id" bson:"_id"`
	ChatID          id.ChatID    `json:"chat_id" bson:"chatId"`
	SenderID        id.UserID    `json:"sender_id" bson:"senderId"`
	Content         string       `json:"content" bson:"content"`
	Encrypted       bool         `json:"encrypted" bson:"encrypted"`
	KeyID           id.KeyID     `json:"key_id,omitempty" bson:"keyId,omitempty"`
	CreatedAt       time.Time    `json:"created_at" bson:"createdAt"`
	Deleted         bool         `json:"deleted" bson:"deleted"`
	DeletedAt       *time.Time   `json:"deleted_at,omitempty" bson:"deletedAt,omitempty"`
	OriginalContent string       `json:"-" bson:"originalContent,omitempty"`
}

// SoftDelete moves the content to OriginalContent and hides it from readers.
func (m *Message) SoftDelete(at time.Time) {
	if m.Deleted {
		return
	}
	m.OriginalContent = m.Content
	m.Content = ""
	m.Deleted = true
	m.DeletedAt = &at
}

// DeletionLog is written before a chat is soft-deleted. Append-only.
type DeletionLog struct {
	ID             string      `json:"id" bson:"_id"`
	ChatID         id.ChatID   `json:"chat_id" bson:"chatId"`
	ParticipantIDs []id.UserID `json:"participant_ids" bson:"participantIds"`
	LastActivity   time.Time   `json:"last_activity" bson:"lastActivity"`
	MessageCount   int         `json:"message_count" bson:"messageCount"`
	Reason         string      `json:"reason" bson:"reason"`
	CreatedAt      time.Time   `json:"created_at" bson:"createdAt"`
}

// MessageBatchResult reports one message cascade for a chat.
type MessageBatchResult struct {
	ChatID    id.ChatID    `json:"chat_id"`
	Processed int          `json:"processed"`
	Cursor    id.MessageID `json:"cursor,omitempty"`
	Complete  bool         `json:"complete"`
}
