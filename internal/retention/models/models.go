package models

import (
	"time"

	id "chatguard/pkg/domain"
)

// RunReport summarises one CleanupInactiveChats run.
type RunReport struct {
	Cutoff          time.Time   `json:"cutoff"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at"`
	Pages           int         `json:"pages"`
	ChatsDeleted    []id.ChatID `json:"chats_deleted"`
	MessagesDeleted int         `json:"messages_deleted"`
	// Resumed lists chats deleted by an earlier run whose message cascade
	// was picked up again. Incomplete lists chats whose cascade failed or
	// hit the iteration cap; the next run resumes them.
	Resumed    []id.ChatID `json:"resumed,omitempty"`
	Incomplete []id.ChatID `json:"incomplete,omitempty"`
}
