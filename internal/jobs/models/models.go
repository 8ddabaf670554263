package models

import "time"

// Job names accepted by the admin endpoints and the jobs binary.
const (
	JobCleanupInactiveChats = "cleanup-inactive-chats"
	JobRotateEncryptionKeys = "rotate-encryption-keys"
	JobCompactRateLimits    = "compact-rate-limits"
)

// CleanupError is appended when a scheduled job stops on a failure.
type CleanupError struct {
	ID        string    `json:"id" bson:"_id"`
	Job       string    `json:"job" bson:"job"`
	Type      string    `json:"type" bson:"type"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// CleanupReport summarises one successful job run.
type CleanupReport struct {
	ID              string    `json:"id" bson:"_id"`
	Job             string    `json:"job" bson:"job"`
	StartedAt       time.Time `json:"started_at" bson:"startedAt"`
	FinishedAt      time.Time `json:"finished_at" bson:"finishedAt"`
	ChatsDeleted    int       `json:"chats_deleted" bson:"chatsDeleted"`
	MessagesDeleted int       `json:"messages_deleted" bson:"messagesDeleted"`
	KeysCreated     int       `json:"keys_created" bson:"keysCreated"`
	KeysDeprecated  int       `json:"keys_deprecated" bson:"keysDeprecated"`
}
