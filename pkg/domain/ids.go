package domain

import (
	dErrors "chatguard/pkg/domain-errors"
)

// Identifiers in the marketplace are opaque strings issued by the identity
// provider (user ids) or the document store (chat and message ids). They are
// typed so a ChatID can never be passed where a UserID is expected.
type (
	UserID    string
	ChatID    string
	MessageID string
	KeyID     string
)

// MaxIDLength bounds every identifier accepted at a trust boundary.
const MaxIDLength = 128

func (id UserID) String() string    { return string(id) }
func (id ChatID) String() string    { return string(id) }
func (id MessageID) String() string { return string(id) }
func (id KeyID) String() string     { return string(id) }

func (id UserID) IsNil() bool    { return id == "" }
func (id ChatID) IsNil() bool    { return id == "" }
func (id MessageID) IsNil() bool { return id == "" }
func (id KeyID) IsNil() bool     { return id == "" }

// ParseUserID validates s as a user identifier.
func ParseUserID(s string) (UserID, error) {
	if err := validateID("user_id", s); err != nil {
		return "", err
	}
	return UserID(s), nil
}

// ParseChatID validates s as a chat identifier.
func ParseChatID(s string) (ChatID, error) {
	if err := validateID("chat_id", s); err != nil {
		return "", err
	}
	return ChatID(s), nil
}

// ParseMessageID validates s as a message identifier.
func ParseMessageID(s string) (MessageID, error) {
	if err := validateID("message_id", s); err != nil {
		return "", err
	}
	return MessageID(s), nil
}

// ParseKeyID validates s as an encryption key identifier.
func ParseKeyID(s string) (KeyID, error) {
	if err := validateID("key_id", s); err != nil {
		return "", err
	}
	return KeyID(s), nil
}

// validateID accepts 1..MaxIDLength characters from [A-Za-z0-9_:-].
func validateID(field, s string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > MaxIDLength {
		return dErrors.New(dErrors.CodeInvalidInput, field+" is too long")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == ':':
		default:
			return dErrors.New(dErrors.CodeInvalidInput, field+" contains invalid characters")
		}
	}
	return nil
}
