package models

import "strings"

const keyPrefix = "ratelimit"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// to prevent key collision attacks where user-controlled identifiers containing
// ':' could manipulate adjacent rate limit buckets.
//
// Example: An identifier "user:admin" would become "user_admin", preventing
// it from being interpreted as a separate key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// RecordKey identifies the record set for one (user, action) pair.
type RecordKey struct {
	UserID string
	Action Action
}

func NewRecordKey(userID string, action Action) RecordKey {
	return RecordKey{UserID: SanitizeKeySegment(userID), Action: action}
}

// String renders the key as ratelimit:<action>:<user>.
func (k RecordKey) String() string {
	return keyPrefix + ":" + string(k.Action) + ":" + k.UserID
}

// KeyPattern matches every record key, for SCAN.
func KeyPattern() string {
	return keyPrefix + ":*"
}

// ParseRecordKey reverses String. ok is false for foreign keys.
func ParseRecordKey(s string) (RecordKey, bool) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != keyPrefix || parts[2] == "" {
		return RecordKey{}, false
	}
	action := Action(parts[1])
	if !action.IsValid() {
		return RecordKey{}, false
	}
	return RecordKey{UserID: parts[2], Action: action}, true
}
