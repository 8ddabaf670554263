package models

import "time"

// DefaultSuspendAfter is the violation count within EscalationWindow that
// leads to suspension.
const DefaultSuspendAfter = 5

// EscalationWindow bounds which violations count towards escalation.
const EscalationWindow = 24 * time.Hour

var blockLadder = []time.Duration{
	15 * time.Minute,
	time.Hour,
	24 * time.Hour,
}

// Escalation is the state a violation count maps to.
type Escalation struct {
	Suspend       bool
	BlockDuration time.Duration
}

// EscalationFor maps the number of violations in the window to a sanction.
// Counts past the end of the ladder but below suspendAfter keep the longest block.
func EscalationFor(count, suspendAfter int) Escalation {
	if count <= 0 {
		return Escalation{}
	}
	if count >= suspendAfter {
		return Escalation{Suspend: true}
	}
	step := min(count, len(blockLadder)) - 1
	return Escalation{BlockDuration: blockLadder[step]}
}
